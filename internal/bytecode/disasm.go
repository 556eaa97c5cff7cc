package bytecode

import (
	"fmt"
	"strings"

	"tessera/internal/value"
)

// Disassemble renders fn's opcode stream as a human-readable listing, one
// line per instruction, with the source line from fn's parallel line table
// and — for CONSTANT — the literal value pulled from owner's literal pool.
// Supplemented feature (SPEC_FULL.md §4): grounded on chunk.go's DebugInfo
// shape, generalized from per-instruction structs to a direct render over
// value.Fn's ByteBuffer/IntBuffer pair.
func Disassemble(owner *value.Script, fn *value.Function) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", fn.Name)

	if fn.IsNative || fn.Fn == nil {
		b.WriteString("  <native>\n")
		return b.String()
	}

	code := fn.Fn.Opcodes.Data
	lines := fn.Fn.OpLines.Data

	for ip := 0; ip < len(code); {
		op := OpCode(code[ip])
		info := Info(op)
		line := 0
		if ip < len(lines) {
			line = lines[ip]
		}

		switch info.Operand {
		case 0:
			fmt.Fprintf(&b, "%04d  line %-4d  %s\n", ip, line, info.Name)
		case 1:
			operand := int(code[ip+1])
			fmt.Fprintf(&b, "%04d  line %-4d  %-12s %d\n", ip, line, info.Name, operand)
		case 2:
			operand := int(code[ip+1])<<8 | int(code[ip+2])
			if op == OpConstant && owner != nil && operand < len(owner.Literals.Data) {
				fmt.Fprintf(&b, "%04d  line %-4d  %-12s %d (%s)\n", ip, line, info.Name, operand,
					value.StringFormat(owner.Literals.Data[operand]))
			} else {
				fmt.Fprintf(&b, "%04d  line %-4d  %-12s %d\n", ip, line, info.Name, operand)
			}
		}
		ip += 1 + info.Operand
	}
	return b.String()
}
