package value

// NameTable is a deduplicating table of interned names: identifiers,
// global names, function names. Add returns the existing index if name was
// already interned, following original_source's nameTableAdd/nameTableFind.
type NameTable struct {
	Data []*StringObj
}

// Find returns the index of name, or -1 if not present.
func (t *NameTable) Find(name string) int {
	for i, s := range t.Data {
		if s.Value == name {
			return i
		}
	}
	return -1
}

// Add interns name, returning its index. If name is already present its
// existing index is returned and no new StringObj is allocated.
func (t *NameTable) Add(name string) int {
	if idx := t.Find(name); idx != -1 {
		return idx
	}
	t.Data = append(t.Data, NewStringObj(name))
	return len(t.Data) - 1
}

// Get returns the StringObj interned at index.
func (t *NameTable) Get(index int) *StringObj { return t.Data[index] }

func (t *NameTable) Len() int { return len(t.Data) }
