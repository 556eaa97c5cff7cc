package value

import "strconv"

// trimFloat renders f the way the original source's num2str does: integral
// values print without a decimal point, everything else uses the shortest
// round-trippable representation.
func trimFloat(f float64) string {
	if f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
