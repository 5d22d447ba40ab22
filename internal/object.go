package internal

import (
	"math"
	"strconv"
	"strings"
)

// object is a heap instance, only throwables and plain objects exist
type object struct {
	class *Type
}

func (o *object) String() string {
	return strings.ReplaceAll(o.class.jvmName, "/", ".")
}

// formatValue renders a runtime value of static type t the way the
// language prints it
func formatValue(v interface{}, t *Type) string {
	switch t {
	case typeBoolean:
		if v.(int32) != 0 {
			return "true"
		}
		return "false"
	case typeChar:
		return string(rune(v.(int32)))
	case typeInt:
		return strconv.FormatInt(int64(v.(int32)), 10)
	case typeLong:
		return strconv.FormatInt(v.(int64), 10)
	case typeDouble:
		return formatDouble(v.(float64))
	}
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return v
	case *object:
		return v.String()
	}
	fatalInvariant("cannot format %T as %s", v, t)
	return ""
}

func formatDouble(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-3 || abs >= 1e7) {
		s := strconv.FormatFloat(f, 'E', -1, 64)
		mantissa, exp := s[:strings.IndexByte(s, 'E')], s[strings.IndexByte(s, 'E')+1:]
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		exp = strings.TrimPrefix(exp, "+")
		return mantissa + "E" + exp
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
