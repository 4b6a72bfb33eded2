package canon

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const hexDigits = "0123456789abcdef"

// Quote renders s as a JSON string literal the way JSON.stringify does: only
// quotes, backslashes and control characters are escaped. HTML-sensitive
// characters and U+2028/U+2029 stay literal. Invalid UTF-8 becomes U+FFFD.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				sb.WriteString(`\u00`)
				sb.WriteByte(hexDigits[r>>4])
				sb.WriteByte(hexDigits[r&0xf])
				continue
			}
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

// FormatFloat renders f as a JSON number literal. NaN and infinities have no
// literal and render as null; negative zero renders as 0.
func FormatFloat(f float64, bitSize int) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		return "0"
	}

	format := byte('f')
	abs := math.Abs(f)
	if bitSize == 32 {
		a := float32(abs)
		if a < 1e-6 || a >= 1e21 {
			format = 'e'
		}
	} else if abs < 1e-6 || abs >= 1e21 {
		format = 'e'
	}

	s := strconv.FormatFloat(f, format, -1, bitSize)
	if format == 'e' {
		// 1e-07 -> 1e-7
		n := len(s)
		if n >= 4 && s[n-4] == 'e' && s[n-3] == '-' && s[n-2] == '0' {
			s = s[:n-2] + s[n-1:]
		}
	}
	return s
}

// formatNumber renders the text of a json.Number. Integral values keep full
// precision; anything unparsable is kept as a string literal.
func formatNumber(s string) string {
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return strconv.FormatInt(i, 10)
	}
	if u, err := strconv.ParseUint(s, 10, 64); err == nil {
		return strconv.FormatUint(u, 10)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return FormatFloat(f, 64)
	}
	return Quote(s)
}

func formatScalar(v reflect.Value) string {
	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32:
		return FormatFloat(v.Float(), 32)
	case reflect.Float64:
		return FormatFloat(v.Float(), 64)
	case reflect.Complex64:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 64)
	case reflect.Complex128:
		return strconv.FormatComplex(v.Complex(), 'g', -1, 128)
	case reflect.String:
		if v.Type() == numberType {
			return formatNumber(v.String())
		}
		return Quote(v.String())
	}
	return "null"
}

// FormatTime renders t in UTC as ISO-8601 with millisecond precision. Years
// outside 0000-9999 use the six-digit signed form, e.g. +012000 or -000001.
func FormatTime(t time.Time) string {
	t = t.UTC()

	var sb strings.Builder
	sb.Grow(27)

	year := t.Year()
	switch {
	case year < 0:
		sb.WriteByte('-')
		writeZeroPadded(&sb, -year, 6)
	case year > 9999:
		sb.WriteByte('+')
		writeZeroPadded(&sb, year, 6)
	default:
		writeZeroPadded(&sb, year, 4)
	}
	sb.WriteString(t.Format("-01-02T15:04:05.000Z"))
	return sb.String()
}

func writeZeroPadded(sb *strings.Builder, n, width int) {
	digits := strconv.Itoa(n)
	for i := len(digits); i < width; i++ {
		sb.WriteByte('0')
	}
	sb.WriteString(digits)
}
