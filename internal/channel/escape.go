package channel

import "strings"

// Escape quotes s the way GLib's g_strescape does: C escapes for the usual
// control characters, backslash and double quote, and three digit octal for
// every other byte below 0x20 or from 0x7f up.
func Escape(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\v':
			b.WriteString(`\v`)
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			if c < 0x20 || c >= 0x7f {
				b.WriteByte('\\')
				b.WriteByte('0' + (c>>6)&07)
				b.WriteByte('0' + (c>>3)&07)
				b.WriteByte('0' + c&07)
				continue
			}
			b.WriteByte(c)
		}
	}
	return b.String()
}
