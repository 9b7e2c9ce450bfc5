// Package encoding provides shared text encoding and escaping utilities.
package encoding

import (
	"strings"
)

const upperHex = "0123456789ABCDEF"

// ByteClass reports whether a byte belongs to a character class.
type ByteClass func(b byte) bool

// ByteSet returns a ByteClass matching exactly the bytes in chars.
func ByteSet(chars string) ByteClass {
	var set [256]bool
	for i := 0; i < len(chars); i++ {
		set[chars[i]] = true
	}
	return func(b byte) bool { return set[b] }
}

// Not inverts a ByteClass.
func Not(c ByteClass) ByteClass {
	return func(b byte) bool { return !c(b) }
}

// PercentEncode replaces every byte of s matched by reserved with %XX
// (uppercase hex). Multi-byte UTF-8 sequences are escaped byte by byte.
func PercentEncode(s string, reserved ByteClass) string {
	n := 0
	for i := 0; i < len(s); i++ {
		if reserved(s[i]) {
			n++
		}
	}
	if n == 0 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s) + 2*n)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if reserved(c) {
			sb.WriteByte('%')
			sb.WriteByte(upperHex[c>>4])
			sb.WriteByte(upperHex[c&0x0f])
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

// PercentDecode replaces %XX escapes with the bytes they encode. Malformed
// escapes (a % not followed by two hex digits) are kept literally.
func PercentDecode(s string) string {
	if strings.IndexByte(s, '%') < 0 {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]) {
			sb.WriteByte(unhex(s[i+1])<<4 | unhex(s[i+2]))
			i += 2
			continue
		}
		sb.WriteByte(c)
	}
	return sb.String()
}

func isHex(c byte) bool {
	return '0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F'
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
