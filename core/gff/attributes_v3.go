package gff

import (
	"strings"
)

// DecodeAttributesV3 parses a GFF3 attribute column (`tag=v1,v2;tag2=v`).
// Tags and values are percent-decoded. Empty segments, such as the one left
// by a trailing ';', are skipped, and the placeholder "." decodes to an
// empty set. When a tag repeats, its last occurrence wins.
func DecodeAttributesV3(s string) (*Attributes, error) {
	attrs := NewAttributes()
	if s == "." {
		return attrs, nil
	}
	if s == "" {
		return nil, newFormatError(s, "empty attributes column", nil)
	}

	for _, segment := range strings.Split(s, ";") {
		if strings.TrimSpace(segment) == "" {
			continue
		}
		tag, value, ok := strings.Cut(segment, "=")
		if !ok {
			return nil, newFormatError(segment, "attribute segment has no '='", nil)
		}
		raw := strings.Split(value, ",")
		values := make([]string, len(raw))
		for i, v := range raw {
			values[i] = unescape(v)
		}
		attrs.Set(unescape(tag), values...)
	}
	return attrs, nil
}

// EncodeAttributesV3 renders attributes as a GFF3 column in insertion
// order. It returns "" for an empty set; writers substitute ".".
func EncodeAttributesV3(a *Attributes) string {
	var sb strings.Builder
	for i, tag := range a.Keys() {
		if i > 0 {
			sb.WriteByte(';')
		}
		sb.WriteString(escapeAttrTag(tag))
		sb.WriteByte('=')
		for j, v := range a.Get(tag) {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(escapeAttrValue(v))
		}
	}
	return sb.String()
}
