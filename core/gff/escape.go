package gff

import (
	"github.com/FocuswithJustin/gffkit/core/encoding"
)

const alnum = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GFF3 reserved characters. Column 1 allows only a conservative set;
// columns 2 and 3 additionally allow spaces but not '|'. Tags and values in
// column 9 escape the separators and whitespace control characters.
var (
	seqidReserved     = encoding.Not(encoding.ByteSet(alnum + ".:^*$@!+_?|-"))
	sourceReserved    = encoding.Not(encoding.ByteSet(alnum + ".: ^*$@!+_?-"))
	typeReserved      = sourceReserved
	attrTagReserved   = encoding.ByteSet("\t\n\r\f\v;=%&,")
	attrValueReserved = attrTagReserved
)

func escapeSeqID(s string) string     { return encoding.PercentEncode(s, seqidReserved) }
func escapeSource(s string) string    { return encoding.PercentEncode(s, sourceReserved) }
func escapeType(s string) string      { return encoding.PercentEncode(s, typeReserved) }
func escapeAttrTag(s string) string   { return encoding.PercentEncode(s, attrTagReserved) }
func escapeAttrValue(s string) string { return encoding.PercentEncode(s, attrValueReserved) }

func unescape(s string) string { return encoding.PercentDecode(s) }
