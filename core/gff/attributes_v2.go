package gff

import (
	"errors"
	"regexp"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

// attrV2Lexer tokenizes GFF2/GTF attribute columns. Rules are tried in
// order; Bare runs cover both tags and unquoted values, the decoder decides
// which one a run is from its position.
var attrV2Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\n\r\f\v]+`},
	{Name: "Comment", Pattern: `#.*`},
	{Name: "Quoted", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Separator", Pattern: `;`},
	{Name: "Bare", Pattern: `[^;#" \t\n\r\f\v]+`},
})

var (
	tokWhitespace = attrV2Lexer.Symbols()["Whitespace"]
	tokComment    = attrV2Lexer.Symbols()["Comment"]
	tokQuoted     = attrV2Lexer.Symbols()["Quoted"]
	tokSeparator  = attrV2Lexer.Symbols()["Separator"]
	tokBare       = attrV2Lexer.Symbols()["Bare"]

	attrV2TagPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
)

// DecodeAttributesV2 parses a GFF2/GTF attribute column such as
//
//	gene_id "ENSG1"; transcript_id "ENST1"; exon_number 3; # comment
//
// Each tag is followed by zero or more values, quoted or bare, and ended by
// ';'. Whitespace must separate a tag from its first value and values from
// each other. The last tag may omit its ';'. A '#' outside quotes ends the
// column.
// Quoted values keep their interior backslash escapes verbatim. Repeated
// tags accumulate their values in order.
func DecodeAttributesV2(s string) (*Attributes, error) {
	attrs := NewAttributes()

	lex, err := attrV2Lexer.LexString("", s)
	if err != nil {
		return nil, newFormatError(s, "invalid attributes", err)
	}

	var tag string
	inValues := false
	// Set after a tag or value until whitespace or ';' follows.
	adjacent := false
	for {
		tok, err := lex.Next()
		if err != nil {
			return nil, newFormatError(remainder(s, tok.Pos.Offset, err), "invalid attributes", err)
		}

		switch {
		case tok.EOF(), tok.Type == tokComment:
			return attrs, nil

		case tok.Type == tokWhitespace:
			adjacent = false
			continue

		case !inValues:
			if tok.Type != tokBare || !attrV2TagPattern.MatchString(tok.Value) {
				return nil, newFormatError(s[tok.Pos.Offset:], "expected attribute tag", nil)
			}
			tag = tok.Value
			attrs.Add(tag)
			inValues = true
			adjacent = true

		case tok.Type == tokSeparator:
			inValues = false
			adjacent = false

		case adjacent:
			return nil, newFormatError(s[tok.Pos.Offset:], "missing whitespace before attribute value", nil)

		case tok.Type == tokQuoted:
			attrs.Add(tag, tok.Value[1:len(tok.Value)-1])
			adjacent = true

		case tok.Type == tokBare:
			attrs.Add(tag, tok.Value)
			adjacent = true
		}
	}
}

// remainder returns the unscanned input at a lexer error, which carries
// its own position; the token returned alongside it is empty.
func remainder(s string, offset int, err error) string {
	var lerr *lexer.Error
	if errors.As(err, &lerr) {
		offset = lerr.Pos.Offset
	}
	if offset < 0 || offset > len(s) {
		return s
	}
	return s[offset:]
}

// EncodeAttributesV2 renders attributes as a GFF2 column. Tags are written
// in order, or sorted when order is nil; every value is double-quoted.
func EncodeAttributesV2(a *Attributes, order []string) string {
	if order == nil {
		order = a.SortedKeys()
	}
	var sb strings.Builder
	for i, tag := range order {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tag)
		for _, v := range a.Get(tag) {
			sb.WriteString(` "`)
			sb.WriteString(v)
			sb.WriteByte('"')
		}
		sb.WriteByte(';')
	}
	return sb.String()
}
