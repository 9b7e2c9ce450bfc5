package gff

import (
	"fmt"

	"github.com/FocuswithJustin/gffkit/core/errors"
)

// Dialect identifies one of the supported GFF format versions.
type Dialect int

const (
	// DialectUnknown is the zero value; it is never accepted by NewReader or NewWriter.
	DialectUnknown Dialect = iota
	// GFF1 is the original GFF with an opaque group column.
	GFF1
	// GFF2 is GFF version 2.
	GFF2
	// GTF21 is GTF 2.1.
	GTF21
	// GTF22 is GTF 2.2.
	GTF22
	// GTF25 is GTF 2.5.
	GTF25
	// GFF3 is GFF version 3.
	GFF3
)

var dialectNames = map[Dialect]string{
	GFF1:  "1",
	GFF2:  "2",
	GTF21: "2.1",
	GTF22: "2.2",
	GTF25: "2.5",
	GFF3:  "3",
}

// Dialects lists every supported dialect in version order.
func Dialects() []Dialect {
	return []Dialect{GFF1, GFF2, GTF21, GTF22, GTF25, GFF3}
}

// ParseDialect maps a version string ("1", "2", "2.1", "2.2", "2.5", "3")
// to its Dialect. Anything else returns an error wrapping errors.ErrUnsupported.
func ParseDialect(version string) (Dialect, error) {
	for _, d := range Dialects() {
		if dialectNames[d] == version {
			return d, nil
		}
	}
	return DialectUnknown, errors.NewUnsupported("GFF version",
		fmt.Sprintf("%q (want one of 1, 2, 2.1, 2.2, 2.5, 3)", version))
}

// String returns the version string used in `##gff-version` directives.
func (d Dialect) String() string {
	if name, ok := dialectNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Dialect(%d)", int(d))
}

// IsGTF reports whether d is one of the GTF dialects.
func (d Dialect) IsGTF() bool {
	return d == GTF21 || d == GTF22 || d == GTF25
}

// recordParser turns one record line into a Record. The Reader is passed so
// the GFF3 parser can clear the references-resolved flag.
type recordParser func(r *Reader, line string) (*Record, error)

// recordWriter renders one record as a line without its terminator.
type recordWriter func(rec *Record) string

// recordParserFor selects the parsing strategy for d. The GTF dialects only
// differ from GFF2 when written, so they share its parser.
func recordParserFor(d Dialect) recordParser {
	switch d {
	case GFF1:
		return parseRecordV1
	case GFF2, GTF21, GTF22, GTF25:
		return parseRecordV2
	case GFF3:
		return parseRecordV3
	default:
		return nil
	}
}

// recordWriterFor selects the serialization strategy for d.
func recordWriterFor(d Dialect) recordWriter {
	switch d {
	case GFF1:
		return formatRecordV1
	case GFF2:
		return formatRecordV2
	case GTF21, GTF22, GTF25:
		return formatRecordGTF
	case GFF3:
		return formatRecordV3
	default:
		return nil
	}
}
