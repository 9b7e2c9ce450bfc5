package gff

import (
	"fmt"
	"strconv"
	"strings"
)

// empty is the column placeholder for an absent score, strand or phase.
const empty = "."

// columns holds the eight fixed columns of a record line.
type columns struct {
	seqid, source, typ, start, end, score, strand, phase string
}

func splitColumns(fields []string) columns {
	return columns{
		seqid:  fields[0],
		source: fields[1],
		typ:    fields[2],
		start:  fields[3],
		end:    fields[4],
		score:  fields[5],
		strand: fields[6],
		phase:  fields[7],
	}
}

// parseRecordV1 parses a GFF1 line: 8 or 9 columns, a mandatory score and
// an opaque ninth column stored as the single value of "group".
func parseRecordV1(_ *Reader, line string) (*Record, error) {
	fields := strings.SplitN(line, "\t", 9)
	if len(fields) != 8 && len(fields) != 9 {
		return nil, newFormatError(line, fmt.Sprintf("invalid number of fields: %d (should be 8 or 9)", len(fields)), nil)
	}

	rec, err := parseFixedColumns(line, splitColumns(fields), true)
	if err != nil {
		return nil, err
	}
	rec.Attributes = NewAttributes()
	if len(fields) == 9 {
		rec.Attributes.Set("group", fields[8])
	}
	return rec, nil
}

// parseRecordV2 parses a GFF2 or GTF line: 8 or 9 columns with the ninth in
// the `tag value;` grammar.
func parseRecordV2(_ *Reader, line string) (*Record, error) {
	fields := strings.SplitN(line, "\t", 9)
	if len(fields) != 8 && len(fields) != 9 {
		return nil, newFormatError(line, fmt.Sprintf("invalid number of fields: %d (should be 8 or 9)", len(fields)), nil)
	}

	rec, err := parseFixedColumns(line, splitColumns(fields), false)
	if err != nil {
		return nil, err
	}
	if len(fields) == 9 {
		if rec.Attributes, err = DecodeAttributesV2(fields[8]); err != nil {
			return nil, err
		}
	} else {
		rec.Attributes = NewAttributes()
	}
	return rec, nil
}

// parseRecordV3 parses a GFF3 line: exactly 9 columns, percent-encoded
// seqid, source, type and attributes. Reading any GFF3 record leaves
// forward references unresolved until the next `###`.
func parseRecordV3(r *Reader, line string) (*Record, error) {
	if r != nil {
		r.referencesResolved = false
	}

	fields := strings.Split(line, "\t")
	if len(fields) != 9 {
		return nil, newFormatError(line, fmt.Sprintf("invalid number of fields: %d (should be 9)", len(fields)), nil)
	}

	cols := splitColumns(fields)
	cols.seqid = unescape(cols.seqid)
	cols.source = unescape(cols.source)
	cols.typ = unescape(cols.typ)

	rec, err := parseFixedColumns(line, cols, false)
	if err != nil {
		return nil, err
	}
	if rec.Attributes, err = DecodeAttributesV3(fields[8]); err != nil {
		return nil, err
	}
	return rec, nil
}

// parseFixedColumns converts the eight fixed columns. GFF1 requires a
// numeric score; later versions accept "." for none.
func parseFixedColumns(line string, c columns, scoreRequired bool) (*Record, error) {
	rec := &Record{
		SeqID:  c.seqid,
		Source: c.source,
		Type:   c.typ,
	}

	var err error
	if rec.Start, err = strconv.Atoi(c.start); err != nil {
		return nil, newFormatError(line, "invalid start", err)
	}
	if rec.End, err = strconv.Atoi(c.end); err != nil {
		return nil, newFormatError(line, "invalid end", err)
	}

	if scoreRequired || c.score != empty {
		score, err := strconv.ParseFloat(c.score, 64)
		if err != nil {
			return nil, newFormatError(line, "invalid score", err)
		}
		rec.Score = &score
	}

	switch c.strand {
	case empty:
	case StrandForward, StrandReverse:
		rec.Strand = c.strand
	default:
		return nil, newFormatError(line, fmt.Sprintf("invalid strand %q", c.strand), nil)
	}

	switch c.phase {
	case empty:
	case "0", "1", "2":
		rec.Phase = PhaseOf(int(c.phase[0] - '0'))
	default:
		return nil, newFormatError(line, fmt.Sprintf("invalid phase %q", c.phase), nil)
	}

	return rec, nil
}
