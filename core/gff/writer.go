package gff

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/gffkit/core/errors"
)

// gtfRequired are the attributes that lead every GTF attribute column.
var gtfRequired = []string{"gene_id", "transcript_id"}

// Writer serializes records in one GFF dialect. Each call writes whole
// lines straight to the underlying writer; wrap it in a bufio.Writer for
// throughput.
type Writer struct {
	w       io.Writer
	dialect Dialect
	format  recordWriter
}

// NewWriter returns a Writer for version (1, 2, 2.1, 2.2, 2.5 or 3). It
// writes the `##gff-version` header and then each metadatum before
// returning.
func NewWriter(w io.Writer, version string, metadata ...Metadatum) (*Writer, error) {
	d, err := ParseDialect(version)
	if err != nil {
		return nil, fmt.Errorf("gff writer: %w", err)
	}

	gw := &Writer{
		w:       w,
		dialect: d,
		format:  recordWriterFor(d),
	}
	if err := gw.WriteMetadatum(Metadatum{Name: "gff-version", Value: d.String()}); err != nil {
		return nil, err
	}
	for _, m := range metadata {
		if err := gw.WriteMetadatum(m); err != nil {
			return nil, err
		}
	}
	return gw, nil
}

// Version returns the version string being written.
func (w *Writer) Version() string {
	return w.dialect.String()
}

// Dialect returns the dialect being written.
func (w *Writer) Dialect() Dialect {
	return w.dialect
}

// WriteMetadatum writes `##name value`, or `##name` when the value is empty.
func (w *Writer) WriteMetadatum(m Metadatum) error {
	if m.Value != "" {
		return w.writeLine("##" + m.Name + " " + m.Value)
	}
	return w.writeLine("##" + m.Name)
}

// WriteComment writes `#text`.
func (w *Writer) WriteComment(text string) error {
	return w.writeLine("#" + text)
}

// Write writes one record.
func (w *Writer) Write(rec *Record) error {
	return w.writeLine(w.format(rec))
}

// WriteAll writes every record in recs.
func (w *Writer) WriteAll(recs []*Record) error {
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// WriteFASTA writes a `##FASTA` directive followed by fasta verbatim. Only
// GFF3 carries sequences; other dialects return an error wrapping
// errors.ErrUnsupported.
func (w *Writer) WriteFASTA(fasta string) error {
	if w.dialect != GFF3 {
		return errors.NewUnsupported("FASTA section", "GFF version "+w.dialect.String())
	}
	if err := w.WriteMetadatum(Metadatum{Name: "FASTA"}); err != nil {
		return err
	}
	if fasta == "" {
		return nil
	}
	if !strings.HasSuffix(fasta, "\n") {
		fasta += "\n"
	}
	if _, err := io.WriteString(w.w, fasta); err != nil {
		return fmt.Errorf("write gff: %w", err)
	}
	return nil
}

func (w *Writer) writeLine(line string) error {
	if _, err := io.WriteString(w.w, line+"\n"); err != nil {
		return fmt.Errorf("write gff: %w", err)
	}
	return nil
}

func formatMaybeEmpty(s string) string {
	if s == "" {
		return empty
	}
	return s
}

func formatScoreColumn(score *float64, none string) string {
	if score == nil {
		return none
	}
	return formatScore(*score)
}

func formatPhaseColumn(phase *int) string {
	if phase == nil {
		return empty
	}
	return strconv.Itoa(*phase)
}

func joinColumns(seqid, source, typ string, rec *Record, score string, extra ...string) string {
	cols := append([]string{
		seqid,
		source,
		typ,
		strconv.Itoa(rec.Start),
		strconv.Itoa(rec.End),
		score,
		formatMaybeEmpty(rec.Strand),
		formatPhaseColumn(rec.Phase),
	}, extra...)
	return strings.Join(cols, "\t")
}

// formatRecordV1 keeps only the first "group" value; GFF1 has no other
// attributes. An absent score is written as 0.
func formatRecordV1(rec *Record) string {
	var extra []string
	if group, ok := rec.Attributes.First("group"); ok {
		extra = append(extra, group)
	}
	return joinColumns(rec.SeqID, rec.Source, rec.Type, rec, formatScoreColumn(rec.Score, "0"), extra...)
}

func formatRecordV2(rec *Record) string {
	return formatRecordV2Ordered(rec, nil)
}

func formatRecordV2Ordered(rec *Record, order []string) string {
	var extra []string
	if rec.Attributes.Len() > 0 {
		extra = append(extra, EncodeAttributesV2(rec.Attributes, order))
	}
	return joinColumns(rec.SeqID, rec.Source, rec.Type, rec, formatScoreColumn(rec.Score, empty), extra...)
}

// formatRecordGTF writes gene_id and transcript_id first, adding empty
// values when the record lacks them, then the remaining tags in insertion
// order.
func formatRecordGTF(rec *Record) string {
	attrs := rec.Attributes
	for _, tag := range gtfRequired {
		if !attrs.Has(tag) {
			attrs = rec.Attributes.Copy()
			break
		}
	}
	order := make([]string, 0, attrs.Len()+len(gtfRequired))
	for _, tag := range gtfRequired {
		if !attrs.Has(tag) {
			attrs.Set(tag, "")
		}
		order = append(order, tag)
	}
	for _, tag := range attrs.Keys() {
		if tag != gtfRequired[0] && tag != gtfRequired[1] {
			order = append(order, tag)
		}
	}

	gtf := *rec
	gtf.Attributes = attrs
	return formatRecordV2Ordered(&gtf, order)
}

func formatRecordV3(rec *Record) string {
	return joinColumns(
		escapeSeqID(rec.SeqID),
		escapeSource(rec.Source),
		escapeType(rec.Type),
		rec,
		formatScoreColumn(rec.Score, empty),
		formatMaybeEmpty(EncodeAttributesV3(rec.Attributes)),
	)
}
