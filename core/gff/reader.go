package gff

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"
	"strconv"
	"strings"
)

// Metadatum is a `##name value` directive other than gff-version, FASTA
// and the `###` resolution marker. An empty Value means the directive had
// none.
type Metadatum struct {
	Name  string
	Value string

	// Region is set for sequence-region directives.
	Region *SequenceRegion
}

// SequenceRegion is a parsed `##sequence-region seqid start end` directive.
type SequenceRegion struct {
	SeqID string
	Start int
	End   int
}

// Metadatum returns the directive form of the region.
func (s SequenceRegion) Metadatum() Metadatum {
	region := s
	return Metadatum{
		Name:   "sequence-region",
		Value:  fmt.Sprintf("%s %d %d", s.SeqID, s.Start, s.End),
		Region: &region,
	}
}

// ReaderOption configures a Reader.
type ReaderOption func(*Reader)

// WithLogger sets the logger used to report unrecognized gff-version
// directives. The default is slog.Default().
func WithLogger(logger *slog.Logger) ReaderOption {
	return func(r *Reader) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Reader parses a GFF stream one record at a time.
//
// The Reader always looks one record ahead, so directives and comments that
// precede a record have been collected by the time the previous record is
// returned.
type Reader struct {
	br     *bufio.Reader
	logger *slog.Logger

	defaultDialect Dialect
	version        string // from ##gff-version, "" until seen
	parse          recordParser

	metadata           []Metadatum
	comments           []string
	sequenceRegions    []SequenceRegion
	fasta              string
	referencesResolved bool

	line    int
	next    *Record
	pending error
	done    bool
}

// NewReader returns a Reader over r that parses records as version until a
// `##gff-version` directive says otherwise. version must be one of 1, 2,
// 2.1, 2.2, 2.5 or 3.
//
// NewReader reads ahead to the first record; an error met while doing so is
// returned by the first call to Read.
func NewReader(r io.Reader, version string, opts ...ReaderOption) (*Reader, error) {
	d, err := ParseDialect(version)
	if err != nil {
		return nil, fmt.Errorf("gff reader: %w", err)
	}

	rd := &Reader{
		br:                 bufio.NewReader(r),
		logger:             slog.Default(),
		defaultDialect:     d,
		parse:              recordParserFor(d),
		referencesResolved: true,
	}
	for _, opt := range opts {
		opt(rd)
	}

	rd.pending = rd.stage()
	return rd, nil
}

// Version returns the format version in effect: the one declared in the
// stream, or the default passed to NewReader.
func (r *Reader) Version() string {
	if r.version != "" {
		return r.version
	}
	return r.defaultDialect.String()
}

// VersionDeclared reports whether a `##gff-version` directive has been seen.
func (r *Reader) VersionDeclared() bool {
	return r.version != ""
}

// Dialect returns the dialect whose parser is in use. It falls back to the
// default when the declared version is not recognized.
func (r *Reader) Dialect() Dialect {
	if r.version != "" {
		if d, err := ParseDialect(r.version); err == nil {
			return d
		}
	}
	return r.defaultDialect
}

// Metadata returns the directives read so far, sequence regions included.
func (r *Reader) Metadata() []Metadatum {
	return slices.Clone(r.metadata)
}

// Comments returns the comment lines read so far, without the leading '#'.
func (r *Reader) Comments() []string {
	return slices.Clone(r.comments)
}

// SequenceRegions returns the sequence-region directives read so far.
func (r *Reader) SequenceRegions() []SequenceRegion {
	return slices.Clone(r.sequenceRegions)
}

// FASTA returns the trailing FASTA block of a GFF3 stream, verbatim, or ""
// if none has been reached.
func (r *Reader) FASTA() string {
	return r.fasta
}

// ReferencesResolved reports whether all forward references seen so far
// are resolved. It turns false when a GFF3 record is read and true again at
// a `###` directive.
func (r *Reader) ReferencesResolved() bool {
	return r.referencesResolved
}

// Read returns the next record. At the end of the stream it returns a nil
// record and a nil error.
//
// A *FormatError means the current line was malformed. The line has been
// consumed; calling Read again continues with the following line.
func (r *Reader) Read() (*Record, error) {
	if err := r.pending; err != nil {
		r.pending = nil
		return nil, err
	}
	if r.next == nil {
		// Nothing staged: the previous look-ahead failed or the stream ended.
		if err := r.stage(); err != nil {
			return nil, err
		}
		if r.next == nil {
			return nil, nil
		}
	}
	rec := r.next
	r.next = nil
	r.pending = r.stage()
	return rec, nil
}

// ReadAll reads every remaining record.
func (r *Reader) ReadAll() ([]*Record, error) {
	var recs []*Record
	for {
		rec, err := r.Read()
		if err != nil {
			return recs, err
		}
		if rec == nil {
			return recs, nil
		}
		recs = append(recs, rec)
	}
}

// Records iterates over the remaining records. Errors are yielded with a
// nil record; ranging continues past a FormatError only if the loop body
// keeps going. The sequence can be consumed once.
func (r *Reader) Records() iter.Seq2[*Record, error] {
	return func(yield func(*Record, error) bool) {
		for {
			rec, err := r.Read()
			if err == nil && rec == nil {
				return
			}
			if !yield(rec, err) {
				return
			}
			if err != nil && !isFormatError(err) {
				return
			}
		}
	}
}

// stage reads lines until a record is staged or the stream ends.
func (r *Reader) stage() error {
	for r.next == nil && !r.done {
		raw, err := r.br.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read gff: %w", err)
		}
		if raw == "" && err == io.EOF {
			r.done = true
			return nil
		}
		if err == io.EOF {
			r.done = true
		}
		r.line++
		line := strings.TrimRight(raw, "\r\n")

		switch {
		case strings.HasPrefix(line, "##"):
			if err := r.parseDirective(line); err != nil {
				return atLine(err, r.line, line)
			}
		case strings.HasPrefix(line, "#"):
			r.comments = append(r.comments, line[1:])
		case strings.TrimSpace(line) == "":
		case strings.HasPrefix(line, ">") && r.version == "3":
			rest, err := io.ReadAll(r.br)
			if err != nil {
				return fmt.Errorf("read gff fasta: %w", err)
			}
			r.fasta = raw + string(rest)
			r.done = true
		default:
			rec, err := r.parse(r, line)
			if err != nil {
				return atLine(err, r.line, line)
			}
			r.next = rec
		}
	}
	return nil
}

func (r *Reader) parseDirective(line string) error {
	name, value := splitDirective(line[2:])
	switch name {
	case "":
	case "gff-version":
		if value == "" {
			return newFormatError(line, "gff-version directive without a version", nil)
		}
		r.version = value
		r.setParser()
	case "FASTA":
		// FASTA mode starts at the first '>' line.
	case "#":
		r.referencesResolved = true
	case "sequence-region":
		region, err := parseSequenceRegion(value)
		if err != nil {
			return newFormatError(line, "invalid sequence-region directive", err)
		}
		r.metadata = append(r.metadata, region.Metadatum())
		r.sequenceRegions = append(r.sequenceRegions, region)
	default:
		r.metadata = append(r.metadata, Metadatum{Name: name, Value: value})
	}
	return nil
}

func (r *Reader) setParser() {
	d, err := ParseDialect(r.version)
	if err != nil {
		r.logger.Warn("unrecognized GFF version, using default",
			"version", r.version,
			"default", r.defaultDialect.String(),
			"line", r.line)
		d = r.defaultDialect
	}
	r.parse = recordParserFor(d)
}

// splitDirective splits a directive body into its name and the remaining
// text with leading whitespace removed.
func splitDirective(body string) (name, value string) {
	body = strings.TrimLeft(body, " \t")
	i := strings.IndexAny(body, " \t")
	if i < 0 {
		return strings.TrimSpace(body), ""
	}
	return body[:i], strings.TrimSpace(body[i:])
}

func parseSequenceRegion(value string) (SequenceRegion, error) {
	fields := strings.Fields(value)
	if len(fields) != 3 {
		return SequenceRegion{}, fmt.Errorf("want 3 fields (seqid start end), got %d", len(fields))
	}
	start, err := strconv.Atoi(fields[1])
	if err != nil {
		return SequenceRegion{}, err
	}
	end, err := strconv.Atoi(fields[2])
	if err != nil {
		return SequenceRegion{}, err
	}
	return SequenceRegion{SeqID: fields[0], Start: start, End: end}, nil
}
