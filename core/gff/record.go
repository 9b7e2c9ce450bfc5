package gff

import (
	"fmt"
	"strconv"

	"github.com/FocuswithJustin/gffkit/core/errors"
)

// Strand values. An empty Strand means the strand is unset.
const (
	StrandForward = "+"
	StrandReverse = "-"
)

// Record is one annotation line.
//
// Records may be built in any state; IsValid and Validate check the format
// rules without enforcing them.
type Record struct {
	SeqID  string
	Source string
	Type   string
	Start  int // 1-based, inclusive
	End    int // 1-based, inclusive
	Score  *float64
	Strand string
	Phase  *int

	Attributes *Attributes
}

// ScoreOf returns a pointer suitable for Record.Score.
func ScoreOf(v float64) *float64 { return &v }

// PhaseOf returns a pointer suitable for Record.Phase.
func PhaseOf(p int) *int { return &p }

// Validate returns a *errors.ValidationError describing the first rule the
// record breaks, or nil if it is a valid GFF record.
func (r *Record) Validate() error {
	switch {
	case r.SeqID == "":
		return errors.NewValidation("seqid", "", "must not be empty")
	case r.Source == "":
		return errors.NewValidation("source", "", "must not be empty")
	case r.Type == "":
		return errors.NewValidation("type", "", "must not be empty")
	case r.Start <= 0:
		return errors.NewValidation("start", strconv.Itoa(r.Start), "must be a positive integer")
	case r.End <= 0:
		return errors.NewValidation("end", strconv.Itoa(r.End), "must be a positive integer")
	case r.Start > r.End:
		return errors.NewValidation("end", strconv.Itoa(r.End),
			fmt.Sprintf("must not be less than start %d", r.Start))
	}
	if r.Strand != "" && r.Strand != StrandForward && r.Strand != StrandReverse {
		return errors.NewValidation("strand", r.Strand, "must be +, - or unset")
	}
	if r.Phase != nil && (*r.Phase < 0 || *r.Phase > 2) {
		return errors.NewValidation("phase", strconv.Itoa(*r.Phase), "must be 0, 1 or 2")
	}
	if r.Type == "CDS" && r.Phase == nil {
		return errors.NewValidation("phase", "", "CDS records require a phase")
	}
	return nil
}

// IsValid reports whether the record passes the basic GFF requirements.
func (r *Record) IsValid() bool {
	return r.Validate() == nil
}

// Copy returns a deep copy of the record.
func (r *Record) Copy() *Record {
	c := *r
	if r.Score != nil {
		c.Score = ScoreOf(*r.Score)
	}
	if r.Phase != nil {
		c.Phase = PhaseOf(*r.Phase)
	}
	c.Attributes = r.Attributes.Copy()
	return &c
}

// Equal reports whether r and o have the same fields. Attributes are
// compared as sets of (tag, ordered values).
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.SeqID == o.SeqID &&
		r.Source == o.Source &&
		r.Type == o.Type &&
		r.Start == o.Start &&
		r.End == o.End &&
		equalPtr(r.Score, o.Score) &&
		r.Strand == o.Strand &&
		equalPtr(r.Phase, o.Phase) &&
		r.Attributes.Equal(o.Attributes)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func (r *Record) String() string {
	score, phase := ".", "."
	if r.Score != nil {
		score = formatScore(*r.Score)
	}
	if r.Phase != nil {
		phase = strconv.Itoa(*r.Phase)
	}
	return fmt.Sprintf("Record(%s, %s, %s, %d, %d, %s, %q, %s, %v)",
		r.SeqID, r.Source, r.Type, r.Start, r.End, score, r.Strand, phase, r.Attributes.Map())
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
