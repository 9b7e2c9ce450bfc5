package gff

import (
	"errors"
	"testing"

	gfferrors "github.com/FocuswithJustin/gffkit/core/errors"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		version string
		want    Dialect
		gtf     bool
	}{
		{"1", GFF1, false},
		{"2", GFF2, false},
		{"2.1", GTF21, true},
		{"2.2", GTF22, true},
		{"2.5", GTF25, true},
		{"3", GFF3, false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			d, err := ParseDialect(tt.version)
			if err != nil {
				t.Fatalf("ParseDialect(%q) error: %v", tt.version, err)
			}
			if d != tt.want {
				t.Errorf("ParseDialect(%q) = %v, want %v", tt.version, d, tt.want)
			}
			if d.String() != tt.version {
				t.Errorf("String() = %q, want %q", d.String(), tt.version)
			}
			if d.IsGTF() != tt.gtf {
				t.Errorf("IsGTF() = %v, want %v", d.IsGTF(), tt.gtf)
			}
			if recordParserFor(d) == nil || recordWriterFor(d) == nil {
				t.Error("dialect has no parser or writer")
			}
		})
	}
}

func TestParseDialectUnsupported(t *testing.T) {
	for _, v := range []string{"", "0", "2.0", "3.1", " 3", "GTF"} {
		d, err := ParseDialect(v)
		if d != DialectUnknown {
			t.Errorf("ParseDialect(%q) = %v, want DialectUnknown", v, d)
		}
		var uerr *gfferrors.UnsupportedError
		if !errors.As(err, &uerr) || !errors.Is(err, gfferrors.ErrUnsupported) {
			t.Errorf("ParseDialect(%q) error = %v, want *UnsupportedError", v, err)
		}
	}
}

func TestDialectUnknownString(t *testing.T) {
	if got := Dialect(42).String(); got != "Dialect(42)" {
		t.Errorf("String() = %q", got)
	}
	if recordParserFor(DialectUnknown) != nil || recordWriterFor(DialectUnknown) != nil {
		t.Error("unknown dialect should have no strategies")
	}
}
