package main

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/FocuswithJustin/gffkit/core/gff"
	"github.com/FocuswithJustin/gffkit/internal/digest"
	"github.com/FocuswithJustin/gffkit/internal/logging"
	"github.com/FocuswithJustin/gffkit/internal/store"
	"github.com/FocuswithJustin/gffkit/internal/stream"
)

// input is an open GFF stream and its reader.
type input struct {
	src *stream.Reader
	r   *gff.Reader
}

// openInput opens path ("-" for stdin) and starts a reader defaulting to
// version, or to the configured version when empty.
func (a *App) openInput(path, version string) (*input, error) {
	if version == "" {
		version = a.Config.Version
	}
	src, err := stream.Open(path, a.Stdin)
	if err != nil {
		return nil, err
	}
	r, err := gff.NewReader(src, version, gff.WithLogger(a.Logger))
	if err != nil {
		src.Close()
		return nil, err
	}
	return &input{src: src, r: r}, nil
}

func (in *input) Close() error {
	return in.src.Close()
}

// collect reads every record. With keepGoing, malformed lines are logged
// and counted instead of ending the read.
func (a *App) collect(path string, in *input, keepGoing bool) ([]*gff.Record, int, error) {
	var recs []*gff.Record
	failures := 0
	for rec, err := range in.r.Records() {
		if err != nil {
			var fe *gff.FormatError
			if keepGoing && errors.As(err, &fe) {
				failures++
				logging.RecordError(a.Ctx, path, err, "line", fe.Line)
				continue
			}
			return nil, failures, err
		}
		if err := a.Ctx.Err(); err != nil {
			return nil, failures, err
		}
		recs = append(recs, rec)
	}
	return recs, failures, nil
}

// ConvertCmd rewrites a GFF stream in another version.
type ConvertCmd struct {
	Input     string `arg:"" help:"Input file, or - for stdin"`
	From      string `help:"Version assumed when the input has no ##gff-version directive"`
	To        string `required:"" help:"Output version (1, 2, 2.1, 2.2, 2.5, 3)"`
	Out       string `short:"o" default:"-" help:"Output file, or - for stdout; .gz and .xz compress"`
	KeepGoing bool   `help:"Skip malformed lines instead of stopping"`
}

func (c *ConvertCmd) Run(app *App) error {
	start := time.Now()
	if _, err := gff.ParseDialect(c.To); err != nil {
		return err
	}

	in, err := app.openInput(c.Input, c.From)
	if err != nil {
		return err
	}
	defer in.Close()

	recs, failures, err := app.collect(c.Input, in, c.KeepGoing)
	if err != nil {
		return err
	}

	out, err := stream.Create(c.Out, app.Stdout)
	if err != nil {
		return err
	}
	w, err := gff.NewWriter(out, c.To, in.r.Metadata()...)
	if err != nil {
		out.Close()
		return err
	}
	for _, comment := range in.r.Comments() {
		if err := w.WriteComment(comment); err != nil {
			out.Close()
			return err
		}
	}
	if err := w.WriteAll(recs); err != nil {
		out.Close()
		return err
	}
	if fasta := in.r.FASTA(); fasta != "" {
		if w.Dialect() == gff.GFF3 {
			if err := w.WriteFASTA(fasta); err != nil {
				out.Close()
				return err
			}
		} else {
			logging.WarnContext(app.Ctx, "dropping FASTA section", "to", c.To)
		}
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}

	logging.StreamSummary(app.Ctx, "convert", c.Input, in.r.Version(), len(recs), failures,
		time.Since(start), "to", c.To, "out", c.Out)
	return nil
}

// ValidateCmd reports format errors and records that break GFF rules.
type ValidateCmd struct {
	Input     string `arg:"" help:"Input file, or - for stdin"`
	Version   string `help:"Version assumed when the input has no ##gff-version directive"`
	KeepGoing bool   `help:"Report every problem instead of stopping at the first malformed line"`
}

func (c *ValidateCmd) Run(app *App) error {
	in, err := app.openInput(c.Input, c.Version)
	if err != nil {
		return err
	}
	defer in.Close()

	problems, n := 0, 0
	for rec, err := range in.r.Records() {
		if err != nil {
			var fe *gff.FormatError
			if !errors.As(err, &fe) {
				return err
			}
			problems++
			fmt.Fprintf(app.Stdout, "%s:%d: %s\n", c.Input, fe.Line, fe.Message)
			if !c.KeepGoing {
				break
			}
			continue
		}
		if err := app.Ctx.Err(); err != nil {
			return err
		}
		n++
		if verr := rec.Validate(); verr != nil {
			problems++
			fmt.Fprintf(app.Stdout, "%s: record %d (%s %s:%d-%d): %v\n",
				c.Input, n, rec.Type, rec.SeqID, rec.Start, rec.End, verr)
		}
	}

	fmt.Fprintf(app.Stdout, "%s: %d records, %d problems\n", c.Input, n, problems)
	if problems > 0 {
		return fmt.Errorf("%s: %d problems found", c.Input, problems)
	}
	return nil
}

// InfoCmd summarizes a GFF stream.
type InfoCmd struct {
	Input   string `arg:"" help:"Input file, or - for stdin"`
	Version string `help:"Version assumed when the input has no ##gff-version directive"`
}

func (c *InfoCmd) Run(app *App) error {
	in, err := app.openInput(c.Input, c.Version)
	if err != nil {
		return err
	}
	defer in.Close()

	recs, _, err := app.collect(c.Input, in, false)
	if err != nil {
		return err
	}
	r := in.r

	types := make(map[string]int)
	seqids := make(map[string]bool)
	for _, rec := range recs {
		types[rec.Type]++
		seqids[rec.SeqID] = true
	}

	out := app.Stdout
	fmt.Fprintf(out, "File:        %s\n", c.Input)
	fmt.Fprintf(out, "Size:        %s (%s)\n", humanize.Bytes(uint64(in.src.BytesRead())), in.src.Compression)
	fmt.Fprintf(out, "Version:     %s (declared: %t)\n", r.Version(), r.VersionDeclared())
	fmt.Fprintf(out, "Records:     %s\n", humanize.Comma(int64(len(recs))))
	fmt.Fprintf(out, "Sequences:   %d\n", len(seqids))
	fmt.Fprintf(out, "Comments:    %d\n", len(r.Comments()))
	fmt.Fprintf(out, "FASTA:       %t\n", r.FASTA() != "")

	if regions := r.SequenceRegions(); len(regions) > 0 {
		fmt.Fprintln(out, "Sequence regions:")
		for _, sr := range regions {
			fmt.Fprintf(out, "  %s %d-%d\n", sr.SeqID, sr.Start, sr.End)
		}
	}
	var other []gff.Metadatum
	for _, m := range r.Metadata() {
		if m.Region == nil {
			other = append(other, m)
		}
	}
	if len(other) > 0 {
		fmt.Fprintln(out, "Metadata:")
		for _, m := range other {
			fmt.Fprintf(out, "  %s %s\n", m.Name, m.Value)
		}
	}
	if len(types) > 0 {
		fmt.Fprintln(out, "Types:")
		for _, t := range slices.Sorted(maps.Keys(types)) {
			fmt.Fprintf(out, "  %-20s %s\n", t, humanize.Comma(int64(types[t])))
		}
	}
	return nil
}

// ChecksumCmd prints SHA-256 and BLAKE3 digests of the records.
type ChecksumCmd struct {
	Input   string `arg:"" help:"Input file, or - for stdin"`
	Version string `help:"Version assumed when the input has no ##gff-version directive"`
}

func (c *ChecksumCmd) Run(app *App) error {
	in, err := app.openInput(c.Input, c.Version)
	if err != nil {
		return err
	}
	defer in.Close()

	sum, err := digest.Stream(app.Ctx, in.r)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Stdout, "sha256  %s  %s\n", sum.SHA256, c.Input)
	fmt.Fprintf(app.Stdout, "blake3  %s  %s\n", sum.BLAKE3, c.Input)
	logging.DebugContext(app.Ctx, "checksum", "path", c.Input, "records", sum.Records)
	return nil
}

// LoadCmd exports records into SQLite.
type LoadCmd struct {
	Input   string `arg:"" help:"Input file, or - for stdin"`
	DB      string `name:"db" help:"SQLite database path (default from config)"`
	Version string `help:"Version assumed when the input has no ##gff-version directive"`
}

func (c *LoadCmd) Run(app *App) error {
	start := time.Now()
	dbPath := c.DB
	if dbPath == "" {
		p, err := app.Config.StorePath()
		if err != nil {
			return err
		}
		dbPath = p
	}

	in, err := app.openInput(c.Input, c.Version)
	if err != nil {
		return err
	}
	defer in.Close()

	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	load, err := s.LoadReader(app.Ctx, c.Input, in.r)
	if err != nil {
		return err
	}
	fmt.Fprintf(app.Stdout, "%s %d records\n", load.ID, load.RecordCount)
	logging.StreamSummary(app.Ctx, "load", c.Input, load.Version, load.RecordCount, 0,
		time.Since(start), "db", dbPath, "load_id", load.ID)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	info := store.GetInfo()
	fmt.Fprintf(app.Stdout, "gffkit version %s\n", version)
	fmt.Fprintf(app.Stdout, "sqlite driver: %s (%s)\n", info.Package, info.DriverType)
	return nil
}
