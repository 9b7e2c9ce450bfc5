// Package gff reads and writes genomic feature annotation files in the GFF
// family of formats.
//
// Six dialects are supported:
//
//   - 1: the original GFF, with an opaque ninth "group" column
//   - 2: GFF2, with `tag value value;` attributes
//   - 2.1, 2.2, 2.5: GTF, read as GFF2 and written with gene_id and
//     transcript_id leading every attribute column
//   - 3: GFF3, with percent-encoded `tag=value,value;` attributes
//
// # Reading
//
// A Reader consumes any io.Reader line by line. Directives (`##...`),
// comments (`#...`) and blank lines are accumulated or skipped while the
// Reader stages the next record, so metadata at the top of a file is
// available as soon as NewReader returns:
//
//	r, err := gff.NewReader(f, "2")
//	if err != nil {
//	    return err
//	}
//	for rec, err := range r.Records() {
//	    if err != nil {
//	        return err
//	    }
//	    fmt.Println(rec.SeqID, rec.Start, rec.End)
//	}
//
// A `##gff-version` directive in the stream overrides the default dialect.
// In GFF3 streams a line starting with `>` begins the trailing FASTA block,
// which is kept verbatim and returned by Reader.FASTA.
//
// # Writing
//
// A Writer emits the `##gff-version` header on construction, followed by any
// supplied metadata, and then serializes records in the requested dialect:
//
//	w, err := gff.NewWriter(os.Stdout, "3")
//	if err != nil {
//	    return err
//	}
//	if err := w.WriteAll(records); err != nil {
//	    return err
//	}
//
// Writing GFF1 is lossy: only the first value of a "group" attribute
// survives.
//
// # Errors
//
// Every malformed line, directive or attribute column yields a *FormatError.
// The Reader does not resynchronize on its own; the offending line has been
// consumed, so callers that want to skip bad lines simply call Read again.
//
// # Concurrency
//
// Readers and Writers are not safe for concurrent use. Independent instances
// on independent streams share no state.
package gff
