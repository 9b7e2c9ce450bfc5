// Package digest fingerprints GFF records independently of their dialect,
// compression, comments and metadata. Records are re-serialized as GFF3
// and hashed with both SHA-256 and BLAKE3. Attribute tags are hashed in
// insertion order, so records whose tags were added in a different order
// digest differently.
package digest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/zeebo/blake3"

	"github.com/FocuswithJustin/gffkit/core/gff"
)

// HashResult contains both SHA-256 and BLAKE3 hashes of a record stream.
type HashResult struct {
	SHA256  string `json:"sha256"`
	BLAKE3  string `json:"blake3"`
	Records int    `json:"records"`
}

// Digester accumulates records into running hashes.
type Digester struct {
	sha     hash.Hash
	b3      *blake3.Hasher
	w       *gff.Writer
	records int
}

// New returns a Digester primed with the canonical `##gff-version 3` header.
func New() *Digester {
	d := &Digester{
		sha: sha256.New(),
		b3:  blake3.New(),
	}
	// Writes to hashes never fail.
	d.w, _ = gff.NewWriter(io.MultiWriter(d.sha, d.b3), gff.GFF3.String())
	return d
}

// Add hashes one record.
func (d *Digester) Add(rec *gff.Record) error {
	if err := d.w.Write(rec); err != nil {
		return fmt.Errorf("digest record: %w", err)
	}
	d.records++
	return nil
}

// Sum returns the digests of everything added so far.
func (d *Digester) Sum() *HashResult {
	return &HashResult{
		SHA256:  hex.EncodeToString(d.sha.Sum(nil)),
		BLAKE3:  hex.EncodeToString(d.b3.Sum(nil)),
		Records: d.records,
	}
}

// Records digests a slice of records.
func Records(recs []*gff.Record) (*HashResult, error) {
	d := New()
	for _, rec := range recs {
		if err := d.Add(rec); err != nil {
			return nil, err
		}
	}
	return d.Sum(), nil
}

// Stream drains r and digests every record. It stops at the first error,
// including a cancelled ctx, which is checked between records.
func Stream(ctx context.Context, r *gff.Reader) (*HashResult, error) {
	d := New()
	for rec, err := range r.Records() {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := d.Add(rec); err != nil {
			return nil, err
		}
	}
	return d.Sum(), nil
}
