package stream

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ulikunitz/xz"
)

const sample = "##gff-version 3\nchr1\t.\tgene\t1\t10\t.\t+\t.\tID=g1\n"

func writeGz(t *testing.T, path, data string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	defer f.Close()
	gw := gzip.NewWriter(f)
	if _, err := gw.Write([]byte(data)); err != nil {
		t.Fatalf("write gzip: %v", err)
	}
	if err := gw.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
}

func writeXz(t *testing.T, path, data string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create file: %v", err)
	}
	defer f.Close()
	xw, err := xz.NewWriter(f)
	if err != nil {
		t.Fatalf("xz writer: %v", err)
	}
	if _, err := xw.Write([]byte(data)); err != nil {
		t.Fatalf("write xz: %v", err)
	}
	if err := xw.Close(); err != nil {
		t.Fatalf("close xz: %v", err)
	}
}

func readFile(t *testing.T, path string) (string, *Reader) {
	t.Helper()
	r, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open(%s) error: %v", path, err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data), r
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		path   string
		want   Compression
	}{
		{"gzip magic", []byte{0x1f, 0x8b, 8, 0, 0, 0}, "a.gff3", Gzip},
		{"xz magic", []byte{0xfd, '7', 'z', 'X', 'Z', 0}, "a.gff3", XZ},
		{"plain text", []byte("##gff-"), "a.gz", None},
		{"short header uses suffix", []byte("#"), "a.gtf.xz", XZ},
		{"empty", nil, "a.gz", None},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect(tt.header, tt.path); got != tt.want {
				t.Errorf("Detect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromSuffix(t *testing.T) {
	for path, want := range map[string]Compression{
		"x.gff3.gz": Gzip,
		"x.GTF.GZ":  Gzip,
		"x.gff.xz":  XZ,
		"x.gff3":    None,
		"-":         None,
	} {
		if got := FromSuffix(path); got != want {
			t.Errorf("FromSuffix(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestOpenCompressedDecodesIdentically(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "a.gff3")
	if err := os.WriteFile(plain, []byte(sample), 0644); err != nil {
		t.Fatal(err)
	}
	gz := filepath.Join(dir, "a.gff3.gz")
	writeGz(t, gz, sample)
	xzPath := filepath.Join(dir, "a.gff3.xz")
	writeXz(t, xzPath, sample)
	// Magic numbers win over misleading names.
	hidden := filepath.Join(dir, "hidden.gff3")
	writeGz(t, hidden, sample)

	for path, want := range map[string]Compression{plain: None, gz: Gzip, xzPath: XZ, hidden: Gzip} {
		got, r := readFile(t, path)
		if got != sample {
			t.Errorf("%s: content = %q", filepath.Base(path), got)
		}
		if r.Compression != want {
			t.Errorf("%s: compression = %v, want %v", filepath.Base(path), r.Compression, want)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if r.BytesRead() != info.Size() {
			t.Errorf("%s: BytesRead() = %d, want %d", filepath.Base(path), r.BytesRead(), info.Size())
		}
	}
}

func TestOpenStdin(t *testing.T) {
	var buf bytes.Buffer
	gw := gzip.NewWriter(&buf)
	gw.Write([]byte(sample))
	gw.Close()

	r, err := Open(StdioPath, &buf)
	if err != nil {
		t.Fatal(err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != sample || r.Compression != Gzip {
		t.Errorf("stdin = %q (%v)", data, r.Compression)
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() = %v", err)
	}
}

func TestOpenEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.gff3.gz")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	got, r := readFile(t, path)
	if got != "" || r.Compression != None {
		t.Errorf("empty file = %q (%v)", got, r.Compression)
	}
}

func TestOpenErrors(t *testing.T) {
	dir := t.TempDir()
	if _, err := Open(filepath.Join(dir, "missing.gff3"), nil); err == nil {
		t.Error("Open() of a missing file should fail")
	}

	bad := filepath.Join(dir, "bad.gz")
	if err := os.WriteFile(bad, []byte{0x1f, 0x8b, 0, 0}, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(bad, nil); err == nil || !strings.Contains(err.Error(), "gzip reader") {
		t.Errorf("Open() of a truncated gzip = %v", err)
	}
}

func TestCreateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.gff3", "nested/out.gff3.gz", "out.gtf.xz"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			w, err := Create(path, nil)
			if err != nil {
				t.Fatalf("Create() error: %v", err)
			}
			if w.Compression != FromSuffix(path) {
				t.Errorf("compression = %v", w.Compression)
			}
			if _, err := w.WriteString(sample); err != nil {
				t.Fatal(err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close() error: %v", err)
			}

			got, r := readFile(t, path)
			if got != sample {
				t.Errorf("content = %q", got)
			}
			if r.Compression != w.Compression {
				t.Errorf("read back as %v, written as %v", r.Compression, w.Compression)
			}
		})
	}
}

func TestCreateStdout(t *testing.T) {
	var buf bytes.Buffer
	w, err := Create(StdioPath, &buf)
	if err != nil {
		t.Fatal(err)
	}
	w.WriteString(sample)
	if buf.Len() != 0 {
		t.Error("output should be buffered until Close")
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if buf.String() != sample || w.Compression != None {
		t.Errorf("stdout = %q (%v)", buf.String(), w.Compression)
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name string
		path string
		want error
	}{
		{"valid", "annotations/chr1.gff3", nil},
		{"stdio", StdioPath, nil},
		{"empty", "", ErrEmptyPath},
		{"too long", strings.Repeat("a", MaxPathLength+1), ErrPathTooLong},
		{"null byte", "a\x00.gff3", ErrInvalidCharacter},
		{"control character", "a\n.gff3", ErrInvalidCharacter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidatePath() = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := Open("", nil); !errors.Is(err, ErrEmptyPath) {
		t.Errorf("Open(\"\") = %v", err)
	}
	if _, err := Create("bad\x00", nil); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("Create() = %v", err)
	}
}
