package gff_test

import (
	"fmt"
	"os"
	"strings"

	"github.com/FocuswithJustin/gffkit/core/gff"
)

func ExampleReader() {
	input := "##gff-version 3\n" +
		"##sequence-region ctg123 1 1497228\n" +
		"ctg123\t.\tgene\t1000\t9000\t.\t+\t.\tID=gene00001;Name=EDEN\n" +
		"ctg123\t.\tCDS\t1201\t1500\t.\t+\t0\tID=cds00001;Parent=gene00001\n"

	r, err := gff.NewReader(strings.NewReader(input), "3")
	if err != nil {
		panic(err)
	}
	for rec, err := range r.Records() {
		if err != nil {
			panic(err)
		}
		id, _ := rec.Attributes.First("ID")
		fmt.Println(rec.Type, rec.Start, rec.End, id)
	}
	fmt.Println(r.SequenceRegions()[0].SeqID)
	// Output:
	// gene 1000 9000 gene00001
	// CDS 1201 1500 cds00001
	// ctg123
}

func ExampleWriter() {
	w, err := gff.NewWriter(os.Stdout, "2.2")
	if err != nil {
		panic(err)
	}
	attrs := gff.NewAttributes()
	attrs.Set("exon_number", "1")
	attrs.Set("gene_id", "G1")
	attrs.Set("transcript_id", "T1")
	_ = w.Write(&gff.Record{
		SeqID:      "chr1",
		Source:     "ENSEMBL",
		Type:       "exon",
		Start:      100,
		End:        200,
		Strand:     gff.StrandForward,
		Attributes: attrs,
	})
	// Output:
	// ##gff-version 2.2
	// chr1	ENSEMBL	exon	100	200	.	+	.	gene_id "G1"; transcript_id "T1"; exon_number "1";
}

func ExampleDecodeAttributesV2() {
	attrs, err := gff.DecodeAttributesV2(`gene_id "ENSG1"; transcript_id "ENST1"; exon_number 3;`)
	if err != nil {
		panic(err)
	}
	for _, tag := range attrs.Keys() {
		fmt.Println(tag, attrs.Get(tag))
	}
	// Output:
	// gene_id [ENSG1]
	// transcript_id [ENST1]
	// exon_number [3]
}

func ExampleEncodeAttributesV3() {
	attrs := gff.NewAttributes()
	attrs.Set("a;b", "x=y")
	attrs.Set("Parent", "p1", "p2")
	fmt.Println(gff.EncodeAttributesV3(attrs))
	// Output: a%3Bb=x%3Dy;Parent=p1,p2
}
