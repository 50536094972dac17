package bio

import (
	"bytes"
	"testing"
)

const fasta1 = `>seq1 some description
AAC-DE
fgh

>seq2
MN-P
`

func TestParseFasta(tst *testing.T) {
	seqs, err := ParseFasta(bytes.NewBufferString(fasta1))
	if err != nil {
		tst.Fatal("Error parsing fasta:", err)
	}
	if len(seqs) != 2 {
		tst.Fatal("Expected 2 sequences, got", len(seqs))
	}
	if seqs[0].Name != "seq1" || seqs[0].Sequence != "AAC-DEFGH" {
		tst.Error("Wrong first sequence:", seqs[0])
	}
	if seqs[1].Name != "seq2" || seqs[1].Sequence != "MN-P" {
		tst.Error("Wrong second sequence:", seqs[1])
	}
	if seqs.String() != ">seq1\nAAC-DEFGH\n>seq2\nMN-P" {
		tst.Error("Wrong fasta output:", seqs)
	}
}

func TestParseFastaErrors(tst *testing.T) {
	if _, err := ParseFasta(bytes.NewBufferString("ACDE\n>a\nAC\n")); err == nil {
		tst.Error("Expected error for a sequence without header")
	}
	if _, err := ParseFasta(bytes.NewBufferString(">\nAC\n")); err == nil {
		tst.Error("Expected error for an empty name")
	}
}

func TestAlphabet(tst *testing.T) {
	if AminoAcids.Len() != 20 {
		tst.Error("Expected 20 amino acids")
	}
	if !AminoAcids.Contains('W') || AminoAcids.Contains('X') || AminoAcids.Contains(Gap) {
		tst.Error("Wrong alphabet membership")
	}
	if AminoAcids.Index('A') != 0 || AminoAcids.Index('Y') != 19 {
		tst.Error("Wrong alphabet order")
	}
	if Ungap("-A-C--") != "AC" {
		tst.Error("Wrong ungapped sequence")
	}
}
