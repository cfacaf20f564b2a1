package extract

import "testing"

func TestTextSkipsUnparseableFiles(t *testing.T) {
	extractor := NewPDFExtractor(nil)

	got := extractor.Text([][]byte{
		[]byte("this is not a pdf"),
		nil,
		[]byte("%PDF-1.4 truncated garbage"),
	})
	if got != "" {
		t.Fatalf("expected no text from unparseable files, got %q", got)
	}
}

func TestTextEmptyInput(t *testing.T) {
	extractor := NewPDFExtractor(nil)

	if got := extractor.Text(nil); got != "" {
		t.Fatalf("expected empty text for no files, got %q", got)
	}
	if got := extractor.Text([][]byte{}); got != "" {
		t.Fatalf("expected empty text for zero files, got %q", got)
	}
}
