package models

import (
	"testing"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Status
		wantErr bool
	}{
		{name: "empty defaults to good law", input: "", want: StatusGoodLaw},
		{name: "whitespace defaults to good law", input: "   ", want: StatusGoodLaw},
		{name: "good law", input: "good_law", want: StatusGoodLaw},
		{name: "distinguished", input: "distinguished", want: StatusDistinguished},
		{name: "overruled", input: "overruled", want: StatusOverruled},
		{name: "display label is not a value", input: "🟢 Good Law", wantErr: true},
		{name: "unknown", input: "pending", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPDFRefsStorageRoundTrip(t *testing.T) {
	refs := PDFRefs{"1700000001_order.pdf", "1700000001_annex.pdf"}

	value, err := refs.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if value != "1700000001_order.pdf,1700000001_annex.pdf" {
		t.Fatalf("unexpected stored form: %v", value)
	}

	var scanned PDFRefs
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(scanned) != 2 || scanned[1] != "1700000001_annex.pdf" {
		t.Fatalf("unexpected refs after scan: %v", scanned)
	}
}

func TestPDFRefsScanEmpty(t *testing.T) {
	var refs PDFRefs
	if err := refs.Scan(""); err != nil {
		t.Fatalf("scan empty string: %v", err)
	}
	if len(refs) != 0 {
		t.Fatalf("expected no refs, got %v", refs)
	}

	if err := refs.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if refs != nil {
		t.Fatalf("expected nil refs, got %v", refs)
	}

	if err := refs.Scan([]byte("1700000001_scan.pdf")); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if len(refs) != 1 || refs[0] != "1700000001_scan.pdf" {
		t.Fatalf("unexpected refs: %v", refs)
	}
}
