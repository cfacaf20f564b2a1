package storage

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("new local storage: %v", err)
	}

	blobID, err := store.Upload(ctx, "1700000001", "final order.pdf", strings.NewReader("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if blobID != "1700000001_final_order.pdf" {
		t.Fatalf("unexpected blob ID: %q", blobID)
	}

	rc, err := store.Download(ctx, blobID)
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != "%PDF-1.4 fake" {
		t.Fatalf("unexpected content: %q", data)
	}

	if err := store.Delete(ctx, blobID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Download(ctx, blobID); err == nil {
		t.Fatal("expected download of deleted blob to fail")
	}

	// Deleting an already-missing blob is not an error.
	if err := store.Delete(ctx, blobID); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestGenerateBlobID(t *testing.T) {
	tests := []struct {
		judgmentID string
		filename   string
		want       string
	}{
		{"1700000001", "order.pdf", "1700000001_order.pdf"},
		{"1700000001", "interim order v2.pdf", "1700000001_interim_order_v2.pdf"},
		{"1700000002", "a/b\\c.pdf", "1700000002_a_b_c.pdf"},
	}

	for _, tt := range tests {
		got := generateBlobID(tt.judgmentID, tt.filename)
		if got != tt.want {
			t.Fatalf("generateBlobID(%q, %q) = %q, want %q", tt.judgmentID, tt.filename, got, tt.want)
		}
	}
}
