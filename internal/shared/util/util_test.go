package util

import (
	"io"
	"strings"
	"testing"
)

func TestSanitizeFileName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "deck.pdf", want: "deck.pdf"},
		{in: "  q3/report.docx ", want: "q3_report.docx"},
		{in: `c:\tmp\memo.txt`, want: "c:_tmp_memo.txt"},
		{in: "../etc/passwd", wantErr: true},
		{in: "   ", wantErr: true},
	}
	for _, tt := range tests {
		got, err := SanitizeFileName(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("SanitizeFileName(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("SanitizeFileName(%q) = %q, %v; want %q", tt.in, got, err, tt.want)
		}
	}
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Test Startup":        "test-startup",
		"  Acme, Inc.  ":      "acme-inc",
		"Zeta--Labs (Series)": "zeta-labs-series",
		"!!!":                 "",
	}
	for in, want := range tests {
		if got := Slugify(in); got != want {
			t.Fatalf("Slugify(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHashingReader(t *testing.T) {
	hr := NewHashingReader(strings.NewReader("abc"))
	if _, err := io.Copy(io.Discard, hr); err != nil {
		t.Fatalf("copy: %v", err)
	}
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := hr.Sum(); got != want {
		t.Fatalf("unexpected digest %s", got)
	}
}
