package mimetype

import "testing"

func TestDetect(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		want     string
	}{
		{"pdf magic", []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3"), "", PDF},
		{"html", []byte("<!DOCTYPE html><html><body>hi</body></html>"), "", HTML},
		{"markdown by extension", []byte("# Title\n\nBody text."), "notes.md", Markdown},
		{"csv by extension", []byte("a,b,c\n1,2,3\n"), "table.csv", CSV},
		{"plain text", []byte("just some words"), "", Plain},
		{"extension ignored for binary", []byte("%PDF-1.7\nstuff"), "weird.md", PDF},
	}
	for _, tt := range tests {
		got := Detect(tt.data, tt.filename)
		if got != tt.want {
			t.Errorf("%s: Detect = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"application/pdf; charset=binary", PDF},
		{"application/x-pdf", PDF},
		{"TEXT/HTML", HTML},
		{"text/x-markdown", Markdown},
		{"application/xhtml+xml", HTML},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
