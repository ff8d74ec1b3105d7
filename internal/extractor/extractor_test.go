package extractor

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/njorogek/screenplay-ingest-api/internal/models"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := f.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractDOCX(t *testing.T) {
	docXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>INT. KITCHEN - DAY</w:t></w:r></w:p>
    <w:p><w:r><w:t>John stirs </w:t></w:r><w:r><w:t>the soup.</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := ExtractDOCX(buildDOCX(t, docXML))
	if err != nil {
		t.Fatalf("ExtractDOCX returned error: %v", err)
	}

	want := "INT. KITCHEN - DAY\nJohn stirs the soup."
	if text != want {
		t.Errorf("ExtractDOCX = %q, want %q", text, want)
	}
}

func TestExtractDOCXNotAZip(t *testing.T) {
	if _, err := ExtractDOCX([]byte("this is not a zip archive")); err == nil {
		t.Errorf("expected error for non-zip input")
	}
}

func TestExtractDOCXMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, _ := zw.Create("word/styles.xml")
	f.Write([]byte("<styles/>"))
	zw.Close()

	if _, err := ExtractDOCX(buf.Bytes()); err == nil {
		t.Errorf("expected error when document.xml is absent")
	}
}

func TestExtractPDFGarbage(t *testing.T) {
	if _, err := ExtractPDF([]byte("definitely not a PDF")); err == nil {
		t.Errorf("expected error for non-PDF input")
	}
}

func TestExtractTXT(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{
			name:  "plain utf8",
			input: []byte("INT. KITCHEN - DAY\n\nJOHN\nHello."),
			want:  "INT. KITCHEN - DAY\n\nJOHN\nHello.",
		},
		{
			name:  "utf8 bom stripped",
			input: append([]byte{0xEF, 0xBB, 0xBF}, []byte("FADE IN:")...),
			want:  "FADE IN:",
		},
		{
			name:  "crlf normalized blank lines kept",
			input: []byte("INT. BAR - NIGHT\r\n\r\nMusic plays.\r\n"),
			want:  "INT. BAR - NIGHT\n\nMusic plays.",
		},
		{
			name:  "trailing spaces trimmed per line",
			input: []byte("EXT. STREET - DAY   \nCars pass.\t"),
			want:  "EXT. STREET - DAY\nCars pass.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractTXT(tt.input)
			if err != nil {
				t.Fatalf("ExtractTXT returned error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractTXT = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractTXTUTF16(t *testing.T) {
	// "HI" in UTF-16 LE with BOM
	input := []byte{0xFF, 0xFE, 'H', 0x00, 'I', 0x00}
	got, err := ExtractTXT(input)
	if err != nil {
		t.Fatalf("ExtractTXT returned error: %v", err)
	}
	if got != "HI" {
		t.Errorf("ExtractTXT = %q, want %q", got, "HI")
	}
}

func TestExtractTXTEmpty(t *testing.T) {
	if _, err := ExtractTXT(nil); err == nil {
		t.Errorf("expected error for empty input")
	}
	if _, err := ExtractTXT([]byte("   \n\n  ")); err == nil {
		t.Errorf("expected error for whitespace-only input")
	}
}

func TestValidateTXT(t *testing.T) {
	if err := ValidateTXT([]byte("A perfectly ordinary screenplay line.")); err != nil {
		t.Errorf("ValidateTXT rejected plain text: %v", err)
	}

	binary := make([]byte, 512)
	for i := range binary {
		binary[i] = byte(i % 32) // control characters
	}
	if err := ValidateTXT(binary); err == nil {
		t.Errorf("ValidateTXT accepted binary data")
	}

	if err := ValidateTXT(nil); err == nil {
		t.Errorf("ValidateTXT accepted empty input")
	}
}

func TestExtractLocalDispatch(t *testing.T) {
	txt := models.Document{Data: []byte("INT. LAB - NIGHT\n\nBeakers bubble."), ContentType: MIMETXT}
	text, err := ExtractLocal(txt)
	if err != nil {
		t.Fatalf("ExtractLocal(txt) returned error: %v", err)
	}
	if !strings.Contains(text, "INT. LAB - NIGHT") {
		t.Errorf("ExtractLocal(txt) lost content: %q", text)
	}

	doc := models.Document{Data: []byte("old word binary"), ContentType: MIMEDOC}
	if _, err := ExtractLocal(doc); err == nil {
		t.Errorf("expected error for legacy .doc input")
	}

	unknown := models.Document{Data: []byte("x"), ContentType: "image/png"}
	if _, err := ExtractLocal(unknown); err == nil {
		t.Errorf("expected error for unsupported content type")
	}
}
