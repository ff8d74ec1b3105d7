// Package extractor provides deterministic, synchronous, network-free text
// extraction from uploaded screenplay files.
package extractor

import (
	"fmt"

	"github.com/njorogek/screenplay-ingest-api/internal/models"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEDOC  = "application/msword"
	MIMETXT  = "text/plain"
)

// ExtractLocal dispatches on the declared MIME type and returns the plain
// text of the document. Legacy .doc files are not parsed here; their
// conversion is owned by an external service.
func ExtractLocal(doc models.Document) (string, error) {
	switch doc.ContentType {
	case MIMEPDF:
		return ExtractPDF(doc.Data)
	case MIMEDOCX:
		return ExtractDOCX(doc.Data)
	case MIMETXT:
		if err := ValidateTXT(doc.Data); err != nil {
			return "", err
		}
		return ExtractTXT(doc.Data)
	case MIMEDOC:
		return "", fmt.Errorf("legacy .doc files must be converted to .docx before upload")
	default:
		return "", fmt.Errorf("unsupported content type %q", doc.ContentType)
	}
}
