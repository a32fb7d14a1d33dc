package domain

import "time"

type DocumentType string

const (
	DocumentReport DocumentType = "report"
	DocumentOther  DocumentType = "other"
)

// DocumentTypeForExtension maps an upload's file extension to a document type.
func DocumentTypeForExtension(ext string) DocumentType {
	switch ext {
	case "pdf", "doc", "docx":
		return DocumentReport
	default:
		return DocumentOther
	}
}

type Document struct {
	ID         string
	ProjectID  string
	Title      string
	FileName   string
	FileURL    string // blob storage URL
	FileSize   int64
	MimeType   string
	Type       DocumentType
	Content    string // inline editable content, versioned
	Version    int
	UploadedBy string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
