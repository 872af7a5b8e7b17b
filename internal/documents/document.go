// Package documents turns uploads into model-ready documents and archives
// the original file in blob storage so a saved session can point back to it.
package documents

import "time"

// Content types recognized by Ingest.
const (
	TypePDF  = "application/pdf"
	TypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	TypeText = "text/plain; charset=utf-8"
)

// Upload is a received file or pasted text.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Source references the archived original of a session document.
type Source struct {
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	PageCount   *int      `json:"page_count,omitempty"`
	StorageKey  string    `json:"storage_key"`
	ContentHash string    `json:"content_hash"`
	UploadedAt  time.Time `json:"uploaded_at"`
}
