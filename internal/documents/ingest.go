package documents

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/JaimeStill/jurispanel/internal/gateway"
)

// Convert maps an upload to the document sent to the model: PDFs inline,
// DOCX as extracted text, anything else as UTF-8 text.
func Convert(logger *slog.Logger, up Upload) (gateway.Document, *int, error) {
	if len(up.Data) == 0 {
		return gateway.Document{}, nil, ErrEmpty
	}

	switch detectContentType(up.Filename, up.ContentType, up.Data) {
	case TypePDF:
		pages, err := pdfPageCount(up.Data)
		if err != nil {
			return gateway.Document{}, nil, err
		}
		logger.Info("pdf received", "filename", up.Filename, "pages", pages)
		return gateway.Document{Kind: gateway.KindPDF, Data: up.Data, Filename: up.Filename}, &pages, nil

	case TypeDOCX:
		text, err := docxText(up.Data)
		if err != nil {
			return gateway.Document{}, nil, err
		}
		return gateway.Document{Kind: gateway.KindText, Text: text, Filename: up.Filename}, nil, nil
	}

	if !utf8.Valid(up.Data) {
		return gateway.Document{}, nil, fmt.Errorf("%w: not UTF-8 text", ErrInvalidFile)
	}
	return gateway.Document{Kind: gateway.KindText, Text: string(up.Data), Filename: up.Filename}, nil, nil
}

func detectContentType(filename, header string, data []byte) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return TypePDF
	case ".docx":
		return TypeDOCX
	}

	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		if strings.HasPrefix(header, "text/") {
			return TypeText
		}
		return header
	}

	detected := http.DetectContentType(data)
	if strings.HasPrefix(detected, "text/") {
		return TypeText
	}
	return detected
}

func pdfPageCount(data []byte) (int, error) {
	count, err := api.PageCount(bytes.NewReader(data), nil)
	if err != nil {
		return 0, fmt.Errorf("%w: unreadable pdf: %v", ErrInvalidFile, err)
	}
	return count, nil
}
