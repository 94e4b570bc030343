package filestore

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

var ErrPreviewUnsupported = errors.New("preview is not supported for this file type")

type Preview struct {
	Filename  string `json:"filename"`
	Type      string `json:"type"`
	Content   string `json:"content"`
	Truncated bool   `json:"truncated"`
}

// Preview returns up to maxBytes of text from a .txt upload or the extracted text of a
// .pdf upload.
func (s *Store) Preview(filename string, maxBytes int) (*Preview, error) {
	if maxBytes <= 0 {
		maxBytes = 64 << 10
	}

	f, info, err := s.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		kind string
		text string
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		kind = "text/plain"
		b, err := io.ReadAll(io.LimitReader(f, int64(maxBytes)+1))
		if err != nil {
			return nil, fmt.Errorf("read text file failed: %w", err)
		}
		text = string(b)
	case ".pdf":
		kind = "application/pdf"
		text, err = extractPDFText(f, info.Size())
		if err != nil {
			return nil, err
		}
	default:
		return nil, ErrPreviewUnsupported
	}

	content, truncated := truncate(text, maxBytes)
	return &Preview{
		Filename:  filename,
		Type:      kind,
		Content:   content,
		Truncated: truncated,
	}, nil
}

// extractPDFText returns the plain text of every page, or an empty string when the PDF
// carries no extractable text.
func extractPDFText(r io.ReaderAt, size int64) (text string, err error) {
	if size == 0 {
		return "", nil
	}

	// The pdf package panics on some malformed documents.
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("extract pdf text failed: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf failed: %w", err)
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract pdf text failed: %w", err)
	}
	out, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("read pdf text failed: %w", err)
	}
	return string(out), nil
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) (string, bool) {
	if len(s) <= max {
		return s, false
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
