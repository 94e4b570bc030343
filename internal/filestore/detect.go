package filestore

import (
	"errors"
	"fmt"
	"io"
	"mime"

	"github.com/gabriel-vasile/mimetype"
)

const sniffLen = 3072

// DetectType resolves an upload's MIME type. The client-declared type wins unless it is
// empty or generic, in which case the first bytes of the content are sniffed.
func DetectType(declared string, r io.Reader) (string, error) {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil &&
		mediaType != "" && mediaType != "application/octet-stream" {
		return mediaType, nil
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", fmt.Errorf("read upload head failed: %w", err)
	}
	head = head[:n]

	detected := mimetype.Detect(head).String()
	mediaType, _, err := mime.ParseMediaType(detected)
	if err != nil {
		mediaType = detected
	}
	return mediaType, nil
}
