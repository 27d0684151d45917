// Package document handles reading, normalising and hashing prose files.
package document

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Document holds a loaded file with its normalised text and metadata.
type Document struct {
	Path string
	Text string
	Hash string

	// Normalized is set when BOM removal or CRLF conversion shifted byte
	// offsets, so offsets into Text no longer index the file on disk.
	Normalized bool
}

// Load reads a file, strips a UTF-8 byte order mark, converts CRLF line
// endings to LF and computes the SHA-256 hash of the raw bytes.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("document.Load: %w", err)
	}
	return FromBytes(path, data), nil
}

// Read loads a document from r, labelled with path.
func Read(path string, r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("document.Read: %w", err)
	}
	return FromBytes(path, data), nil
}

// FromBytes builds a Document from raw file contents.
func FromBytes(path string, data []byte) *Document {
	h := sha256.Sum256(data)
	text := Normalize(string(bytes.TrimPrefix(data, bom)))
	return &Document{
		Path:       path,
		Text:       text,
		Hash:       fmt.Sprintf("sha256:%x", h),
		Normalized: len(text) != len(data),
	}
}

// Normalize converts CRLF and lone CR line endings to LF.
func Normalize(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}
