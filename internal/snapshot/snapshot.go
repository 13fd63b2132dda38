// Package snapshot handles reading, decoding, and hashing venue snapshot files.
package snapshot

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dshills/venuetrust/internal/trust"
)

// Format identifies the encoding of a snapshot document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// File holds a loaded snapshot with its raw bytes and metadata.
type File struct {
	FilePath string
	Raw      []byte
	Hash     string
	Snapshot trust.Snapshot
}

// FormatFor infers the document format from a file extension.
// Stdin ("-") and unknown extensions are treated as JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads a snapshot file and computes its SHA-256 hash. A path of "-"
// reads JSON from stdin.
func Load(path string) (*File, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot.Load: %w", err)
	}
	s, err := Parse(data, FormatFor(path))
	if err != nil {
		return nil, fmt.Errorf("snapshot.Load: %s: %w", path, err)
	}
	return &File{
		FilePath: path,
		Raw:      data,
		Hash:     Hash(data),
		Snapshot: *s,
	}, nil
}

// Parse decodes a snapshot document. Unknown fields are rejected.
func Parse(data []byte, format Format) (*trust.Snapshot, error) {
	var s trust.Snapshot
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	return &s, nil
}

// Hash returns the content hash recorded in reports.
func Hash(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}
