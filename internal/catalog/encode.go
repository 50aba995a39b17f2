package catalog

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"

	"github.com/starford/modcat/internal/models"
)

// Encode writes report as indented JSON. Keys come out in a stable order:
// struct fields as declared, category keys sorted.
func Encode(w io.Writer, report *models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("catalog: encode: %w", err)
	}
	return nil
}

// Marshal returns the encoded form of report.
func Marshal(report *models.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Checksum returns the hex-encoded SHA-256 of the encoded report. Two
// catalogs of an unchanged tree share a checksum.
func Checksum(report *models.Report) (string, error) {
	data, err := Marshal(report)
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:]), nil
}
