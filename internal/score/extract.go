// Package score rates extracted resume text with a deterministic,
// additive point model and splits it into best-effort sections.
package score

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadable marks a document that could not be parsed. Callers map it
// to a localized "could not read document" message instead of crashing.
var ErrUnreadable = errors.New("unreadable document")

// ExtractText pulls the plain text out of a PDF. The underlying parser
// panics on some malformed files, so the panic is converted into
// ErrUnreadable here.
func ExtractText(r io.ReaderAt, size int64) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrUnreadable, rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return buf.String(), nil
}

// ExtractFile opens path and extracts its text.
func ExtractFile(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	return extractFromReader(reader)
}

func extractFromReader(reader *pdf.Reader) (text string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrUnreadable, rec)
		}
	}()

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return buf.String(), nil
}
