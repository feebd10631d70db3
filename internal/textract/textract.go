// Package textract pulls plain text out of statement files.
package textract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

var (
	// ErrUnsupported is returned for file types that carry no extractable text.
	ErrUnsupported = errors.New("unsupported statement file type")
	// ErrEmpty is returned when a file yields no text at all.
	ErrEmpty = errors.New("no text could be extracted")
)

// File returns the text of a .pdf or .txt statement.
func File(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", path, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			return "", fmt.Errorf("%s: %w", path, ErrEmpty)
		}
		return string(data), nil
	case ".pdf":
		pages, err := PDF(path)
		if err != nil {
			return "", err
		}
		return strings.Join(pages, "\n\n"), nil
	default:
		return "", fmt.Errorf("%s: %w", path, ErrUnsupported)
	}
}

// PDF returns the text of each page, rows joined by newlines. Malformed files
// that make the PDF reader panic are reported as errors.
func PDF(path string) (pages []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			pages, err = nil, fmt.Errorf("reading pdf %s: %v", path, r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening pdf %s: %w", path, err)
	}
	defer f.Close()

	n := r.NumPage()
	for i := 1; i <= n; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			continue
		}
		var lines []string
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, word := range row.Content {
				parts = append(parts, word.S)
			}
			if line := strings.TrimSpace(strings.Join(parts, " ")); line != "" {
				lines = append(lines, line)
			}
		}
		if len(lines) > 0 {
			pages = append(pages, strings.Join(lines, "\n"))
		}
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	return pages, nil
}
