package storage

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"
)

// CSVWriter writes the report table to a delimited text file.
// Single-character delimiters get standard CSV quoting; longer ones such as
// the default ", " join the fields as they are.
// It is safe for concurrent use.
type CSVWriter struct {
	mu        sync.Mutex
	file      *os.File
	buf       *bufio.Writer
	writer    *csv.Writer
	delimiter string
}

// NewCSVWriter creates (or truncates) the report file at the given path.
// Intermediate directories are created automatically.
func NewCSVWriter(path, delimiter string) (*CSVWriter, error) {
	if delimiter == "" {
		return nil, fmt.Errorf("csv: empty delimiter")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	c := &CSVWriter{file: f, buf: bufio.NewWriter(f), delimiter: delimiter}
	if r, size := utf8.DecodeRuneInString(delimiter); size == len(delimiter) && r != '"' && r != '\n' {
		c.writer = csv.NewWriter(f)
		c.writer.Comma = r
	}
	return c, nil
}

// WriteRows appends rows to the file, header first if the caller includes one.
func (c *CSVWriter) WriteRows(rows [][]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writer != nil {
		if err := c.writer.WriteAll(rows); err != nil {
			return fmt.Errorf("csv: write rows: %w", err)
		}
		return nil
	}

	for _, row := range rows {
		if _, err := c.buf.WriteString(strings.Join(row, c.delimiter) + "\n"); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}
	if err := c.buf.Flush(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.writer != nil {
		c.writer.Flush()
	}
	if err := c.buf.Flush(); err != nil {
		_ = c.file.Close()
		return fmt.Errorf("csv: flush: %w", err)
	}
	return c.file.Close()
}
