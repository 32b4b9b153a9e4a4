// Package staging holds the files a user has selected but not yet submitted.
// Two independent lists exist at runtime, one for PDFs headed to conversion
// and one for spreadsheets headed to consolidation; both follow the same
// rules: entries are unique by (name, size) and removal is index-based
// against the rendered order.
package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/frvega/conversor-go/tool"
)

// Entry is one staged file.
type Entry struct {
	Name string
	Size int64
	Path string
}

// Predicate decides whether a file may enter a staging list.
type Predicate func(path string) bool

// PDFOnly accepts PDF documents. Extension check first, with a magic-byte
// sniff as fallback for files saved without one.
func PDFOnly(path string) bool {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return true
	}
	return sniffPDF(path)
}

func sniffPDF(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	head := make([]byte, 5)
	if _, err := f.Read(head); err != nil {
		return false
	}
	return string(head) == "%PDF-"
}

// SpreadsheetOnly accepts the workbook formats the merge endpoint understands.
func SpreadsheetOnly(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}

// List is an ordered staging list. The zero value is ready to use.
type List struct {
	entries []Entry
}

// Add stats each path, filters through predicate and appends entries not
// already present by (name, size). Paths that fail to stat or fail the
// predicate are skipped with a log line, matching the silent filtering of
// the file picker.
func (l *List) Add(paths []string, predicate Predicate) {
	for _, path := range paths {
		if predicate != nil && !predicate(path) {
			tool.DefaultLogger.Warnf("Skipping %s: not an accepted file type", path)
			continue
		}
		name, size, err := tool.StatRegularFile(path)
		if err != nil {
			tool.DefaultLogger.Warnf("Skipping %s: %v", path, err)
			continue
		}
		if l.contains(name, size) {
			tool.DefaultLogger.Debugf("Skipping duplicate %s (%d bytes)", name, size)
			continue
		}
		l.entries = append(l.entries, Entry{Name: name, Size: size, Path: path})
	}
}

func (l *List) contains(name string, size int64) bool {
	for _, e := range l.entries {
		if e.Name == name && e.Size == size {
			return true
		}
	}
	return false
}

// Remove deletes the entry at index i, preserving order of the rest.
func (l *List) Remove(i int) error {
	if i < 0 || i >= len(l.entries) {
		return fmt.Errorf("invalid staging index %d (list has %d entries)", i, len(l.entries))
	}
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
	return nil
}

// Entries returns a copy of the staged entries in list order.
func (l *List) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *List) Len() int { return len(l.entries) }

// Empty reports whether the action button for this list should stay disabled.
func (l *List) Empty() bool { return len(l.entries) == 0 }
