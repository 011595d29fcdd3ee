// Package files stores book attachments (covers, PDF content) on the local
// filesystem, keyed by a sanitized original filename.
package files

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// Sanitize strips any path component and replaces characters outside
// [a-zA-Z0-9._-] with underscores. An empty or dot-only name becomes "file".
func Sanitize(name string) string {
	clean := filepath.Base(name)
	clean = unsafeChars.ReplaceAllString(clean, "_")
	clean = strings.Trim(clean, ".")
	if clean == "" {
		return "file"
	}
	return clean
}

// Store persists attachments under a single directory.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save writes data under the sanitized filename and returns the stored
// name. Distinct originals can sanitize to the same name, so a numeric
// suffix is appended instead of truncating the earlier file.
func (s *Store) Save(filename string, data io.Reader) (string, error) {
	name, out, err := s.createUnique(Sanitize(filename))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, data); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return name, nil
}

func (s *Store) createUnique(name string) (string, *os.File, error) {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	candidate := name
	for i := 1; ; i++ {
		out, err := os.OpenFile(filepath.Join(s.dir, candidate),
			os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			return candidate, out, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", nil, err
		}
		candidate = fmt.Sprintf("%s_%d%s", base, i, ext)
	}
}

// Path returns the on-disk path for a stored name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, Sanitize(name))
}
