// Package upload is a local-disk blob store for file attachments.
// The chat core never opens files; it only embeds the descriptor this
// package returns.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrDisallowedType is returned for file extensions outside the allow-list.
var ErrDisallowedType = errors.New("disallowed file type")

var allowedExtensions = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".gif":  {},
	".pdf":  {},
	".doc":  {},
	".docx": {},
	".txt":  {},
}

// Descriptor identifies a stored file. It is handed back to the client
// and embedded verbatim in messages that carry an attachment.
type Descriptor struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	URL          string `json:"url"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
}

// Store writes uploads to a directory and serves them back by URL path.
type Store struct {
	dir     string
	urlBase string
}

// New creates the upload directory if needed. urlBase is the public
// path prefix files are served under, e.g. "/uploads".
func New(dir, urlBase string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir, urlBase: strings.TrimSuffix(urlBase, "/")}, nil
}

// Dir returns the directory files are stored in.
func (s *Store) Dir() string {
	return s.dir
}

// Allowed reports whether the file's extension is on the allow-list.
func Allowed(name string) bool {
	_, ok := allowedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

// Save stores the file under a unique name and returns its descriptor.
func (s *Store) Save(originalName, mimeType string, r io.Reader) (*Descriptor, error) {
	originalName = sanitize(originalName)
	if !Allowed(originalName) {
		return nil, ErrDisallowedType
	}

	filename := uuid.NewString() + "-" + originalName
	path := filepath.Join(s.dir, filename)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	size, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	return &Descriptor{
		Filename:     filename,
		OriginalName: originalName,
		URL:          s.urlBase + "/" + filename,
		MimeType:     mimeType,
		Size:         size,
	}, nil
}

// sanitize strips any path components and whitespace from a
// client-supplied filename.
func sanitize(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, string(os.PathSeparator), "")
	if name == "." || name == ".." {
		return ""
	}
	return name
}
