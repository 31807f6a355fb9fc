// Package media keeps uploaded image files on local disk. Each stored file lives in its own
// directory named by the media uuid and keeps the name it was uploaded with.
package media

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// PublicPrefix is the URL path the upload directory is served under.
const PublicPrefix = "/uploads"

var (
	ErrTooLarge    = errors.New("file exceeds the upload size limit")
	ErrBadFileName = errors.New("invalid file name")
)

// sniffLen is how much of a file is read to detect its type.
const sniffLen = 3072

// Disk stores files under Root.
type Disk struct {
	root     string
	baseURL  string
	maxBytes int64
}

// NewDisk creates the root directory if needed. maxBytes <= 0 disables the size limit.
func NewDisk(root, baseURL string, maxBytes int64) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Disk{root: root, baseURL: strings.TrimRight(baseURL, "/"), maxBytes: maxBytes}, nil
}

func (d *Disk) Root() string {
	return d.root
}

// Save writes r to <root>/<id>/<name> and returns the number of bytes written.
// A partially written file is removed on failure.
func (d *Disk) Save(id, name string, r io.Reader) (int64, error) {
	name, err := CleanFileName(name)
	if err != nil {
		return 0, err
	}
	dir := filepath.Join(d.root, id)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create media dir: %w", err)
	}

	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return 0, fmt.Errorf("create media file: %w", err)
	}

	src := r
	if d.maxBytes > 0 {
		src = io.LimitReader(r, d.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil && d.maxBytes > 0 && n > d.maxBytes {
		err = ErrTooLarge
	}
	if err != nil {
		_ = os.RemoveAll(dir)
		return 0, err
	}
	return n, nil
}

// Delete removes the directory of one stored file. Missing directories are not an error.
func (d *Disk) Delete(id string) error {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return ErrBadFileName
	}
	return os.RemoveAll(filepath.Join(d.root, id))
}

// URL is the public address of a stored file.
func (d *Disk) URL(id, name string) string {
	return d.baseURL + PublicPrefix + "/" + url.PathEscape(id) + "/" + url.PathEscape(name)
}

// CleanFileName keeps the uploaded name but strips any directory part.
func CleanFileName(name string) (string, error) {
	name = filepath.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if name == "" || name == "." || name == ".." || name == "/" {
		return "", ErrBadFileName
	}
	return name, nil
}

// Sniff detects the content type of r from its first bytes. The returned reader yields the
// full content, sniffed bytes included.
func Sniff(r io.Reader) (string, io.Reader, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	header = header[:n]

	mtype, _, _ := strings.Cut(mimetype.Detect(header).String(), ";")
	return strings.TrimSpace(mtype), io.MultiReader(bytes.NewReader(header), r), nil
}

// IsImage reports whether a sniffed type is a raster image. SVG is refused: uploads are
// served from the API origin and SVG can carry script.
func IsImage(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") && mimeType != "image/svg+xml"
}
