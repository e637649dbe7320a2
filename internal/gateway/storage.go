package gateway

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// IsDataURI reports whether s is an inline base64 data URI. Attachments
// cross the service boundary in that form and are uploaded before the
// owning record is inserted.
func IsDataURI(s string) bool {
	return strings.HasPrefix(s, "data:")
}

// DecodeDataURI splits a data:<mime>;base64,<payload> string into its
// payload and MIME type.
func DecodeDataURI(s string) ([]byte, string, error) {
	if !IsDataURI(s) {
		return nil, "", errors.New("not a data URI")
	}
	rest := strings.TrimPrefix(s, "data:")
	meta, payload, found := strings.Cut(rest, ",")
	if !found {
		return nil, "", errors.New("malformed data URI")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", errors.New("unsupported data URI encoding")
	}
	mime := strings.TrimSuffix(meta, ";base64")
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to decode data URI payload")
	}
	return data, mime, nil
}

// ExtensionForMIME returns a file extension for the attachment MIME
// types the service accepts.
func ExtensionForMIME(mime string) string {
	switch mime {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "application/pdf":
		return ".pdf"
	}
	return ".bin"
}

// fsStorage stores attachments on the local filesystem and serves them
// from a configured base URL.
type fsStorage struct {
	dir     string
	baseURL string
}

// NewFilesystemStorage creates an attachment store rooted at dir.
func NewFilesystemStorage(dir, baseURL string) Storage {
	return &fsStorage{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}
}

// Upload writes data under path and returns the public URL.
func (s *fsStorage) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", wrap(KindTransient, "upload", err)
	}
	full := filepath.Join(s.dir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", wrap(KindTransient, "upload", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", wrap(KindTransient, "upload", err)
	}
	return s.PublicURL(path), nil
}

// PublicURL returns the URL an uploaded attachment is served from.
func (s *fsStorage) PublicURL(path string) string {
	return s.baseURL + "/" + strings.TrimPrefix(path, "/")
}
