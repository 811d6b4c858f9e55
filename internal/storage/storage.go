package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"storefront/internal/domain"

	"github.com/google/uuid"
)

// MaxImageSize is the largest accepted upload in bytes.
const MaxImageSize int64 = 2 << 20

var (
	ErrNotFound    = errors.New("object not found")
	ErrInvalidName = errors.New("invalid object name")
)

// ImageStore keeps uploaded images under flat object names.
type ImageStore interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, name string) error
}

// sniffLen is how much of a body http.DetectContentType looks at.
const sniffLen = 512

// preferredExt pins the extension for types with several registered ones.
var preferredExt = map[string]string{
	"image/jpeg":   ".jpg",
	"image/png":    ".png",
	"image/gif":    ".gif",
	"image/webp":   ".webp",
	"image/bmp":    ".bmp",
	"image/x-icon": ".ico",
}

// NewObjectName returns "<unix-ms>-<uuid><ext>" where ext follows the
// sniffed content type. The client file name never picks the extension.
func NewObjectName(contentType string) string {
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ExtensionFor(contentType))
}

// ExtensionFor maps an image content type to a file extension, or "" when
// none is registered.
func ExtensionFor(contentType string) string {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	if ext, ok := preferredExt[mt]; ok {
		return ext
	}
	if exts, err := mime.ExtensionsByType(mt); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// SniffImage detects the content type from the first bytes of r and rejects
// anything that is not an image. The returned reader replays those bytes.
func SniffImage(r io.Reader) (string, io.Reader, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", nil, err
	}
	head = head[:n]
	ct := http.DetectContentType(head)
	if !IsImageContentType(ct) {
		return "", nil, domain.ErrUnsupportedContentType
	}
	return ct, io.MultiReader(bytes.NewReader(head), r), nil
}

// ValidName rejects anything that could escape the store root.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}

func IsImageContentType(ct string) bool {
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return false
	}
	return strings.HasPrefix(mt, "image/")
}

// ContentTypeFor guesses the content type from the object name.
func ContentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// readLimited reads r fully, failing with ErrFileTooLarge past MaxImageSize.
func readLimited(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return nil, err
	}
	if n > MaxImageSize {
		return nil, domain.ErrFileTooLarge
	}
	return buf.Bytes(), nil
}
