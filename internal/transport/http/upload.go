package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/httpx"
	"storefront/internal/service"
	"storefront/internal/storage"
)

// Multipart bodies may carry a little overhead beyond the file itself.
const (
	multipartOverhead = 1 << 20
	maxFilesPerUpload = 10
)

// parseMultipart bounds the body and parses the form. Oversized bodies are
// reported as 413.
func parseMultipart(w http.ResponseWriter, r *http.Request, maxFiles int) bool {
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxFiles)*storage.MaxImageSize+multipartOverhead)
	if err := r.ParseMultipartForm(storage.MaxImageSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.WriteError(w, r, domain.ErrFileTooLarge)
			return false
		}
		if errors.Is(err, http.ErrNotMultipart) {
			httpx.WriteStatus(w, http.StatusBadRequest, "request must be multipart/form-data")
			return false
		}
		httpx.WriteStatus(w, http.StatusBadRequest, "invalid multipart body")
		return false
	}
	return true
}

func formFiles(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[field]
}

func contentTypeOf(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return storage.ContentTypeFor(fh.Filename)
}

// checkImage validates one uploaded part before it is stored.
func checkImage(fh *multipart.FileHeader) error {
	if fh.Size > storage.MaxImageSize {
		return domain.ErrFileTooLarge
	}
	if !storage.IsImageContentType(contentTypeOf(fh)) {
		return domain.ErrUnsupportedContentType
	}
	return nil
}

func openUpload(fh *multipart.FileHeader) (service.Upload, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return service.Upload{}, nil, err
	}
	return service.Upload{
		Filename:    fh.Filename,
		ContentType: contentTypeOf(fh),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

func sniffPart(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	ct, _, err := storage.SniffImage(f)
	return ct, err
}
