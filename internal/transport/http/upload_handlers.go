package http

import (
	"errors"
	"mime/multipart"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/httpx"
	"storefront/internal/storage"

	"github.com/go-chi/chi/v5"
)

func (h *handler) uploadFile(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, 1) {
		return
	}
	files := formFiles(r, "file")
	if len(files) == 0 {
		httpx.WriteStatus(w, http.StatusBadRequest, "No file provided")
		return
	}
	names, err := h.storeUploads(r, files[:1])
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, dto.UploadResponse{Message: "File uploaded successfully", Files: names})
}

func (h *handler) uploadFiles(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, maxFilesPerUpload) {
		return
	}
	files := formFiles(r, "files")
	if len(files) == 0 {
		httpx.WriteStatus(w, http.StatusBadRequest, "No files provided")
		return
	}
	if len(files) > maxFilesPerUpload {
		httpx.WriteStatus(w, http.StatusBadRequest, "too many files")
		return
	}
	names, err := h.storeUploads(r, files)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, dto.UploadResponse{Message: "Files uploaded successfully", Files: names})
}

// storeUploads validates every part, including its sniffed type, before
// saving any of them.
func (h *handler) storeUploads(r *http.Request, files []*multipart.FileHeader) ([]string, error) {
	types := make([]string, len(files))
	for i, fh := range files {
		if err := checkImage(fh); err != nil {
			return nil, err
		}
		ct, err := sniffPart(fh)
		if err != nil {
			return nil, err
		}
		types[i] = ct
	}
	names := make([]string, 0, len(files))
	for i, fh := range files {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		name := storage.NewObjectName(types[i])
		err = h.uploads.Save(r.Context(), name, types[i], f)
		f.Close()
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func (h *handler) serveUpload(w http.ResponseWriter, r *http.Request) {
	rc, ct, err := h.uploads.Open(r.Context(), chi.URLParam(r, "image"))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			err = domain.ErrImageNotFound
		}
		httpx.WriteError(w, r, err)
		return
	}
	streamImage(w, r, rc, ct)
}
