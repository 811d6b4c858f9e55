package http

import (
	"io"
	"log/slog"
	"net/http"

	"storefront/internal/authz"
	"storefront/internal/domain"
	"storefront/internal/dto"
	"storefront/internal/httpx"
	"storefront/internal/storage"

	"github.com/go-chi/chi/v5"
)

// claims is only called behind authz.Authenticate.
func claims(r *http.Request) domain.Claims {
	c, _ := authz.ClaimsFromContext(r.Context())
	return c
}

func (h *handler) currentUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.GetCurrentUser(r.Context(), claims(r).ID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewUserResponse(u))
}

func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewUserList(users))
}

func (h *handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	u, err := h.users.Update(r.Context(), claims(r).ID, req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewUserResponse(u))
}

func (h *handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.users.Delete(r.Context(), id, claims(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *handler) uploadProfileImage(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, 1) {
		return
	}
	files := formFiles(r, "user-image")
	if len(files) == 0 {
		httpx.WriteStatus(w, http.StatusBadRequest, "No image provided")
		return
	}
	if err := checkImage(files[0]); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	upload, f, err := openUpload(files[0])
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	defer f.Close()

	u, err := h.users.SetProfileImage(r.Context(), claims(r).ID, upload)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, dto.NewUserResponse(u))
}

func (h *handler) removeProfileImage(w http.ResponseWriter, r *http.Request) {
	u, err := h.users.RemoveProfileImage(r.Context(), claims(r).ID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, dto.NewUserResponse(u))
}

func (h *handler) profileImage(w http.ResponseWriter, r *http.Request) {
	rc, ct, err := h.users.OpenProfileImage(r.Context(), chi.URLParam(r, "image"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	streamImage(w, r, rc, ct)
}

func streamImage(w http.ResponseWriter, r *http.Request, rc io.ReadCloser, contentType string) {
	defer rc.Close()
	if !storage.IsImageContentType(contentType) {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("image stream interrupted", "path", r.URL.Path, "error", err)
	}
}
