package http

import (
	"net/http"

	"storefront/internal/dto"
	"storefront/internal/httpx"
)

func (h *handler) listProducts(w http.ResponseWriter, r *http.Request) {
	minPrice, ok := queryFloat(w, r, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := queryFloat(w, r, "maxPrice")
	if !ok {
		return
	}
	products, err := h.products.List(r.Context(), dto.ProductFilter{
		Title:    r.URL.Query().Get("title"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
	})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (h *handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.products.Create(r.Context(), req, claims(r).ID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, p)
}

func (h *handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.products.Update(r.Context(), id, req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (h *handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.products.Delete(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}

func (h *handler) createReview(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	res, err := h.reviews.Create(r.Context(), productID, claims(r).ID, req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, res)
}

func (h *handler) listReviews(w http.ResponseWriter, r *http.Request) {
	page, ok := queryInt(w, r, "pageNumber", dto.DefaultPageNumber)
	if !ok {
		return
	}
	perPage, ok := queryInt(w, r, "reviewsPerPage", dto.DefaultReviewsPerPage)
	if !ok {
		return
	}
	reviews, err := h.reviews.List(r.Context(), dto.Pagination{PageNumber: page, ReviewsPerPage: perPage})
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, reviews)
}

func (h *handler) getReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	rev, err := h.reviews.Get(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rev)
}

func (h *handler) updateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req dto.UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rev, err := h.reviews.Update(r.Context(), id, claims(r), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rev)
}

func (h *handler) deleteReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	res, err := h.reviews.Delete(r.Context(), id, claims(r))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, res)
}
