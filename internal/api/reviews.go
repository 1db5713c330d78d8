package api

import (
	"net/http"

	"quickcart-be/internal/review"
)

func (h *Handler) LatestReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.Latest(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, reviews)
}

func (h *Handler) ProductReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.Reviews.ListByProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, reviews)
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var in review.CreateInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	rv, err := h.Reviews.Create(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, rv)
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var in review.UpdateInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	rv, err := h.Reviews.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rv)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.Reviews.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"deletedCount": 1})
}
