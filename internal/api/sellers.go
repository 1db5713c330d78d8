package api

import (
	"net/http"

	"quickcart-be/internal/seller"
)

func (h *Handler) ApplySeller(w http.ResponseWriter, r *http.Request) {
	var in seller.ApplyInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	s, err := h.Sellers.Apply(r.Context(), r.PathValue("email"), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, map[string]any{"insertedId": s.ID, "seller": s})
}

func (h *Handler) ListSellers(w http.ResponseWriter, r *http.Request) {
	sellers, err := h.Sellers.List(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, sellers)
}

func (h *Handler) GetSeller(w http.ResponseWriter, r *http.Request) {
	s, err := h.Sellers.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, s)
}

func (h *Handler) DeleteSeller(w http.ResponseWriter, r *http.Request) {
	if err := h.Sellers.Delete(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"deletedCount": 1})
}
