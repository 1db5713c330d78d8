package api

import (
	"net/http"

	"quickcart-be/internal/order"
)

func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var in order.PlaceInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	placement, err := h.Orders.Place(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, placement)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.Orders.Cancel(r.Context(), r.PathValue("id")); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"deletedCount": 1})
}

func (h *Handler) CustomerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListForCustomer(r.Context(), r.PathValue("email"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, orders)
}

func (h *Handler) SellerOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Orders.ListForSeller(r.Context(), r.PathValue("email"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, orders)
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	o, err := h.Orders.UpdateStatus(r.Context(), r.PathValue("id"), req.Status)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"modifiedCount": 1, "order": o})
}
