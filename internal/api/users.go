package api

import (
	"net/http"

	"quickcart-be/internal/user"
	"quickcart-be/internal/utils"
)

// EnsureUser records a user right after sign-up. Existing users come back unchanged with 200.
func (h *Handler) EnsureUser(w http.ResponseWriter, r *http.Request) {
	var in user.ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	pathEmail := user.NormalizeEmail(r.PathValue("email"))
	if in.Email == "" {
		in.Email = pathEmail
	}
	if user.NormalizeEmail(in.Email) != pathEmail {
		handleError(w, r, errBadRequest)
		return
	}

	u, created, err := h.Users.EnsureUser(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, r, status, u)
}

func (h *Handler) RequestSeller(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.RequestSeller(r.Context(), r.PathValue("email")); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"modifiedCount": 1})
}

type profileRequest struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoUrl"`
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	u, err := h.Users.UpdateProfile(r.Context(), req.Name, req.PhotoURL)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, u)
}

func (h *Handler) GetRole(w http.ResponseWriter, r *http.Request) {
	role, err := h.Users.GetRole(r.Context(), r.PathValue("email"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"role": string(role)})
}

type roleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := h.Users.UpdateRole(r.Context(), r.PathValue("email"), req.Role); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]int{"modifiedCount": 1})
}

// ListUsers lists everyone but the admin asking.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	exclude := r.PathValue("email")
	if exclude == "" {
		exclude = utils.GetUserEmailFromContext(r.Context())
	}

	users, err := h.Users.ListUsers(r.Context(), exclude)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, users)
}
