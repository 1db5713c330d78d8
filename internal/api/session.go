package api

import (
	"errors"
	"net/http"

	"quickcart-be/internal/auth"
	"quickcart-be/internal/logger"
	"quickcart-be/internal/user"
	"quickcart-be/internal/utils"

	"go.uber.org/zap"
)

// startSession issues the session cookie for u.
func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, u *user.User) error {
	token, err := h.Tokens.Issue(u.Email, string(u.Role))
	if err != nil {
		return err
	}
	auth.SetSessionCookie(w, token, h.Tokens.TTL(), h.Production)

	logger.FromCtx(r.Context()).Info("session started",
		zap.String("email", u.Email),
		zap.String("role", string(u.Role)),
	)
	return nil
}

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var in user.SignupInput
	if err := decodeJSON(w, r, &in); err != nil {
		handleError(w, r, err)
		return
	}

	u, err := h.Users.Register(r.Context(), in)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, u)
}

type verifyRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	if err := h.Users.VerifyEmail(r.Context(), req.Email, req.Token); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"success": true})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	u, err := h.Users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.startSession(w, r, u); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, u)
}

type firebaseRequest struct {
	IDToken string `json:"idToken"`
}

func (h *Handler) FirebaseSignIn(w http.ResponseWriter, r *http.Request) {
	var req firebaseRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	id, err := h.Identity.Verify(r.Context(), req.IDToken)
	if err != nil {
		handleError(w, r, err)
		return
	}

	u, err := h.Users.SignInWithProvider(r.Context(), user.ProviderIdentity{
		Email:    id.Email,
		Name:     id.Name,
		PhotoURL: id.PhotoURL,
	})
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.startSession(w, r, u); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, u)
}

type mintRequest struct {
	Email string `json:"email"`
}

// MintSession trusts the client's claim of an identity. Only for development setups.
func (h *Handler) MintSession(w http.ResponseWriter, r *http.Request) {
	if !h.TrustClientIdentity {
		writeError(w, r, http.StatusNotFound, errNotFound.Error())
		return
	}

	var req mintRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	u, err := h.Users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, user.ErrUserNotFound) {
		handleError(w, r, errUnauthorized)
		return
	}
	if err != nil {
		handleError(w, r, err)
		return
	}
	if err := h.startSession(w, r, u); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.Production)
	if email := utils.GetUserEmailFromContext(r.Context()); email != "" {
		logger.FromCtx(r.Context()).Info("session ended", zap.String("email", email))
	}
	writeJSON(w, r, http.StatusOK, map[string]bool{"success": true})
}
