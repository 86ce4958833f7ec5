package handler

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/umaimaes/AgroTrace-MS/internal/domain"
	internal_errors "github.com/umaimaes/AgroTrace-MS/internal/errors"
	"github.com/umaimaes/AgroTrace-MS/internal/logger"
)

// Register creates an account. The response is a bare boolean: validation
// failures and duplicate emails answer 200 false, never an error status.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)
	reg := domain.Registration{
		FirstName: p.Get("firstname"),
		LastName:  p.Get("lastname"),
		Email:     p.Get("email"),
		Phone:     p.Get("phone"),
		Password:  p.Get("password"),
	}
	writeJSON(w, h.auth.Register(reg))
}

// Login answers 200 with the session payload, or 401 with a JSON null.
// The null body on failure is part of the wire contract.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)

	session, err := h.auth.Login(p.Get("email"), p.Get("password"))
	if err != nil {
		writeJSONStatus(w, internal_errors.StatusCode(err, http.StatusUnauthorized), nil)
		return
	}
	writeJSON(w, session)
}

// Logout revokes the bearer token. Any failure (missing header, bad
// signature, already revoked) answers 400 false.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenString, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !found || tokenString == "" {
		writeJSONStatus(w, http.StatusBadRequest, false)
		return
	}
	if err := h.auth.Logout(tokenString); err != nil {
		writeJSONStatus(w, http.StatusBadRequest, false)
		return
	}
	writeJSON(w, true)
}

type sendCodeResponse struct {
	Success         bool    `json:"success"`
	Code            string  `json:"code"`
	Sent            bool    `json:"sent"`
	EmailPreviewURL *string `json:"emailPreviewUrl"`
	Message         string  `json:"message"`
}

// SendResetCode issues and delivers a password reset code. An unknown email
// answers 400 with a plain-text message. The success payload carries the
// code itself so callers without a mailbox can complete the flow.
func (h *Handler) SendResetCode(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)

	code, delivery, err := h.auth.SendResetCode(p.Get("email"))
	if err != nil {
		http.Error(w, err.Error(), internal_errors.StatusCode(err, http.StatusInternalServerError))
		return
	}

	resp := sendCodeResponse{
		Success: true,
		Code:    code,
		Sent:    delivery.Sent,
		Message: "Code sent",
	}
	if delivery.PreviewURL != "" {
		resp.EmailPreviewURL = &delivery.PreviewURL
	}
	writeJSON(w, resp)
}

// VerifyResetCode checks a code without consuming it.
// GET /user/verification-code/{email}?code=123456
func (h *Handler) VerifyResetCode(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	code := r.URL.Query().Get("code")
	writeJSON(w, h.auth.VerifyResetCode(email, code))
}

// ResetPassword redeems a code for a new password. All outcomes are 200
// with a bare boolean.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	p := parseParams(r)
	writeJSON(w, h.auth.ResetPassword(p.Get("code"), p.Get("password")))
}

// TokenInfo returns the most recently issued session, or null before any
// login. The slot is process-wide and not scoped to the caller.
func (h *Handler) TokenInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.auth.LastSession())
}

type debugUser struct {
	Id        domain.UserId `json:"id"`
	FirstName string        `json:"firstname"`
	LastName  string        `json:"lastname"`
	Email     domain.Email  `json:"email"`
	Phone     string        `json:"tel"`
}

// DebugUsers lists registered accounts without password digests.
// A store fault answers an empty list.
func (h *Handler) DebugUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.Users()
	if err != nil {
		logger.Log.Error("failed to list users", "error", err)
		writeJSON(w, []debugUser{})
		return
	}

	out := make([]debugUser, 0, len(users))
	for _, u := range users {
		out = append(out, debugUser{
			Id:        u.Id,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Phone:     u.Phone,
		})
	}
	writeJSON(w, out)
}
