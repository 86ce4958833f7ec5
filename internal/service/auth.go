package service

import (
	"context"
	"math/rand/v2"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/umaimaes/AgroTrace-MS/internal/domain"
	internal_errors "github.com/umaimaes/AgroTrace-MS/internal/errors"
	"github.com/umaimaes/AgroTrace-MS/internal/logger"
	"github.com/umaimaes/AgroTrace-MS/internal/notify"
	"github.com/umaimaes/AgroTrace-MS/internal/token"
)

type AuthService interface {
	Register(reg domain.Registration) bool
	Login(email domain.Email, password string) (*domain.Session, error)
	Logout(tokenString string) error
	SendResetCode(email domain.Email) (string, notify.Delivery, error)
	VerifyResetCode(email domain.Email, code string) bool
	ResetPassword(code, newPassword string) bool
	LastSession() *domain.Session
	Users() ([]domain.User, error)
}

// Storage is the persistence surface the auth service depends on: the user
// table plus the reset-code ledger.
type Storage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	User(email domain.Email) (domain.User, error)
	UpdatePassword(email domain.Email, passHash string) error
	Users() ([]domain.User, error)

	SaveResetCode(email domain.Email, code string, expires time.Time) error
	ResetCode(email domain.Email, code string) (domain.ResetCode, error)
	ResetCodeByCode(code string) (domain.ResetCode, error)
	DeleteResetCodes(email domain.Email) error
}

type Tokens interface {
	Issue(user domain.User) (string, error)
	Verify(tokenString string) (*token.Claims, error)
}

var validate = validator.New(validator.WithRequiredStructEnabled())

type Auth struct {
	storage  Storage
	notifier notify.Notifier
	tokens   Tokens
	revoked  *token.Registry
	resetTTL time.Duration

	// Single most-recently-issued session, process-wide. Last writer wins
	// under concurrent logins and the slot is visible to unrelated requests.
	mu          sync.Mutex
	lastSession *domain.Session
}

func NewAuth(storage Storage, notifier notify.Notifier, tokens Tokens, revoked *token.Registry, resetTTL time.Duration) *Auth {
	return &Auth{
		storage:  storage,
		notifier: notifier,
		tokens:   tokens,
		revoked:  revoked,
		resetTTL: resetTTL,
	}
}

// Register creates a user account. All registration fields are required and
// the email must be unused. Expected failures (missing fields, duplicate
// email) and store faults alike report false; nothing panics.
func (a *Auth) Register(reg domain.Registration) bool {
	if err := validate.Struct(reg); err != nil {
		return false
	}

	_, err := a.storage.User(reg.Email)
	if err == nil {
		// Existing record stays untouched.
		return false
	}
	if internal_errors.StatusCode(err, http.StatusInternalServerError) != http.StatusNotFound {
		logger.Log.Error("register: user lookup failed", "error", err)
		return false
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return false
	}

	user := domain.User{
		FirstName: reg.FirstName,
		LastName:  reg.LastName,
		Email:     reg.Email,
		Phone:     reg.Phone,
		PassHash:  string(passHash),
	}
	if _, err := a.storage.SaveUser(user); err != nil {
		logger.Log.Error("failed to save user", "email", reg.Email, "error", err)
		return false
	}
	return true
}

// Login checks credentials and issues a bearer token. An unknown email and
// a wrong password are indistinguishable to the caller. The resulting
// session also becomes the process-wide last session.
func (a *Auth) Login(email domain.Email, password string) (*domain.Session, error) {
	unauthorized := &internal_errors.ErrorWithStatusCode{Message: "Invalid credentials", StatusCode: http.StatusUnauthorized}

	user, err := a.storage.User(email)
	if err != nil {
		if internal_errors.StatusCode(err, http.StatusInternalServerError) != http.StatusNotFound {
			logger.Log.Error("login: user lookup failed", "error", err)
		}
		return nil, unauthorized
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		return nil, unauthorized
	}

	tokenString, err := a.tokens.Issue(user)
	if err != nil {
		logger.Log.Error("failed to issue token", "user_id", user.Id, "error", err)
		return nil, err
	}

	session := &domain.Session{User: user.Info(), Token: tokenString}
	a.mu.Lock()
	a.lastSession = session
	a.mu.Unlock()

	return session, nil
}

// Logout verifies the token (signature intact, not yet revoked) and adds it
// to the revocation registry.
func (a *Auth) Logout(tokenString string) error {
	if a.revoked.IsRevoked(tokenString) {
		return &internal_errors.ErrorWithStatusCode{Message: "Token is revoked", StatusCode: http.StatusBadRequest}
	}
	if _, err := a.tokens.Verify(tokenString); err != nil {
		return err
	}
	a.revoked.Revoke(tokenString)
	return nil
}

// SendResetCode issues a 6-digit reset code for an existing account,
// persists it, and attempts best-effort delivery. The code is returned to
// the caller even when delivery fails; confidentiality of the response body
// is deliberately traded for testability, as in the original service.
func (a *Auth) SendResetCode(email domain.Email) (string, notify.Delivery, error) {
	if _, err := a.storage.User(email); err != nil {
		if internal_errors.StatusCode(err, http.StatusInternalServerError) == http.StatusNotFound {
			return "", notify.Delivery{}, &internal_errors.ErrorWithStatusCode{Message: "User with this email not found.", StatusCode: http.StatusBadRequest}
		}
		logger.Log.Error("send reset code: user lookup failed", "error", err)
		return "", notify.Delivery{}, err
	}

	code := generateResetCode()
	expires := time.Now().UTC().Add(a.resetTTL)
	if err := a.storage.SaveResetCode(email, code, expires); err != nil {
		// The code is still reported to the caller, matching the original
		// flow where persistence and delivery share one best-effort block.
		logger.Log.Error("failed to persist reset code", "email", email, "error", err)
		return code, notify.Delivery{}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	delivery, _ := a.notifier.Send(ctx, email, code)

	return code, delivery, nil
}

// VerifyResetCode reports whether the most recently issued code for the
// email matches and has not expired. Read-only: the code is not consumed.
func (a *Auth) VerifyResetCode(email domain.Email, code string) bool {
	entry, err := a.storage.ResetCode(email, code)
	if err != nil {
		if internal_errors.StatusCode(err, http.StatusInternalServerError) != http.StatusNotFound {
			logger.Log.Error("verify reset code: lookup failed", "error", err)
		}
		return false
	}
	return entry.Expires.After(time.Now())
}

// ResetPassword redeems a code and installs a new password digest.
// Lookup is by code alone, most recent entry first: a 6-digit collision
// across emails inside the expiry window redeems whichever was issued last.
// On success every outstanding code for the matched email is invalidated.
func (a *Auth) ResetPassword(code, newPassword string) bool {
	if newPassword == "" || code == "" {
		return false
	}

	entry, err := a.storage.ResetCodeByCode(code)
	if err != nil {
		if internal_errors.StatusCode(err, http.StatusInternalServerError) != http.StatusNotFound {
			logger.Log.Error("reset password: code lookup failed", "error", err)
		}
		return false
	}
	if !entry.Expires.After(time.Now()) {
		return false
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash new password", "error", err)
		return false
	}

	if err := a.storage.UpdatePassword(entry.Email, string(passHash)); err != nil {
		logger.Log.Error("failed to update password", "email", entry.Email, "error", err)
		return false
	}
	if err := a.storage.DeleteResetCodes(entry.Email); err != nil {
		logger.Log.Error("failed to delete reset codes", "email", entry.Email, "error", err)
		return false
	}
	return true
}

// LastSession returns the most recently issued session, or nil before any
// login.
func (a *Auth) LastSession() *domain.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.lastSession
}

func (a *Auth) Users() ([]domain.User, error) {
	return a.storage.Users()
}

// generateResetCode draws a uniform 6-digit decimal code in [100000, 999999].
func generateResetCode() string {
	return strconv.Itoa(100000 + rand.IntN(900000))
}
