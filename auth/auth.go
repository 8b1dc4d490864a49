// Package auth signs dashboard admins in and out.
package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"shoestore/apperr"
	"shoestore/globals"
	"shoestore/models"
	"shoestore/utils"
)

const bcryptCost = 10

type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, a *models.Admin) error
}

type Handler struct {
	store  AdminStore
	secret []byte
	secure bool
	now    func() time.Time
}

// NewHandler builds the login handlers. secure marks the auth cookie
// Secure, which browsers only honour over HTTPS.
func NewHandler(store AdminStore, secret []byte, secure bool) *Handler {
	return &Handler{store: store, secret: secret, secure: secure, now: time.Now}
}

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(b), err
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var req loginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := utils.ValidateStruct(req); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	admin, err := h.store.FindByEmail(ctx, req.Email)
	if apperr.Is(err, apperr.KindNotFound) {
		utils.RespondWithErr(w, r, apperr.Unauthorized(apperr.MsgBadCredentials))
		return
	}
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		zap.L().Info("admin login rejected", zap.String("email", req.Email))
		utils.RespondWithErr(w, r, apperr.Unauthorized(apperr.MsgBadCredentials))
		return
	}

	now := h.now()
	token, err := IssueToken(h.secret, admin.ID, admin.Email, now)
	if err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     globals.AuthCookie,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(TokenTTL),
		MaxAge:   int(TokenTTL / time.Second),
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	zap.L().Info("admin logged in", zap.String("admin_id", admin.ID))
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true, "email": admin.Email})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	http.SetCookie(w, &http.Cookie{
		Name:     globals.AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Session reports whether the request carries a valid admin cookie.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	claims, err := h.Verify(r)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"email":         claims.Email,
		"expiresAt":     claims.ExpiresAt.Time,
	})
}

// Verify reads and validates the auth cookie.
func (h *Handler) Verify(r *http.Request) (*Claims, error) {
	return VerifyRequest(h.secret, r)
}

func VerifyRequest(secret []byte, r *http.Request) (*Claims, error) {
	c, err := r.Cookie(globals.AuthCookie)
	if err != nil {
		return nil, apperr.Unauthorized(apperr.MsgUnauthorized)
	}
	claims, err := ParseToken(secret, c.Value)
	if err != nil {
		return nil, apperr.Unauthorized(apperr.MsgUnauthorized)
	}
	return claims, nil
}

// SeedAdmin creates the first admin when email and password are set and no
// admin with that email exists yet.
func SeedAdmin(ctx context.Context, store AdminStore, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}

	_, err := store.FindByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	err = store.Create(ctx, &models.Admin{Email: email, PasswordHash: hash, CreatedAt: time.Now()})
	if apperr.Is(err, apperr.KindConflict) {
		return nil
	}
	if err == nil {
		zap.L().Info("seeded dashboard admin", zap.String("email", email))
	}
	return err
}
