package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/hongminglow/lendsqr-admin/internal/auth"
	"github.com/hongminglow/lendsqr-admin/internal/http/respond"
	"github.com/hongminglow/lendsqr-admin/internal/layout"
	"github.com/hongminglow/lendsqr-admin/internal/models/dto"
	"github.com/hongminglow/lendsqr-admin/internal/web"
)

const dashboardPath = "/dashboard"

var errInvalidLogin = errors.New(auth.MsgInvalidLogin)

// AuthHandler owns the login page and the JSON login endpoint. There is no
// credential store: any pair that passes validation signs in.
type AuthHandler struct {
	authn  auth.Authenticator
	tokens *auth.TokenManager
	views  *web.Renderer
	logger *slog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authn auth.Authenticator, tokens *auth.TokenManager, views *web.Renderer, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{authn: authn, tokens: tokens, views: views, logger: logger}
}

// Register attaches auth routes to the router.
func (h *AuthHandler) Register(r *mux.Router) {
	r.HandleFunc("/", h.handleLoginPage).Methods(http.MethodGet)
	r.HandleFunc("/", h.handleLoginSubmit).Methods(http.MethodPost)
	r.HandleFunc("/api/login", h.handleAPILogin).Methods(http.MethodPost)
}

// NotFound is the catch-all route: pages fall back to the login screen and
// API paths get a JSON 404.
func (h *AuthHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		respond.Error(w, http.StatusNotFound, "not found")
		return
	}
	h.handleLoginPage(w, r)
}

func (h *AuthHandler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, web.LoginView{})
}

func (h *AuthHandler) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, web.LoginView{Error: auth.MsgFillAllFields})
		return
	}
	email := r.PostForm.Get("email")
	password := r.PostForm.Get("password")

	if _, err := h.login(r.Context(), w, email, password); err != nil {
		view := web.LoginView{Email: email}
		var vErr *auth.ValidationError
		switch {
		case errors.As(err, &vErr):
			view.Error = vErr.Message
			h.renderLogin(w, r, http.StatusUnprocessableEntity, view)
		default:
			view.Error = auth.MsgInvalidLogin
			h.renderLogin(w, r, http.StatusUnauthorized, view)
		}
		return
	}
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

func (h *AuthHandler) handleAPILogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	token, err := h.login(r.Context(), w, req.Email, req.Password)
	if err != nil {
		var vErr *auth.ValidationError
		switch {
		case errors.As(err, &vErr):
			respond.ErrorWithData(w, http.StatusBadRequest, vErr.Message, dto.ValidationErrorBody{Violations: vErr.Violations})
		case errors.Is(err, errInvalidLogin):
			respond.Error(w, http.StatusUnauthorized, auth.MsgInvalidLogin)
		default:
			respond.Error(w, http.StatusInternalServerError, "failed to start session")
		}
		return
	}
	respond.JSON(w, http.StatusOK, "login successful", dto.LoginResponse{
		Token:    token,
		Email:    req.Email,
		Redirect: dashboardPath,
	})
}

// login validates the pair, waits for the authenticator and re-issues the
// session cookie with the email attached. It returns the signed token.
func (h *AuthHandler) login(ctx context.Context, w http.ResponseWriter, email, password string) (string, error) {
	if err := auth.ValidateLogin(email, password); err != nil {
		return "", err
	}

	h.logger.Info("login attempt", "email", email)
	if err := h.authn.Authenticate(ctx, email, password); err != nil {
		h.logger.Warn("login failed", "email", email, "error", err)
		return "", errInvalidLogin
	}

	session, ok := auth.SessionFrom(ctx)
	if !ok || session.ID == "" {
		session = auth.NewSession()
	}
	session.Email = email
	token, err := h.tokens.WriteCookie(w, session)
	if err != nil {
		h.logger.Error("issue session cookie", "error", err)
		return "", err
	}
	return token, nil
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, view web.LoginView) {
	view.ShowPassword = r.URL.Query().Get("show") == "1"
	if view.ShowPassword {
		view.ToggleURL = "/"
	} else {
		view.ToggleURL = "/?show=1"
	}
	render(w, h.views, h.logger, status, web.PageLogin, view)
}

func render(w http.ResponseWriter, views *web.Renderer, logger *slog.Logger, status int, page string, data any) {
	w.Header().Set("Accept-CH", layout.ViewportHintHeader)
	if err := views.Render(w, status, page, data); err != nil {
		logger.Error("render page", "page", page, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
