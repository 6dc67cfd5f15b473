package users

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"medtrack/internal/middleware"
	"medtrack/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, issuer auth.TokenIssuer) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/signup", signUpHandler(svc, issuer))
		ar.Post("/login", loginHandler(svc, issuer))
	})

	r.Get("/me", meHandler(svc))
}

type signUpRequest struct {
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// signUpHandler godoc
// @Summary Crear cuenta
// @Description Registra un usuario nuevo y devuelve un token de sesión.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body signUpRequest true "Datos de la cuenta"
// @Success 201 {object} sessionResponse
// @Failure 400 {string} string "invalid json / campos faltantes"
// @Failure 409 {string} string "email already registered"
// @Router /auth/signup [post]
func signUpHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req signUpRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.SignUp(r.Context(), SignUpInput{
			FirstName: req.FirstName,
			Email:     req.Email,
			Password:  req.Password,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrEmailTaken):
				http.Error(w, err.Error(), http.StatusConflict)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "first_name, email and password are required", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		token, err := issueToken(issuer, u)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, sessionResponse{
			Token: token,
			User:  toUserResponse(u),
		})
	}
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Description Valida credenciales y devuelve un token de sesión.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} sessionResponse
// @Failure 401 {string} string "bad credentials"
// @Router /auth/login [post]
func loginHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		u, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			http.Error(w, "bad credentials", http.StatusUnauthorized)
			return
		}

		token, err := issueToken(issuer, u)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, sessionResponse{
			Token: token,
			User:  toUserResponse(u),
		})
	}
}

// meHandler godoc
// @Summary Usuario actual
// @Tags auth
// @Produce json
// @Success 200 {object} userResponse
// @Failure 401 {string} string "unauthorized"
// @Router /me [get]
func meHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		u, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			// En modo dev el user puede no existir en el repo; devolvemos lo que sabemos.
			writeJSON(w, http.StatusOK, userResponse{
				ID:        claims.UserID,
				FirstName: claims.FirstName,
				Email:     claims.Email,
			})
			return
		}

		writeJSON(w, http.StatusOK, toUserResponse(u))
	}
}

// issueToken tolera issuer nil (modo dev): devuelve token vacío.
func issueToken(issuer auth.TokenIssuer, u User) (string, error) {
	if issuer == nil {
		return "", nil
	}
	return issuer.Issue(u.ID, u.Email, u.FirstName)
}

func toUserResponse(u User) userResponse {
	return userResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
