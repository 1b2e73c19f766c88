package sessions

import (
	"net/http"
	"time"

	"horse-treatment-records/internal/middleware"
	"horse-treatment-records/internal/platform/httpjson"
	"horse-treatment-records/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /auth. Login y el selector de cuentas son públicos.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(ar chi.Router) {
		ar.Post("/login", loginHandler(svc))
		ar.Get("/accounts", accountsHandler(svc))

		ar.Group(func(pr chi.Router) {
			pr.Use(middleware.RequireAuth)
			pr.Get("/me", meHandler())
			pr.Post("/logout", logoutHandler(svc))
		})
	})
}

type identityResponse struct {
	Role string `json:"role"`
	ID   string `json:"id"`
	Name string `json:"name"`
}

type loginResponse struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Identity  identityResponse `json:"identity"`
}

// loginHandler godoc
// @Summary Log in with a PIN
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginInput true "Credentials"
// @Success 200 {object} loginResponse
// @Failure 401 {object} httpjson.ErrorBody
// @Failure 404 {object} httpjson.ErrorBody
// @Router /auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in LoginInput
		if err := httpjson.Decode(r, &in); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		res, err := svc.Login(r.Context(), in)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, loginResponse{
			Token:     res.Token,
			ExpiresAt: res.ExpiresAt,
			Identity:  toIdentityResponse(res.Identity),
		})
	}
}

func accountsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Accounts(r.Context(), auth.Role(r.URL.Query().Get("role")))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		if items == nil {
			items = []Account{}
		}
		httpjson.Write(w, http.StatusOK, items)
	}
}

func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, _ := middleware.GetIdentity(r.Context())
		httpjson.Write(w, http.StatusOK, toIdentityResponse(who))
	}
}

func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, _ := middleware.GetToken(r.Context())
		if err := svc.Logout(r.Context(), token); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toIdentityResponse(who auth.Identity) identityResponse {
	return identityResponse{Role: string(who.Role), ID: who.ID, Name: who.Name}
}
