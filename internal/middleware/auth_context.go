package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"horse-treatment-records/internal/platform/apperr"
	"horse-treatment-records/internal/platform/httpjson"
	"horse-treatment-records/internal/ports/auth"
)

type ctxKey string

const (
	identityKey ctxKey = "identity"
	tokenKey    ctxKey = "token"
)

// AuthContext resuelve el bearer token en una Identity y la guarda en el contexto.
// Sin token válido la request sigue sin identidad y RequireAuth decide si la ruta lo admite.
// Un fallo del verifier que no sea ErrUnauthorized responde 500.
func AuthContext(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r.Header.Get("Authorization"))
			if token == "" || verifier == nil {
				next.ServeHTTP(w, r)
				return
			}

			who, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, apperr.ErrUnauthorized) {
					next.ServeHTTP(w, r)
					return
				}
				httpjson.Error(w, r, err)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, who)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rechaza con 401 las requests sin sesión válida.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetIdentity(r.Context()); !ok {
			httpjson.Error(w, r, apperr.Unauthorized("missing, invalid or expired token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rechaza con 403 a los autenticados cuyo rol no está en la lista.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			who, ok := GetIdentity(r.Context())
			if !ok {
				httpjson.Error(w, r, apperr.Unauthorized("missing, invalid or expired token"))
				return
			}
			for _, role := range roles {
				if who.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpjson.Error(w, r, apperr.Forbidden("role %s may not perform this action", who.Role))
		})
	}
}

// RequireWriter rechaza con 403 a quien no puede modificar caballos, dueños ni tratamientos.
func RequireWriter(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		who, ok := GetIdentity(r.Context())
		if !ok {
			httpjson.Error(w, r, apperr.Unauthorized("missing, invalid or expired token"))
			return
		}
		if !who.CanWrite() {
			httpjson.Error(w, r, apperr.Forbidden("role %s may not perform this action", who.Role))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	who, ok := ctx.Value(identityKey).(auth.Identity)
	return who, ok
}

// GetToken devuelve el bearer token crudo de una request autenticada.
func GetToken(ctx context.Context) (string, bool) {
	tok, ok := ctx.Value(tokenKey).(string)
	return tok, ok
}

func BearerToken(header string) string {
	parts := strings.SplitN(strings.TrimSpace(header), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
