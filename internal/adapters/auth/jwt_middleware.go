package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/harborblog/backend/internal/identity"
)

var (
	ErrMissingToken   = errors.New("missing authentication token")
	ErrInvalidToken   = errors.New("invalid authentication token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrMissingSubject = errors.New("missing subject in token")
)

// Authenticator validates bearer tokens signed with the service's own
// HMAC secret and stores the resulting principal on the request context.
type Authenticator struct {
	secret []byte
	issuer string
}

func NewAuthenticator(secret []byte, issuer string) *Authenticator {
	return &Authenticator{secret: secret, issuer: issuer}
}

// RequireAuth rejects requests without a valid bearer token.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := a.principalFromRequest(r)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), principal)))
	})
}

// OptionalAuth populates the principal when a valid token is present and
// falls back to anonymous otherwise. An invalid token is still rejected:
// a client that sends credentials expects them to be honored.
func (a *Authenticator) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), identity.Anonymous)))
			return
		}

		principal, err := a.principalFromRequest(r)
		if err != nil {
			writeAuthError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(identity.WithPrincipal(r.Context(), principal)))
	})
}

func (a *Authenticator) principalFromRequest(r *http.Request) (identity.Principal, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return identity.Anonymous, ErrMissingToken
	}

	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return identity.Anonymous, ErrInvalidToken
	}

	token, err := jwt.ParseString(
		tokenString,
		jwt.WithKey(jwa.HS256(), a.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(a.issuer),
	)
	if err != nil {
		if strings.Contains(err.Error(), "exp") || strings.Contains(err.Error(), "expired") {
			return identity.Anonymous, ErrTokenExpired
		}
		return identity.Anonymous, ErrInvalidToken
	}

	var subject string
	if err := token.Get("sub", &subject); err != nil || subject == "" {
		return identity.Anonymous, ErrMissingSubject
	}
	return identity.Principal{Name: subject}, nil
}
