// Package progress exposes a running generation job's live event stream
// over a websocket -- the only genuinely concurrent piece outside the
// single-threaded core (spec.md §5's "optional concurrency at the edges").
// It never touches a *schedule.Schedule; it only relays
// observability.Bus events, already serialised by the orchestrator's
// single goroutine, onto per-client send channels.
//
// Grounded directly in the teacher's internal/infrastructure/websocket
// package: Hub/Client/Authenticator split exactly as
// hub.go/client.go/auth.go, generalised from per-workflow/per-execution
// subscriptions to per-job subscriptions.
package progress

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing authentication token")
	ErrInvalidToken = errors.New("invalid authentication token")
	ErrExpiredToken = errors.New("token has expired")
)

// Authenticator extracts and validates a viewer's identity from an
// incoming websocket upgrade request.
type Authenticator interface {
	Authenticate(r *http.Request) (viewerID string, err error)
}

// JWTAuth implements Authenticator using HMAC-signed JWTs, exactly the
// teacher's JWTAuth.
type JWTAuth struct {
	secretKey string
}

func NewJWTAuth(secretKey string) *JWTAuth {
	return &JWTAuth{secretKey: secretKey}
}

// Authenticate tries the Authorization header, then the "token" query
// parameter, then the Sec-WebSocket-Protocol header -- the same three
// sources the teacher's JWTAuth tries, in the same order, since browser
// websocket clients cannot set arbitrary headers.
func (a *JWTAuth) Authenticate(r *http.Request) (string, error) {
	if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		return a.validateToken(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if token := r.URL.Query().Get("token"); token != "" {
		return a.validateToken(token)
	}
	if protocols := r.Header.Get("Sec-WebSocket-Protocol"); protocols != "" {
		for _, p := range strings.Split(protocols, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "auth-") {
				return a.validateToken(strings.TrimPrefix(p, "auth-"))
			}
		}
	}
	return "", ErrMissingToken
}

// ViewerClaims is the JWT payload a progress-stream token carries.
type ViewerClaims struct {
	ViewerID string `json:"viewer_id"`
	jwt.RegisteredClaims
}

func (a *JWTAuth) validateToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &ViewerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(a.secretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	claims, ok := token.Claims.(*ViewerClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	viewerID := claims.ViewerID
	if viewerID == "" {
		viewerID = claims.Subject
	}
	if viewerID == "" {
		return "", ErrInvalidToken
	}
	return viewerID, nil
}

// GenerateToken issues a token for viewerID, for test setup and for an
// adapter that mints tokens ahead of handing a URL to a dashboard client.
func (a *JWTAuth) GenerateToken(viewerID string, expiresAt time.Time) (string, error) {
	claims := ViewerClaims{
		ViewerID: viewerID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   viewerID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(a.secretKey))
}

// NoAuth allows every connection, for local/dev use.
type NoAuth struct{}

func NewNoAuth() *NoAuth { return &NoAuth{} }

func (NoAuth) Authenticate(r *http.Request) (string, error) {
	if v := r.URL.Query().Get("viewer_id"); v != "" {
		return v, nil
	}
	return "anonymous", nil
}
