package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mager/melodiary/config"
	"go.uber.org/zap"
)

const (
	issuer   = "melodiary"
	tokenTTL = 30 * 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid session token")
	ErrNoSession    = errors.New("no session")
)

type ctxKey struct{}

// Issuer creates and verifies anonymous session tokens.
type Issuer struct {
	secret []byte
	log    *zap.SugaredLogger
	now    func() time.Time
}

func NewIssuer(log *zap.SugaredLogger, secret string) *Issuer {
	return &Issuer{secret: []byte(secret), log: log, now: time.Now}
}

// ProvideIssuer provides the session issuer. Without a configured secret a
// random one is generated, so sessions do not survive a restart.
func ProvideIssuer(log *zap.SugaredLogger, cfg config.Config) *Issuer {
	secret := cfg.SessionSecret
	if !config.Classify(secret).Usable() {
		log.Warnw("session secret not configured, using an ephemeral secret")
		secret = uuid.NewString() + uuid.NewString()
	}
	return NewIssuer(log, secret)
}

// Session is an issued anonymous identity.
type Session struct {
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Issue starts a session for a new anonymous user.
func (i *Issuer) Issue() (Session, error) {
	now := i.now()
	userID := uuid.NewString()
	expires := now.Add(tokenTTL)

	claims := jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign session: %w", err)
	}

	return Session{UserID: userID, Token: token, ExpiresAt: expires.Truncate(time.Second)}, nil
}

// Verify returns the user id of a valid token.
func (i *Issuer) Verify(token string) (string, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// Middleware attaches the user id of a valid bearer token to the request
// context. Requests without a valid token pass through anonymous; handlers
// that need a user call UserID.
func (i *Issuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := i.Verify(token)
		if err != nil {
			i.log.Debugw("rejected session token", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, userID)
}

// UserID returns the session user of ctx.
func UserID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || id == "" {
		return "", ErrNoSession
	}
	return id, nil
}

var Options = ProvideIssuer
