package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultIssuer = "tutorapp"

var ErrInvalidToken = errors.New("invalid or expired token")

// Claims carries the tutor id as the JWT subject.
type Claims struct {
	jwt.RegisteredClaims
}

type Authorizer interface {
	// ResolveTutor validates a bearer token and returns the tutor it belongs to.
	ResolveTutor(ctx context.Context, token string) (string, error)
	IssueToken(tutorID string, ttl time.Duration) (string, error)
}

type jwtAuthorizer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewAuthorizer(secret, issuer string) (Authorizer, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}
	if issuer == "" {
		issuer = DefaultIssuer
	}
	return &jwtAuthorizer{
		secret: []byte(secret),
		issuer: issuer,
		now:    time.Now,
	}, nil
}

func (a *jwtAuthorizer) IssueToken(tutorID string, ttl time.Duration) (string, error) {
	if tutorID == "" {
		return "", fmt.Errorf("tutor id is empty")
	}
	now := a.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    a.issuer,
			Subject:   tutorID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (a *jwtAuthorizer) ResolveTutor(_ context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(a.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

type tutorKey struct{}

func WithTutor(ctx context.Context, tutorID string) context.Context {
	return context.WithValue(ctx, tutorKey{}, tutorID)
}

// TutorFromContext returns the authenticated tutor set by the auth middleware.
func TutorFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(tutorKey{}).(string)
	return id, ok && id != ""
}
