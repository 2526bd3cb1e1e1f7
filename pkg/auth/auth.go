package auth

import (
	"context"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

const (
	RoleUser  = "user"
	RoleStaff = "staff"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrEmptySecret  = errors.New("JWT_SECRET is empty")
)

type Config struct {
	Secret string        `envconfig:"JWT_SECRET" required:"true"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

// Validate rejects a blank signing key; envconfig only checks that the variable is set.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Secret) == "" {
		return ErrEmptySecret
	}
	return nil
}

// User is the requester of the current call. The zero value is the anonymous user.
type User struct {
	ID       int64
	Username string
	IsStaff  bool
}

func (u User) IsAuthenticated() bool {
	return u.ID != 0
}

func (u User) Role() string {
	if u.IsStaff {
		return RoleStaff
	}
	return RoleUser
}

type Claims struct {
	Profile struct {
		UserID   int64  `json:"user_id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	} `json:"profile"`
	jwt.RegisteredClaims
}

type Tokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokens(cfg Config) *Tokens {
	return &Tokens{
		key: []byte(cfg.Secret),
		ttl: cfg.TTL,
		now: time.Now,
	}
}

func (t *Tokens) Issue(u User) (string, time.Time, error) {
	expiresAt := t.now().Add(t.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.Username,
			IssuedAt:  jwt.NewNumericDate(t.now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	claims.Profile.UserID = u.ID
	claims.Profile.Username = u.Username
	claims.Profile.Role = u.Role()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return signed, expiresAt, nil
}

func (t *Tokens) Parse(tokenStr string) (User, error) {
	claims := new(Claims)
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return t.key, nil
	})
	if err != nil || !token.Valid {
		return User{}, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !t.now().Before(claims.ExpiresAt.Time) {
		return User{}, ErrTokenExpired
	}
	if claims.Profile.UserID == 0 {
		return User{}, ErrInvalidToken
	}
	return User{
		ID:       claims.Profile.UserID,
		Username: claims.Profile.Username,
		IsStaff:  claims.Profile.Role == RoleStaff,
	}, nil
}

type ctxKey struct{}

func SetUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, ctxKey{}, u)
}

// FromContext returns the anonymous user when nothing was set.
func FromContext(ctx context.Context) User {
	u, _ := ctx.Value(ctxKey{}).(User)
	return u
}
