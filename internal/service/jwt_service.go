package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"auth-api/internal/domain"
)

const (
	DefaultTokenTTL    = 2 * time.Minute
	DefaultTokenLeeway = 5 * time.Second
	defaultIssuer      = "auth-api"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// TokenExpiredError indica un token con firma válida pero vencido.
type TokenExpiredError struct {
	ExpiredAt time.Time
}

func (e *TokenExpiredError) Error() string {
	if e.ExpiredAt.IsZero() {
		return ErrTokenExpired.Error()
	}
	return ErrTokenExpired.Error() + " at " + e.ExpiredAt.UTC().Format(time.RFC3339)
}

func (e *TokenExpiredError) Unwrap() error { return ErrTokenExpired }

// Claims es el payload firmado: sub (id de usuario), email y exp.
type Claims struct {
	Email  string `json:"email"`
	UserID int64  `json:"-"`
	jwt.RegisteredClaims
}

// JWTService emite y valida tokens de acceso HS256 de vida corta, sin refresh.
type JWTService struct {
	secret []byte
	ttl    time.Duration
	leeway time.Duration
	issuer string
	now    func() time.Time
}

// JWTOption ajusta un JWTService.
type JWTOption func(*JWTService)

func WithIssuer(issuer string) JWTOption {
	return func(s *JWTService) {
		if strings.TrimSpace(issuer) != "" {
			s.issuer = strings.TrimSpace(issuer)
		}
	}
}

func WithLeeway(leeway time.Duration) JWTOption {
	return func(s *JWTService) {
		if leeway >= 0 {
			s.leeway = leeway
		}
	}
}

// WithClock fija la fuente de tiempo; usado en tests.
func WithClock(now func() time.Time) JWTOption {
	return func(s *JWTService) {
		if now != nil {
			s.now = now
		}
	}
}

func NewJWTService(secret string, ttl time.Duration, opts ...JWTOption) *JWTService {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	svc := &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
		leeway: DefaultTokenLeeway,
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// TTL devuelve la vida útil de los tokens emitidos.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

func (s *JWTService) Issue(user domain.User) (string, error) {
	if len(s.secret) == 0 || user.ID <= 0 {
		return "", ErrTokenInvalid
	}
	now := s.now().UTC()
	claims := Claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifica firma, algoritmo y expiración. Cualquier fallo que no sea la
// expiración colapsa en ErrTokenInvalid.
func (s *JWTService) Parse(tokenString string) (Claims, error) {
	if len(s.secret) == 0 {
		return Claims{}, ErrTokenInvalid
	}
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return Claims{}, ErrTokenInvalid
	}

	var claims Claims
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(s.leeway),
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			expired := &TokenExpiredError{}
			if claims.ExpiresAt != nil {
				expired.ExpiredAt = claims.ExpiresAt.Time.UTC()
			}
			return Claims{}, expired
		}
		return Claims{}, ErrTokenInvalid
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return Claims{}, ErrTokenInvalid
	}
	claims.UserID = id
	return claims, nil
}
