package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"auth-api/internal/domain"
	"auth-api/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidEmail       = errors.New("invalid email")
	ErrPasswordTooLong    = errors.New("password too long")
)

// UserService coordina registro, login y resolución de tokens.
type UserService struct {
	logger *zap.Logger
	users  repository.UserRepository
	hasher PasswordHasher
	tokens *JWTService
}

func NewUserService(logger *zap.Logger, users repository.UserRepository, hasher PasswordHasher, tokens *JWTService) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hasher == nil {
		hasher = NewBcryptHasher(DefaultBcryptCost)
	}
	return &UserService{
		logger: logger,
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

type SignupInput struct {
	Email    string
	Password string
	Name     *string
}

// Register crea el usuario. La restricción única del almacenamiento es la
// autoridad final ante registros concurrentes con el mismo email.
func (s *UserService) Register(ctx context.Context, input SignupInput) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	email := normalizeEmail(input.Email)
	if email == "" {
		return domain.User{}, ErrInvalidEmail
	}

	_, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return domain.User{}, ErrEmailTaken
	case !errors.Is(err, repository.ErrUserNotFound):
		return domain.User{}, fmt.Errorf("lookup email: %w", err)
	}

	passwordHash, err := s.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return domain.User{}, ErrPasswordTooLong
		}
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: passwordHash,
		Name:         normalizeName(input.Name),
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return user, nil
}

// Authenticate valida email y contraseña. Usuario inexistente y contraseña
// incorrecta devuelven el mismo ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, emailAddr, password string) (domain.User, error) {
	if s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	user, err := s.users.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("lookup email: %w", err)
	}
	if user.PasswordHash == "" {
		return domain.User{}, ErrInvalidCredentials
	}
	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return domain.User{}, fmt.Errorf("verify password for user %d: %w", user.ID, err)
	}
	if !ok {
		return domain.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// ResolveToken valida un bearer token y carga su usuario. Devuelve
// *TokenExpiredError, ErrUnauthorized o un error interno del almacenamiento.
func (s *UserService) ResolveToken(ctx context.Context, token string) (domain.User, error) {
	if s.tokens == nil || s.users == nil {
		return domain.User{}, errors.New("user service not configured")
	}
	if strings.TrimSpace(token) == "" {
		return domain.User{}, ErrUnauthorized
	}

	claims, err := s.tokens.Parse(token)
	if err != nil {
		var expired *TokenExpiredError
		if errors.As(err, &expired) {
			return domain.User{}, expired
		}
		return domain.User{}, ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUnauthorized
		}
		return domain.User{}, fmt.Errorf("lookup token subject: %w", err)
	}
	return user, nil
}

// IssueToken firma un token de acceso para el usuario.
func (s *UserService) IssueToken(user domain.User) (string, error) {
	if s.tokens == nil {
		return "", errors.New("jwt not configured")
	}
	return s.tokens.Issue(user)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
