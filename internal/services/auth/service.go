package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Hike-12/BharatAI/internal/dependencies/clock"
	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/storage"
)

// Errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("token malformed")
	ErrUnknownUser        = errors.New("token subject unknown")
	ErrInvalidRole        = errors.New("invalid role")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidEmail       = errors.New("invalid email")
)

const minPasswordLength = 8

// dummyHash is compared against when the account does not exist, so the
// missing-account path costs the same as a wrong-password path.
var dummyHash = func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("timing-equalizer"), bcrypt.DefaultCost)
	return h
}()

// Session is the result of a successful signup or login
type Session struct {
	Token     string
	User      *model.User
	ExpiresAt time.Time
}

// Service handles accounts and stateless JWT sessions.
// Tokens carry only the user ID; every verification re-resolves the user
// from storage. There is no server-side revocation; logout is the client
// discarding its token.
type Service struct {
	storage storage.Storage
	clock   clock.Clock

	tokenSecret   []byte
	tokenDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	// TokenSecret signs session tokens (HS256). Required in production.
	TokenSecret string
	// TokenDuration is the session lifetime
	TokenDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		TokenDuration: time.Hour,
	}
}

// New creates a new auth service
func New(storage storage.Storage, clock clock.Clock, cfg Config) *Service {
	if cfg.TokenDuration == 0 {
		cfg.TokenDuration = DefaultConfig().TokenDuration
	}
	return &Service{
		storage:       storage,
		clock:         clock,
		tokenSecret:   []byte(cfg.TokenSecret),
		tokenDuration: cfg.TokenDuration,
	}
}

// Signup creates an account and opens a session
func (s *Service) Signup(ctx context.Context, email, password, name string, role model.Role) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, ErrWeakPassword
	}
	if !role.Valid() {
		return nil, ErrInvalidRole
	}

	// Check if email is taken
	_, err := s.storage.GetUserByEmail(ctx, email)
	if err == nil {
		return nil, model.ErrEmailExists
	}
	if !errors.Is(err, model.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	user := &model.User{
		ID:           model.UserID(uuid.NewString()),
		Email:        email,
		Name:         name,
		Role:         role,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveUser(ctx, user); err != nil {
		return nil, err
	}

	return s.createSession(user)
}

// Login authenticates by email and password and opens a session
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Deleted() {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.createSession(user)
}

// ChangePassword replaces the account secret after verifying the current one.
// This is the only path that mutates the password hash.
func (s *Service) ChangePassword(ctx context.Context, userID model.UserID, currentPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return ErrWeakPassword
	}

	user, err := s.storage.GetUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hash)
	user.UpdatedAt = s.clock.Now()
	return s.storage.SaveUser(ctx, user)
}

// VerifyToken validates a session token and re-resolves its user.
// A token whose subject no longer resolves to an active account fails with
// ErrUnknownUser even if the signature and expiry are fine.
func (s *Service) VerifyToken(ctx context.Context, tokenString string) (*model.User, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenMalformed
		}
		return s.tokenSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenMalformed
	}

	user, err := s.storage.GetUser(ctx, model.UserID(claims.Subject))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, err
	}
	if user.Deleted() {
		return nil, ErrUnknownUser
	}
	return user, nil
}

// createSession issues a signed token for the user
func (s *Service) createSession(user *model.User) (*Session, error) {
	now := s.clock.Now()
	expiresAt := now.Add(s.tokenDuration)

	claims := jwt.RegisteredClaims{
		Subject:   string(user.ID),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.tokenSecret)
	if err != nil {
		return nil, err
	}

	return &Session{
		Token:     token,
		User:      user,
		ExpiresAt: expiresAt,
	}, nil
}
