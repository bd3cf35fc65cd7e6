package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Hike-12/BharatAI/internal/dependencies/mocks"
	"github.com/Hike-12/BharatAI/internal/model"
	"github.com/Hike-12/BharatAI/internal/storage/memory"
)

type AuthServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.storage = memory.New()
	// Token validity is checked against real time by the JWT library, so the
	// mock clock starts at the real now and expiry tests shift it backwards.
	s.clock = mocks.NewMockClock(time.Now())
	s.service = New(s.storage, s.clock, Config{
		TokenSecret:   "test-secret",
		TokenDuration: time.Hour,
	})
	s.ctx = context.Background()
}

func (s *AuthServiceSuite) signup(email string, role model.Role) *Session {
	session, err := s.service.Signup(s.ctx, email, "password123", "Test User", role)
	s.Require().NoError(err)
	return session
}

// Signup tests

func (s *AuthServiceSuite) TestSignup() {
	session := s.signup("alice@example.com", model.RoleStudent)

	s.NotEmpty(session.Token)
	s.Equal("alice@example.com", session.User.Email)
	s.Equal(model.RoleStudent, session.User.Role)
	s.NotEqual("password123", session.User.PasswordHash)
}

func (s *AuthServiceSuite) TestSignupNormalizesEmail() {
	session := s.signup(" Alice@Example.COM ", model.RoleStudent)
	s.Equal("alice@example.com", session.User.Email)
}

func (s *AuthServiceSuite) TestSignupDuplicateEmail() {
	s.signup("alice@example.com", model.RoleStudent)

	_, err := s.service.Signup(s.ctx, "alice@example.com", "password123", "Other", model.RoleStudent)
	s.ErrorIs(err, model.ErrEmailExists)
}

func (s *AuthServiceSuite) TestSignupInvalidRole() {
	_, err := s.service.Signup(s.ctx, "alice@example.com", "password123", "Alice", "admin")
	s.ErrorIs(err, ErrInvalidRole)
}

func (s *AuthServiceSuite) TestSignupWeakPassword() {
	_, err := s.service.Signup(s.ctx, "alice@example.com", "short", "Alice", model.RoleStudent)
	s.ErrorIs(err, ErrWeakPassword)
}

func (s *AuthServiceSuite) TestSignupInvalidEmail() {
	_, err := s.service.Signup(s.ctx, "not-an-email", "password123", "Alice", model.RoleStudent)
	s.ErrorIs(err, ErrInvalidEmail)
}

// Login tests

func (s *AuthServiceSuite) TestLogin() {
	s.signup("alice@example.com", model.RoleTeacher)

	session, err := s.service.Login(s.ctx, "alice@example.com", "password123")
	s.Require().NoError(err)
	s.NotEmpty(session.Token)
	s.Equal(model.RoleTeacher, session.User.Role)
}

func (s *AuthServiceSuite) TestLoginWrongPassword() {
	s.signup("alice@example.com", model.RoleStudent)

	_, err := s.service.Login(s.ctx, "alice@example.com", "wrong-password")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceSuite) TestLoginUnknownEmail() {
	_, err := s.service.Login(s.ctx, "nobody@example.com", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceSuite) TestLoginDeletedUser() {
	session := s.signup("alice@example.com", model.RoleStudent)

	now := s.clock.Now()
	session.User.DeletedAt = &now
	s.Require().NoError(s.storage.SaveUser(s.ctx, session.User))

	_, err := s.service.Login(s.ctx, "alice@example.com", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Change password tests

func (s *AuthServiceSuite) TestChangePassword() {
	session := s.signup("alice@example.com", model.RoleStudent)

	err := s.service.ChangePassword(s.ctx, session.User.ID, "password123", "new-password-456")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "alice@example.com", "password123")
	s.ErrorIs(err, ErrInvalidCredentials)

	_, err = s.service.Login(s.ctx, "alice@example.com", "new-password-456")
	s.NoError(err)
}

func (s *AuthServiceSuite) TestChangePasswordWrongCurrent() {
	session := s.signup("alice@example.com", model.RoleStudent)

	err := s.service.ChangePassword(s.ctx, session.User.ID, "wrong", "new-password-456")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Token verification tests

func (s *AuthServiceSuite) TestVerifyToken() {
	session := s.signup("alice@example.com", model.RoleStudent)

	user, err := s.service.VerifyToken(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(session.User.ID, user.ID)
}

func (s *AuthServiceSuite) TestVerifyTokenMalformed() {
	_, err := s.service.VerifyToken(s.ctx, "not-a-token")
	s.ErrorIs(err, ErrTokenMalformed)
}

func (s *AuthServiceSuite) TestVerifyTokenWrongSecret() {
	other := New(s.storage, s.clock, Config{TokenSecret: "other-secret", TokenDuration: time.Hour})
	session := s.signup("alice@example.com", model.RoleStudent)

	_, err := other.VerifyToken(s.ctx, session.Token)
	s.ErrorIs(err, ErrTokenMalformed)
}

func (s *AuthServiceSuite) TestVerifyTokenDeletedUser() {
	session := s.signup("alice@example.com", model.RoleStudent)

	now := s.clock.Now()
	session.User.DeletedAt = &now
	s.Require().NoError(s.storage.SaveUser(s.ctx, session.User))

	_, err := s.service.VerifyToken(s.ctx, session.Token)
	s.ErrorIs(err, ErrUnknownUser)
}

func (s *AuthServiceSuite) TestTokenValidJustBeforeExpiry() {
	// Issued 59 minutes ago with a 1 hour lifetime
	s.clock.Set(time.Now().Add(-59 * time.Minute))
	session := s.signup("alice@example.com", model.RoleStudent)

	_, err := s.service.VerifyToken(s.ctx, session.Token)
	s.NoError(err)
}

func (s *AuthServiceSuite) TestTokenExpiredJustAfterExpiry() {
	// Issued 61 minutes ago with a 1 hour lifetime
	s.clock.Set(time.Now().Add(-61 * time.Minute))
	session := s.signup("alice@example.com", model.RoleStudent)

	_, err := s.service.VerifyToken(s.ctx, session.Token)
	s.ErrorIs(err, ErrTokenExpired)
}
