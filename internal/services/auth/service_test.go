package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ludorg/gamenight/internal/dependencies/mocks"
	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/storage/memory"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, DefaultConfig())
	s.ctx = context.Background()
}

// Register tests

func (s *ServiceSuite) TestRegisterCreatesPendingPrincipal() {
	session, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)
	s.NotEmpty(session.Token)

	principal, err := s.storage.GetPrincipal(s.ctx, session.PrincipalID)
	s.Require().NoError(err)
	s.Equal("Alice", principal.DisplayName)
	s.Equal(model.RolePending, principal.Role)
	s.Empty(principal.Badges)
}

func (s *ServiceSuite) TestRegisterNormalizesUsername() {
	_, err := s.service.Register(s.ctx, "  Alice  ", "secret123", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "alice", "secret123")
	s.NoError(err)
}

func (s *ServiceSuite) TestRegisterRejectsDuplicateUsername() {
	_, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Register(s.ctx, "ALICE", "other1234", "Alice Two")
	s.ErrorIs(err, ErrUsernameExists)
}

func (s *ServiceSuite) TestRegisterLosesRaceForClaimedUsername() {
	// The username is already claimed at the store, as it would be by a
	// concurrent registration landing first; the conditional insert, not a
	// pre-check, must reject this one without writing a principal.
	claimed := &model.Credential{PrincipalID: "u_other", Username: "alice"}
	s.Require().NoError(s.storage.SaveCredentialIfAbsent(s.ctx, claimed))

	_, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.ErrorIs(err, ErrUsernameExists)

	principals, err := s.storage.ListPrincipals(s.ctx)
	s.Require().NoError(err)
	s.Empty(principals)
}

func (s *ServiceSuite) TestRegisterRejectsShortPassword() {
	_, err := s.service.Register(s.ctx, "alice", "abc", "Alice")
	s.ErrorIs(err, model.ErrValidation)
}

func (s *ServiceSuite) TestRegisterRequiresUsernameAndDisplayName() {
	_, err := s.service.Register(s.ctx, "", "secret123", "Alice")
	s.ErrorIs(err, model.ErrValidation)

	_, err = s.service.Register(s.ctx, "alice", "secret123", "  ")
	s.ErrorIs(err, model.ErrValidation)
}

func (s *ServiceSuite) TestRegisterDoesNotStoreRawPassword() {
	session, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	credential, err := s.storage.GetCredentialByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(session.PrincipalID, credential.PrincipalID)
	s.NotEqual("secret123", credential.PasswordHash)
	s.NotEmpty(credential.PasswordHash)
}

// Login tests

func (s *ServiceSuite) TestLoginSucceeds() {
	reg, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	session, err := s.service.Login(s.ctx, "alice", "secret123")
	s.Require().NoError(err)
	s.Equal(reg.PrincipalID, session.PrincipalID)
	s.NotEqual(reg.Token, session.Token)
}

func (s *ServiceSuite) TestLoginWrongPassword() {
	_, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	_, err = s.service.Login(s.ctx, "alice", "wrongpass")
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *ServiceSuite) TestLoginUnknownUsername() {
	_, err := s.service.Login(s.ctx, "nobody", "secret123")
	s.ErrorIs(err, ErrInvalidCredentials)
}

// Session tests

func (s *ServiceSuite) TestValidateSession() {
	session, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	validated, err := s.service.ValidateSession(session.Token)
	s.Require().NoError(err)
	s.Equal(session.PrincipalID, validated.PrincipalID)
}

func (s *ServiceSuite) TestValidateSessionUnknownToken() {
	_, err := s.service.ValidateSession("sess_bogus")
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestSessionExpires() {
	session, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	s.clock.Advance(8 * 24 * time.Hour)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestGetPrincipalSeesLatestRole() {
	session, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	// An admin approves the account; the existing session picks it up
	err = s.storage.UpdatePrincipal(s.ctx, session.PrincipalID, func(p *model.Principal) error {
		p.Role = model.RoleMember
		return nil
	})
	s.Require().NoError(err)

	principal, err := s.service.GetPrincipal(s.ctx, session.Token)
	s.Require().NoError(err)
	s.Equal(model.RoleMember, principal.Role)
}

func (s *ServiceSuite) TestInvalidateSession() {
	session, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	s.service.InvalidateSession(session.Token)

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
}

func (s *ServiceSuite) TestInvalidateSessionsFor() {
	first, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)
	second, err := s.service.Login(s.ctx, "alice", "secret123")
	s.Require().NoError(err)
	other, err := s.service.Register(s.ctx, "bob", "secret123", "Bob")
	s.Require().NoError(err)

	s.service.InvalidateSessionsFor(first.PrincipalID)

	_, err = s.service.ValidateSession(first.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(second.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(other.Token)
	s.NoError(err)
}

func (s *ServiceSuite) TestCleanExpiredSessions() {
	session, err := s.service.Register(s.ctx, "alice", "secret123", "Alice")
	s.Require().NoError(err)

	s.clock.Advance(8 * 24 * time.Hour)
	fresh, err := s.service.Login(s.ctx, "alice", "secret123")
	s.Require().NoError(err)

	s.service.CleanExpiredSessions()

	_, err = s.service.ValidateSession(session.Token)
	s.ErrorIs(err, ErrInvalidSession)
	_, err = s.service.ValidateSession(fresh.Token)
	s.NoError(err)
}
