package admin

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ludorg/gamenight/internal/dependencies/mocks"
	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/services/auth"
	"github.com/ludorg/gamenight/internal/services/events"
	"github.com/ludorg/gamenight/internal/services/roles"
	"github.com/ludorg/gamenight/internal/services/visibility"
	"github.com/ludorg/gamenight/internal/storage/memory"
	"github.com/ludorg/gamenight/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage     *memory.Storage
	clock       *mocks.MockClock
	authService *auth.Service
	service     *Service
	ctx         context.Context

	admin  *model.Principal
	admin2 *model.Principal
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	random := mocks.NewMockRandom()
	logger := testutil.NopLogger()
	rolePolicy := roles.New()
	visibilityPolicy := visibility.New(rolePolicy)
	eventController := events.NewController(s.storage, visibilityPolicy, rolePolicy, s.clock, random, logger)
	s.authService = auth.New(s.storage, s.clock, auth.DefaultConfig())
	s.service = New(s.storage, rolePolicy, eventController, s.authService, logger)
	s.ctx = context.Background()

	s.admin = s.savePrincipal("u_admin", "Admin", model.RoleAdmin)
	s.admin2 = s.savePrincipal("u_admin2", "Admin Two", model.RoleAdmin)
}

func (s *ServiceSuite) savePrincipal(id, name string, role model.Role) *model.Principal {
	p := &model.Principal{
		ID:          model.PrincipalID(id),
		DisplayName: name,
		Role:        role,
		Badges:      []string{},
		CreatedAt:   s.clock.Now(),
	}
	s.Require().NoError(s.storage.SavePrincipal(s.ctx, p))
	s.clock.Advance(time.Minute)
	return p
}

// ListUsers tests

func (s *ServiceSuite) TestListUsersNewestFirst() {
	s.savePrincipal("u_new", "Newest", model.RolePending)

	users, err := s.service.ListUsers(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Require().Len(users, 3)
	s.Equal(model.PrincipalID("u_new"), users[0].ID)
}

func (s *ServiceSuite) TestListUsersForbiddenForMember() {
	member := s.savePrincipal("u_member", "Member", model.RoleMember)

	_, err := s.service.ListUsers(s.ctx, member)
	s.ErrorIs(err, model.ErrForbidden)
}

// Entity listing tests

func (s *ServiceSuite) TestListEventsSurfacesArchivedEvents() {
	archivedAt := s.clock.Now()
	s.Require().NoError(s.storage.SaveEvent(s.ctx, &model.Event{
		ID: "evt_old", Title: "Old Night", Location: "Hall",
		Date:     s.clock.Now().Add(-30 * 24 * time.Hour),
		Archived: true, ArchivedAt: &archivedAt,
		CreatorID: s.admin.ID,
	}))
	s.Require().NoError(s.storage.SaveEvent(s.ctx, &model.Event{
		ID: "evt_live", Title: "Live Night", Location: "Hall",
		Date:      s.clock.Now().Add(24 * time.Hour),
		CreatorID: s.admin.ID,
	}))

	views, err := s.service.ListEvents(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Require().Len(views, 2)

	// Date-ascending, so the archived event comes first and stays reachable
	s.Equal(model.EventID("evt_old"), views[0].ID)
	s.True(views[0].Archived)
	s.Equal(model.EventID("evt_live"), views[1].ID)
}

func (s *ServiceSuite) TestListEventsForbiddenForMember() {
	member := s.savePrincipal("u_member", "Member", model.RoleMember)

	_, err := s.service.ListEvents(s.ctx, member)
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ServiceSuite) TestListTablesSpansEvents() {
	s.Require().NoError(s.storage.SaveEvent(s.ctx, &model.Event{ID: "evt_1", Title: "A", Location: "Hall", Date: s.clock.Now()}))
	s.Require().NoError(s.storage.SaveEvent(s.ctx, &model.Event{ID: "evt_2", Title: "B", Location: "Hall", Date: s.clock.Now()}))

	s.Require().NoError(s.storage.SaveTable(s.ctx, &model.Table{ID: "tbl_1", EventID: "evt_1", GameName: "Catan", MaxPlayers: 4, CreatedAt: s.clock.Now()}))
	s.clock.Advance(time.Minute)
	s.Require().NoError(s.storage.SaveTable(s.ctx, &model.Table{ID: "tbl_2", EventID: "evt_2", GameName: "Azul", MaxPlayers: 4, CreatedAt: s.clock.Now()}))

	tables, err := s.service.ListTables(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Require().Len(tables, 2)
	s.Equal(model.TableID("tbl_2"), tables[0].ID)
}

func (s *ServiceSuite) TestListTablesForbiddenForMember() {
	member := s.savePrincipal("u_member", "Member", model.RoleMember)

	_, err := s.service.ListTables(s.ctx, member)
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ServiceSuite) TestListGameListsSpansEvents() {
	s.Require().NoError(s.storage.SaveEvent(s.ctx, &model.Event{ID: "evt_1", Title: "A", Location: "Hall", Date: s.clock.Now()}))
	s.Require().NoError(s.storage.SaveEvent(s.ctx, &model.Event{ID: "evt_2", Title: "B", Location: "Hall", Date: s.clock.Now()}))

	s.Require().NoError(s.storage.SaveGameList(s.ctx, &model.GameList{ID: "lst_1", EventID: "evt_1", Games: []model.GameEntry{{Name: "Root"}}, CreatedAt: s.clock.Now()}))
	s.Require().NoError(s.storage.SaveGameList(s.ctx, &model.GameList{ID: "lst_2", EventID: "evt_2", Games: []model.GameEntry{{Name: "Azul"}}, CreatedAt: s.clock.Now()}))

	lists, err := s.service.ListGameLists(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Len(lists, 2)
}

func (s *ServiceSuite) TestListGameListsForbiddenForMember() {
	member := s.savePrincipal("u_member", "Member", model.RoleMember)

	_, err := s.service.ListGameLists(s.ctx, member)
	s.ErrorIs(err, model.ErrForbidden)
}

// Approve tests

func (s *ServiceSuite) TestApprovePendingUser() {
	pending := s.savePrincipal("u_pending", "Pending", model.RolePending)

	approved, err := s.service.Approve(s.ctx, s.admin, pending.ID)
	s.Require().NoError(err)
	s.Equal(model.RoleMember, approved.Role)
}

func (s *ServiceSuite) TestApproveAlreadyMemberFails() {
	member := s.savePrincipal("u_member", "Member", model.RoleMember)

	_, err := s.service.Approve(s.ctx, s.admin, member.ID)
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ServiceSuite) TestApproveByMemberForbidden() {
	member := s.savePrincipal("u_member", "Member", model.RoleMember)
	pending := s.savePrincipal("u_pending", "Pending", model.RolePending)

	_, err := s.service.Approve(s.ctx, member, pending.ID)
	s.ErrorIs(err, model.ErrForbidden)
}

// SetRole tests

func (s *ServiceSuite) TestPromoteMemberToAdmin() {
	member := s.savePrincipal("u_member", "Member", model.RoleMember)

	updated, err := s.service.SetRole(s.ctx, s.admin, member.ID, model.RoleAdmin)
	s.Require().NoError(err)
	s.Equal(model.RoleAdmin, updated.Role)
}

func (s *ServiceSuite) TestDemoteOtherAdmin() {
	updated, err := s.service.SetRole(s.ctx, s.admin, s.admin2.ID, model.RoleMember)
	s.Require().NoError(err)
	s.Equal(model.RoleMember, updated.Role)
}

func (s *ServiceSuite) TestCannotChangeOwnRole() {
	_, err := s.service.SetRole(s.ctx, s.admin, s.admin.ID, model.RoleMember)
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ServiceSuite) TestSetRoleRejectsUnknownRole() {
	member := s.savePrincipal("u_member", "Member", model.RoleMember)

	_, err := s.service.SetRole(s.ctx, s.admin, member.ID, "superuser")
	s.ErrorIs(err, model.ErrValidation)
}

func (s *ServiceSuite) TestSetRoleTargetNotFound() {
	_, err := s.service.SetRole(s.ctx, s.admin, "u_missing", model.RoleMember)
	s.ErrorIs(err, model.ErrPrincipalNotFound)
}

// SetBadges tests

func (s *ServiceSuite) TestSetBadgesReplacesAndDedupes() {
	member := s.savePrincipal("u_member", "Member", model.RoleMember)

	updated, err := s.service.SetBadges(s.ctx, s.admin, member.ID,
		[]string{model.BadgeVeteran, model.BadgeVIP, model.BadgeVeteran, ""})
	s.Require().NoError(err)
	s.Equal([]string{model.BadgeVeteran, model.BadgeVIP}, updated.Badges)

	cleared, err := s.service.SetBadges(s.ctx, s.admin, member.ID, nil)
	s.Require().NoError(err)
	s.Empty(cleared.Badges)
}

func (s *ServiceSuite) TestSetBadgesForbiddenForMember() {
	member := s.savePrincipal("u_member", "Member", model.RoleMember)

	_, err := s.service.SetBadges(s.ctx, member, member.ID, []string{model.BadgeVIP})
	s.ErrorIs(err, model.ErrForbidden)
}

// DeleteUser tests

func (s *ServiceSuite) TestDeleteUserCascades() {
	session, err := s.authService.Register(s.ctx, "target", "secret123", "Target")
	s.Require().NoError(err)
	targetID := session.PrincipalID

	// Promote so the target can create an event, then create one with a table
	_, err = s.service.Approve(s.ctx, s.admin, targetID)
	s.Require().NoError(err)
	target, err := s.storage.GetPrincipal(s.ctx, targetID)
	s.Require().NoError(err)

	event := &model.Event{ID: "evt_1", Title: "Night", Location: "Hall", Date: s.clock.Now(), CreatorID: target.ID}
	s.Require().NoError(s.storage.SaveEvent(s.ctx, event))
	table := &model.Table{ID: "tbl_1", EventID: event.ID, HostID: target.ID, GameName: "Catan", MaxPlayers: 4}
	s.Require().NoError(s.storage.SaveTable(s.ctx, table))

	err = s.service.DeleteUser(s.ctx, s.admin, targetID)
	s.Require().NoError(err)

	_, err = s.storage.GetPrincipal(s.ctx, targetID)
	s.ErrorIs(err, model.ErrPrincipalNotFound)
	_, err = s.storage.GetCredentialByUsername(s.ctx, "target")
	s.ErrorIs(err, model.ErrPrincipalNotFound)
	_, err = s.storage.GetEvent(s.ctx, event.ID)
	s.ErrorIs(err, model.ErrEventNotFound)
	_, err = s.storage.GetTable(s.ctx, table.ID)
	s.ErrorIs(err, model.ErrTableNotFound)
	_, err = s.authService.ValidateSession(session.Token)
	s.ErrorIs(err, auth.ErrInvalidSession)
}

func (s *ServiceSuite) TestDeleteUserCannotDeleteSelf() {
	err := s.service.DeleteUser(s.ctx, s.admin, s.admin.ID)
	s.ErrorIs(err, model.ErrValidation)
}

func (s *ServiceSuite) TestDeleteUserForbiddenForMember() {
	member := s.savePrincipal("u_member", "Member", model.RoleMember)

	err := s.service.DeleteUser(s.ctx, member, s.admin.ID)
	s.ErrorIs(err, model.ErrForbidden)
}

func (s *ServiceSuite) TestDeleteUserNotFound() {
	err := s.service.DeleteUser(s.ctx, s.admin, "u_missing")
	s.ErrorIs(err, model.ErrPrincipalNotFound)
}

// GetStats tests

func (s *ServiceSuite) TestGetStats() {
	event := &model.Event{ID: "evt_1", Title: "Night", Location: "Hall", Date: s.clock.Now(), CreatorID: s.admin.ID}
	s.Require().NoError(s.storage.SaveEvent(s.ctx, event))
	s.Require().NoError(s.storage.SaveTable(s.ctx, &model.Table{ID: "tbl_1", EventID: event.ID, MaxPlayers: 4}))
	s.Require().NoError(s.storage.SaveTable(s.ctx, &model.Table{ID: "tbl_2", EventID: event.ID, MaxPlayers: 4}))
	s.Require().NoError(s.storage.SaveGameList(s.ctx, &model.GameList{ID: "lst_1", EventID: event.ID, Games: []model.GameEntry{{Name: "Azul"}}}))

	stats, err := s.service.GetStats(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Equal(2, stats.Users)
	s.Equal(1, stats.Events)
	s.Equal(2, stats.Tables)
	s.Equal(1, stats.GameLists)
}

func (s *ServiceSuite) TestGetStatsForbiddenForMember() {
	member := s.savePrincipal("u_member", "Member", model.RoleMember)

	_, err := s.service.GetStats(s.ctx, member)
	s.ErrorIs(err, model.ErrForbidden)
}
