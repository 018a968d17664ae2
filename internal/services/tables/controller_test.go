package tables

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ludorg/gamenight/internal/dependencies/mocks"
	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/services/roles"
	"github.com/ludorg/gamenight/internal/storage/memory"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context

	host    *model.Principal
	member  *model.Principal
	pending *model.Principal
	admin   *model.Principal
	eventID model.EventID
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, roles.New(), s.clock, s.random)
	s.ctx = context.Background()

	s.host = &model.Principal{ID: "u_host", DisplayName: "Host", Role: model.RoleMember}
	s.member = &model.Principal{ID: "u_member", DisplayName: "Member", Role: model.RoleMember}
	s.pending = &model.Principal{ID: "u_pending", DisplayName: "Pending", Role: model.RolePending}
	s.admin = &model.Principal{ID: "u_admin", DisplayName: "Admin", Role: model.RoleAdmin}

	s.eventID = "evt_1"
	event := &model.Event{
		ID:        s.eventID,
		Title:     "Game Night",
		Location:  "Hall",
		Date:      s.clock.Now().Add(24 * time.Hour),
		CreatorID: s.host.ID,
	}
	s.Require().NoError(s.storage.SaveEvent(s.ctx, event))
}

func (s *ControllerSuite) validFields() model.TableFields {
	return model.TableFields{
		GameName:   "Catan",
		MinPlayers: 3,
		MaxPlayers: 4,
	}
}

func (s *ControllerSuite) createTable(fields model.TableFields) *model.Table {
	table, err := s.controller.Create(s.ctx, s.host, s.eventID, fields)
	s.Require().NoError(err)
	return table
}

// Create tests

func (s *ControllerSuite) TestCreateAutoEnrollsHost() {
	s.random.QueueString("abc123def456")

	table := s.createTable(s.validFields())

	s.Equal(model.TableID("tbl_abc123def456"), table.ID)
	s.Equal(s.host.ID, table.HostID)
	s.Require().Len(table.RegisteredPlayers, 1)
	s.Equal(s.host.ID, table.RegisteredPlayers[0].ID)
	s.Equal("Host", table.RegisteredPlayers[0].Name)
}

func (s *ControllerSuite) TestCreateRequiresGameName() {
	fields := s.validFields()
	fields.GameName = "   "

	_, err := s.controller.Create(s.ctx, s.host, s.eventID, fields)
	s.ErrorIs(err, model.ErrValidation)
}

func (s *ControllerSuite) TestCreateRequiresSaneCapacity() {
	fields := s.validFields()
	fields.MinPlayers = 0
	_, err := s.controller.Create(s.ctx, s.host, s.eventID, fields)
	s.ErrorIs(err, model.ErrValidation)

	fields = s.validFields()
	fields.MaxPlayers = 2
	fields.MinPlayers = 3
	_, err = s.controller.Create(s.ctx, s.host, s.eventID, fields)
	s.ErrorIs(err, model.ErrValidation)
}

func (s *ControllerSuite) TestCreateRequiresExistingEvent() {
	_, err := s.controller.Create(s.ctx, s.host, "evt_missing", s.validFields())
	s.ErrorIs(err, model.ErrEventNotFound)
}

func (s *ControllerSuite) TestPendingCannotCreate() {
	_, err := s.controller.Create(s.ctx, s.pending, s.eventID, s.validFields())
	s.ErrorIs(err, model.ErrForbidden)
}

// Join tests

func (s *ControllerSuite) TestJoinTakesASeat() {
	table := s.createTable(s.validFields())

	updated, err := s.controller.Join(s.ctx, s.member, table.ID)
	s.Require().NoError(err)
	s.Len(updated.RegisteredPlayers, 2)
	s.NotNil(updated.GetPlayer(s.member.ID))
}

func (s *ControllerSuite) TestJoinTwiceFails() {
	table := s.createTable(s.validFields())

	_, err := s.controller.Join(s.ctx, s.member, table.ID)
	s.Require().NoError(err)

	_, err = s.controller.Join(s.ctx, s.member, table.ID)
	s.ErrorIs(err, model.ErrAlreadyRegistered)
}

func (s *ControllerSuite) TestJoinFullTableFails() {
	fields := s.validFields()
	fields.MinPlayers = 1
	fields.MaxPlayers = 2
	table := s.createTable(fields)

	_, err := s.controller.Join(s.ctx, s.member, table.ID)
	s.Require().NoError(err)

	late := &model.Principal{ID: "u_late", DisplayName: "Late", Role: model.RoleMember}
	_, err = s.controller.Join(s.ctx, late, table.ID)
	s.ErrorIs(err, model.ErrTableFull)
}

func (s *ControllerSuite) TestJoinAfterLeaveReopensSeat() {
	fields := s.validFields()
	fields.MinPlayers = 1
	fields.MaxPlayers = 2
	table := s.createTable(fields)

	_, err := s.controller.Join(s.ctx, s.member, table.ID)
	s.Require().NoError(err)

	_, err = s.controller.Leave(s.ctx, s.member, table.ID)
	s.Require().NoError(err)

	late := &model.Principal{ID: "u_late", DisplayName: "Late", Role: model.RoleMember}
	updated, err := s.controller.Join(s.ctx, late, table.ID)
	s.Require().NoError(err)
	s.True(updated.IsFull())
}

// Concurrent join: exactly the remaining seats are won, never more

func (s *ControllerSuite) TestConcurrentJoinsNeverExceedCapacity() {
	fields := s.validFields()
	fields.MinPlayers = 1
	fields.MaxPlayers = 4
	table := s.createTable(fields) // host takes 1 of 4 seats

	const contenders = 20
	var wg sync.WaitGroup
	results := make(chan error, contenders)

	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			actor := &model.Principal{
				ID:          model.PrincipalID(fmt.Sprintf("u_c%d", n)),
				DisplayName: fmt.Sprintf("C%d", n),
				Role:        model.RoleMember,
			}
			_, err := s.controller.Join(s.ctx, actor, table.ID)
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var wins, fulls int
	for err := range results {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, model.ErrTableFull):
			fulls++
		default:
			s.Failf("unexpected error", "%v", err)
		}
	}

	s.Equal(3, wins)
	s.Equal(contenders-3, fulls)

	final, err := s.controller.Get(s.ctx, table.ID)
	s.Require().NoError(err)
	s.Len(final.RegisteredPlayers, 4)
}

// Leave tests

func (s *ControllerSuite) TestLeaveIsIdempotent() {
	table := s.createTable(s.validFields())

	updated, err := s.controller.Leave(s.ctx, s.member, table.ID)
	s.Require().NoError(err)
	s.Len(updated.RegisteredPlayers, 1)

	updated, err = s.controller.Leave(s.ctx, s.member, table.ID)
	s.Require().NoError(err)
	s.Len(updated.RegisteredPlayers, 1)
}

func (s *ControllerSuite) TestHostLeavingKeepsTable() {
	table := s.createTable(s.validFields())

	updated, err := s.controller.Leave(s.ctx, s.host, table.ID)
	s.Require().NoError(err)
	s.Empty(updated.RegisteredPlayers)

	retrieved, err := s.controller.Get(s.ctx, table.ID)
	s.Require().NoError(err)
	s.Equal(s.host.ID, retrieved.HostID)
}

// Delete tests

func (s *ControllerSuite) TestHostCanDelete() {
	table := s.createTable(s.validFields())

	s.Require().NoError(s.controller.Delete(s.ctx, s.host, table.ID))

	_, err := s.controller.Get(s.ctx, table.ID)
	s.ErrorIs(err, model.ErrTableNotFound)
}

func (s *ControllerSuite) TestAdminCanDelete() {
	table := s.createTable(s.validFields())
	s.NoError(s.controller.Delete(s.ctx, s.admin, table.ID))
}

func (s *ControllerSuite) TestOtherMemberCannotDelete() {
	table := s.createTable(s.validFields())
	s.ErrorIs(s.controller.Delete(s.ctx, s.member, table.ID), model.ErrForbidden)
}

// ListForEvent tests

func (s *ControllerSuite) TestListForEvent() {
	s.createTable(s.validFields())
	fields := s.validFields()
	fields.GameName = "Azul"
	s.createTable(fields)

	tables, err := s.controller.ListForEvent(s.ctx, s.eventID)
	s.Require().NoError(err)
	s.Len(tables, 2)
}
