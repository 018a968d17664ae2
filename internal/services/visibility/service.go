package visibility

import (
	"crypto/subtle"

	"github.com/ludorg/gamenight/internal/model"
	"github.com/ludorg/gamenight/internal/services/roles"
)

// Service is the visibility policy: it decides which fields of an event a
// given viewer may see. The raw gate password never leaves this package;
// callers only ever see the HasPassword flag.
type Service struct {
	roles *roles.Service
}

// New creates a new visibility policy service
func New(rolePolicy *roles.Service) *Service {
	return &Service{roles: rolePolicy}
}

// ProjectEvent returns the viewer-specific projection of an event.
//
// Ungated events project fully; creator metadata is included only for
// authenticated viewers. Gated events project fully for the creator and for
// admins, and collapse to {id, title, hasPassword} for everyone else. The
// date is withheld too, so an outsider learns nothing beyond the event's
// existence.
func (s *Service) ProjectEvent(event *model.Event, viewer *model.Principal) *model.EventView {
	if event.HasPassword() && !s.roles.CanManage(viewer, event.CreatorID) {
		return &model.EventView{
			ID:          event.ID,
			Title:       event.Title,
			HasPassword: true,
		}
	}

	return s.fullProjection(event, viewer)
}

// VerifyPassword checks a candidate against the event's gate password and, on
// success, returns the full projection for this request. No unlocked state is
// persisted; callers cache the grant themselves and resupply it. The viewer
// gets the same creator treatment as ProjectEvent, so an anonymous unlock
// learns no more about the creator than an anonymous read of an open event.
func (s *Service) VerifyPassword(event *model.Event, viewer *model.Principal, candidate string) (*model.EventView, error) {
	if !event.HasPassword() {
		return s.fullProjection(event, viewer), nil
	}

	// The gate secret is a low-stakes shared password, not a credential;
	// it is stored raw and compared in constant time.
	if subtle.ConstantTimeCompare([]byte(event.Password), []byte(candidate)) != 1 {
		return nil, model.ErrWrongPassword
	}

	return s.fullProjection(event, viewer), nil
}

// fullProjection maps every visible field; the secret itself is reduced to a
// flag, and creator metadata is withheld from anonymous viewers
func (s *Service) fullProjection(event *model.Event, viewer *model.Principal) *model.EventView {
	date := event.Date
	view := &model.EventView{
		ID:          event.ID,
		Title:       event.Title,
		Location:    event.Location,
		Date:        &date,
		Description: event.Description,
		CreatorID:   event.CreatorID,
		HasPassword: event.HasPassword(),
		Archived:    event.Archived,
		ArchivedAt:  event.ArchivedAt,
		ShowMap:     event.ShowMap,
	}
	if viewer == nil {
		view.CreatorID = ""
	}
	return view
}
