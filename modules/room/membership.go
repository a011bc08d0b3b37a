package room

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	domain "github.com/jstihl01/pokervitoria/domain/room"
)

// Notifier is told about registry mutations after they commit.
// Implementations must not block and must not call back into the Membership.
type Notifier interface {
	RoomCreated(room domain.Room)
	RoomDeleted(roomID string)
	PlayerJoined(roomID string, player domain.Participant)
	PlayerLeft(roomID, playerID string)
}

type nopNotifier struct{}

func (nopNotifier) RoomCreated(domain.Room)                {}
func (nopNotifier) RoomDeleted(string)                     {}
func (nopNotifier) PlayerJoined(string, domain.Participant) {}
func (nopNotifier) PlayerLeft(string, string)              {}

// Notifiers fans each notification out to every notifier in order.
type Notifiers []Notifier

func (ns Notifiers) RoomCreated(room domain.Room) {
	for _, n := range ns {
		n.RoomCreated(room)
	}
}

func (ns Notifiers) RoomDeleted(roomID string) {
	for _, n := range ns {
		n.RoomDeleted(roomID)
	}
}

func (ns Notifiers) PlayerJoined(roomID string, player domain.Participant) {
	for _, n := range ns {
		n.PlayerJoined(roomID, player)
	}
}

func (ns Notifiers) PlayerLeft(roomID, playerID string) {
	for _, n := range ns {
		n.PlayerLeft(roomID, playerID)
	}
}

// NotifierFuncs adapts callbacks to a Notifier. Nil callbacks are skipped.
type NotifierFuncs struct {
	OnRoomCreated  func(room domain.Room)
	OnRoomDeleted  func(roomID string)
	OnPlayerJoined func(roomID string, player domain.Participant)
	OnPlayerLeft   func(roomID, playerID string)
}

func (f NotifierFuncs) RoomCreated(room domain.Room) {
	if f.OnRoomCreated != nil {
		f.OnRoomCreated(room)
	}
}

func (f NotifierFuncs) RoomDeleted(roomID string) {
	if f.OnRoomDeleted != nil {
		f.OnRoomDeleted(roomID)
	}
}

func (f NotifierFuncs) PlayerJoined(roomID string, player domain.Participant) {
	if f.OnPlayerJoined != nil {
		f.OnPlayerJoined(roomID, player)
	}
}

func (f NotifierFuncs) PlayerLeft(roomID, playerID string) {
	if f.OnPlayerLeft != nil {
		f.OnPlayerLeft(roomID, playerID)
	}
}

// Membership applies the validation and uniqueness rules for rooms and their
// participants. It is the only writer of the Registry.
type Membership struct {
	registry *Registry
	notifier Notifier
	newID    func() string
	now      func() time.Time
}

// NewMembership creates a membership service over the registry.
// A nil notifier disables notifications.
func NewMembership(registry *Registry, notifier Notifier) *Membership {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &Membership{
		registry: registry,
		notifier: notifier,
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Registry returns the underlying registry.
func (s *Membership) Registry() *Registry {
	return s.registry
}

// CreateRoom creates a room.
func (s *Membership) CreateRoom(name string) (domain.Room, error) {
	room, err := s.registry.Create(name)
	if err != nil {
		return domain.Room{}, err
	}
	s.notifier.RoomCreated(room)
	return room, nil
}

// GetRoom returns the room with the given ID.
func (s *Membership) GetRoom(roomID string) (domain.Room, error) {
	room, ok := s.registry.Get(roomID)
	if !ok {
		return domain.Room{}, ErrRoomNotFound
	}
	return room, nil
}

// DeleteRoom deletes a room and reports whether it existed.
func (s *Membership) DeleteRoom(roomID string) bool {
	if !s.registry.Delete(roomID) {
		return false
	}
	s.notifier.RoomDeleted(roomID)
	return true
}

// ListRooms returns summaries of all rooms.
func (s *Membership) ListRooms() []domain.Summary {
	return s.registry.List()
}

// Members returns the ordered member list of a room.
func (s *Membership) Members(roomID string) ([]domain.Member, error) {
	room, ok := s.registry.Get(roomID)
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room.Members(), nil
}

// Admit adds a participant named rawName to the room.
//
// The name is validated before the room is looked up, so a malformed name on a
// missing room reports ErrValidation. The uniqueness scan and the append run
// under the same registry lock.
func (s *Membership) Admit(roomID, rawName string) (domain.Participant, error) {
	_, player, err := s.AdmitWithSummary(roomID, rawName)
	return player, err
}

// AdmitWithSummary is Admit, also returning the room summary as of the admit.
func (s *Membership) AdmitWithSummary(roomID, rawName string) (domain.Summary, domain.Participant, error) {
	name, err := NormalizePlayerName(rawName)
	if err != nil {
		return domain.Summary{}, domain.Participant{}, err
	}

	var (
		player  domain.Participant
		summary domain.Summary
	)
	err = s.registry.mutate(roomID, func(room *domain.Room) error {
		// Linear scan; rooms are lobby sized.
		for _, p := range room.Participants {
			if strings.EqualFold(p.Name, name) {
				return ErrNameTaken
			}
		}
		player = domain.Participant{
			ID:       s.newID(),
			Name:     name,
			JoinedAt: s.now(),
		}
		room.Participants = append(room.Participants, player)
		summary = room.Summary()
		return nil
	})
	if err != nil {
		return domain.Summary{}, domain.Participant{}, err
	}

	s.notifier.PlayerJoined(roomID, player)
	return summary, player, nil
}

// Remove deletes a participant from a room. It reports whether a member was
// actually removed; unknown rooms and participants are a silent no-op.
func (s *Membership) Remove(roomID, participantID string) bool {
	removed := false
	_ = s.registry.mutate(roomID, func(room *domain.Room) error {
		before := len(room.Participants)
		room.Participants = slices.DeleteFunc(room.Participants, func(p domain.Participant) bool {
			return p.ID == participantID
		})
		removed = len(room.Participants) < before
		return nil
	})

	if removed {
		s.notifier.PlayerLeft(roomID, participantID)
	}
	return removed
}
