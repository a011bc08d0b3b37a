package room

import (
	"slices"
	"sync"
	"time"

	nanoid "github.com/jaevor/go-nanoid"

	domain "github.com/jstihl01/pokervitoria/domain/room"
)

// roomIDLength is the length of generated room identifiers.
const roomIDLength = 12

// Registry is the authoritative in-memory table of rooms and their members.
// It holds no I/O and lives from construction until the owning module stops.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*domain.Room
	order []string // room ids in creation order
	newID func() string
	now   func() time.Time
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	gen, err := nanoid.Standard(roomIDLength)
	if err != nil {
		panic("room: nanoid generator: " + err.Error())
	}
	return &Registry{
		rooms: make(map[string]*domain.Room),
		newID: gen,
		now:   time.Now,
	}
}

// Create adds a new room with the given display name.
func (r *Registry) Create(name string) (domain.Room, error) {
	name, err := NormalizeRoomName(name)
	if err != nil {
		return domain.Room{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.newID()
	for r.rooms[id] != nil {
		id = r.newID()
	}

	room := &domain.Room{
		ID:           id,
		Name:         name,
		CreatedAt:    r.now(),
		Participants: make([]domain.Participant, 0),
	}
	r.rooms[id] = room
	r.order = append(r.order, id)
	return copyRoom(room), nil
}

// Get returns a copy of the room with the given ID.
func (r *Registry) Get(id string) (domain.Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[id]
	if !ok {
		return domain.Room{}, false
	}
	return copyRoom(room), true
}

// Delete removes a room. It reports whether a room was actually deleted.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rooms[id]; !ok {
		return false
	}
	delete(r.rooms, id)
	r.order = slices.DeleteFunc(r.order, func(roomID string) bool { return roomID == id })
	return true
}

// List returns summaries of all rooms ordered by creation time.
func (r *Registry) List() []domain.Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Summary, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.rooms[id].Summary())
	}
	return result
}

// Len returns the number of rooms.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// mutate runs fn against the live room record under the write lock.
func (r *Registry) mutate(id string, fn func(room *domain.Room) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	room, ok := r.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}
	return fn(room)
}

func copyRoom(room *domain.Room) domain.Room {
	c := *room
	c.Participants = slices.Clone(room.Participants)
	if c.Participants == nil {
		c.Participants = make([]domain.Participant, 0)
	}
	return c
}
