package room

import "time"

// Room is a named container of participants. Participants are kept in join order.
type Room struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	CreatedAt    time.Time     `json:"created_at"`
	Participants []Participant `json:"participants"`
}

// Participant is a named member of exactly one room.
type Participant struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	JoinedAt time.Time `json:"joined_at"`
}

// Member is the {id, name} projection of a participant sent in snapshots.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Summary is the read-only listing entry for a room.
type Summary struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	MemberCount int       `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

// Members returns the ordered member projection of the room.
func (r Room) Members() []Member {
	members := make([]Member, 0, len(r.Participants))
	for _, p := range r.Participants {
		members = append(members, p.Member())
	}
	return members
}

// Summary returns the listing entry for the room.
func (r Room) Summary() Summary {
	return Summary{
		ID:          r.ID,
		Name:        r.Name,
		MemberCount: len(r.Participants),
		CreatedAt:   r.CreatedAt,
	}
}

// Member returns the snapshot projection of the participant.
func (p Participant) Member() Member {
	return Member{ID: p.ID, Name: p.Name}
}
