package bracket

type Match struct {
	// Empty until both slots are known.
	Participants []Participant `json:"participants"`
	Completed    bool          `json:"completed"`
}

// Winner returns the winning participant of a completed match.
func (m *Match) Winner() (Participant, bool) {
	if !m.Completed {
		return Participant{}, false
	}
	for _, p := range m.Participants {
		if p.Winner {
			return p, true
		}
	}
	return Participant{}, false
}

// Occupied reports whether both slots have been filled.
func (m *Match) Occupied() bool {
	return len(m.Participants) == 2
}

func (m *Match) HasParticipant(id string) bool {
	for _, p := range m.Participants {
		if p.ID == id {
			return true
		}
	}
	return false
}

func newMatch(first, second string) Match {
	return Match{
		Participants: []Participant{{ID: first}, {ID: second}},
	}
}
