package bracket

import "time"

type TournamentStatus string

const (
	StatusNotStarted TournamentStatus = "PorIniciar"
	StatusInProgress TournamentStatus = "EnProgreso"
	StatusFinished   TournamentStatus = "Terminado"
	StatusCancelled  TournamentStatus = "Cancelado"
)

func (s TournamentStatus) Valid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses accept no further changes.
func (s TournamentStatus) Terminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

type Tournament struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Slug        string           `json:"slug"`
	Description *string          `json:"description,omitempty"`
	Sport       string           `json:"sport"`
	Category    string           `json:"category"`
	CreatorID   string           `json:"creator_id"`
	AccessKey   string           `json:"access_key"`
	Status      TournamentStatus `json:"status"`
	Bracket     Bracket          `json:"bracket"`

	// Version is bumped by the store on every successful save.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
