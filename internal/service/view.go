package service

import (
	"time"

	"github.com/AdamBeresnev/bracket-app/internal/bracket"
)

type BracketView struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	Slug        string                   `json:"slug"`
	Description *string                  `json:"description,omitempty"`
	Sport       string                   `json:"sport"`
	Category    string                   `json:"category"`
	Status      bracket.TournamentStatus `json:"status"`
	IsCreator   bool                     `json:"is_creator"`
	AccessKey   string                   `json:"access_key,omitempty"`
	Rounds      []RoundView              `json:"rounds"`
	Champion    *string                  `json:"champion,omitempty"`
	Version     int                      `json:"version"`
	UpdatedAt   time.Time                `json:"updated_at"`
}

type RoundView struct {
	Name     bracket.RoundName `json:"name"`
	Complete bool              `json:"complete"`
	Matches  []MatchView       `json:"matches"`
}

type MatchView struct {
	Index        int                   `json:"index"`
	Participants []bracket.Participant `json:"participants"`
	Completed    bool                  `json:"completed"`
	// Pending means the occupants are still to be decided by the previous round
	Pending bool `json:"pending"`
}

type TournamentSummary struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	Slug      string                   `json:"slug"`
	Sport     string                   `json:"sport"`
	Category  string                   `json:"category"`
	Status    bracket.TournamentStatus `json:"status"`
	Champion  *string                  `json:"champion,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
}

// NewBracketView projects a tournament for callerID. The access key is only
// included for the creator.
func NewBracketView(t *bracket.Tournament, callerID string) *BracketView {
	isCreator := callerID != "" && callerID == t.CreatorID

	view := &BracketView{
		ID:          t.ID,
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		Sport:       t.Sport,
		Category:    t.Category,
		Status:      t.Status,
		IsCreator:   isCreator,
		Champion:    t.Bracket.Champion,
		Version:     t.Version,
		UpdatedAt:   t.UpdatedAt,
		Rounds:      make([]RoundView, 0, len(t.Bracket.Rounds)),
	}
	if isCreator {
		view.AccessKey = t.AccessKey
	}

	for i := range t.Bracket.Rounds {
		r := &t.Bracket.Rounds[i]
		size := max(len(r.Matches), bracket.RoundSize(r.Name))
		rv := RoundView{
			Name:     r.Name,
			Complete: r.Complete(),
			Matches:  make([]MatchView, 0, size),
		}
		for j, m := range r.Matches {
			participants := make([]bracket.Participant, len(m.Participants))
			copy(participants, m.Participants)
			rv.Matches = append(rv.Matches, MatchView{
				Index:        j,
				Participants: participants,
				Completed:    m.Completed,
				Pending:      !m.Occupied(),
			})
		}
		// Rounds not yet advanced into are shown as pending slots
		for j := len(r.Matches); j < size; j++ {
			rv.Matches = append(rv.Matches, MatchView{
				Index:        j,
				Participants: []bracket.Participant{},
				Pending:      true,
			})
		}
		view.Rounds = append(view.Rounds, rv)
	}
	return view
}

func NewTournamentSummary(t *bracket.Tournament) TournamentSummary {
	return TournamentSummary{
		ID:        t.ID,
		Name:      t.Name,
		Slug:      t.Slug,
		Sport:     t.Sport,
		Category:  t.Category,
		Status:    t.Status,
		Champion:  t.Bracket.Champion,
		CreatedAt: t.CreatedAt,
	}
}
