package bracket

import "fmt"

// RecordScore stores the result of a match. The participant with the higher
// score wins; ties are rejected and leave the match untouched. Scoring an
// already completed match overwrites the previous result, except for the final
// once its champion is decided.
func RecordScore(b *Bracket, round RoundName, matchIndex int, scored []Participant) error {
	m, err := b.match(round, matchIndex)
	if err != nil {
		return err
	}
	// The champion is the final's winner; it cannot change once decided.
	if round == Final && b.HasChampion() {
		return fmt.Errorf("champion already decided: %w", ErrRoundAlreadyAdvanced)
	}

	if !m.Occupied() || len(scored) != 2 || scored[0].ID == scored[1].ID {
		return ErrParticipantMismatch
	}
	for _, p := range scored {
		if !m.HasParticipant(p.ID) {
			return fmt.Errorf("participant %q: %w", p.ID, ErrParticipantMismatch)
		}
	}

	if scored[0].Score == scored[1].Score {
		return ErrTiedScore
	}

	winnerID := scored[0].ID
	if scored[1].Score > scored[0].Score {
		winnerID = scored[1].ID
	}

	// Keep slot order so the view does not reshuffle after scoring
	result := make([]Participant, 0, 2)
	for _, occupant := range m.Participants {
		for _, p := range scored {
			if p.ID == occupant.ID {
				result = append(result, Participant{
					ID:     p.ID,
					Score:  p.Score,
					Winner: p.ID == winnerID,
				})
			}
		}
	}

	m.Participants = result
	m.Completed = true
	return nil
}
