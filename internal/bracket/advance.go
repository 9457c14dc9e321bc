package bracket

import (
	"fmt"

	"github.com/AdamBeresnev/bracket-app/internal/utils"
)

// AdvanceRound promotes the winners of current into the next round, pairing
// consecutive winners in match order. Advancing the final decides the
// champion, in which case the returned flag is true.
func AdvanceRound(b *Bracket, current RoundName) (bool, error) {
	r, err := b.Round(current)
	if err != nil {
		return false, err
	}
	if !r.Complete() {
		return false, fmt.Errorf("round %q: %w", current, ErrRoundNotComplete)
	}

	next, ok := NextRound(current)
	if !ok {
		if b.HasChampion() {
			return false, fmt.Errorf("champion already decided: %w", ErrRoundAlreadyAdvanced)
		}
		w, _ := r.Matches[0].Winner()
		b.Champion = utils.Ptr(w.ID)
		return true, nil
	}

	target, err := b.Round(next)
	if err != nil {
		return false, err
	}
	if target.Populated() {
		return false, fmt.Errorf("round %q is already populated: %w", next, ErrRoundAlreadyAdvanced)
	}

	winners := r.winners()
	matches := make([]Match, 0, len(winners)/2)
	for i := 0; i+1 < len(winners); i += 2 {
		matches = append(matches, newMatch(winners[i], winners[i+1]))
	}
	target.Matches = matches
	return false, nil
}
