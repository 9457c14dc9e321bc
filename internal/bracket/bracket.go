package bracket

import (
	"fmt"
	"strings"
)

const SeedCount = 8

type Bracket struct {
	Rounds   []Round `json:"rounds"`
	Champion *string `json:"champion,omitempty"`
}

// NewBracket seeds the quarterfinals pairwise, [0,1] [2,3] [4,5] [6,7]. The
// later rounds start with no matches and are only filled by AdvanceRound.
func NewBracket(seeds []string) (*Bracket, error) {
	if err := ValidateSeeds(seeds); err != nil {
		return nil, err
	}

	quarters := Round{Name: Quarterfinals}
	for i := 0; i < len(seeds); i += 2 {
		quarters.Matches = append(quarters.Matches, newMatch(seeds[i], seeds[i+1]))
	}

	return &Bracket{
		Rounds: []Round{quarters, emptyRound(Semifinals), emptyRound(Final)},
	}, nil
}

func ValidateSeeds(seeds []string) error {
	if len(seeds) != SeedCount {
		return fmt.Errorf("got %d seeds: %w", len(seeds), ErrInvalidSeedCount)
	}

	seen := make(map[string]struct{}, len(seeds))
	for _, s := range seeds {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("blank seed: %w", ErrDuplicateParticipant)
		}
		if _, ok := seen[s]; ok {
			return fmt.Errorf("seed %q: %w", s, ErrDuplicateParticipant)
		}
		seen[s] = struct{}{}
	}
	return nil
}

func (b *Bracket) Round(name RoundName) (*Round, error) {
	for i := range b.Rounds {
		if b.Rounds[i].Name == name {
			return &b.Rounds[i], nil
		}
	}
	return nil, fmt.Errorf("round %q: %w", name, ErrInvalidMatchReference)
}

func (b *Bracket) RoundComplete(name RoundName) (bool, error) {
	r, err := b.Round(name)
	if err != nil {
		return false, err
	}
	return r.Complete(), nil
}

func (b *Bracket) match(name RoundName, index int) (*Match, error) {
	r, err := b.Round(name)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(r.Matches) {
		return nil, fmt.Errorf("match %d of round %q: %w", index, name, ErrInvalidMatchReference)
	}
	return &r.Matches[index], nil
}

func (b *Bracket) HasChampion() bool {
	return b.Champion != nil
}
