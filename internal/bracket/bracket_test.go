package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSeeds = []string{"A", "B", "C", "D", "E", "F", "G", "H"}

func TestNewBracket(t *testing.T) {
	b, err := NewBracket(testSeeds)
	require.NoError(t, err)

	quarters, err := b.Round(Quarterfinals)
	require.NoError(t, err)
	require.Len(t, quarters.Matches, 4)

	expected := [][2]string{{"A", "B"}, {"C", "D"}, {"E", "F"}, {"G", "H"}}
	for i, pair := range expected {
		m := quarters.Matches[i]
		require.Len(t, m.Participants, 2)
		assert.Equal(t, pair[0], m.Participants[0].ID)
		assert.Equal(t, pair[1], m.Participants[1].ID)
		assert.False(t, m.Completed)
		assert.Zero(t, m.Participants[0].Score)
		assert.False(t, m.Participants[0].Winner)
	}

	for _, name := range []RoundName{Semifinals, Final} {
		r, err := b.Round(name)
		require.NoError(t, err)
		assert.Empty(t, r.Matches, "%s should start with no matches", name)
		assert.False(t, r.Populated())
	}
	assert.Nil(t, b.Champion)
}

func TestNewBracket_InvalidSeeds(t *testing.T) {
	testCases := []struct {
		name     string
		seeds    []string
		expected error
	}{
		{name: "no seeds", seeds: nil, expected: ErrInvalidSeedCount},
		{name: "7 seeds", seeds: testSeeds[:7], expected: ErrInvalidSeedCount},
		{name: "9 seeds", seeds: append(append([]string{}, testSeeds...), "I"), expected: ErrInvalidSeedCount},
		{name: "duplicate seed", seeds: []string{"A", "B", "C", "D", "E", "F", "G", "A"}, expected: ErrDuplicateParticipant},
		{name: "blank seed", seeds: []string{"A", "B", "C", "D", "E", "F", "G", " "}, expected: ErrDuplicateParticipant},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := NewBracket(tc.seeds)
			assert.ErrorIs(t, err, tc.expected)
			assert.Nil(t, b)
		})
	}
}

func TestParseRoundName(t *testing.T) {
	for _, name := range []string{"cuartos", "semifinales", "final"} {
		r, err := ParseRoundName(name)
		require.NoError(t, err)
		assert.Equal(t, RoundName(name), r)
	}

	_, err := ParseRoundName("octavos")
	assert.ErrorIs(t, err, ErrInvalidMatchReference)
}

func TestNextRound(t *testing.T) {
	next, ok := NextRound(Quarterfinals)
	assert.True(t, ok)
	assert.Equal(t, Semifinals, next)

	next, ok = NextRound(Semifinals)
	assert.True(t, ok)
	assert.Equal(t, Final, next)

	_, ok = NextRound(Final)
	assert.False(t, ok)
}

func TestRoundComplete(t *testing.T) {
	b, err := NewBracket(testSeeds)
	require.NoError(t, err)

	done, err := b.RoundComplete(Quarterfinals)
	require.NoError(t, err)
	assert.False(t, done)

	scoreAll(t, b, Quarterfinals)

	done, err = b.RoundComplete(Quarterfinals)
	require.NoError(t, err)
	assert.True(t, done)

	_, err = b.RoundComplete("octavos")
	assert.ErrorIs(t, err, ErrInvalidMatchReference)
}

// scoreAll gives the first slot of every match in the round the win.
func scoreAll(t *testing.T, b *Bracket, name RoundName) {
	t.Helper()
	r, err := b.Round(name)
	require.NoError(t, err)
	for i, m := range r.Matches {
		require.NoError(t, RecordScore(b, name, i, []Participant{
			{ID: m.Participants[0].ID, Score: 2},
			{ID: m.Participants[1].ID, Score: 1},
		}))
	}
}
