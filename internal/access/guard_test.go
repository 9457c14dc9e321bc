package access

import (
	"testing"

	"github.com/AdamBeresnev/bracket-app/internal/bracket"
	"github.com/stretchr/testify/assert"
)

func newTournament(status bracket.TournamentStatus) *bracket.Tournament {
	return &bracket.Tournament{
		ID:        "t1",
		CreatorID: "creator",
		AccessKey: "K3Y0K3Y0",
		Status:    status,
	}
}

func TestAuthorizeMutation(t *testing.T) {
	tournament := newTournament(bracket.StatusNotStarted)

	assert.NoError(t, AuthorizeMutation(tournament, "creator"))
	assert.ErrorIs(t, AuthorizeMutation(tournament, "someone-else"), bracket.ErrForbidden)
	assert.ErrorIs(t, AuthorizeMutation(tournament, ""), bracket.ErrForbidden)
}

func TestAuthorizeRead(t *testing.T) {
	tournament := newTournament(bracket.StatusInProgress)

	testCases := []struct {
		name     string
		caller   string
		key      string
		expected error
	}{
		{name: "creator without key", caller: "creator"},
		{name: "stranger with key", caller: "stranger", key: "K3Y0K3Y0"},
		{name: "anonymous with key", key: "K3Y0K3Y0"},
		{name: "stranger without key", caller: "stranger", expected: bracket.ErrNotFound},
		{name: "stranger with wrong key", caller: "stranger", key: "WRONGKEY", expected: bracket.ErrNotFound},
		{name: "anonymous without key", expected: bracket.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := AuthorizeRead(tournament, tc.caller, tc.key)
			if tc.expected == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestTransition(t *testing.T) {
	all := []bracket.TournamentStatus{
		bracket.StatusNotStarted,
		bracket.StatusInProgress,
		bracket.StatusFinished,
		bracket.StatusCancelled,
	}
	allowed := map[[2]bracket.TournamentStatus]bool{
		{bracket.StatusNotStarted, bracket.StatusInProgress}: true,
		{bracket.StatusNotStarted, bracket.StatusCancelled}:  true,
		{bracket.StatusInProgress, bracket.StatusFinished}:   true,
		{bracket.StatusInProgress, bracket.StatusCancelled}:  true,
	}

	for _, from := range all {
		for _, to := range all {
			tournament := newTournament(from)
			err := Transition(tournament, to)
			if allowed[[2]bracket.TournamentStatus{from, to}] {
				assert.NoError(t, err, "%s -> %s", from, to)
				assert.Equal(t, to, tournament.Status)
			} else {
				assert.ErrorIs(t, err, bracket.ErrInvalidStateTransition, "%s -> %s", from, to)
				assert.Equal(t, from, tournament.Status)
			}
		}
	}
}

func TestEnsureMutable(t *testing.T) {
	assert.NoError(t, EnsureMutable(newTournament(bracket.StatusNotStarted)))
	assert.NoError(t, EnsureMutable(newTournament(bracket.StatusInProgress)))
	assert.ErrorIs(t, EnsureMutable(newTournament(bracket.StatusFinished)), bracket.ErrInvalidStateTransition)
	assert.ErrorIs(t, EnsureMutable(newTournament(bracket.StatusCancelled)), bracket.ErrInvalidStateTransition)
}
