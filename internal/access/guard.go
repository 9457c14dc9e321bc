// Package access decides who may read or change a tournament and which
// lifecycle transitions are allowed.
package access

import (
	"crypto/subtle"
	"fmt"

	"github.com/AdamBeresnev/bracket-app/internal/bracket"
)

var transitions = map[bracket.TournamentStatus][]bracket.TournamentStatus{
	bracket.StatusNotStarted: {bracket.StatusInProgress, bracket.StatusCancelled},
	bracket.StatusInProgress: {bracket.StatusFinished, bracket.StatusCancelled},
}

// AuthorizeMutation allows only the creator to change a tournament.
func AuthorizeMutation(t *bracket.Tournament, caller string) error {
	if caller == "" || caller != t.CreatorID {
		return bracket.ErrForbidden
	}
	return nil
}

// AuthorizeRead allows the creator, or anyone holding the access key. Any
// other caller gets ErrNotFound so the tournament's existence is not leaked.
func AuthorizeRead(t *bracket.Tournament, caller string, accessKey string) error {
	if caller != "" && caller == t.CreatorID {
		return nil
	}
	if accessKey != "" && subtle.ConstantTimeCompare([]byte(accessKey), []byte(t.AccessKey)) == 1 {
		return nil
	}
	return bracket.ErrNotFound
}

func CanTransition(from, to bracket.TournamentStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition moves the tournament to the given status.
func Transition(t *bracket.Tournament, to bracket.TournamentStatus) error {
	if !CanTransition(t.Status, to) {
		return fmt.Errorf("%s -> %s: %w", t.Status, to, bracket.ErrInvalidStateTransition)
	}
	t.Status = to
	return nil
}

// EnsureMutable rejects bracket changes once the tournament is over.
func EnsureMutable(t *bracket.Tournament) error {
	if t.Status.Terminal() {
		return fmt.Errorf("tournament is %s: %w", t.Status, bracket.ErrInvalidStateTransition)
	}
	return nil
}
