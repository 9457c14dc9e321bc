package service

import (
	"context"
	"log/slog"

	"github.com/AdamBeresnev/bracket-app/internal/access"
	"github.com/AdamBeresnev/bracket-app/internal/bracket"
)

// SubmitScore records a match result. The first result of a tournament also
// moves it from PorIniciar to EnProgreso.
func (s *TournamentService) SubmitScore(ctx context.Context, id, round string, matchIndex int, scores []bracket.Participant, callerID string) (*BracketView, error) {
	roundName, err := bracket.ParseRoundName(round)
	if err != nil {
		return nil, err
	}

	t, err := s.mutate(ctx, id, callerID, func(t *bracket.Tournament) error {
		if err := access.EnsureMutable(t); err != nil {
			return err
		}
		if err := bracket.RecordScore(&t.Bracket, roundName, matchIndex, scores); err != nil {
			return err
		}
		if t.Status == bracket.StatusNotStarted {
			return access.Transition(t, bracket.StatusInProgress)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("match scored",
		slog.String("tournament_id", id),
		slog.String("round", string(roundName)),
		slog.Int("match", matchIndex))
	s.publish(t)
	return NewBracketView(t, callerID), nil
}

// AdvanceRound promotes the winners of round. Advancing the final decides the
// champion and finishes the tournament.
func (s *TournamentService) AdvanceRound(ctx context.Context, id, round, callerID string) (*BracketView, error) {
	roundName, err := bracket.ParseRoundName(round)
	if err != nil {
		return nil, err
	}

	t, err := s.mutate(ctx, id, callerID, func(t *bracket.Tournament) error {
		if err := access.EnsureMutable(t); err != nil {
			return err
		}
		champion, err := bracket.AdvanceRound(&t.Bracket, roundName)
		if err != nil {
			return err
		}
		if champion {
			return access.Transition(t, bracket.StatusFinished)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	attrs := []any{slog.String("tournament_id", id), slog.String("round", string(roundName))}
	if t.Bracket.Champion != nil {
		attrs = append(attrs, slog.String("champion", *t.Bracket.Champion))
	}
	s.logger.Info("round advanced", attrs...)
	s.publish(t)
	return NewBracketView(t, callerID), nil
}
