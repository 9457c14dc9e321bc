package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/AdamBeresnev/bracket-app/internal/access"
	"github.com/AdamBeresnev/bracket-app/internal/bracket"
)

// TournamentRepository loads and saves whole tournament aggregates. Save must
// reject a tournament whose Version no longer matches the stored one with
// bracket.ErrVersionConflict.
type TournamentRepository interface {
	Create(ctx context.Context, t *bracket.Tournament) error
	Get(ctx context.Context, id string) (*bracket.Tournament, error)
	Save(ctx context.Context, t *bracket.Tournament) error
	Delete(ctx context.Context, id string) error
	ListByCreator(ctx context.Context, creatorID string, limit, offset int) ([]bracket.Tournament, error)
}

const (
	defaultStoreTimeout = 5 * time.Second
	maxSaveAttempts     = 3
)

var defaultStoreBackoff = []time.Duration{50 * time.Millisecond, 100 * time.Millisecond}

// withStore runs fn under the store timeout, retrying only store outages.
func (s *TournamentService) withStore(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; attempt <= len(s.backoff); attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.backoff[attempt-1]):
			case <-ctx.Done():
				return fmt.Errorf("%w: %w", bracket.ErrStoreUnavailable, ctx.Err())
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		err = fn(callCtx)
		cancel()

		if err == nil || !errors.Is(err, bracket.ErrStoreUnavailable) {
			return err
		}
		s.logger.Warn("store call failed",
			slog.String("op", op),
			slog.Int("attempt", attempt+1),
			slog.Any("error", err))
	}
	return err
}

func (s *TournamentService) load(ctx context.Context, id string) (*bracket.Tournament, error) {
	var t *bracket.Tournament
	err := s.withStore(ctx, "get", func(ctx context.Context) error {
		var err error
		t, err = s.repo.Get(ctx, id)
		return err
	})
	return t, err
}

// mutate runs a load-authorize-change-save cycle for the creator. When the
// save loses a race the whole cycle is replayed on a fresh copy.
func (s *TournamentService) mutate(ctx context.Context, id, caller string, change func(t *bracket.Tournament) error) (*bracket.Tournament, error) {
	for attempt := 1; ; attempt++ {
		t, err := s.load(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := access.AuthorizeMutation(t, caller); err != nil {
			return nil, err
		}
		if err := change(t); err != nil {
			return nil, err
		}

		err = s.withStore(ctx, "save", func(ctx context.Context) error {
			return s.repo.Save(ctx, t)
		})
		if errors.Is(err, bracket.ErrVersionConflict) && attempt < maxSaveAttempts {
			s.logger.Info("tournament changed concurrently, retrying",
				slog.String("tournament_id", id),
				slog.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}
		return t, nil
	}
}
