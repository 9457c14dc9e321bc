package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"log/slog"
	"strings"
	"time"

	"github.com/AdamBeresnev/bracket-app/internal/access"
	"github.com/AdamBeresnev/bracket-app/internal/bracket"
	"github.com/AdamBeresnev/bracket-app/internal/utils"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	accessKeyLength   = 8
	accessKeyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	defaultPageSize = 20
	maxPageSize     = 50
)

// Notifier receives the public view of a tournament after every change.
type Notifier interface {
	Broadcast(room string, payload any)
	CloseRoom(room string)
}

type nopNotifier struct{}

func (nopNotifier) Broadcast(string, any) {}
func (nopNotifier) CloseRoom(string)      {}

type TournamentService struct {
	repo         TournamentRepository
	notifier     Notifier
	logger       *slog.Logger
	storeTimeout time.Duration
	backoff      []time.Duration
}

// NewTournamentService wires the orchestrator. A nil notifier disables live
// updates and a non-positive storeTimeout falls back to 5s.
func NewTournamentService(repo TournamentRepository, notifier Notifier, logger *slog.Logger, storeTimeout time.Duration) *TournamentService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &TournamentService{
		repo:         repo,
		notifier:     notifier,
		logger:       logger,
		storeTimeout: storeTimeout,
		backoff:      defaultStoreBackoff,
	}
}

type TournamentInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Sport       string   `json:"sport"`
	Category    string   `json:"category"`
	Seeds       []string `json:"seeds"`
}

type CreatedTournament struct {
	ID        string `json:"id"`
	AccessKey string `json:"access_key"`
}

func (s *TournamentService) CreateTournament(ctx context.Context, input TournamentInput, creatorID string) (*CreatedTournament, error) {
	if creatorID == "" {
		return nil, bracket.ErrForbidden
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", bracket.ErrInvalidInput)
	}

	b, err := bracket.NewBracket(input.Seeds)
	if err != nil {
		return nil, err
	}

	accessKey, err := newAccessKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate access key: %w", err)
	}

	tournament := &bracket.Tournament{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug.Make(name),
		Description: utils.StringOrNil(input.Description),
		Sport:       strings.TrimSpace(input.Sport),
		Category:    strings.TrimSpace(input.Category),
		CreatorID:   creatorID,
		AccessKey:   accessKey,
		Status:      bracket.StatusNotStarted,
		Bracket:     *b,
	}

	err = s.withStore(ctx, "create", func(ctx context.Context) error {
		return s.repo.Create(ctx, tournament)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tournament: %w", err)
	}

	s.logger.Info("tournament created",
		slog.String("tournament_id", tournament.ID),
		slog.String("creator_id", creatorID))

	return &CreatedTournament{ID: tournament.ID, AccessKey: tournament.AccessKey}, nil
}

// GetBracketView returns the bracket to the creator, or to any caller that
// presents the access key.
func (s *TournamentService) GetBracketView(ctx context.Context, id, callerID, accessKey string) (*BracketView, error) {
	t, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.AuthorizeRead(t, callerID, accessKey); err != nil {
		return nil, err
	}
	return NewBracketView(t, callerID), nil
}

func (s *TournamentService) ChangeStatus(ctx context.Context, id, status, callerID string) (*BracketView, error) {
	to := bracket.TournamentStatus(status)
	if !to.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, bracket.ErrInvalidStateTransition)
	}

	t, err := s.mutate(ctx, id, callerID, func(t *bracket.Tournament) error {
		if to == bracket.StatusFinished && !t.Bracket.HasChampion() {
			return fmt.Errorf("no champion yet: %w", bracket.ErrInvalidStateTransition)
		}
		return access.Transition(t, to)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tournament status changed",
		slog.String("tournament_id", id),
		slog.String("status", string(to)))
	s.publish(t)
	return NewBracketView(t, callerID), nil
}

func (s *TournamentService) DeleteTournament(ctx context.Context, id, callerID string) error {
	t, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := access.AuthorizeMutation(t, callerID); err != nil {
		return err
	}

	err = s.withStore(ctx, "delete", func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("tournament deleted", slog.String("tournament_id", id))
	s.notifier.CloseRoom(id)
	return nil
}

// ListTournaments pages through the caller's own tournaments, newest first.
// Pages start at 1.
func (s *TournamentService) ListTournaments(ctx context.Context, creatorID string, page, pageSize int) ([]TournamentSummary, error) {
	if creatorID == "" {
		return nil, bracket.ErrForbidden
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	var tournaments []bracket.Tournament
	err := s.withStore(ctx, "list", func(ctx context.Context) error {
		var err error
		tournaments, err = s.repo.ListByCreator(ctx, creatorID, pageSize, (page-1)*pageSize)
		return err
	})
	if err != nil {
		return nil, err
	}

	summaries := make([]TournamentSummary, 0, len(tournaments))
	for i := range tournaments {
		summaries = append(summaries, NewTournamentSummary(&tournaments[i]))
	}
	return summaries, nil
}

func (s *TournamentService) publish(t *bracket.Tournament) {
	s.notifier.Broadcast(t.ID, NewBracketView(t, ""))
}

// newAccessKey returns 8 characters drawn uniformly from accessKeyAlphabet.
func newAccessKey() (string, error) {
	size := big.NewInt(int64(len(accessKeyAlphabet)))
	key := make([]byte, accessKeyLength)
	for i := range key {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		key[i] = accessKeyAlphabet[n.Int64()]
	}
	return string(key), nil
}
