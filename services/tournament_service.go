package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/pingpong-tournament/brackets"
	"github.com/Dosada05/pingpong-tournament/models"
	"github.com/Dosada05/pingpong-tournament/repositories"
	"github.com/Dosada05/pingpong-tournament/storage"
	"golang.org/x/sync/errgroup"
)

const sideEffectTimeout = 10 * time.Second

// Notifier pushes events to live viewers. *brackets.Hub implements it.
type Notifier interface {
	BroadcastToRoom(roomID string, message interface{})
}

type PlayerInput struct {
	Name string `json:"name"`
	Seed int    `json:"seed,omitempty"`
}

// CreateTournamentInput describes a new event. Players without a seed are
// seeded by their position in the list. Nil counts fall back to defaults.
type CreateTournamentInput struct {
	Name            string        `json:"name"`
	Players         []PlayerInput `json:"players"`
	GroupCount      *int          `json:"group_count,omitempty"`
	AdvancePerGroup *int          `json:"advance_per_group,omitempty"`
}

type GroupResultInput struct {
	SideA models.EntrantID  `json:"side_a"`
	SideB models.EntrantID  `json:"side_b"`
	Sets  []models.SetScore `json:"sets"`
}

type GroupResultPayload struct {
	TournamentID int                     `json:"tournament_id"`
	Group        string                  `json:"group"`
	Outcome      models.MatchOutcome     `json:"outcome"`
	Standings    []models.StandingsEntry `json:"standings"`
	Complete     bool                    `json:"complete"`
}

type KnockoutResultPayload struct {
	TournamentID int                 `json:"tournament_id"`
	Round        int                 `json:"round"`
	Index        int                 `json:"index"`
	Outcome      models.MatchOutcome `json:"outcome"`
	Bracket      models.Bracket      `json:"bracket"`
}

type TournamentWinnerPayload struct {
	TournamentID int            `json:"tournament_id"`
	Champion     models.Entrant `json:"champion"`
	ByWalkover   bool           `json:"by_walkover"`
	Message      string         `json:"message"`
}

type TournamentService interface {
	Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error)
	List(ctx context.Context) ([]models.Tournament, error)
	Get(ctx context.Context, id int) (*models.Tournament, error)
	FindEntrant(ctx context.Context, id int, name string) (models.Entrant, error)

	ListGroups(ctx context.Context, id int) ([]models.Group, error)
	GetGroup(ctx context.Context, id int, group string) (*models.Group, error)
	GroupStandings(ctx context.Context, id int, group string) ([]models.StandingsEntry, error)
	RecordGroupResult(ctx context.Context, id int, group string, input GroupResultInput) (*models.MatchOutcome, error)

	StartKnockout(ctx context.Context, id int) (*models.Bracket, error)
	GetBracket(ctx context.Context, id int) (*models.Bracket, error)
	RecordKnockoutResult(ctx context.Context, id int, round, index int, sets []models.SetScore) (*models.MatchOutcome, error)
	Champion(ctx context.Context, id int) (*models.Entrant, error)
}

// Defaults are applied to CreateTournamentInput fields left empty.
type Defaults struct {
	GroupCount      int
	AdvancePerGroup int
}

// tournamentEntry guards one running event. Each group has its own lock
// and so does the bracket; a result is stored and propagated entirely
// under the lock of the unit it belongs to.
type tournamentEntry struct {
	id         int
	name       string
	groupCount int
	createdAt  time.Time

	core       *brackets.Tournament
	groupLocks map[string]*sync.RWMutex
	bracketMu  sync.RWMutex
}

type tournamentService struct {
	mu          sync.RWMutex
	nextID      int
	tournaments map[int]*tournamentEntry

	defaults Defaults
	archive  repositories.ResultArchiveRepository
	uploader storage.FileUploader
	notifier Notifier
	logger   *slog.Logger
}

// NewTournamentService wires the in-memory tournament store. archive,
// uploader and notifier are optional and may be nil.
func NewTournamentService(
	defaults Defaults,
	archive repositories.ResultArchiveRepository,
	uploader storage.FileUploader,
	notifier Notifier,
	logger *slog.Logger,
) TournamentService {
	if defaults.GroupCount < 1 {
		defaults.GroupCount = 2
	}
	if defaults.AdvancePerGroup < 1 {
		defaults.AdvancePerGroup = 2
	}
	return &tournamentService{
		tournaments: make(map[int]*tournamentEntry),
		defaults:    defaults,
		archive:     archive,
		uploader:    uploader,
		notifier:    notifier,
		logger:      logger,
	}
}

func (s *tournamentService) Create(ctx context.Context, input CreateTournamentInput) (*models.Tournament, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTournamentNameRequired
	}

	groupCount := s.defaults.GroupCount
	if input.GroupCount != nil {
		groupCount = *input.GroupCount
	}
	advance := s.defaults.AdvancePerGroup
	if input.AdvancePerGroup != nil {
		advance = *input.AdvancePerGroup
	}

	seedings := make([]brackets.Seeding, len(input.Players))
	for i, p := range input.Players {
		seed := p.Seed
		if seed == 0 {
			seed = i + 1
		}
		seedings[i] = brackets.Seeding{Name: p.Name, Seed: seed}
	}

	core, err := brackets.NewTournament(seedings, groupCount, advance)
	if err != nil {
		return nil, err
	}

	entry := &tournamentEntry{
		name:       name,
		groupCount: groupCount,
		createdAt:  time.Now().UTC(),
		core:       core,
		groupLocks: make(map[string]*sync.RWMutex),
	}
	for _, g := range core.Groups() {
		entry.groupLocks[g.Name()] = &sync.RWMutex{}
	}

	s.mu.Lock()
	s.nextID++
	entry.id = s.nextID
	s.tournaments[entry.id] = entry
	s.mu.Unlock()

	s.logger.Info("tournament created",
		slog.Int("tournament_id", entry.id),
		slog.String("name", name),
		slog.Int("entrants", len(seedings)),
		slog.Int("groups", groupCount),
		slog.Int("advance_per_group", advance))

	view := s.snapshot(entry, true)
	s.broadcast(entry.id, brackets.EventTournamentCreated, view)
	return view, nil
}

func (s *tournamentService) List(ctx context.Context) ([]models.Tournament, error) {
	s.mu.RLock()
	entries := make([]*tournamentEntry, 0, len(s.tournaments))
	for _, e := range s.tournaments {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	out := make([]models.Tournament, len(entries))
	for i, e := range entries {
		out[i] = *s.snapshot(e, false)
	}
	return out, nil
}

func (s *tournamentService) Get(ctx context.Context, id int) (*models.Tournament, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return s.snapshot(entry, true), nil
}

// FindEntrant resolves an entrant by name, the way text-driven clients
// address players.
func (s *tournamentService) FindEntrant(ctx context.Context, id int, name string) (models.Entrant, error) {
	entry, err := s.entry(id)
	if err != nil {
		return models.Entrant{}, err
	}
	e, ok := entry.core.Registry().Lookup(name)
	if !ok {
		return models.Entrant{}, fmt.Errorf("%w: %q in tournament %d", ErrEntrantNotFound, name, id)
	}
	return e, nil
}

func (s *tournamentService) ListGroups(ctx context.Context, id int) ([]models.Group, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return s.groupSnapshots(entry), nil
}

func (s *tournamentService) GetGroup(ctx context.Context, id int, group string) (*models.Group, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	g, lock, err := entry.group(group)
	if err != nil {
		return nil, err
	}
	lock.RLock()
	defer lock.RUnlock()
	view := g.Snapshot()
	return &view, nil
}

func (s *tournamentService) GroupStandings(ctx context.Context, id int, group string) ([]models.StandingsEntry, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	g, lock, err := entry.group(group)
	if err != nil {
		return nil, err
	}
	lock.RLock()
	defer lock.RUnlock()
	return g.Standings(), nil
}

func (s *tournamentService) RecordGroupResult(ctx context.Context, id int, group string, input GroupResultInput) (*models.MatchOutcome, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	g, lock, err := entry.group(group)
	if err != nil {
		return nil, err
	}

	lock.Lock()
	outcome, err := g.RecordResult(input.SideA, input.SideB, input.Sets)
	if err != nil {
		lock.Unlock()
		return nil, err
	}
	payload := GroupResultPayload{
		TournamentID: id,
		Group:        g.Name(),
		Outcome:      outcome,
		Standings:    g.Standings(),
		Complete:     g.IsComplete(),
	}
	lock.Unlock()

	s.logger.Info("group result recorded",
		slog.Int("tournament_id", id),
		slog.String("group", payload.Group),
		slog.String("winner", outcome.Winner().Name),
		slog.String("loser", outcome.Loser().Name),
		slog.Int("sets_a", outcome.SetsA),
		slog.Int("sets_b", outcome.SetsB))

	s.broadcast(id, brackets.EventGroupResult, payload)

	rec := &models.MatchRecord{
		TournamentID: id,
		Stage:        models.StageGroup,
		Group:        payload.Group,
		Outcome:      outcome,
		RecordedAt:   time.Now().UTC(),
	}
	if payload.Complete {
		s.broadcast(id, brackets.EventGroupCompleted, payload)
		s.archiveGroupCompletion(ctx, rec, payload.Standings)
	} else {
		s.archiveMatch(ctx, rec)
	}
	return &outcome, nil
}

func (s *tournamentService) StartKnockout(ctx context.Context, id int) (*models.Bracket, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.bracketMu.Lock()
	groups := entry.core.Groups()
	for _, g := range groups {
		entry.groupLocks[g.Name()].RLock()
	}
	b, err := entry.core.StartKnockout()
	for _, g := range groups {
		entry.groupLocks[g.Name()].RUnlock()
	}
	if err != nil {
		entry.bracketMu.Unlock()
		return nil, err
	}
	view := b.Snapshot()
	entry.bracketMu.Unlock()

	s.logger.Info("knockout stage started",
		slog.Int("tournament_id", id),
		slog.Int("qualifiers", len(view.Qualifiers)),
		slog.Int("rounds", len(view.Rounds)))

	s.broadcast(id, brackets.EventKnockoutStarted, view)
	if view.Champion != nil {
		s.completeTournament(ctx, entry, *view.Champion, true)
	}
	return &view, nil
}

func (s *tournamentService) GetBracket(ctx context.Context, id int) (*models.Bracket, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.bracketMu.RLock()
	defer entry.bracketMu.RUnlock()
	b, err := entry.core.Bracket()
	if err != nil {
		return nil, err
	}
	view := b.Snapshot()
	return &view, nil
}

func (s *tournamentService) RecordKnockoutResult(ctx context.Context, id int, round, index int, sets []models.SetScore) (*models.MatchOutcome, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	entry.bracketMu.Lock()
	b, err := entry.core.Bracket()
	if err != nil {
		entry.bracketMu.Unlock()
		return nil, err
	}
	outcome, err := b.RecordResult(round, index, sets)
	if err != nil {
		entry.bracketMu.Unlock()
		return nil, err
	}
	view := b.Snapshot()
	entry.bracketMu.Unlock()

	s.logger.Info("knockout result recorded",
		slog.Int("tournament_id", id),
		slog.String("round", view.Rounds[round].Name),
		slog.Int("match", index),
		slog.String("winner", outcome.Winner().Name))

	s.broadcast(id, brackets.EventKnockoutResult, KnockoutResultPayload{
		TournamentID: id,
		Round:        round,
		Index:        index,
		Outcome:      outcome,
		Bracket:      view,
	})
	s.archiveMatch(ctx, &models.MatchRecord{
		TournamentID: id,
		Stage:        models.StageKnockout,
		Round:        round,
		Index:        index,
		Outcome:      outcome,
		RecordedAt:   time.Now().UTC(),
	})

	if view.Champion != nil {
		s.completeTournament(ctx, entry, *view.Champion, false)
	}
	return &outcome, nil
}

func (s *tournamentService) Champion(ctx context.Context, id int) (*models.Entrant, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	entry.bracketMu.RLock()
	defer entry.bracketMu.RUnlock()
	return entry.core.Champion(), nil
}

func (s *tournamentService) entry(id int) (*tournamentEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.tournaments[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrTournamentNotFound, id)
	}
	return e, nil
}

func (e *tournamentEntry) group(name string) (*brackets.Group, *sync.RWMutex, error) {
	g, err := e.core.Group(name)
	if err != nil {
		return nil, nil, err
	}
	return g, e.groupLocks[name], nil
}

func (s *tournamentService) groupSnapshots(entry *tournamentEntry) []models.Group {
	groups := entry.core.Groups()
	out := make([]models.Group, len(groups))
	for i, g := range groups {
		lock := entry.groupLocks[g.Name()]
		lock.RLock()
		out[i] = g.Snapshot()
		lock.RUnlock()
	}
	return out
}

func (s *tournamentService) snapshot(entry *tournamentEntry, detailed bool) *models.Tournament {
	view := &models.Tournament{
		ID:              entry.id,
		Name:            entry.name,
		GroupCount:      entry.groupCount,
		AdvancePerGroup: entry.core.AdvancePerGroup(),
		CreatedAt:       entry.createdAt,
		Entrants:        entry.core.Registry().All(),
	}
	if detailed {
		view.Groups = s.groupSnapshots(entry)
	}

	entry.bracketMu.RLock()
	view.Status = entry.core.Status()
	view.Champion = entry.core.Champion()
	if b, err := entry.core.Bracket(); err == nil && detailed {
		bv := b.Snapshot()
		view.Bracket = &bv
	}
	entry.bracketMu.RUnlock()
	return view
}

func (s *tournamentService) broadcast(id int, eventType string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	room := brackets.RoomForTournament(id)
	s.notifier.BroadcastToRoom(room, brackets.WebSocketMessage{
		Type:    eventType,
		Payload: payload,
		RoomID:  room,
	})
}

// sideEffectContext detaches archive and upload work from the caller's
// cancellation; the result is already committed in memory.
func sideEffectContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), sideEffectTimeout)
}

func (s *tournamentService) archiveMatch(ctx context.Context, rec *models.MatchRecord) {
	if s.archive == nil {
		return
	}
	actx, cancel := sideEffectContext(ctx)
	defer cancel()
	if err := s.archive.SaveMatchResult(actx, nil, rec); err != nil {
		s.logArchiveError("match", rec.TournamentID, err)
	}
}

// archiveGroupCompletion stores the last match of a group and its final
// table side by side.
func (s *tournamentService) archiveGroupCompletion(ctx context.Context, rec *models.MatchRecord, table []models.StandingsEntry) {
	if s.archive == nil {
		return
	}
	actx, cancel := sideEffectContext(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(actx)
	g.Go(func() error {
		return s.archive.SaveMatchResult(gctx, nil, rec)
	})
	g.Go(func() error {
		return s.archive.SaveStandings(gctx, rec.TournamentID, rec.Group, table)
	})
	if err := g.Wait(); err != nil {
		s.logArchiveError("group completion", rec.TournamentID, err)
	}
}

func (s *tournamentService) logArchiveError(what string, id int, err error) {
	if errors.Is(err, repositories.ErrArchiveDuplicate) {
		s.logger.Warn("archive already holds record", slog.String("record", what), slog.Int("tournament_id", id))
		return
	}
	s.logger.Error("failed to archive", slog.String("record", what), slog.Int("tournament_id", id), slog.Any("error", err))
}

func (s *tournamentService) completeTournament(ctx context.Context, entry *tournamentEntry, champion models.Entrant, walkover bool) {
	s.logger.Info("tournament completed",
		slog.Int("tournament_id", entry.id),
		slog.String("champion", champion.Name),
		slog.Bool("walkover", walkover))

	s.broadcast(entry.id, brackets.EventTournamentCompleted, TournamentWinnerPayload{
		TournamentID: entry.id,
		Champion:     champion,
		ByWalkover:   walkover,
		Message:      fmt.Sprintf("%s wins %s", champion.Name, entry.name),
	})

	actx, cancel := sideEffectContext(ctx)
	defer cancel()

	if s.archive != nil {
		if err := s.archive.SaveChampion(actx, nil, entry.id, entry.name, champion); err != nil {
			s.logArchiveError("champion", entry.id, err)
		}
	}
	if s.uploader != nil {
		s.uploadReport(actx, entry)
	}
}

func (s *tournamentService) uploadReport(ctx context.Context, entry *tournamentEntry) {
	report, err := json.MarshalIndent(s.snapshot(entry, true), "", "  ")
	if err != nil {
		s.logger.Error("failed to encode tournament report", slog.Int("tournament_id", entry.id), slog.Any("error", err))
		return
	}
	res, err := s.uploader.Upload(ctx, storage.ReportKey(entry.id), "application/json", bytes.NewReader(report))
	if err != nil {
		s.logger.Error("failed to upload tournament report", slog.Int("tournament_id", entry.id), slog.Any("error", err))
		return
	}
	s.logger.Info("tournament report uploaded",
		slog.Int("tournament_id", entry.id),
		slog.String("key", res.Key),
		slog.String("url", res.Location))
}
