package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"guild-series-tracker/models"
	"guild-series-tracker/utils"
)

const (
	DefaultMaxAgeDays      = 400
	DefaultMaxTournaments  = 200
	DefaultUpsertBatchSize = 500
)

// GameAPI is the slice of the game client the orchestrator needs.
type GameAPI interface {
	ListTournaments(ctx context.Context, organizer string) ([]map[string]any, error)
	FetchTournament(ctx context.Context, id, organizer string) (map[string]any, error)
}

type IngestService struct {
	DB        *gorm.DB
	API       GameAPI
	BatchSize int
}

func NewIngestService(db *gorm.DB, api GameAPI) *IngestService {
	return &IngestService{DB: db, API: api, BatchSize: DefaultUpsertBatchSize}
}

// OrganizerSummary reports one organizer's portion of an ingest run.
type OrganizerSummary struct {
	Organizer string `json:"organizer"`
	Events    int    `json:"events"`
	Results   int    `json:"results"`
	Processed int    `json:"processed"`
	Error     string `json:"error,omitempty"`
}

// RunIngestion refreshes stored tournaments. An empty organizer means every
// active organizer; each organizer's run is isolated, so one upstream
// failure never blocks the rest.
func (s *IngestService) RunIngestion(ctx context.Context, organizer string, maxAgeDays, maxTournaments int) ([]OrganizerSummary, error) {
	if maxAgeDays <= 0 {
		maxAgeDays = DefaultMaxAgeDays
	}
	if maxTournaments <= 0 {
		maxTournaments = DefaultMaxTournaments
	}

	organizers := []string{organizer}
	if organizer == "" {
		err := s.DB.Model(&models.Organizer{}).
			Where("active = ?", true).
			Order("username").
			Pluck("username", &organizers).Error
		if err != nil {
			return nil, fmt.Errorf("list active organizers: %w", err)
		}
		if len(organizers) == 0 {
			return nil, errors.New("no active organizers configured")
		}
	}

	summaries := make([]OrganizerSummary, 0, len(organizers))
	for _, org := range organizers {
		summary := s.ingestOrganizer(ctx, org, maxAgeDays, maxTournaments)
		if summary.Error != "" {
			log.Printf("❌ Ingest for %s failed: %s", org, summary.Error)
		} else {
			log.Printf("✅ Ingested %s: %d events, %d results (%d processed)",
				org, summary.Events, summary.Results, summary.Processed)
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (s *IngestService) ingestOrganizer(ctx context.Context, organizer string, maxAgeDays, maxTournaments int) OrganizerSummary {
	summary := OrganizerSummary{Organizer: organizer}

	if err := s.markRunStart(organizer, maxAgeDays); err != nil {
		summary.Error = err.Error()
		return summary
	}

	events, results, processed, err := s.collectRows(ctx, organizer, maxAgeDays, maxTournaments)
	if err != nil {
		s.markRunFailure(organizer, err)
		summary.Error = err.Error()
		return summary
	}

	if err := s.persistRows(events, results); err != nil {
		s.markRunFailure(organizer, err)
		summary.Error = err.Error()
		return summary
	}

	summary.Events = len(events)
	summary.Results = len(results)
	summary.Processed = processed
	s.markRunSuccess(organizer, len(events), len(results))
	return summary
}

// collectRows fetches and normalizes everything for one organizer without
// touching the database, so the pipeline stays testable against a fake API.
func (s *IngestService) collectRows(ctx context.Context, organizer string, maxAgeDays, maxTournaments int) ([]models.TournamentEvent, []models.PlayerResult, int, error) {
	list, err := s.API.ListTournaments(ctx, organizer)
	if err != nil {
		return nil, nil, 0, err
	}
	if len(list) == 0 {
		return nil, nil, 0, fmt.Errorf("no tournaments returned for %s", organizer)
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -maxAgeDays)
	now := time.Now().UTC()

	var events []models.TournamentEvent
	var results []models.PlayerResult
	processed := 0

	for _, item := range list {
		if processed >= maxTournaments {
			break
		}

		tid := utils.FirstString(item, "id", "tournament_id")
		if tid == "" {
			continue
		}

		// Cheap pre-filter on the list row's date; the detail payload
		// re-checks with the authoritative value.
		if listDate := utils.ParseTime(utils.FirstValue(item, "start_date", "date")); listDate != nil && listDate.Before(cutoff) {
			continue
		}

		detail, err := s.API.FetchTournament(ctx, tid, organizer)
		if err != nil {
			log.Printf("Skipping tournament %s for %s: %v", tid, organizer, err)
			continue
		}
		processed++

		startDate := utils.ParseTime(utils.FirstValue(detail, "start_date", "date"))
		if startDate == nil {
			startDate = utils.ParseTime(utils.FirstValue(item, "start_date", "date"))
		}
		if startDate != nil && startDate.Before(cutoff) {
			continue
		}

		name := utils.FirstString(detail, "name")
		if name == "" {
			name = utils.FirstString(item, "name")
		}
		if name == "" {
			name = tid
		}

		status := utils.FirstString(detail, "status", "current_round")
		if status == "" {
			status = utils.FirstString(item, "status")
		}

		entrants := utils.FirstInt(detail, "players_registered", "num_players")
		if entrants == nil {
			entrants = utils.FirstInt(item, "players_registered")
		}

		allowed := nestedMap(detail, "data", "allowed_cards")
		if allowed == nil {
			allowed = nestedMap(item, "data", "allowed_cards")
		}

		payouts := extractPayouts(detail, item)

		events = append(events, models.TournamentEvent{
			TournamentID: tid,
			Organizer:    organizer,
			Name:         name,
			StartDate:    startDate,
			Status:       status,
			Entrants:     entrants,
			Payouts:      payouts,
			AllowedCards: allowed,
			RawList:      item,
			RawDetail:    detail,
			UpdatedAt:    now,
		})

		for _, raw := range nestedSlice(detail, "players") {
			player, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			username := utils.FirstString(player, "player", "username", "name")
			if username == "" {
				continue
			}

			tokens, text := ResolvePrizes(player, payouts)
			results = append(results, models.PlayerResult{
				TournamentID: tid,
				Player:       username,
				Finish:       utils.AsInt(player["finish"]),
				PrizeTokens:  tokens,
				PrizeText:    text,
				Raw:          player,
				UpdatedAt:    now,
			})
		}
	}

	return events, results, processed, nil
}

// nestedMap walks path keys through nested objects, returning nil as soon
// as a hop is missing or not an object.
func nestedMap(m map[string]any, path ...string) map[string]any {
	current := m
	for _, key := range path {
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

func nestedSlice(m map[string]any, key string) []any {
	items, _ := m[key].([]any)
	return items
}

// extractPayouts looks for payout rules in the places different API
// generations have put them: detail.data.prizes.payouts, then
// detail.prizes.payouts, then the list row's data.prizes.payouts.
func extractPayouts(detail, item map[string]any) models.PayoutRules {
	for _, source := range []map[string]any{
		nestedMap(detail, "data", "prizes"),
		nestedMap(detail, "prizes"),
		nestedMap(item, "data", "prizes"),
	} {
		if source == nil {
			continue
		}
		if rules := payoutRulesFrom(nestedSlice(source, "payouts")); rules != nil {
			return rules
		}
	}
	return nil
}

func payoutRulesFrom(raw []any) models.PayoutRules {
	var rules models.PayoutRules
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		rules = append(rules, models.PayoutRule{
			StartPlace: utils.AsInt(m["start_place"]),
			EndPlace:   utils.AsInt(m["end_place"]),
			Items:      nestedSlice(m, "items"),
		})
	}
	return rules
}

// persistRows writes events then results in chunked upserts keyed on the
// API's own ids, so re-running the same window is idempotent.
func (s *IngestService) persistRows(events []models.TournamentEvent, results []models.PlayerResult) error {
	batch := s.BatchSize
	if batch <= 0 {
		batch = DefaultUpsertBatchSize
	}

	for start := 0; start < len(events); start += batch {
		end := min(start+batch, len(events))
		chunk := events[start:end]
		err := s.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tournament_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"organizer", "name", "start_date", "status", "entrants",
				"payouts", "allowed_cards", "raw_list", "raw_detail", "updated_at",
			}),
		}).Create(&chunk).Error
		if err != nil {
			return fmt.Errorf("upsert tournament events: %w", err)
		}
	}

	for start := 0; start < len(results); start += batch {
		end := min(start+batch, len(results))
		chunk := results[start:end]
		err := s.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tournament_id"}, {Name: "player"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"finish", "prize_tokens", "prize_text", "raw", "updated_at",
			}),
		}).Create(&chunk).Error
		if err != nil {
			return fmt.Errorf("upsert tournament results: %w", err)
		}
	}

	return nil
}

// The three state writes assign disjoint column sets on purpose: a failed
// run must not clobber last_success_at or the last good counts.

func (s *IngestService) markRunStart(organizer string, windowDays int) error {
	now := time.Now().UTC()
	state := models.IngestState{
		Organizer:      organizer,
		LastRunAt:      &now,
		LastWindowDays: windowDays,
		UpdatedAt:      now,
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "organizer"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_run_at", "last_window_days", "updated_at"}),
	}).Create(&state).Error
	if err != nil {
		return fmt.Errorf("mark ingest run start: %w", err)
	}
	return nil
}

func (s *IngestService) markRunSuccess(organizer string, events, results int) {
	now := time.Now().UTC()
	state := models.IngestState{
		Organizer:       organizer,
		LastSuccessAt:   &now,
		LastEventCount:  events,
		LastResultCount: results,
		UpdatedAt:       now,
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "organizer"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"last_success_at", "last_error", "last_event_count", "last_result_count", "updated_at",
		}),
	}).Create(&state).Error
	if err != nil {
		log.Printf("Failed to record ingest success for %s: %v", organizer, err)
	}
}

func (s *IngestService) markRunFailure(organizer string, runErr error) {
	now := time.Now().UTC()
	message := runErr.Error()
	state := models.IngestState{
		Organizer: organizer,
		LastError: &message,
		UpdatedAt: now,
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "organizer"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_error", "updated_at"}),
	}).Create(&state).Error
	if err != nil {
		log.Printf("Failed to record ingest failure for %s: %v", organizer, err)
	}
}

// RunIngestionEndpoint triggers an ingest run over HTTP.
// POST /ingest/run?organizer=&max_age_days=&max_tournaments=
func (s *IngestService) RunIngestionEndpoint(c *fiber.Ctx) error {
	organizer := c.Query("organizer")
	maxAgeDays := c.QueryInt("max_age_days", DefaultMaxAgeDays)
	maxTournaments := c.QueryInt("max_tournaments", DefaultMaxTournaments)

	summaries, err := s.RunIngestion(c.Context(), organizer, maxAgeDays, maxTournaments)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"summaries": summaries})
}

// GetIngestState returns the per-organizer run bookkeeping.
// GET /ingest/state
func (s *IngestService) GetIngestState(c *fiber.Ctx) error {
	var states []models.IngestState
	if err := s.DB.Order("organizer").Find(&states).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load ingest state"})
	}
	return c.JSON(fiber.Map{"states": states})
}
