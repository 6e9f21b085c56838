package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"guild-series-tracker/models"
)

// LeaderboardService computes standings from stored rows at query time.
// Nothing is cached or materialized; a re-ingest immediately shows up in
// the next leaderboard read.
type LeaderboardService struct {
	DB      *gorm.DB
	Schemes *SchemeCatalog
}

func NewLeaderboardService(db *gorm.DB, schemes *SchemeCatalog) *LeaderboardService {
	return &LeaderboardService{DB: db, Schemes: schemes}
}

// PlayerTotals is one leaderboard row.
type PlayerTotals struct {
	Player        string     `json:"player"`
	EventsPlayed  int        `json:"events_played"`
	Points        float64    `json:"points"`
	AvgFinish     *float64   `json:"avg_finish"`
	BestFinish    *int       `json:"best_finish"`
	Podiums       int        `json:"podiums"`
	LastEventDate *time.Time `json:"last_event_date"`
}

type resultRow struct {
	TournamentID string
	Player       string
	Finish       *int
	StartDate    *time.Time
}

func (s *LeaderboardService) resultQuery(organizer string) *gorm.DB {
	return s.DB.Table("tournament_results AS r").
		Select("r.tournament_id, r.player, r.finish, e.start_date").
		Joins("JOIN tournament_events e ON e.tournament_id = r.tournament_id").
		Where("e.organizer = ?", organizer)
}

// GetLeaderboard aggregates every stored result for the organizer under
// the named scheme. Unknown schemes surface as ErrUnknownScheme.
func (s *LeaderboardService) GetLeaderboard(organizer, schemeSlug string) ([]PlayerTotals, error) {
	scheme, err := s.Schemes.Get(schemeSlug)
	if err != nil {
		return nil, err
	}

	var rows []resultRow
	if err := s.resultQuery(organizer).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load results for %s: %w", organizer, err)
	}
	return aggregateTotals(rows, scheme), nil
}

// GetLeaderboardForConfig aggregates under a saved series config's
// filters: name substring, explicit include/exclude ids, date window.
func (s *LeaderboardService) GetLeaderboardForConfig(config models.SeriesConfig) ([]PlayerTotals, error) {
	scheme, err := s.Schemes.Get(config.PointScheme)
	if err != nil {
		return nil, err
	}

	query := s.resultQuery(config.Organizer)
	if config.NameFilter != "" {
		query = query.Where("e.name ILIKE ?", "%"+config.NameFilter+"%")
	}
	if len(config.IncludeIDs) > 0 {
		query = query.Where("e.tournament_id IN ?", []string(config.IncludeIDs))
	}
	if len(config.ExcludeIDs) > 0 {
		query = query.Where("e.tournament_id NOT IN ?", []string(config.ExcludeIDs))
	}
	if config.IncludeAfter != nil {
		query = query.Where("e.start_date >= ?", *config.IncludeAfter)
	}
	if config.IncludeBefore != nil {
		query = query.Where("e.start_date <= ?", *config.IncludeBefore)
	}

	var rows []resultRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("load results for series %s: %w", config.Slug, err)
	}

	totals := aggregateTotals(rows, scheme)
	return applyQualificationCutoff(totals, config.QualificationCutoff), nil
}

// applyQualificationCutoff drops players whose points fall below the
// series cutoff, preserving order. A nil cutoff keeps everyone.
func applyQualificationCutoff(totals []PlayerTotals, cutoff *float64) []PlayerTotals {
	if cutoff == nil {
		return totals
	}
	qualified := totals[:0]
	for _, t := range totals {
		if t.Points >= *cutoff {
			qualified = append(qualified, t)
		}
	}
	return qualified
}

// aggregateTotals folds result rows into per-player standings. Averages
// and bests only consider real finishes; unplaced entries still count as
// events played and still score DNP points.
func aggregateTotals(rows []resultRow, scheme models.PointScheme) []PlayerTotals {
	type acc struct {
		events    int
		points    float64
		finishSum int
		finishes  int
		best      *int
		podiums   int
		lastDate  *time.Time
	}

	byPlayer := make(map[string]*acc)
	for _, row := range rows {
		a := byPlayer[row.Player]
		if a == nil {
			a = &acc{}
			byPlayer[row.Player] = a
		}
		a.events++
		a.points += PointsForFinish(row.Finish, scheme)
		if row.Finish != nil {
			f := *row.Finish
			a.finishSum += f
			a.finishes++
			if a.best == nil || f < *a.best {
				a.best = &f
			}
			if f >= 1 && f <= 3 {
				a.podiums++
			}
		}
		if row.StartDate != nil && (a.lastDate == nil || row.StartDate.After(*a.lastDate)) {
			d := *row.StartDate
			a.lastDate = &d
		}
	}

	totals := make([]PlayerTotals, 0, len(byPlayer))
	for player, a := range byPlayer {
		t := PlayerTotals{
			Player:        player,
			EventsPlayed:  a.events,
			Points:        a.points,
			BestFinish:    a.best,
			Podiums:       a.podiums,
			LastEventDate: a.lastDate,
		}
		if a.finishes > 0 {
			avg := float64(a.finishSum) / float64(a.finishes)
			t.AvgFinish = &avg
		}
		totals = append(totals, t)
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].Points != totals[j].Points {
			return totals[i].Points > totals[j].Points
		}
		ai, aj := totals[i].AvgFinish, totals[j].AvgFinish
		switch {
		case ai != nil && aj != nil && *ai != *aj:
			return *ai < *aj
		case ai != nil && aj == nil:
			return true
		case ai == nil && aj != nil:
			return false
		}
		return totals[i].Player < totals[j].Player
	})
	return totals
}

// ListEvents returns stored events for an organizer, newest first.
func (s *LeaderboardService) ListEvents(organizer string, since, until *time.Time, limit int) ([]models.TournamentEvent, error) {
	query := s.DB.Where("organizer = ?", organizer).Order("start_date DESC NULLS LAST")
	if since != nil {
		query = query.Where("start_date >= ?", *since)
	}
	if until != nil {
		query = query.Where("start_date <= ?", *until)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}

	var events []models.TournamentEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list events for %s: %w", organizer, err)
	}
	return events, nil
}

// EventResults returns one tournament's stored result rows.
func (s *LeaderboardService) EventResults(tournamentID string) ([]models.PlayerResult, error) {
	var results []models.PlayerResult
	err := s.DB.Where("tournament_id = ?", tournamentID).
		Order("finish ASC NULLS LAST, player ASC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("load results for tournament %s: %w", tournamentID, err)
	}
	return results, nil
}

// GetLeaderboardEndpoint serves an organizer's standings.
// GET /organizers/:organizer/leaderboard?scheme=balanced
func (s *LeaderboardService) GetLeaderboardEndpoint(c *fiber.Ctx) error {
	organizer := c.Params("organizer")
	schemeSlug := c.Query("scheme", "balanced")

	totals, err := s.GetLeaderboard(organizer, schemeSlug)
	if err != nil {
		if errors.Is(err, ErrUnknownScheme) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to compute leaderboard"})
	}

	return c.JSON(fiber.Map{
		"organizer": organizer,
		"scheme":    schemeSlug,
		"players":   totals,
	})
}

// ListEventsEndpoint serves stored events.
// GET /organizers/:organizer/events?since=&until=&limit=
func (s *LeaderboardService) ListEventsEndpoint(c *fiber.Ctx) error {
	organizer := c.Params("organizer")
	limit := c.QueryInt("limit", 0)

	var since, until *time.Time
	if v := c.Query("since"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "since must be YYYY-MM-DD"})
		}
		since = &t
	}
	if v := c.Query("until"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "until must be YYYY-MM-DD"})
		}
		until = &t
	}

	events, err := s.ListEvents(organizer, since, until, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list events"})
	}
	return c.JSON(fiber.Map{"organizer": organizer, "events": events})
}

// EventResultsEndpoint serves one tournament's result rows.
// GET /tournaments/:id/results
func (s *LeaderboardService) EventResultsEndpoint(c *fiber.Ctx) error {
	tournamentID := c.Params("id")

	var event models.TournamentEvent
	err := s.DB.First(&event, "tournament_id = ?", tournamentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "tournament not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load tournament"})
	}

	results, err := s.EventResults(tournamentID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load results"})
	}
	return c.JSON(fiber.Map{"tournament": event, "results": results})
}

// ListSchemesEndpoint serves the point scheme catalog.
// GET /schemes
func (s *LeaderboardService) ListSchemesEndpoint(c *fiber.Ctx) error {
	schemes, err := s.Schemes.All()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list schemes"})
	}
	return c.JSON(fiber.Map{"schemes": schemes})
}
