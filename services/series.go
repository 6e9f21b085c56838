package services

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"guild-series-tracker/models"
)

// SeriesService manages saved leaderboard views.
type SeriesService struct {
	DB           *gorm.DB
	Leaderboards *LeaderboardService
}

func NewSeriesService(db *gorm.DB, leaderboards *LeaderboardService) *SeriesService {
	return &SeriesService{DB: db, Leaderboards: leaderboards}
}

func (s *SeriesService) List(organizer string) ([]models.SeriesConfig, error) {
	query := s.DB.Order("name")
	if organizer != "" {
		query = query.Where("organizer = ?", organizer)
	}

	var configs []models.SeriesConfig
	if err := query.Find(&configs).Error; err != nil {
		return nil, fmt.Errorf("list series configs: %w", err)
	}
	return configs, nil
}

func (s *SeriesService) GetBySlug(slugValue string) (models.SeriesConfig, error) {
	var config models.SeriesConfig
	err := s.DB.First(&config, "slug = ?", slugValue).Error
	if err != nil {
		return models.SeriesConfig{}, err
	}
	return config, nil
}

// Save upserts a config keyed on its slug, which is derived from the name
// when the caller leaves it blank.
func (s *SeriesService) Save(config models.SeriesConfig) (models.SeriesConfig, error) {
	if config.Name == "" || config.Organizer == "" {
		return models.SeriesConfig{}, errors.New("series config needs a name and an organizer")
	}
	if config.ID == "" {
		config.ID = uuid.NewString()
	}
	if config.Slug == "" {
		config.Slug = slug.Make(config.Name)
	}
	if config.PointScheme == "" {
		config.PointScheme = "balanced"
	}
	if config.Visibility == "" {
		config.Visibility = models.SeriesVisibilityPublic
	}

	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "slug"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "organizer", "point_scheme", "name_filter",
			"include_ids", "exclude_ids", "include_after", "include_before",
			"visibility", "note", "qualification_cutoff", "updated_at",
		}),
	}).Create(&config).Error
	if err != nil {
		return models.SeriesConfig{}, fmt.Errorf("save series config %s: %w", config.Slug, err)
	}
	return config, nil
}

// Delete removes the row outright. The slug is unique, so a soft delete
// would leave a tombstone that blocks recreating the series later.
func (s *SeriesService) Delete(slugValue string) error {
	result := s.DB.Unscoped().Where("slug = ?", slugValue).Delete(&models.SeriesConfig{})
	if result.Error != nil {
		return fmt.Errorf("delete series config %s: %w", slugValue, result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListEndpoint serves saved configs.
// GET /series-configs?organizer=
func (s *SeriesService) ListEndpoint(c *fiber.Ctx) error {
	configs, err := s.List(c.Query("organizer"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list series configs"})
	}
	return c.JSON(fiber.Map{"configs": configs})
}

// GetEndpoint serves one config.
// GET /series-configs/:slug
func (s *SeriesService) GetEndpoint(c *fiber.Ctx) error {
	config, err := s.GetBySlug(c.Params("slug"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "series config not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load series config"})
	}
	return c.JSON(config)
}

// LeaderboardEndpoint serves the standings a config selects.
// GET /series-configs/:slug/leaderboard
func (s *SeriesService) LeaderboardEndpoint(c *fiber.Ctx) error {
	config, err := s.GetBySlug(c.Params("slug"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "series config not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load series config"})
	}

	totals, err := s.Leaderboards.GetLeaderboardForConfig(config)
	if err != nil {
		if errors.Is(err, ErrUnknownScheme) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to compute leaderboard"})
	}

	return c.JSON(fiber.Map{
		"series":  config.Slug,
		"scheme":  config.PointScheme,
		"players": totals,
	})
}

// SaveEndpoint creates or updates a config.
// POST /series-configs
func (s *SeriesService) SaveEndpoint(c *fiber.Ctx) error {
	var config models.SeriesConfig
	if err := c.BodyParser(&config); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	saved, err := s.Save(config)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// DeleteEndpoint removes a config.
// DELETE /series-configs/:slug
func (s *SeriesService) DeleteEndpoint(c *fiber.Ctx) error {
	err := s.Delete(c.Params("slug"))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "series config not found"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete series config"})
	}
	return c.JSON(fiber.Map{"deleted": true})
}
