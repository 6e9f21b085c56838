package services

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"guild-series-tracker/models"
)

// OrganizerService manages the set of tracked organizers.
type OrganizerService struct {
	DB *gorm.DB
}

func NewOrganizerService(db *gorm.DB) *OrganizerService {
	return &OrganizerService{DB: db}
}

func (s *OrganizerService) Upsert(organizer models.Organizer) (models.Organizer, error) {
	if organizer.Username == "" {
		return models.Organizer{}, errors.New("organizer needs a username")
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"active", "note", "updated_at"}),
	}).Create(&organizer).Error
	if err != nil {
		return models.Organizer{}, fmt.Errorf("save organizer %s: %w", organizer.Username, err)
	}
	return organizer, nil
}

// ListEndpoint serves active organizers.
// GET /organizers
func (s *OrganizerService) ListEndpoint(c *fiber.Ctx) error {
	var organizers []models.Organizer
	err := s.DB.Where("active = ?", true).Order("username").Find(&organizers).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list organizers"})
	}
	return c.JSON(fiber.Map{"organizers": organizers})
}

// UpsertEndpoint registers or updates an organizer.
// POST /organizers
func (s *OrganizerService) UpsertEndpoint(c *fiber.Ctx) error {
	organizer := models.Organizer{Active: true}
	if err := c.BodyParser(&organizer); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	saved, err := s.Upsert(organizer)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(saved)
}

// SetActiveEndpoint flips an organizer's active flag.
// PATCH /organizers/:username
func (s *OrganizerService) SetActiveEndpoint(c *fiber.Ctx) error {
	var body struct {
		Active *bool `json:"active"`
	}
	if err := c.BodyParser(&body); err != nil || body.Active == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body must include active"})
	}

	username := c.Params("username")
	result := s.DB.Model(&models.Organizer{}).
		Where("username = ?", username).
		Update("active", *body.Active)
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update organizer"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "organizer not found"})
	}
	return c.JSON(fiber.Map{"username": username, "active": *body.Active})
}
