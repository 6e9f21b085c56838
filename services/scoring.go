package services

import (
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"guild-series-tracker/models"
)

// ErrUnknownScheme is returned when a caller names a point scheme that is
// not in the catalog. Callers never fall back to a default silently.
var ErrUnknownScheme = errors.New("unknown point scheme")

// SchemeCatalog reads point schemes from the database. Scoring code takes
// a scheme as a parameter; nothing scores against an ambient default.
type SchemeCatalog struct {
	DB *gorm.DB
}

func (c *SchemeCatalog) Get(slug string) (models.PointScheme, error) {
	var scheme models.PointScheme
	err := c.DB.First(&scheme, "slug = ?", slug).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PointScheme{}, fmt.Errorf("%w: %s", ErrUnknownScheme, slug)
	}
	if err != nil {
		return models.PointScheme{}, fmt.Errorf("load point scheme %s: %w", slug, err)
	}
	return scheme, nil
}

func (c *SchemeCatalog) All() ([]models.PointScheme, error) {
	var schemes []models.PointScheme
	if err := c.DB.Order("slug").Find(&schemes).Error; err != nil {
		return nil, fmt.Errorf("list point schemes: %w", err)
	}
	return schemes, nil
}

// SeedPointSchemes inserts the default schemes, leaving existing rows
// untouched so operator edits survive restarts.
func SeedPointSchemes(db *gorm.DB) error {
	schemes := models.DefaultPointSchemes()
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).Create(&schemes).Error
	if err != nil {
		return fmt.Errorf("seed point schemes: %w", err)
	}
	log.Printf("✅ Point scheme catalog ready (%d defaults)", len(schemes))
	return nil
}

// PointsForFinish scores one placement under a scheme. A nil finish means
// the player registered but never placed and earns the scheme's DNP
// points, as does a finish no rule band covers. The first rule in
// declared order whose band contains the finish wins.
func PointsForFinish(finish *int, scheme models.PointScheme) float64 {
	if finish == nil {
		return scheme.DNPPoints
	}
	for _, rule := range scheme.Rules {
		if rule.MinPlace == nil {
			continue
		}
		if *finish < *rule.MinPlace {
			continue
		}
		if rule.MaxPlace != nil && *finish > *rule.MaxPlace {
			continue
		}
		if scheme.Mode == models.SchemeModeMultiplier {
			multiplier := 1.0
			if rule.Multiplier != nil {
				multiplier = *rule.Multiplier
			}
			return scheme.BasePoints * multiplier
		}
		points := 0.0
		if rule.Points != nil {
			points = *rule.Points
		}
		return scheme.BasePoints + points
	}
	return scheme.DNPPoints
}
