package models

import "time"

const (
	SeriesVisibilityPublic   = "public"
	SeriesVisibilityUnlisted = "unlisted"
)

// SeriesConfig is a saved leaderboard view: an organizer plus the filters
// that select which of their tournaments count toward a series.
type SeriesConfig struct {
	ID                  string     `json:"id" gorm:"primaryKey"`
	Slug                string     `json:"slug" gorm:"uniqueIndex;not null"`
	Name                string     `json:"name" gorm:"not null"`
	Organizer           string     `json:"organizer" gorm:"index;not null"`
	PointScheme         string     `json:"point_scheme" gorm:"default:balanced"`
	NameFilter          string     `json:"name_filter"`
	IncludeIDs          StringList `json:"include_ids" gorm:"type:jsonb"`
	ExcludeIDs          StringList `json:"exclude_ids" gorm:"type:jsonb"`
	IncludeAfter        *time.Time `json:"include_after"`
	IncludeBefore       *time.Time `json:"include_before"`
	Visibility          string     `json:"visibility" gorm:"default:public"`
	Note                *string    `json:"note"`
	QualificationCutoff *float64   `json:"qualification_cutoff"`
	Timestamps
}

func (SeriesConfig) TableName() string {
	return "series_configs"
}
