package models

import "time"

const (
	SchemeModeFixed      = "fixed"
	SchemeModeMultiplier = "multiplier"
)

// SchemeRule awards points (or a multiplier on the base) to finishes in
// the inclusive [MinPlace, MaxPlace] band. A nil MaxPlace leaves the band
// open-ended; a rule with nil MinPlace never matches.
type SchemeRule struct {
	MinPlace   *int     `json:"min"`
	MaxPlace   *int     `json:"max"`
	Points     *float64 `json:"points,omitempty"`
	Multiplier *float64 `json:"multiplier,omitempty"`
}

type SchemeRules []SchemeRule

// PointScheme converts a placement into points. Mode picks how Rules are
// applied: "fixed" adds rule points onto BasePoints, "multiplier" scales
// BasePoints by the rule multiplier.
type PointScheme struct {
	Slug       string      `json:"slug" gorm:"primaryKey"`
	Label      string      `json:"label"`
	Mode       string      `json:"mode"`
	BasePoints float64     `json:"base_points"`
	DNPPoints  float64     `json:"dnp_points" gorm:"column:dnp_points"`
	Rules      SchemeRules `json:"rules" gorm:"type:jsonb"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

func (PointScheme) TableName() string {
	return "point_schemes"
}

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

// DefaultPointSchemes is the seed catalog. Seeding is insert-if-absent so
// operator edits to a live scheme survive restarts.
func DefaultPointSchemes() []PointScheme {
	return []PointScheme{
		{
			Slug:       "balanced",
			Label:      "Balanced",
			Mode:       SchemeModeFixed,
			BasePoints: 0,
			DNPPoints:  0,
			Rules: SchemeRules{
				{MinPlace: intp(1), MaxPlace: intp(1), Points: floatp(25)},
				{MinPlace: intp(2), MaxPlace: intp(2), Points: floatp(18)},
				{MinPlace: intp(3), MaxPlace: intp(4), Points: floatp(12)},
				{MinPlace: intp(5), MaxPlace: intp(8), Points: floatp(8)},
				{MinPlace: intp(9), MaxPlace: intp(16), Points: floatp(5)},
				{MinPlace: intp(17), MaxPlace: nil, Points: floatp(2)},
			},
		},
		{
			Slug:       "performance",
			Label:      "Performance",
			Mode:       SchemeModeFixed,
			BasePoints: 0,
			DNPPoints:  0,
			Rules: SchemeRules{
				{MinPlace: intp(1), MaxPlace: intp(1), Points: floatp(50)},
				{MinPlace: intp(2), MaxPlace: intp(2), Points: floatp(30)},
				{MinPlace: intp(3), MaxPlace: intp(3), Points: floatp(20)},
				{MinPlace: intp(4), MaxPlace: intp(4), Points: floatp(15)},
				{MinPlace: intp(5), MaxPlace: intp(8), Points: floatp(10)},
				{MinPlace: intp(9), MaxPlace: intp(16), Points: floatp(5)},
				{MinPlace: intp(17), MaxPlace: nil, Points: floatp(1)},
			},
		},
		{
			Slug:       "participation",
			Label:      "Participation",
			Mode:       SchemeModeMultiplier,
			BasePoints: 1,
			DNPPoints:  0,
			Rules: SchemeRules{
				{MinPlace: intp(1), MaxPlace: intp(1), Multiplier: floatp(3.0)},
				{MinPlace: intp(2), MaxPlace: intp(2), Multiplier: floatp(2.5)},
				{MinPlace: intp(3), MaxPlace: intp(4), Multiplier: floatp(2.0)},
				{MinPlace: intp(5), MaxPlace: intp(8), Multiplier: floatp(1.5)},
				{MinPlace: intp(9), MaxPlace: intp(16), Multiplier: floatp(1.2)},
				{MinPlace: intp(17), MaxPlace: nil, Multiplier: floatp(1.0)},
			},
		},
	}
}
