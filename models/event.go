package models

import "time"

// TournamentEvent is one hosted tournament as last seen from the game API.
// tournament_id is the API's own id, so re-ingesting the same event is an
// update, never a duplicate.
type TournamentEvent struct {
	TournamentID string       `json:"tournament_id" gorm:"primaryKey;column:tournament_id"`
	Organizer    string       `json:"organizer" gorm:"index;not null"`
	Name         string       `json:"name"`
	StartDate    *time.Time   `json:"start_date" gorm:"index"`
	Status       string       `json:"status"`
	Entrants     *int         `json:"entrants"`
	Payouts      PayoutRules  `json:"payouts" gorm:"type:jsonb"`
	AllowedCards JSONMap      `json:"allowed_cards" gorm:"type:jsonb"`
	RawList      JSONMap      `json:"-" gorm:"type:jsonb"`
	RawDetail    JSONMap      `json:"-" gorm:"type:jsonb"`
	UpdatedAt    time.Time    `json:"updated_at"`

	Results []PlayerResult `json:"results,omitempty" gorm:"foreignKey:TournamentID;references:TournamentID;constraint:OnDelete:CASCADE"`
}

func (TournamentEvent) TableName() string {
	return "tournament_events"
}

// PlayerResult is one player's outcome in one tournament. Finish stays nil
// for registered players who never got a placement.
type PlayerResult struct {
	TournamentID string     `json:"tournament_id" gorm:"primaryKey;column:tournament_id"`
	Player       string     `json:"player" gorm:"primaryKey"`
	Finish       *int       `json:"finish"`
	PrizeTokens  PrizeItems `json:"prize_tokens" gorm:"type:jsonb"`
	PrizeText    *string    `json:"prize_text"`
	Raw          JSONMap    `json:"-" gorm:"type:jsonb"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (PlayerResult) TableName() string {
	return "tournament_results"
}
