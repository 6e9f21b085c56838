package models

import "time"

// IngestState records the outcome of the most recent ingest run per
// organizer. Success and failure writes touch disjoint columns, so
// last_success_at always points at the last good run even after failures.
type IngestState struct {
	Organizer       string     `json:"organizer" gorm:"primaryKey"`
	LastRunAt       *time.Time `json:"last_run_at"`
	LastSuccessAt   *time.Time `json:"last_success_at"`
	LastError       *string    `json:"last_error"`
	LastEventCount  int        `json:"last_event_count"`
	LastResultCount int        `json:"last_result_count"`
	LastWindowDays  int        `json:"last_window_days"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (IngestState) TableName() string {
	return "tournament_ingest_state"
}
