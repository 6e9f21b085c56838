package models

// Organizer is an account whose hosted tournaments we track. Scheduled
// ingest runs cover every active organizer.
type Organizer struct {
	Username string `json:"username" gorm:"primaryKey"`
	Active   bool   `json:"active" gorm:"default:true"`
	Note     string `json:"note"`
	Timestamps
}

func (Organizer) TableName() string {
	return "tournament_ingest_organizers"
}
