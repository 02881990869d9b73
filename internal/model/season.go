package model

import "time"

// Season is a pool season. StartDate and EndDate are inclusive civil dates (YYYY-MM-DD).
type Season struct {
	ID          uint32    `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;type:VARCHAR2(100);not null"`
	StartDate   string    `gorm:"column:start_date;type:VARCHAR2(10);not null;index:idx_season_range,priority:1"`
	EndDate     string    `gorm:"column:end_date;type:VARCHAR2(10);not null;index:idx_season_range,priority:2"`
	Description *string   `gorm:"column:description;type:VARCHAR2(500)"`
	CreatedAt   time.Time `gorm:"column:created_at;not null"`
}

func (*Season) TableName() string {
	return "season"
}

// Contains reports whether day (YYYY-MM-DD) falls inside the closed interval.
func (s *Season) Contains(day string) bool {
	return s.StartDate <= day && s.EndDate >= day
}
