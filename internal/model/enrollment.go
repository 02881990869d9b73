package model

import "time"

// Enrollment links a member to a season. A member appears at most once per season.
type Enrollment struct {
	ID         uint32    `gorm:"column:id;primaryKey;autoIncrement"`
	SeasonID   uint32    `gorm:"column:season_id;not null;uniqueIndex:idx_enrollment_season_member,priority:1"`
	MemberID   uint32    `gorm:"column:member_id;not null;uniqueIndex:idx_enrollment_season_member,priority:2;index:idx_enrollment_member"`
	EnrolledAt time.Time `gorm:"column:enrolled_at;not null"`

	Season *Season `gorm:"foreignKey:SeasonID;constraint:OnDelete:CASCADE"`
	Member *Member `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE"`
}

func (*Enrollment) TableName() string {
	return "season_enrollment"
}
