package model

import (
	"fmt"
	"time"
)

type EntryCategory string

const (
	EntryCategoryClubMember EntryCategory = "CLUB_MEMBER"
	EntryCategoryPoolMember EntryCategory = "POOL_MEMBER"
	EntryCategoryNonMember  EntryCategory = "NON_MEMBER"
)

func (c EntryCategory) IsMember() bool {
	return c == EntryCategoryClubMember || c == EntryCategoryPoolMember
}

func (c EntryCategory) Valid() bool {
	return c.IsMember() || c == EntryCategoryNonMember
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "CASH"
	PaymentMethodTransfer PaymentMethod = "TRANSFER"
)

// EntryRecord is one check-in. Rows are only ever inserted.
// (EntryDay, IdentityKey) is unique: one check-in per person per civil day.
type EntryRecord struct {
	ID            uint32         `gorm:"column:id;primaryKey;autoIncrement"`
	MemberID      *uint32        `gorm:"column:member_id;index:idx_entry_member"`
	DNI           *string        `gorm:"column:dni;type:VARCHAR2(20);index:idx_entry_dni"`
	Category      EntryCategory  `gorm:"column:category;type:VARCHAR2(20);not null"`
	PoolAccess    bool           `gorm:"column:pool_access;not null;default:false"`
	PaymentMethod *PaymentMethod `gorm:"column:payment_method;type:VARCHAR2(10)"`
	Amount        int            `gorm:"column:amount;not null;default:0"`
	CreatedAt     time.Time      `gorm:"column:created_at;not null;autoCreateTime:false;index:idx_entry_created"`
	EntryDay      string         `gorm:"column:entry_day;type:VARCHAR2(10);not null;uniqueIndex:idx_entry_day_identity,priority:1"`
	IdentityKey   string         `gorm:"column:identity_key;type:VARCHAR2(30);not null;uniqueIndex:idx_entry_day_identity,priority:2"`

	Member *Member `gorm:"foreignKey:MemberID;constraint:OnDelete:SET NULL"`
}

func (*EntryRecord) TableName() string {
	return "entry_record"
}

// EntryIdentityKey is the per-day identity of a check-in: the member for member
// categories, the document number otherwise.
func EntryIdentityKey(memberID *uint32, dni *string) string {
	if memberID != nil {
		return fmt.Sprintf("member:%d", *memberID)
	}
	if dni != nil {
		return "dni:" + *dni
	}
	return ""
}
