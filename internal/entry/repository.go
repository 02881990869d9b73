package entry

import (
	"context"
	"time"

	"github.com/lavictoria/club-api/internal/model"
	"github.com/lavictoria/club-api/internal/shared/pagination"

	"gorm.io/gorm"
)

type EntryRepository struct{}

func NewEntryRepository() *EntryRepository {
	return &EntryRepository{}
}

// newestFirst orders by creation time descending, ties by id ascending.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC").Order("id ASC")
}

func (e *EntryRepository) Create(ctx context.Context, db *gorm.DB, record *model.EntryRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (e *EntryRepository) FindByID(ctx context.Context, db *gorm.DB, id uint32) (*model.EntryRecord, error) {
	var record model.EntryRecord
	err := db.WithContext(ctx).Preload("Member").Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ExistsInWindow reports whether the identity already checked in between start and end.
func (e *EntryRepository) ExistsInWindow(ctx context.Context, db *gorm.DB, start, end time.Time, memberID *uint32, dni *string) (bool, error) {
	query := db.WithContext(ctx).
		Model(&model.EntryRecord{}).
		Where("created_at BETWEEN ? AND ?", start, end)

	switch {
	case memberID != nil:
		query = query.Where("member_id = ?", *memberID)
	case dni != nil:
		query = query.Where("dni = ?", *dni)
	default:
		return false, nil
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByDNI returns the non-member check-ins of a document number.
func (e *EntryRepository) FindByDNI(ctx context.Context, db *gorm.DB, dni string) ([]model.EntryRecord, error) {
	var records []model.EntryRecord
	err := db.WithContext(ctx).
		Preload("Member").
		Where("dni = ?", dni).
		Scopes(newestFirst).
		Find(&records).Error
	return records, err
}

// FindBetween returns check-ins created in [start, end]. poolOnly keeps only pool entries.
func (e *EntryRepository) FindBetween(ctx context.Context, db *gorm.DB, start, end time.Time, poolOnly bool) ([]model.EntryRecord, error) {
	query := db.WithContext(ctx).
		Preload("Member").
		Where("created_at BETWEEN ? AND ?", start, end)
	if poolOnly {
		query = query.Where("pool_access = ?", true)
	}

	var records []model.EntryRecord
	err := query.Scopes(newestFirst).Find(&records).Error
	return records, err
}

func (e *EntryRepository) FindPage(ctx context.Context, db *gorm.DB, q pagination.Query) ([]model.EntryRecord, int64, error) {
	var total int64
	if err := db.WithContext(ctx).Model(&model.EntryRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.EntryRecord
	err := db.WithContext(ctx).
		Preload("Member").
		Scopes(newestFirst).
		Offset(q.Offset()).Limit(q.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}
