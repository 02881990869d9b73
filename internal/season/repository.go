package season

import (
	"cmp"
	"context"
	"slices"

	"github.com/lavictoria/club-api/internal/member"
	"github.com/lavictoria/club-api/internal/model"
	"github.com/lavictoria/club-api/internal/shared/pagination"

	"gorm.io/gorm"
)

type SeasonRepository struct{}

func NewSeasonRepository() *SeasonRepository {
	return &SeasonRepository{}
}

func (s *SeasonRepository) Create(ctx context.Context, db *gorm.DB, season *model.Season) error {
	return db.WithContext(ctx).Create(season).Error
}

func (s *SeasonRepository) Save(ctx context.Context, db *gorm.DB, season *model.Season) error {
	return db.WithContext(ctx).Save(season).Error
}

func (s *SeasonRepository) FindByID(ctx context.Context, db *gorm.DB, id uint32) (*model.Season, error) {
	var season model.Season
	err := db.WithContext(ctx).Where("id = ?", id).First(&season).Error
	if err != nil {
		return nil, err
	}
	return &season, nil
}

// FindAll returns every season, newest start date first.
func (s *SeasonRepository) FindAll(ctx context.Context, db *gorm.DB) ([]model.Season, error) {
	var seasons []model.Season
	err := db.WithContext(ctx).Order("start_date DESC").Order("id DESC").Find(&seasons).Error
	return seasons, err
}

// FindOverlapping returns seasons whose closed interval intersects [start, end].
// excludeID skips the season being updated.
func (s *SeasonRepository) FindOverlapping(ctx context.Context, db *gorm.DB, start, end string, excludeID uint32) ([]model.Season, error) {
	query := db.WithContext(ctx).Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var seasons []model.Season
	err := query.Order("start_date ASC").Order("id ASC").Find(&seasons).Error
	return seasons, err
}

// FindContaining returns seasons that include day, ordered by start date then id.
func (s *SeasonRepository) FindContaining(ctx context.Context, db *gorm.DB, day string) ([]model.Season, error) {
	var seasons []model.Season
	err := db.WithContext(ctx).
		Where("start_date <= ? AND end_date >= ?", day, day).
		Order("start_date ASC").Order("id ASC").
		Find(&seasons).Error
	return seasons, err
}

func (s *SeasonRepository) Delete(ctx context.Context, db *gorm.DB, id uint32) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&model.Season{})
	return result.RowsAffected, result.Error
}

type EnrollmentRepository struct{}

func NewEnrollmentRepository() *EnrollmentRepository {
	return &EnrollmentRepository{}
}

func (e *EnrollmentRepository) Create(ctx context.Context, db *gorm.DB, enrollment *model.Enrollment) error {
	return db.WithContext(ctx).Create(enrollment).Error
}

func (e *EnrollmentRepository) Exists(ctx context.Context, db *gorm.DB, seasonID, memberID uint32) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Model(&model.Enrollment{}).
		Where("season_id = ? AND member_id = ?", seasonID, memberID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Delete removes one enrollment and returns the number of rows affected.
func (e *EnrollmentRepository) Delete(ctx context.Context, db *gorm.DB, seasonID, memberID uint32) (int64, error) {
	result := db.WithContext(ctx).
		Where("season_id = ? AND member_id = ?", seasonID, memberID).
		Delete(&model.Enrollment{})
	return result.RowsAffected, result.Error
}

func (e *EnrollmentRepository) DeleteBySeason(ctx context.Context, db *gorm.DB, seasonID uint32) error {
	return db.WithContext(ctx).Where("season_id = ?", seasonID).Delete(&model.Enrollment{}).Error
}

// FindBySeason loads the season's enrollments with their members, ordered by member name.
func (e *EnrollmentRepository) FindBySeason(ctx context.Context, db *gorm.DB, seasonID uint32) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := db.WithContext(ctx).
		Preload("Member").
		Where("season_id = ?", seasonID).
		Order("id ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}

	enrollments = slices.DeleteFunc(enrollments, func(e model.Enrollment) bool { return e.Member == nil })
	slices.SortStableFunc(enrollments, func(a, b model.Enrollment) int {
		return cmp.Or(
			cmp.Compare(a.Member.LastName, b.Member.LastName),
			cmp.Compare(a.Member.FirstName, b.Member.FirstName),
		)
	})
	return enrollments, nil
}

// FindAvailableMembers pages through members not enrolled in the season.
func (e *EnrollmentRepository) FindAvailableMembers(ctx context.Context, db *gorm.DB, seasonID uint32, q pagination.Query) ([]model.Member, int64, error) {
	enrolled := db.Model(&model.Enrollment{}).Select("member_id").Where("season_id = ?", seasonID)

	query := db.WithContext(ctx).
		Model(&model.Member{}).
		Where("member.id NOT IN (?)", enrolled).
		Scopes(member.SearchScope(q.LikePattern()))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []model.Member
	err := query.
		Order("last_name ASC").Order("first_name ASC").Order("id ASC").
		Offset(q.Offset()).Limit(q.Limit).
		Find(&members).Error
	if err != nil {
		return nil, 0, err
	}
	return members, total, nil
}
