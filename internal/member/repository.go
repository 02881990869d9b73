package member

import (
	"context"

	"github.com/lavictoria/club-api/internal/model"
	"github.com/lavictoria/club-api/internal/shared/pagination"

	"gorm.io/gorm"
)

type MemberRepository struct{}

func NewMemberRepository() *MemberRepository {
	return &MemberRepository{}
}

func (m *MemberRepository) Create(ctx context.Context, db *gorm.DB, member *model.Member) error {
	return db.WithContext(ctx).Create(member).Error
}

func (m *MemberRepository) Save(ctx context.Context, db *gorm.DB, member *model.Member) error {
	return db.WithContext(ctx).Save(member).Error
}

func (m *MemberRepository) FindByID(ctx context.Context, db *gorm.DB, id uint32) (*model.Member, error) {
	var member model.Member
	err := db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (m *MemberRepository) FindByDNI(ctx context.Context, db *gorm.DB, dni string) (*model.Member, error) {
	var member model.Member
	err := db.WithContext(ctx).Where("dni = ?", dni).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (m *MemberRepository) ExistsByID(ctx context.Context, db *gorm.DB, id uint32) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(&model.Member{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// IsDNITaken reports whether another member already uses dni. excludeID skips the member being updated.
func (m *MemberRepository) IsDNITaken(ctx context.Context, db *gorm.DB, dni string, excludeID uint32) (bool, error) {
	var count int64
	query := db.WithContext(ctx).Model(&model.Member{}).Where("dni = ?", dni)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindPage returns members ordered by last name then first name.
func (m *MemberRepository) FindPage(ctx context.Context, db *gorm.DB, q pagination.Query) ([]model.Member, int64, error) {
	query := db.WithContext(ctx).Model(&model.Member{}).Scopes(SearchScope(q.LikePattern()))

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

// Delete removes the member row and returns the number of rows affected.
func (m *MemberRepository) Delete(ctx context.Context, db *gorm.DB, id uint32) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&model.Member{})
	return result.RowsAffected, result.Error
}

// DeleteEnrollments removes every season enrollment of the member.
func (m *MemberRepository) DeleteEnrollments(ctx context.Context, db *gorm.DB, memberID uint32) error {
	return db.WithContext(ctx).Where("member_id = ?", memberID).Delete(&model.Enrollment{}).Error
}

// DetachEntries keeps the member's check-ins but drops the reference to the member.
func (m *MemberRepository) DetachEntries(ctx context.Context, db *gorm.DB, memberID uint32) error {
	return db.WithContext(ctx).
		Model(&model.EntryRecord{}).
		Where("member_id = ?", memberID).
		Update("member_id", nil).Error
}

// SearchScope filters by a lower-cased %term% pattern over name, dni and email.
// An empty pattern matches everything.
func SearchScope(pattern string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pattern == "" {
			return db
		}
		return db.Where(
			"(LOWER(member.first_name) LIKE ? OR LOWER(member.last_name) LIKE ? OR member.dni LIKE ? OR LOWER(member.email) LIKE ?)",
			pattern, pattern, pattern, pattern,
		)
	}
}
