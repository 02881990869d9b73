package season

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lavictoria/club-api/internal/member"
	"github.com/lavictoria/club-api/internal/model"
	"github.com/lavictoria/club-api/internal/shared/clock"
	"github.com/lavictoria/club-api/internal/shared/database"
	"github.com/lavictoria/club-api/internal/shared/logger"
	"github.com/lavictoria/club-api/internal/shared/pagination"

	"gorm.io/gorm"
)

type SeasonService struct {
	db                   *gorm.DB
	seasonRepository     *SeasonRepository
	enrollmentRepository *EnrollmentRepository
	memberRepository     *member.MemberRepository
	resolver             *clock.Resolver
}

func NewSeasonService(
	db *gorm.DB,
	seasonRepository *SeasonRepository,
	enrollmentRepository *EnrollmentRepository,
	memberRepository *member.MemberRepository,
	resolver *clock.Resolver,
) *SeasonService {
	return &SeasonService{
		db:                   db,
		seasonRepository:     seasonRepository,
		enrollmentRepository: enrollmentRepository,
		memberRepository:     memberRepository,
		resolver:             resolver,
	}
}

var _ member.SeasonRegistry = (*SeasonService)(nil)

func (s *SeasonService) Create(ctx context.Context, req *CreateSeasonRequest) (*SeasonResponse, error) {
	log := logger.FromContext(ctx)

	if req.StartDate > req.EndDate {
		return nil, fmt.Errorf("%s > %s: %w", req.StartDate, req.EndDate, ErrInvalidSeasonRange)
	}

	season := &model.Season{
		Name:        strings.TrimSpace(req.Name),
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Description: req.Description,
		CreatedAt:   s.resolver.Now(),
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.checkOverlap(ctx, tx, season.StartDate, season.EndDate, 0); err != nil {
			return err
		}
		if err := s.seasonRepository.Create(ctx, tx, season); err != nil {
			return fmt.Errorf("create season: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Season created",
		"season_id", season.ID, "start_date", season.StartDate, "end_date", season.EndDate)
	response := NewSeasonResponse(season)
	return &response, nil
}

func (s *SeasonService) List(ctx context.Context) ([]SeasonResponse, error) {
	seasons, err := s.seasonRepository.FindAll(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	responses := make([]SeasonResponse, 0, len(seasons))
	for i := range seasons {
		responses = append(responses, NewSeasonResponse(&seasons[i]))
	}
	return responses, nil
}

func (s *SeasonService) Get(ctx context.Context, id uint32) (*SeasonResponse, error) {
	season, err := s.findSeason(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	response := NewSeasonResponse(season)
	return &response, nil
}

// Update applies the present fields. The resulting range is checked against every other season.
func (s *SeasonService) Update(ctx context.Context, id uint32, req *UpdateSeasonRequest) (*SeasonResponse, error) {
	log := logger.FromContext(ctx)

	var season *model.Season
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		found, err := s.findSeason(ctx, tx, id)
		if err != nil {
			return err
		}
		season = found

		if req.Name != nil {
			season.Name = strings.TrimSpace(*req.Name)
		}
		if req.StartDate != nil {
			season.StartDate = *req.StartDate
		}
		if req.EndDate != nil {
			season.EndDate = *req.EndDate
		}
		if req.Description != nil {
			season.Description = req.Description
		}

		if season.StartDate > season.EndDate {
			return fmt.Errorf("%s > %s: %w", season.StartDate, season.EndDate, ErrInvalidSeasonRange)
		}
		if err := s.checkOverlap(ctx, tx, season.StartDate, season.EndDate, season.ID); err != nil {
			return err
		}

		if err := s.seasonRepository.Save(ctx, tx, season); err != nil {
			return fmt.Errorf("update season: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Season updated", "season_id", id)
	response := NewSeasonResponse(season)
	return &response, nil
}

// Delete removes the season and its enrollments.
func (s *SeasonService) Delete(ctx context.Context, id uint32) error {
	log := logger.FromContext(ctx)

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.enrollmentRepository.DeleteBySeason(ctx, tx, id); err != nil {
			return fmt.Errorf("delete enrollments: %w", err)
		}

		affected, err := s.seasonRepository.Delete(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("delete season: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("season id=%d: %w", id, ErrSeasonNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("Season deleted", "season_id", id)
	return nil
}

func (s *SeasonService) Enroll(ctx context.Context, seasonID, memberID uint32) (*EnrollmentResponse, error) {
	log := logger.FromContext(ctx)

	enrollment := &model.Enrollment{
		SeasonID:   seasonID,
		MemberID:   memberID,
		EnrolledAt: s.resolver.Now(),
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := s.findSeason(ctx, tx, seasonID); err != nil {
			return err
		}

		exists, err := s.memberRepository.ExistsByID(ctx, tx, memberID)
		if err != nil {
			return fmt.Errorf("find member: %w", err)
		}
		if !exists {
			return fmt.Errorf("member id=%d: %w", memberID, member.ErrMemberNotFound)
		}

		enrolled, err := s.enrollmentRepository.Exists(ctx, tx, seasonID, memberID)
		if err != nil {
			return fmt.Errorf("check enrollment: %w", err)
		}
		if enrolled {
			return fmt.Errorf("season id=%d member id=%d: %w", seasonID, memberID, ErrAlreadyEnrolled)
		}

		if err := s.enrollmentRepository.Create(ctx, tx, enrollment); err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("create enrollment: %w", ErrAlreadyEnrolled)
			}
			return fmt.Errorf("create enrollment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("Member enrolled", "season_id", seasonID, "member_id", memberID)
	response := NewEnrollmentResponse(enrollment)
	return &response, nil
}

func (s *SeasonService) Unenroll(ctx context.Context, seasonID, memberID uint32) error {
	affected, err := s.enrollmentRepository.Delete(ctx, s.db, seasonID, memberID)
	if err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("season id=%d member id=%d: %w", seasonID, memberID, ErrEnrollmentNotFound)
	}

	logger.FromContext(ctx).Info("Member unenrolled", "season_id", seasonID, "member_id", memberID)
	return nil
}

// MembersOf lists the season's enrolled members ordered by last name then first name.
func (s *SeasonService) MembersOf(ctx context.Context, seasonID uint32) ([]SeasonMemberResponse, error) {
	if _, err := s.findSeason(ctx, s.db, seasonID); err != nil {
		return nil, err
	}

	enrollments, err := s.enrollmentRepository.FindBySeason(ctx, s.db, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season members: %w", err)
	}

	responses := make([]SeasonMemberResponse, 0, len(enrollments))
	for _, e := range enrollments {
		responses = append(responses, SeasonMemberResponse{
			ID:     e.ID,
			Member: member.NewMemberResponse(e.Member),
		})
	}
	return responses, nil
}

// AvailableMembers pages through members that can still be enrolled in the season.
func (s *SeasonService) AvailableMembers(ctx context.Context, seasonID uint32, q pagination.Query) (pagination.Page[member.MemberResponse], error) {
	q = q.Normalize()

	if _, err := s.findSeason(ctx, s.db, seasonID); err != nil {
		return pagination.Page[member.MemberResponse]{}, err
	}

	members, total, err := s.enrollmentRepository.FindAvailableMembers(ctx, s.db, seasonID, q)
	if err != nil {
		return pagination.Page[member.MemberResponse]{}, fmt.Errorf("list available members: %w", err)
	}

	page := pagination.NewPage(members, total, q)
	return pagination.Map(page, func(m model.Member) member.MemberResponse {
		return member.NewMemberResponse(&m)
	}), nil
}

// ActiveOn returns the season containing day, or nil. Overlapping seasons should not exist;
// if they do the earliest one wins and a warning is logged.
func (s *SeasonService) ActiveOn(ctx context.Context, day clock.CivilDate) (*model.Season, error) {
	seasons, err := s.seasonRepository.FindContaining(ctx, s.db, day.String())
	if err != nil {
		return nil, err
	}
	if len(seasons) == 0 {
		return nil, nil
	}
	if len(seasons) > 1 {
		ids := make([]uint32, 0, len(seasons))
		for _, season := range seasons {
			ids = append(ids, season.ID)
		}
		logger.FromContext(ctx).Warn("Multiple seasons active on the same day",
			"day", day.String(), "season_ids", ids)
	}
	return &seasons[0], nil
}

func (s *SeasonService) IsEnrolled(ctx context.Context, seasonID, memberID uint32) (bool, error) {
	return s.enrollmentRepository.Exists(ctx, s.db, seasonID, memberID)
}

func (s *SeasonService) findSeason(ctx context.Context, db *gorm.DB, id uint32) (*model.Season, error) {
	season, err := s.seasonRepository.FindByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("season id=%d: %w", id, ErrSeasonNotFound)
		}
		return nil, fmt.Errorf("find season: %w", err)
	}
	return season, nil
}

func (s *SeasonService) checkOverlap(ctx context.Context, db *gorm.DB, start, end string, excludeID uint32) error {
	overlapping, err := s.seasonRepository.FindOverlapping(ctx, db, start, end, excludeID)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if len(overlapping) > 0 {
		logger.FromContext(ctx).Warn("Season range overlaps",
			"start_date", start, "end_date", end, "conflicting_id", overlapping[0].ID)
		return fmt.Errorf("%s..%s overlaps season id=%d: %w", start, end, overlapping[0].ID, ErrOverlappingSeasons)
	}
	return nil
}
