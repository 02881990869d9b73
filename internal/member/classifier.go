package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/lavictoria/club-api/internal/model"
	"github.com/lavictoria/club-api/internal/shared/clock"
	"github.com/lavictoria/club-api/internal/shared/logger"

	"gorm.io/gorm"
)

// SeasonRegistry answers which pool season is running on a day and who is enrolled in it.
type SeasonRegistry interface {
	// ActiveOn returns the season containing day, or nil when there is none.
	ActiveOn(ctx context.Context, day clock.CivilDate) (*model.Season, error)
	IsEnrolled(ctx context.Context, seasonID, memberID uint32) (bool, error)
}

// ClassifyResult is the entry category for a document number plus the member, if any.
type ClassifyResult struct {
	Member   *model.Member
	Category model.EntryCategory
}

// Classifier decides how a person at the front desk is registered today.
type Classifier struct {
	db               *gorm.DB
	memberRepository *MemberRepository
	seasons          SeasonRegistry
	resolver         *clock.Resolver
}

func NewClassifier(db *gorm.DB, memberRepository *MemberRepository, seasons SeasonRegistry, resolver *clock.Resolver) *Classifier {
	return &Classifier{
		db:               db,
		memberRepository: memberRepository,
		seasons:          seasons,
		resolver:         resolver,
	}
}

// Classify returns NON_MEMBER for unknown documents, POOL_MEMBER for members enrolled in
// today's season and CLUB_MEMBER otherwise.
func (c *Classifier) Classify(ctx context.Context, dni string) (*ClassifyResult, error) {
	log := logger.FromContext(ctx)

	member, err := c.memberRepository.FindByDNI(ctx, c.db, dni)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ClassifyResult{Category: model.EntryCategoryNonMember}, nil
		}
		return nil, fmt.Errorf("find member by dni: %w", err)
	}

	today := c.resolver.Today()
	season, err := c.seasons.ActiveOn(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("find active season: %w", err)
	}
	if season == nil {
		return &ClassifyResult{Member: member, Category: model.EntryCategoryClubMember}, nil
	}

	enrolled, err := c.seasons.IsEnrolled(ctx, season.ID, member.ID)
	if err != nil {
		return nil, fmt.Errorf("check enrollment: %w", err)
	}

	category := model.EntryCategoryClubMember
	if enrolled {
		category = model.EntryCategoryPoolMember
	}

	log.Debug("Member classified",
		"member_id", member.ID, "season_id", season.ID, "day", today.String(), "category", category)
	return &ClassifyResult{Member: member, Category: category}, nil
}
