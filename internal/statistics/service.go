package statistics

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/lavictoria/club-api/internal/entry"
	"github.com/lavictoria/club-api/internal/model"
	"github.com/lavictoria/club-api/internal/shared/clock"
)

// DailyStatistics summarises the check-ins of one civil day.
type DailyStatistics struct {
	Date             string                `json:"date"`
	TotalEntries     int                   `json:"totalEntries"`
	PoolEntries      int                   `json:"poolEntries"`
	ClubEntries      int                   `json:"clubEntries"`
	MemberEntries    int                   `json:"memberEntries"`
	NonMemberEntries int                   `json:"nonMemberEntries"`
	Entries          []entry.EntryResponse `json:"entries"`
}

// DayEntries is the part of the entry ledger the statistics need.
type DayEntries interface {
	EntriesOnDay(ctx context.Context, date *clock.CivilDate, poolOnly bool) ([]entry.EntryResponse, error)
}

type StatisticsService struct {
	entries  DayEntries
	resolver *clock.Resolver
}

func NewStatisticsService(entries DayEntries, resolver *clock.Resolver) *StatisticsService {
	return &StatisticsService{entries: entries, resolver: resolver}
}

// Daily computes the counters for date, or for today when date is nil.
func (s *StatisticsService) Daily(ctx context.Context, date *clock.CivilDate) (*DailyStatistics, error) {
	day := s.resolver.Today()
	if date != nil {
		day = *date
	}

	entries, err := s.entries.EntriesOnDay(ctx, &day, false)
	if err != nil {
		return nil, fmt.Errorf("daily statistics %s: %w", day, err)
	}

	slices.SortFunc(entries, func(a, b entry.EntryResponse) int {
		return cmp.Compare(b.ID, a.ID)
	})

	stats := &DailyStatistics{
		Date:         day.String(),
		TotalEntries: len(entries),
		Entries:      entries,
	}
	for _, e := range entries {
		if e.PoolAccess {
			stats.PoolEntries++
		}
		if model.EntryCategory(e.Category).IsMember() {
			stats.MemberEntries++
		}
	}
	stats.ClubEntries = stats.TotalEntries - stats.PoolEntries
	stats.NonMemberEntries = stats.TotalEntries - stats.MemberEntries

	return stats, nil
}
