package entry

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/lavictoria/club-api/internal/member"
	"github.com/lavictoria/club-api/internal/model"
	"github.com/lavictoria/club-api/internal/shared/clock"
	"github.com/lavictoria/club-api/internal/shared/database"
	"github.com/lavictoria/club-api/internal/shared/logger"
	"github.com/lavictoria/club-api/internal/shared/metrics"
	"github.com/lavictoria/club-api/internal/shared/pagination"

	"gorm.io/gorm"
)

// Notifier is told about every committed pool entry.
type Notifier interface {
	NotifyPoolEntry(ctx context.Context, entry EntryResponse) error
}

type noopNotifier struct{}

func (noopNotifier) NotifyPoolEntry(context.Context, EntryResponse) error { return nil }

type EntryService struct {
	db               *gorm.DB
	entryRepository  *EntryRepository
	memberRepository *member.MemberRepository
	resolver         *clock.Resolver
	metrics          *metrics.Metrics

	notifier Notifier
	inflight sync.WaitGroup
}

func NewEntryService(
	db *gorm.DB,
	entryRepository *EntryRepository,
	memberRepository *member.MemberRepository,
	resolver *clock.Resolver,
	m *metrics.Metrics,
) *EntryService {
	return &EntryService{
		db:               db,
		entryRepository:  entryRepository,
		memberRepository: memberRepository,
		resolver:         resolver,
		metrics:          m,
		notifier:         noopNotifier{},
	}
}

// SetNotifier must be called before the service handles requests.
func (s *EntryService) SetNotifier(n Notifier) {
	if n == nil {
		n = noopNotifier{}
	}
	s.notifier = n
}

// Wait blocks until every pending notification has finished.
func (s *EntryService) Wait() {
	s.inflight.Wait()
}

// Create stores a check-in. A person checks in at most once per civil day.
func (s *EntryService) Create(ctx context.Context, req *CreateEntryRequest) (*EntryResponse, error) {
	log := logger.FromContext(ctx)

	if err := req.validate(); err != nil {
		return nil, fmt.Errorf("category %s: %w", req.Category, err)
	}

	var owner *model.Member
	if req.MemberID != nil {
		found, err := s.memberRepository.FindByID(ctx, s.db, *req.MemberID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("member id=%d: %w", *req.MemberID, ErrEntryMemberNotFound)
			}
			return nil, fmt.Errorf("find member: %w", err)
		}
		owner = found
	}

	today := s.resolver.Today()
	start, end := clock.Window(today)

	exists, err := s.entryRepository.ExistsInWindow(ctx, s.db, start, end, req.MemberID, req.DNI)
	if err != nil {
		return nil, fmt.Errorf("check today's entries: %w", err)
	}
	if exists {
		s.metrics.IncrementDuplicateEntries()
		log.Warn("Duplicate entry rejected", "day", today.String(), "identity", s.maskedIdentity(req))
		return nil, fmt.Errorf("%s on %s: %w", s.maskedIdentity(req), today.String(), ErrDuplicateEntryToday)
	}

	record := &model.EntryRecord{
		MemberID:    req.MemberID,
		DNI:         req.DNI,
		Category:    model.EntryCategory(req.Category),
		PoolAccess:  *req.PoolAccess,
		CreatedAt:   s.resolver.Now(),
		EntryDay:    today.String(),
		IdentityKey: model.EntryIdentityKey(req.MemberID, req.DNI),
	}
	if req.PaymentMethod != nil {
		method := model.PaymentMethod(*req.PaymentMethod)
		record.PaymentMethod = &method
	}
	if req.Amount != nil {
		record.Amount = *req.Amount
	}

	if err := s.entryRepository.Create(ctx, s.db, record); err != nil {
		if database.IsUniqueViolation(err) {
			s.metrics.IncrementDuplicateEntries()
			log.Warn("Duplicate entry rejected by unique index", "day", record.EntryDay)
			return nil, fmt.Errorf("create entry: %w", ErrDuplicateEntryToday)
		}
		return nil, fmt.Errorf("create entry: %w", err)
	}
	record.Member = owner

	s.metrics.IncrementEntriesCreated(req.Category)
	log.Info("Entry created",
		"entry_id", record.ID, "category", record.Category, "pool_access", record.PoolAccess, "day", record.EntryDay)

	response := NewEntryResponse(record)
	if record.PoolAccess {
		s.notify(ctx, response)
	}
	return &response, nil
}

// notify runs the notifier in the background. The request context is detached so the
// notification outlives the response.
func (s *EntryService) notify(ctx context.Context, response EntryResponse) {
	ctx = context.WithoutCancel(ctx)
	notifier := s.notifier

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()

		if err := notifier.NotifyPoolEntry(ctx, response); err != nil {
			logger.FromContext(ctx).Error("Pool entry notification failed",
				"entry_id", response.ID, "error", err)
		}
	}()
}

func (s *EntryService) FindByID(ctx context.Context, id uint32) (*EntryResponse, error) {
	record, err := s.entryRepository.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("entry id=%d: %w", id, ErrEntryNotFound)
		}
		return nil, fmt.Errorf("find entry: %w", err)
	}

	response := NewEntryResponse(record)
	return &response, nil
}

func (s *EntryService) FindByDNI(ctx context.Context, dni string) ([]EntryResponse, error) {
	records, err := s.entryRepository.FindByDNI(ctx, s.db, dni)
	if err != nil {
		return nil, fmt.Errorf("find entries by dni: %w", err)
	}
	return NewEntryResponses(records), nil
}

// FindByDateRange returns check-ins from the start of from's window to the end of to's window.
// An inverted range is empty.
func (s *EntryService) FindByDateRange(ctx context.Context, from, to clock.CivilDate) ([]EntryResponse, error) {
	start, _ := clock.Window(from)
	_, end := clock.Window(to)

	records, err := s.entryRepository.FindBetween(ctx, s.db, start, end, false)
	if err != nil {
		return nil, fmt.Errorf("find entries by range: %w", err)
	}
	return NewEntryResponses(records), nil
}

func (s *EntryService) List(ctx context.Context, q pagination.Query) (pagination.Page[EntryResponse], error) {
	q = q.Normalize()

	records, total, err := s.entryRepository.FindPage(ctx, s.db, q)
	if err != nil {
		return pagination.Page[EntryResponse]{}, fmt.Errorf("list entries: %w", err)
	}

	page := pagination.NewPage(records, total, q)
	return pagination.Map(page, func(r model.EntryRecord) EntryResponse {
		return NewEntryResponse(&r)
	}), nil
}

// EntriesOnDay returns the check-ins of date (today when nil), newest first.
func (s *EntryService) EntriesOnDay(ctx context.Context, date *clock.CivilDate, poolOnly bool) ([]EntryResponse, error) {
	start, end := s.resolver.DayWindow(date)

	records, err := s.entryRepository.FindBetween(ctx, s.db, start, end, poolOnly)
	if err != nil {
		return nil, fmt.Errorf("find entries of day: %w", err)
	}
	return NewEntryResponses(records), nil
}

// TodayPoolEntries is the list pushed to realtime subscribers.
func (s *EntryService) TodayPoolEntries(ctx context.Context) ([]EntryResponse, error) {
	return s.EntriesOnDay(ctx, nil, true)
}

func (s *EntryService) maskedIdentity(req *CreateEntryRequest) string {
	if req.MemberID != nil {
		return fmt.Sprintf("member:%d", *req.MemberID)
	}
	if req.DNI != nil {
		return "dni:" + logger.MaskDNI(*req.DNI)
	}
	return ""
}
