package entry_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/lavictoria/club-api/internal/entry"
	"github.com/lavictoria/club-api/internal/member"
	"github.com/lavictoria/club-api/internal/model"
	"github.com/lavictoria/club-api/internal/shared/clock"
	sharedError "github.com/lavictoria/club-api/internal/shared/error"
	"github.com/lavictoria/club-api/internal/shared/metrics"
	"github.com/lavictoria/club-api/internal/shared/pagination"
	"github.com/lavictoria/club-api/internal/shared/testutil"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// recordingNotifier captures pool notifications.
type recordingNotifier struct {
	mu      sync.Mutex
	entries []entry.EntryResponse
	err     error
}

func (n *recordingNotifier) NotifyPoolEntry(_ context.Context, e entry.EntryResponse) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.entries = append(n.entries, e)
	return n.err
}

func (n *recordingNotifier) received() []entry.EntryResponse {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]entry.EntryResponse(nil), n.entries...)
}

type testEnv struct {
	db       *gorm.DB
	clock    *clock.ManualClock
	service  *entry.EntryService
	notifier *recordingNotifier
	metrics  *metrics.Metrics
	router   *gin.Engine
}

// setupTestEnvironment fixes the clock at 2025-01-15 12:00 in Buenos Aires.
func setupTestEnvironment(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	manual := clock.NewManualClock(time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC))
	resolver := clock.MustResolver(manual, clock.DefaultTimezone)
	m := metrics.New(prometheus.NewRegistry())

	service := entry.NewEntryService(db, entry.NewEntryRepository(), member.NewMemberRepository(), resolver, m)
	notifier := &recordingNotifier{}
	service.SetNotifier(notifier)
	h := entry.NewEntryHandler(service)

	router := testutil.SetupTestRouter()
	router.POST("/entries", h.Create)
	router.GET("/entries", h.List)
	router.GET("/entries/:id", h.Get)
	router.GET("/entries/dni/:dni", h.ByDNI)
	router.GET("/entries/range/:from/:to", h.ByDateRange)

	return &testEnv{db: db, clock: manual, service: service, notifier: notifier, metrics: m, router: router}
}

func seedMember(t *testing.T, db *gorm.DB, dni string) *model.Member {
	t.Helper()

	m := &model.Member{
		FirstName:      "Ana",
		LastName:       "García",
		DNI:            &dni,
		Gender:         model.GenderFemale,
		Status:         model.MemberStatusActive,
		BirthDate:      "1990-05-01",
		EnrollmentDate: "2024-12-01",
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func ptr[T any](v T) *T { return &v }

func post(t *testing.T, env *testEnv, body any) *httptest.ResponseRecorder {
	t.Helper()

	return testutil.ExecuteRequest(t, env.router, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/entries",
		Body:   body,
	})
}

func assertErrorCode(t *testing.T, recorder *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	assert.Equal(t, status, recorder.Code, recorder.Body.String())
	var errResp sharedError.ErrorResponse
	testutil.ParseResponse(t, recorder, &errResp)
	assert.Equal(t, code, errResp.Code)
}

func TestCreateEntry_MemberOncePerDay(t *testing.T) {
	// Given: A member with dni 12345678
	env := setupTestEnvironment(t)
	m := seedMember(t, env.db, "12345678")
	body := entry.CreateEntryRequest{
		MemberID:   &m.ID,
		Category:   "CLUB_MEMBER",
		PoolAccess: ptr(false),
	}

	// When: Checking in
	recorder := post(t, env, body)

	// Then: The record carries the current instant and the member
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created entry.EntryResponse
	testutil.ParseResponse(t, recorder, &created)
	assert.True(t, created.CreatedAt.Equal(env.clock.Now()))
	assert.Equal(t, "CLUB_MEMBER", created.Category)
	require.NotNil(t, created.Member)
	assert.Equal(t, m.ID, created.Member.ID)
	assert.Zero(t, created.Amount)

	var stored model.EntryRecord
	require.NoError(t, env.db.First(&stored, created.ID).Error)
	assert.Equal(t, "2025-01-15", stored.EntryDay)
	assert.Equal(t, fmt.Sprintf("member:%d", m.ID), stored.IdentityKey)

	// And: A second check-in the same day is rejected
	assertErrorCode(t, post(t, env, body), http.StatusConflict, "ENTRY-002")
	assert.Equal(t, 1.0, promtest.ToFloat64(env.metrics.DuplicateEntries))
	assert.Equal(t, 1.0, promtest.ToFloat64(env.metrics.EntriesCreated.WithLabelValues("CLUB_MEMBER")))

	// And: Switching category does not bypass the rule
	body.Category = "POOL_MEMBER"
	assertErrorCode(t, post(t, env, body), http.StatusConflict, "ENTRY-002")
}

func TestCreateEntry_NextDaySucceeds(t *testing.T) {
	// Given: A non-member checked in today
	env := setupTestEnvironment(t)
	body := entry.CreateEntryRequest{
		DNI:           ptr("40111222"),
		Category:      "NON_MEMBER",
		PoolAccess:    ptr(false),
		PaymentMethod: ptr("CASH"),
		Amount:        ptr(1500),
	}
	require.Equal(t, http.StatusCreated, post(t, env, body).Code)

	// When: The same person comes back the next day
	env.clock.Advance(24 * time.Hour)
	recorder := post(t, env, body)

	// Then
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created entry.EntryResponse
	testutil.ParseResponse(t, recorder, &created)
	require.NotNil(t, created.PaymentMethod)
	assert.Equal(t, "CASH", *created.PaymentMethod)
	assert.Equal(t, 1500, created.Amount)
	assert.Nil(t, created.Member)

	var days []string
	require.NoError(t, env.db.Model(&model.EntryRecord{}).Order("id").Pluck("entry_day", &days).Error)
	assert.Equal(t, []string{"2025-01-15", "2025-01-16"}, days)
}

func TestCreateEntry_UniqueIndexIsAuthoritative(t *testing.T) {
	// Given: A row for today whose timestamp lies outside today's window
	env := setupTestEnvironment(t)
	require.NoError(t, env.db.Create(&model.EntryRecord{
		DNI:         ptr("40111222"),
		Category:    model.EntryCategoryNonMember,
		CreatedAt:   time.Date(2025, 1, 14, 23, 0, 0, 0, time.UTC),
		EntryDay:    "2025-01-15",
		IdentityKey: "dni:40111222",
	}).Error)

	// When: The window query misses it
	recorder := post(t, env, entry.CreateEntryRequest{
		DNI:        ptr("40111222"),
		Category:   "NON_MEMBER",
		PoolAccess: ptr(true),
	})

	// Then: The unique index still rejects the insert, and nobody is notified
	assertErrorCode(t, recorder, http.StatusConflict, "ENTRY-002")
	env.service.Wait()
	assert.Empty(t, env.notifier.received())
}

func TestCreateEntry_Validation(t *testing.T) {
	testCases := []struct {
		name       string
		body       any
		wantStatus int
		wantCode   string
	}{
		{
			name:       "member category without member id",
			body:       entry.CreateEntryRequest{Category: "CLUB_MEMBER", PoolAccess: ptr(false)},
			wantStatus: http.StatusBadRequest,
			wantCode:   "ENTRY-003",
		},
		{
			name:       "member category with dni",
			body:       entry.CreateEntryRequest{MemberID: ptr(uint32(1)), DNI: ptr("12345678"), Category: "POOL_MEMBER", PoolAccess: ptr(true)},
			wantStatus: http.StatusBadRequest,
			wantCode:   "ENTRY-003",
		},
		{
			name:       "non-member without dni",
			body:       entry.CreateEntryRequest{Category: "NON_MEMBER", PoolAccess: ptr(false)},
			wantStatus: http.StatusBadRequest,
			wantCode:   "ENTRY-003",
		},
		{
			name:       "non-member with member id",
			body:       entry.CreateEntryRequest{MemberID: ptr(uint32(1)), DNI: ptr("12345678"), Category: "NON_MEMBER", PoolAccess: ptr(false)},
			wantStatus: http.StatusBadRequest,
			wantCode:   "ENTRY-003",
		},
		{
			name:       "unknown member",
			body:       entry.CreateEntryRequest{MemberID: ptr(uint32(999)), Category: "CLUB_MEMBER", PoolAccess: ptr(false)},
			wantStatus: http.StatusNotFound,
			wantCode:   "ENTRY-004",
		},
		{
			name:       "unknown category",
			body:       map[string]any{"dni": "12345678", "category": "GUEST", "poolAccess": false},
			wantStatus: http.StatusBadRequest,
			wantCode:   "ERROR-001",
		},
		{
			name:       "missing pool access",
			body:       map[string]any{"dni": "12345678", "category": "NON_MEMBER"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "ERROR-001",
		},
		{
			name:       "negative amount",
			body:       map[string]any{"dni": "12345678", "category": "NON_MEMBER", "poolAccess": false, "amount": -1},
			wantStatus: http.StatusBadRequest,
			wantCode:   "ERROR-001",
		},
		{
			name:       "unknown payment method",
			body:       map[string]any{"dni": "12345678", "category": "NON_MEMBER", "poolAccess": false, "paymentMethod": "CARD"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "ERROR-001",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Given
			env := setupTestEnvironment(t)

			// When
			recorder := post(t, env, tc.body)

			// Then: Nothing is stored
			assertErrorCode(t, recorder, tc.wantStatus, tc.wantCode)

			var count int64
			require.NoError(t, env.db.Model(&model.EntryRecord{}).Count(&count).Error)
			assert.Zero(t, count)
		})
	}
}

func TestCreateEntry_NotifiesPoolEntriesOnly(t *testing.T) {
	// Given
	env := setupTestEnvironment(t)

	// When
	require.Equal(t, http.StatusCreated, post(t, env, entry.CreateEntryRequest{
		DNI: ptr("40111222"), Category: "NON_MEMBER", PoolAccess: ptr(false),
	}).Code)
	require.Equal(t, http.StatusCreated, post(t, env, entry.CreateEntryRequest{
		DNI: ptr("40111223"), Category: "NON_MEMBER", PoolAccess: ptr(true),
	}).Code)
	env.service.Wait()

	// Then
	received := env.notifier.received()
	require.Len(t, received, 1)
	require.NotNil(t, received[0].DNI)
	assert.Equal(t, "40111223", *received[0].DNI)
}

func TestCreateEntry_NotifierFailureIsNotFatal(t *testing.T) {
	// Given: A notifier that always fails
	env := setupTestEnvironment(t)
	env.notifier.err = errors.New("socket closed")

	// When
	recorder := post(t, env, entry.CreateEntryRequest{
		DNI: ptr("40111222"), Category: "NON_MEMBER", PoolAccess: ptr(true),
	})
	env.service.Wait()

	// Then: The check-in is committed
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Len(t, env.notifier.received(), 1)

	var count int64
	require.NoError(t, env.db.Model(&model.EntryRecord{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCreateEntry_NotificationOutlivesRequest(t *testing.T) {
	// Given: A request context that is cancelled as soon as Create returns
	env := setupTestEnvironment(t)
	seen := make(chan error, 1)
	env.service.SetNotifier(notifierFunc(func(ctx context.Context, _ entry.EntryResponse) error {
		seen <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	_, err := env.service.Create(ctx, &entry.CreateEntryRequest{
		DNI: ptr("40111222"), Category: "NON_MEMBER", PoolAccess: ptr(true),
	})
	cancel()
	require.NoError(t, err)

	// Then
	select {
	case ctxErr := <-seen:
		assert.NoError(t, ctxErr)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
}

type notifierFunc func(ctx context.Context, e entry.EntryResponse) error

func (f notifierFunc) NotifyPoolEntry(ctx context.Context, e entry.EntryResponse) error {
	return f(ctx, e)
}

func TestListEntries_NewestFirst(t *testing.T) {
	// Given: Three check-ins a minute apart
	env := setupTestEnvironment(t)
	for _, dni := range []string{"40000001", "40000002"} {
		require.Equal(t, http.StatusCreated, post(t, env, entry.CreateEntryRequest{
			DNI: ptr(dni), Category: "NON_MEMBER", PoolAccess: ptr(false),
		}).Code)
		env.clock.Advance(time.Minute)
	}
	require.Equal(t, http.StatusCreated, post(t, env, entry.CreateEntryRequest{
		DNI: ptr("40000003"), Category: "NON_MEMBER", PoolAccess: ptr(false),
	}).Code)

	// When
	recorder := testutil.ExecuteRequest(t, env.router, testutil.TestRequest{
		Method: http.MethodGet,
		URL:    "/entries?page=1&limit=2",
	})

	// Then
	require.Equal(t, http.StatusOK, recorder.Code)

	var page pagination.Page[entry.EntryResponse]
	testutil.ParseResponse(t, recorder, &page)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 2)
	assert.Equal(t, "40000003", *page.Data[0].DNI)
	assert.Equal(t, "40000002", *page.Data[1].DNI)
}

func TestGetEntry(t *testing.T) {
	// Given
	env := setupTestEnvironment(t)
	recorder := post(t, env, entry.CreateEntryRequest{DNI: ptr("40111222"), Category: "NON_MEMBER", PoolAccess: ptr(false)})
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created entry.EntryResponse
	testutil.ParseResponse(t, recorder, &created)

	// When
	found := testutil.ExecuteRequest(t, env.router, testutil.TestRequest{
		Method: http.MethodGet, URL: fmt.Sprintf("/entries/%d", created.ID),
	})
	missing := testutil.ExecuteRequest(t, env.router, testutil.TestRequest{
		Method: http.MethodGet, URL: "/entries/9999",
	})

	// Then
	assert.Equal(t, http.StatusOK, found.Code)
	assertErrorCode(t, missing, http.StatusNotFound, "ENTRY-001")
}

func TestEntriesByDNI(t *testing.T) {
	// Given: Two days of check-ins for one person and one for another
	env := setupTestEnvironment(t)
	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusCreated, post(t, env, entry.CreateEntryRequest{
			DNI: ptr("40111222"), Category: "NON_MEMBER", PoolAccess: ptr(false),
		}).Code)
		env.clock.Advance(24 * time.Hour)
	}
	require.Equal(t, http.StatusCreated, post(t, env, entry.CreateEntryRequest{
		DNI: ptr("40999999"), Category: "NON_MEMBER", PoolAccess: ptr(false),
	}).Code)

	// When
	recorder := testutil.ExecuteRequest(t, env.router, testutil.TestRequest{
		Method: http.MethodGet, URL: "/entries/dni/40111222",
	})

	// Then
	require.Equal(t, http.StatusOK, recorder.Code)
	var entries []entry.EntryResponse
	testutil.ParseResponse(t, recorder, &entries)
	require.Len(t, entries, 2)
	assert.True(t, entries[0].CreatedAt.After(entries[1].CreatedAt))

	// And: A malformed document number is rejected
	recorder = testutil.ExecuteRequest(t, env.router, testutil.TestRequest{
		Method: http.MethodGet, URL: "/entries/dni/abc",
	})
	assertErrorCode(t, recorder, http.StatusBadRequest, "ERROR-004")
}

func TestEntriesByDateRange(t *testing.T) {
	// Given: Check-ins on the 15th, 16th and 17th
	env := setupTestEnvironment(t)
	for _, dni := range []string{"40000001", "40000002", "40000003"} {
		require.Equal(t, http.StatusCreated, post(t, env, entry.CreateEntryRequest{
			DNI: ptr(dni), Category: "NON_MEMBER", PoolAccess: ptr(false),
		}).Code)
		env.clock.Advance(24 * time.Hour)
	}

	testCases := []struct {
		url       string
		wantCount int
		wantCode  string
	}{
		{url: "/entries/range/2025-01-15/2025-01-16", wantCount: 2},
		{url: "/entries/range/2025-01-16/2025-01-16", wantCount: 1},
		{url: "/entries/range/2025-01-01/2025-01-31", wantCount: 3},
		{url: "/entries/range/2025-01-17/2025-01-15", wantCount: 0},
		{url: "/entries/range/2025-01-15/tomorrow", wantCode: "ERROR-004"},
	}

	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			// When
			recorder := testutil.ExecuteRequest(t, env.router, testutil.TestRequest{Method: http.MethodGet, URL: tc.url})

			// Then
			if tc.wantCode != "" {
				assertErrorCode(t, recorder, http.StatusBadRequest, tc.wantCode)
				return
			}
			require.Equal(t, http.StatusOK, recorder.Code)
			var entries []entry.EntryResponse
			testutil.ParseResponse(t, recorder, &entries)
			assert.Len(t, entries, tc.wantCount)
		})
	}
}

func TestTodayPoolEntries(t *testing.T) {
	// Given: Yesterday's pool entry, today's pool entry and today's club-only entry
	env := setupTestEnvironment(t)
	env.clock.Advance(-24 * time.Hour)
	require.Equal(t, http.StatusCreated, post(t, env, entry.CreateEntryRequest{
		DNI: ptr("40000001"), Category: "NON_MEMBER", PoolAccess: ptr(true),
	}).Code)
	env.clock.Advance(24 * time.Hour)
	require.Equal(t, http.StatusCreated, post(t, env, entry.CreateEntryRequest{
		DNI: ptr("40000002"), Category: "NON_MEMBER", PoolAccess: ptr(true),
	}).Code)
	require.Equal(t, http.StatusCreated, post(t, env, entry.CreateEntryRequest{
		DNI: ptr("40000003"), Category: "NON_MEMBER", PoolAccess: ptr(false),
	}).Code)
	env.service.Wait()

	// When
	entries, err := env.service.TodayPoolEntries(context.Background())

	// Then
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "40000002", *entries[0].DNI)
}
