package member_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/lavictoria/club-api/internal/member"
	"github.com/lavictoria/club-api/internal/model"
	"github.com/lavictoria/club-api/internal/photo"
	"github.com/lavictoria/club-api/internal/shared/clock"
	sharedError "github.com/lavictoria/club-api/internal/shared/error"
	"github.com/lavictoria/club-api/internal/shared/pagination"
	"github.com/lavictoria/club-api/internal/shared/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const maxPhotoBytes = 5 * 1024 * 1024

// stubSeasons answers ActiveOn/IsEnrolled from fixed values.
type stubSeasons struct {
	active   *model.Season
	enrolled map[uint32]bool
	askedDay clock.CivilDate
}

func (s *stubSeasons) ActiveOn(_ context.Context, day clock.CivilDate) (*model.Season, error) {
	s.askedDay = day
	return s.active, nil
}

func (s *stubSeasons) IsEnrolled(_ context.Context, _ uint32, memberID uint32) (bool, error) {
	return s.enrolled[memberID], nil
}

type testEnv struct {
	db      *gorm.DB
	photos  *testutil.FakePhotoStore
	seasons *stubSeasons
	service *member.MemberService
	router  *gin.Engine
}

// setupTestEnvironment wires the member handler on a fresh database.
// The clock is fixed at 2025-01-15 12:00 in Buenos Aires.
func setupTestEnvironment(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	photos := testutil.NewFakePhotoStore()
	seasons := &stubSeasons{enrolled: map[uint32]bool{}}
	resolver := clock.MustResolver(
		clock.NewManualClock(time.Date(2025, 1, 15, 15, 0, 0, 0, time.UTC)),
		clock.DefaultTimezone,
	)

	repo := member.NewMemberRepository()
	service := member.NewMemberService(db, repo, photos, resolver)
	classifier := member.NewClassifier(db, repo, seasons, resolver)
	h := member.NewMemberHandler(service, classifier, maxPhotoBytes)

	router := testutil.SetupTestRouter()
	router.GET("/members", h.List)
	router.POST("/members", h.Create)
	router.GET("/members/registration/:dni", h.Registration)
	router.GET("/members/:id", h.Get)
	router.PUT("/members/:id", h.Update)
	router.DELETE("/members/:id", h.Delete)

	return &testEnv{db: db, photos: photos, seasons: seasons, service: service, router: router}
}

func memberFields(first, last, dni string) map[string]string {
	fields := map[string]string{
		"firstName": first,
		"lastName":  last,
		"birthDate": "1990-05-01",
		"gender":    "FEMALE",
	}
	if dni != "" {
		fields["dni"] = dni
	}
	return fields
}

func pngFile() *testutil.MultipartFile {
	return &testutil.MultipartFile{
		Field:       "photo",
		Filename:    "face.png",
		ContentType: "image/png",
		Data:        testutil.PNGBytes,
	}
}

func createMember(t *testing.T, env *testEnv, first, last, dni string) member.MemberResponse {
	t.Helper()

	recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPost, "/members", "",
		memberFields(first, last, dni), nil)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var response member.MemberResponse
	testutil.ParseResponse(t, recorder, &response)
	return response
}

func TestCreateMember_WithoutPhoto(t *testing.T) {
	// Given
	env := setupTestEnvironment(t)

	// When
	recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPost, "/members", "",
		memberFields("Ana", "García", "30123456"), nil)

	// Then: Enrollment date is today in the club timezone and status defaults to ACTIVE
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var response member.MemberResponse
	testutil.ParseResponse(t, recorder, &response)
	assert.NotZero(t, response.ID)
	assert.Equal(t, "2025-01-15", response.EnrollmentDate)
	assert.Equal(t, "ACTIVE", response.Status)
	require.NotNil(t, response.DNI)
	assert.Equal(t, "30123456", *response.DNI)
	assert.Nil(t, response.PhotoURL)
	assert.Empty(t, env.photos.Uploaded)
}

func TestCreateMember_JSONBody(t *testing.T) {
	// Given
	env := setupTestEnvironment(t)

	// When: The client sends JSON instead of a form
	recorder := testutil.ExecuteRequest(t, env.router, testutil.TestRequest{
		Method: http.MethodPost,
		URL:    "/members",
		Body: member.CreateMemberRequest{
			FirstName: "Luis",
			LastName:  "Pérez",
			BirthDate: "1985-12-31",
			Gender:    "MALE",
			Status:    "INACTIVE",
		},
	})

	// Then
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var response member.MemberResponse
	testutil.ParseResponse(t, recorder, &response)
	assert.Nil(t, response.DNI)
	assert.Equal(t, "INACTIVE", response.Status)
}

func TestCreateMember_WithPhoto(t *testing.T) {
	// Given
	env := setupTestEnvironment(t)

	// When
	recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPost, "/members", "",
		memberFields("Ana", "García", "30123456"), pngFile())

	// Then
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var response member.MemberResponse
	testutil.ParseResponse(t, recorder, &response)
	require.NotNil(t, response.PhotoURL)
	assert.Equal(t, env.photos.Uploaded[0], *response.PhotoURL)
}

func TestCreateMember_DuplicateDNI(t *testing.T) {
	// Given: A member already uses the document number
	env := setupTestEnvironment(t)
	createMember(t, env, "Ana", "García", "30123456")

	// When
	recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPost, "/members", "",
		memberFields("Otra", "Persona", "30123456"), pngFile())

	// Then: Conflict and no photo is uploaded
	assert.Equal(t, http.StatusConflict, recorder.Code)

	var errResp sharedError.ErrorResponse
	testutil.ParseResponse(t, recorder, &errResp)
	assert.Equal(t, "MEMBER-002", errResp.Code)
	assert.Empty(t, env.photos.Uploaded)
}

func TestCreateMember_UploadFailure(t *testing.T) {
	// Given: The photo store is down
	env := setupTestEnvironment(t)
	env.photos.UploadErr = fmt.Errorf("cloudinary: %w", photo.ErrPhotoUpload)

	// When
	recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPost, "/members", "",
		memberFields("Ana", "García", "30123456"), pngFile())

	// Then: Bad gateway and nothing is stored
	assert.Equal(t, http.StatusBadGateway, recorder.Code)

	var count int64
	require.NoError(t, env.db.Model(&model.Member{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateMember_ValidationErrors(t *testing.T) {
	testCases := []struct {
		name   string
		fields map[string]string
		file   *testutil.MultipartFile
		code   string
	}{
		{
			name:   "missing first name",
			fields: map[string]string{"lastName": "García", "birthDate": "1990-05-01", "gender": "MALE"},
			code:   "ERROR-001",
		},
		{
			name:   "malformed dni",
			fields: memberFields("Ana", "García", "12ab"),
			code:   "ERROR-001",
		},
		{
			name:   "invalid birth date",
			fields: map[string]string{"firstName": "Ana", "lastName": "García", "birthDate": "1990-13-01", "gender": "FEMALE"},
			code:   "ERROR-001",
		},
		{
			name:   "unknown gender",
			fields: map[string]string{"firstName": "Ana", "lastName": "García", "birthDate": "1990-05-01", "gender": "OTHER"},
			code:   "ERROR-001",
		},
		{
			name:   "photo is not an image",
			fields: memberFields("Ana", "García", ""),
			file: &testutil.MultipartFile{
				Field: "photo", Filename: "notes.png", ContentType: "image/png", Data: []byte("plain text, not a picture"),
			},
			code: "PHOTO-001",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Given
			env := setupTestEnvironment(t)

			// When
			recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPost, "/members", "", tc.fields, tc.file)

			// Then
			assert.Equal(t, http.StatusBadRequest, recorder.Code)

			var errResp sharedError.ErrorResponse
			testutil.ParseResponse(t, recorder, &errResp)
			assert.Equal(t, tc.code, errResp.Code)
			assert.Empty(t, env.photos.Uploaded)
		})
	}
}

func TestListMembers_SearchAndPagination(t *testing.T) {
	// Given
	env := setupTestEnvironment(t)
	createMember(t, env, "Ana", "García", "30123456")
	createMember(t, env, "Bruno", "Alvarez", "30123457")
	createMember(t, env, "Carla", "Benítez", "40999888")

	// When: Searching a dni fragment
	recorder := testutil.ExecuteRequest(t, env.router, testutil.TestRequest{
		Method: http.MethodGet,
		URL:    "/members?search=3012345&limit=1&page=2",
	})

	// Then
	require.Equal(t, http.StatusOK, recorder.Code)

	var page pagination.Page[member.MemberResponse]
	testutil.ParseResponse(t, recorder, &page)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 1, page.Limit)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "García", page.Data[0].LastName)
}

func TestListMembers_SearchIsCaseInsensitive(t *testing.T) {
	// Given
	env := setupTestEnvironment(t)
	createMember(t, env, "Ana", "García", "30123456")
	createMember(t, env, "Bruno", "Sosa", "30123457")

	// When
	recorder := testutil.ExecuteRequest(t, env.router, testutil.TestRequest{
		Method: http.MethodGet,
		URL:    "/members?search=SOSA",
	})

	// Then
	require.Equal(t, http.StatusOK, recorder.Code)

	var page pagination.Page[member.MemberResponse]
	testutil.ParseResponse(t, recorder, &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Bruno", page.Data[0].FirstName)
	assert.Equal(t, 10, page.Limit)
}

func TestGetMember(t *testing.T) {
	env := setupTestEnvironment(t)
	created := createMember(t, env, "Ana", "García", "30123456")

	testCases := []struct {
		name       string
		url        string
		wantStatus int
		wantCode   string
	}{
		{name: "found", url: fmt.Sprintf("/members/%d", created.ID), wantStatus: http.StatusOK},
		{name: "missing", url: "/members/9999", wantStatus: http.StatusNotFound, wantCode: "MEMBER-001"},
		{name: "bad id", url: "/members/abc", wantStatus: http.StatusBadRequest, wantCode: "ERROR-004"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// When
			recorder := testutil.ExecuteRequest(t, env.router, testutil.TestRequest{Method: http.MethodGet, URL: tc.url})

			// Then
			assert.Equal(t, tc.wantStatus, recorder.Code)
			if tc.wantCode != "" {
				var errResp sharedError.ErrorResponse
				testutil.ParseResponse(t, recorder, &errResp)
				assert.Equal(t, tc.wantCode, errResp.Code)
			}
		})
	}
}

func TestUpdateMember_ReplacesPhotoAfterCommit(t *testing.T) {
	// Given: A member with a photo
	env := setupTestEnvironment(t)
	recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPost, "/members", "",
		memberFields("Ana", "García", "30123456"), pngFile())
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created member.MemberResponse
	testutil.ParseResponse(t, recorder, &created)
	oldURL := *created.PhotoURL

	// When: Updating with a new photo
	fields := memberFields("Ana María", "García", "30123456")
	fields["email"] = "ana@example.com"
	recorder = testutil.ExecuteMultipart(t, env.router, http.MethodPut,
		fmt.Sprintf("/members/%d", created.ID), "", fields, pngFile())

	// Then: The new photo is stored and the old one deleted
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var updated member.MemberResponse
	testutil.ParseResponse(t, recorder, &updated)
	assert.Equal(t, "Ana María", updated.FirstName)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "ana@example.com", *updated.Email)
	require.NotNil(t, updated.PhotoURL)
	assert.NotEqual(t, oldURL, *updated.PhotoURL)
	assert.Equal(t, []string{oldURL}, env.photos.DeletedURLs())
	assert.Equal(t, created.EnrollmentDate, updated.EnrollmentDate)
}

func TestUpdateMember_RemovePhoto(t *testing.T) {
	// Given
	env := setupTestEnvironment(t)
	recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPost, "/members", "",
		memberFields("Ana", "García", "30123456"), pngFile())
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created member.MemberResponse
	testutil.ParseResponse(t, recorder, &created)

	// When
	fields := memberFields("Ana", "García", "30123456")
	fields["removePhoto"] = "true"
	recorder = testutil.ExecuteMultipart(t, env.router, http.MethodPut,
		fmt.Sprintf("/members/%d", created.ID), "", fields, nil)

	// Then
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var updated member.MemberResponse
	testutil.ParseResponse(t, recorder, &updated)
	assert.Nil(t, updated.PhotoURL)
	assert.Equal(t, []string{*created.PhotoURL}, env.photos.DeletedURLs())
}

func TestUpdateMember_KeepsPhotoWhenNoneSent(t *testing.T) {
	// Given
	env := setupTestEnvironment(t)
	recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPost, "/members", "",
		memberFields("Ana", "García", "30123456"), pngFile())
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created member.MemberResponse
	testutil.ParseResponse(t, recorder, &created)

	// When
	recorder = testutil.ExecuteMultipart(t, env.router, http.MethodPut,
		fmt.Sprintf("/members/%d", created.ID), "", memberFields("Ana", "García", ""), nil)

	// Then: The dni is cleared but the photo stays
	require.Equal(t, http.StatusOK, recorder.Code)

	var updated member.MemberResponse
	testutil.ParseResponse(t, recorder, &updated)
	assert.Nil(t, updated.DNI)
	assert.Equal(t, created.PhotoURL, updated.PhotoURL)
	assert.Empty(t, env.photos.DeletedURLs())
}

func TestUpdateMember_DNIConflictDiscardsNewPhoto(t *testing.T) {
	// Given: Two members
	env := setupTestEnvironment(t)
	createMember(t, env, "Ana", "García", "30123456")
	other := createMember(t, env, "Bruno", "Sosa", "30123457")

	// When: The second member takes the first member's document number
	recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPut,
		fmt.Sprintf("/members/%d", other.ID), "", memberFields("Bruno", "Sosa", "30123456"), pngFile())

	// Then
	assert.Equal(t, http.StatusConflict, recorder.Code)
	require.Len(t, env.photos.Uploaded, 1)
	assert.Equal(t, env.photos.Uploaded, env.photos.DeletedURLs())

	// And: The stored member is unchanged
	var stored model.Member
	require.NoError(t, env.db.First(&stored, other.ID).Error)
	require.NotNil(t, stored.DNI)
	assert.Equal(t, "30123457", *stored.DNI)
	assert.Nil(t, stored.PhotoURL)
}

func TestUpdateMember_KeepOwnDNI(t *testing.T) {
	// Given
	env := setupTestEnvironment(t)
	created := createMember(t, env, "Ana", "García", "30123456")

	// When: Saving the same document number again
	recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPut,
		fmt.Sprintf("/members/%d", created.ID), "", memberFields("Ana", "Gómez", "30123456"), nil)

	// Then
	assert.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())
}

func TestUpdateMember_NotFound(t *testing.T) {
	// Given
	env := setupTestEnvironment(t)

	// When
	recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPut, "/members/42", "",
		memberFields("Ana", "García", ""), nil)

	// Then
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDeleteMember_Cascade(t *testing.T) {
	// Given: A member with a photo, an enrollment and a check-in
	env := setupTestEnvironment(t)
	recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPost, "/members", "",
		memberFields("Ana", "García", "30123456"), pngFile())
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created member.MemberResponse
	testutil.ParseResponse(t, recorder, &created)

	season := &model.Season{Name: "Verano", StartDate: "2025-01-01", EndDate: "2025-03-31", CreatedAt: time.Now()}
	require.NoError(t, env.db.Create(season).Error)
	require.NoError(t, env.db.Create(&model.Enrollment{SeasonID: season.ID, MemberID: created.ID, EnrolledAt: time.Now()}).Error)

	memberID := created.ID
	entry := &model.EntryRecord{
		MemberID:    &memberID,
		Category:    model.EntryCategoryPoolMember,
		PoolAccess:  true,
		CreatedAt:   time.Now().UTC(),
		EntryDay:    "2025-01-15",
		IdentityKey: model.EntryIdentityKey(&memberID, nil),
	}
	require.NoError(t, env.db.Create(entry).Error)

	// When
	recorder = testutil.ExecuteRequest(t, env.router, testutil.TestRequest{
		Method: http.MethodDelete,
		URL:    fmt.Sprintf("/members/%d", created.ID),
	})

	// Then: Enrollments are gone, the check-in stays without a member, the photo is deleted
	require.Equal(t, http.StatusOK, recorder.Code)

	var enrollments int64
	require.NoError(t, env.db.Model(&model.Enrollment{}).Count(&enrollments).Error)
	assert.Zero(t, enrollments)

	var stored model.EntryRecord
	require.NoError(t, env.db.First(&stored, entry.ID).Error)
	assert.Nil(t, stored.MemberID)

	assert.Equal(t, []string{*created.PhotoURL}, env.photos.DeletedURLs())

	// And: A second delete is a 404
	recorder = testutil.ExecuteRequest(t, env.router, testutil.TestRequest{
		Method: http.MethodDelete,
		URL:    fmt.Sprintf("/members/%d", created.ID),
	})
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestDeleteMember_PhotoDeleteFailureIsIgnored(t *testing.T) {
	// Given
	env := setupTestEnvironment(t)
	recorder := testutil.ExecuteMultipart(t, env.router, http.MethodPost, "/members", "",
		memberFields("Ana", "García", "30123456"), pngFile())
	require.Equal(t, http.StatusCreated, recorder.Code)
	var created member.MemberResponse
	testutil.ParseResponse(t, recorder, &created)
	env.photos.DeleteErr = errors.New("cloudinary unavailable")

	// When
	err := env.service.Delete(context.Background(), created.ID)

	// Then
	require.NoError(t, err)
}

func TestRegistration_Classification(t *testing.T) {
	testCases := []struct {
		name         string
		dni          string
		activeSeason bool
		enrolled     bool
		wantCategory string
		wantMember   bool
	}{
		{name: "unknown document", dni: "99999999", wantCategory: "NON_MEMBER"},
		{name: "member without season", dni: "30123456", wantCategory: "CLUB_MEMBER", wantMember: true},
		{name: "member not enrolled", dni: "30123456", activeSeason: true, wantCategory: "CLUB_MEMBER", wantMember: true},
		{name: "member enrolled", dni: "30123456", activeSeason: true, enrolled: true, wantCategory: "POOL_MEMBER", wantMember: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Given
			env := setupTestEnvironment(t)
			created := createMember(t, env, "Ana", "García", "30123456")
			if tc.activeSeason {
				env.seasons.active = &model.Season{ID: 7, StartDate: "2025-01-01", EndDate: "2025-03-31"}
			}
			env.seasons.enrolled[created.ID] = tc.enrolled

			// When
			recorder := testutil.ExecuteRequest(t, env.router, testutil.TestRequest{
				Method: http.MethodGet,
				URL:    "/members/registration/" + tc.dni,
			})

			// Then
			require.Equal(t, http.StatusOK, recorder.Code)

			var response member.RegistrationResponse
			testutil.ParseResponse(t, recorder, &response)
			assert.Equal(t, tc.wantCategory, response.Category)
			if tc.wantMember {
				require.NotNil(t, response.Member)
				assert.Equal(t, created.ID, response.Member.ID)
			} else {
				assert.Nil(t, response.Member)
			}
		})
	}
}

func TestRegistration_UsesClubToday(t *testing.T) {
	// Given: 02:30 UTC on the 16th is still the 15th in Buenos Aires
	db := testutil.SetupTestDB(t)
	seasons := &stubSeasons{enrolled: map[uint32]bool{}}
	resolver := clock.MustResolver(
		clock.NewManualClock(time.Date(2025, 1, 16, 2, 30, 0, 0, time.UTC)),
		clock.DefaultTimezone,
	)
	repo := member.NewMemberRepository()
	dni := "30123456"
	require.NoError(t, db.Create(&model.Member{
		FirstName: "Ana", LastName: "García", DNI: &dni,
		Gender: model.GenderFemale, BirthDate: "1990-05-01", EnrollmentDate: "2025-01-01",
	}).Error)

	// When
	_, err := member.NewClassifier(db, repo, seasons, resolver).Classify(context.Background(), dni)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "2025-01-15", seasons.askedDay.String())
}

func TestRegistration_InvalidDNI(t *testing.T) {
	// Given
	env := setupTestEnvironment(t)

	// When
	recorder := testutil.ExecuteRequest(t, env.router, testutil.TestRequest{
		Method: http.MethodGet,
		URL:    "/members/registration/12-34",
	})

	// Then
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var errResp sharedError.ErrorResponse
	testutil.ParseResponse(t, recorder, &errResp)
	assert.Equal(t, "ERROR-004", errResp.Code)
}
