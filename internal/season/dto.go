package season

import (
	"time"

	"github.com/lavictoria/club-api/internal/member"
	"github.com/lavictoria/club-api/internal/model"
)

type CreateSeasonRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	StartDate   string  `json:"startDate" binding:"required,civildate"`
	EndDate     string  `json:"endDate" binding:"required,civildate"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// UpdateSeasonRequest only changes the fields that are present.
type UpdateSeasonRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	StartDate   *string `json:"startDate" binding:"omitempty,civildate"`
	EndDate     *string `json:"endDate" binding:"omitempty,civildate"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

type EnrollRequest struct {
	MemberID uint32 `json:"memberId" binding:"required,min=1"`
}

type SeasonResponse struct {
	ID          uint32    `json:"id"`
	Name        string    `json:"name"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

func NewSeasonResponse(s *model.Season) SeasonResponse {
	return SeasonResponse{
		ID:          s.ID,
		Name:        s.Name,
		StartDate:   s.StartDate,
		EndDate:     s.EndDate,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
	}
}

type EnrollmentResponse struct {
	ID         uint32    `json:"id"`
	SeasonID   uint32    `json:"seasonId"`
	MemberID   uint32    `json:"memberId"`
	EnrolledAt time.Time `json:"enrolledAt"`
}

func NewEnrollmentResponse(e *model.Enrollment) EnrollmentResponse {
	return EnrollmentResponse{
		ID:         e.ID,
		SeasonID:   e.SeasonID,
		MemberID:   e.MemberID,
		EnrolledAt: e.EnrolledAt,
	}
}

// SeasonMemberResponse is one enrolled member of a season.
type SeasonMemberResponse struct {
	ID     uint32                `json:"id"`
	Member member.MemberResponse `json:"member"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
