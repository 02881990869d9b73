package member

import (
	"strings"
	"time"

	"github.com/lavictoria/club-api/internal/model"
)

// CreateMemberRequest is bound from multipart forms (with an optional photo) or JSON.
type CreateMemberRequest struct {
	FirstName string `form:"firstName" json:"firstName" binding:"required,max=100"`
	LastName  string `form:"lastName" json:"lastName" binding:"required,max=100"`
	DNI       string `form:"dni" json:"dni" binding:"omitempty,dni"`
	Phone     string `form:"phone" json:"phone" binding:"omitempty,max=30"`
	Email     string `form:"email" json:"email" binding:"omitempty,email,max=255"`
	Address   string `form:"address" json:"address" binding:"omitempty,max=255"`
	BirthDate string `form:"birthDate" json:"birthDate" binding:"required,civildate"`
	Status    string `form:"status" json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
	Gender    string `form:"gender" json:"gender" binding:"required,oneof=MALE FEMALE"`
}

// UpdateMemberRequest replaces every editable field. Empty optional fields are cleared.
type UpdateMemberRequest struct {
	CreateMemberRequest
	RemovePhoto bool `form:"removePhoto" json:"removePhoto"`
}

type MemberResponse struct {
	ID             uint32    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	DNI            *string   `json:"dni"`
	Phone          *string   `json:"phone"`
	Email          *string   `json:"email"`
	Address        *string   `json:"address"`
	Status         string    `json:"status"`
	Gender         string    `json:"gender"`
	BirthDate      string    `json:"birthDate"`
	EnrollmentDate string    `json:"enrollmentDate"`
	PhotoURL       *string   `json:"photoUrl"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewMemberResponse(m *model.Member) MemberResponse {
	return MemberResponse{
		ID:             m.ID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		DNI:            m.DNI,
		Phone:          m.Phone,
		Email:          m.Email,
		Address:        m.Address,
		Status:         string(m.Status),
		Gender:         string(m.Gender),
		BirthDate:      m.BirthDate,
		EnrollmentDate: m.EnrollmentDate,
		PhotoURL:       m.PhotoURL,
		CreatedAt:      m.CreatedAt,
	}
}

// RegistrationResponse tells the front desk how to charge a person.
type RegistrationResponse struct {
	Member   *MemberResponse `json:"member"`
	Category string          `json:"category"`
}

type DeleteMemberResponse struct {
	Message string `json:"message"`
}

// applyTo copies the request onto m. EnrollmentDate and PhotoURL are managed by the service.
func (r *CreateMemberRequest) applyTo(m *model.Member) {
	m.FirstName = strings.TrimSpace(r.FirstName)
	m.LastName = strings.TrimSpace(r.LastName)
	m.DNI = optional(r.DNI)
	m.Phone = optional(r.Phone)
	m.Email = optional(r.Email)
	m.Address = optional(r.Address)
	m.BirthDate = r.BirthDate
	m.Gender = model.Gender(r.Gender)

	m.Status = model.MemberStatusActive
	if r.Status != "" {
		m.Status = model.MemberStatus(r.Status)
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
