package entry

import (
	"time"

	"github.com/lavictoria/club-api/internal/member"
	"github.com/lavictoria/club-api/internal/model"
)

// CreateEntryRequest is one check-in. Members are identified by MemberID, non-members by DNI.
type CreateEntryRequest struct {
	MemberID      *uint32 `json:"memberId" binding:"omitempty,min=1"`
	DNI           *string `json:"dni" binding:"omitempty,dni"`
	Category      string  `json:"category" binding:"required,oneof=CLUB_MEMBER POOL_MEMBER NON_MEMBER"`
	PoolAccess    *bool   `json:"poolAccess" binding:"required"`
	PaymentMethod *string `json:"paymentMethod" binding:"omitempty,oneof=CASH TRANSFER"`
	Amount        *int    `json:"amount" binding:"omitempty,min=0"`
}

// validate enforces the identity rule of each category.
func (r *CreateEntryRequest) validate() error {
	category := model.EntryCategory(r.Category)
	if category.IsMember() {
		if r.MemberID == nil || r.DNI != nil {
			return ErrInvalidEntryIdentity
		}
		return nil
	}
	if r.DNI == nil || r.MemberID != nil {
		return ErrInvalidEntryIdentity
	}
	return nil
}

type EntryResponse struct {
	ID            uint32                 `json:"id"`
	MemberID      *uint32                `json:"memberId"`
	DNI           *string                `json:"dni"`
	Category      string                 `json:"category"`
	PoolAccess    bool                   `json:"poolAccess"`
	PaymentMethod *string                `json:"paymentMethod"`
	Amount        int                    `json:"amount"`
	CreatedAt     time.Time              `json:"createdAt"`
	Member        *member.MemberResponse `json:"member"`
}

func NewEntryResponse(e *model.EntryRecord) EntryResponse {
	response := EntryResponse{
		ID:         e.ID,
		MemberID:   e.MemberID,
		DNI:        e.DNI,
		Category:   string(e.Category),
		PoolAccess: e.PoolAccess,
		Amount:     e.Amount,
		CreatedAt:  e.CreatedAt,
	}
	if e.PaymentMethod != nil {
		method := string(*e.PaymentMethod)
		response.PaymentMethod = &method
	}
	if e.Member != nil {
		m := member.NewMemberResponse(e.Member)
		response.Member = &m
	}
	return response
}

func NewEntryResponses(records []model.EntryRecord) []EntryResponse {
	responses := make([]EntryResponse, 0, len(records))
	for i := range records {
		responses = append(responses, NewEntryResponse(&records[i]))
	}
	return responses
}
