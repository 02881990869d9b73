package member

import (
	"context"
	"errors"
	"fmt"

	"github.com/lavictoria/club-api/internal/model"
	"github.com/lavictoria/club-api/internal/photo"
	"github.com/lavictoria/club-api/internal/shared/clock"
	"github.com/lavictoria/club-api/internal/shared/database"
	"github.com/lavictoria/club-api/internal/shared/logger"
	"github.com/lavictoria/club-api/internal/shared/pagination"

	"gorm.io/gorm"
)

type MemberService struct {
	db               *gorm.DB
	memberRepository *MemberRepository
	photos           photo.Store
	resolver         *clock.Resolver
}

func NewMemberService(db *gorm.DB, memberRepository *MemberRepository, photos photo.Store, resolver *clock.Resolver) *MemberService {
	return &MemberService{
		db:               db,
		memberRepository: memberRepository,
		photos:           photos,
		resolver:         resolver,
	}
}

func (s *MemberService) List(ctx context.Context, q pagination.Query) (pagination.Page[MemberResponse], error) {
	q = q.Normalize()

	members, total, err := s.memberRepository.FindPage(ctx, s.db, q)
	if err != nil {
		return pagination.Page[MemberResponse]{}, fmt.Errorf("list members: %w", err)
	}

	page := pagination.NewPage(members, total, q)
	return pagination.Map(page, func(m model.Member) MemberResponse {
		return NewMemberResponse(&m)
	}), nil
}

func (s *MemberService) Get(ctx context.Context, id uint32) (*MemberResponse, error) {
	member, err := s.memberRepository.FindByID(ctx, s.db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("member id=%d: %w", id, ErrMemberNotFound)
		}
		return nil, fmt.Errorf("find member: %w", err)
	}

	response := NewMemberResponse(member)
	return &response, nil
}

// Create registers a member. The photo is uploaded before the database write and
// removed again if the write fails.
func (s *MemberService) Create(ctx context.Context, req *CreateMemberRequest, file *photo.File) (*MemberResponse, error) {
	log := logger.FromContext(ctx)

	if req.DNI != "" {
		taken, err := s.memberRepository.IsDNITaken(ctx, s.db, req.DNI, 0)
		if err != nil {
			return nil, fmt.Errorf("check dni: %w", err)
		}
		if taken {
			log.Warn("Member DNI already registered", "dni", logger.MaskDNI(req.DNI))
			return nil, fmt.Errorf("dni %s: %w", logger.MaskDNI(req.DNI), ErrDNIAlreadyExists)
		}
	}

	var photoURL string
	if file != nil {
		url, err := s.photos.Upload(ctx, file)
		if err != nil {
			return nil, err
		}
		photoURL = url
	}

	member := &model.Member{EnrollmentDate: s.resolver.Today().String()}
	req.applyTo(member)
	if photoURL != "" {
		member.PhotoURL = &photoURL
	}

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if member.DNI != nil {
			taken, err := s.memberRepository.IsDNITaken(ctx, tx, *member.DNI, 0)
			if err != nil {
				return fmt.Errorf("check dni: %w", err)
			}
			if taken {
				return fmt.Errorf("dni %s: %w", logger.MaskDNI(*member.DNI), ErrDNIAlreadyExists)
			}
		}

		if err := s.memberRepository.Create(ctx, tx, member); err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("create member: %w", ErrDNIAlreadyExists)
			}
			return fmt.Errorf("create member: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("Member create failed", "error", err)
		s.discardPhoto(ctx, photoURL, "rollback")
		return nil, err
	}

	log.Info("Member created", "member_id", member.ID, "email", logger.MaskEmail(req.Email), "with_photo", photoURL != "")
	response := NewMemberResponse(member)
	return &response, nil
}

// Update replaces the member's fields. A new photo replaces the old one, removePhoto clears it.
// The previous photo is deleted only after the transaction commits.
func (s *MemberService) Update(ctx context.Context, id uint32, req *UpdateMemberRequest, file *photo.File) (*MemberResponse, error) {
	log := logger.FromContext(ctx)

	var (
		member      *model.Member
		newPhotoURL string
		oldPhotoURL string
	)

	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		found, err := s.memberRepository.FindByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("member id=%d: %w", id, ErrMemberNotFound)
			}
			return fmt.Errorf("find member: %w", err)
		}
		member = found

		if file != nil {
			url, err := s.photos.Upload(ctx, file)
			if err != nil {
				return err
			}
			newPhotoURL = url
		}

		if req.DNI != "" {
			taken, err := s.memberRepository.IsDNITaken(ctx, tx, req.DNI, id)
			if err != nil {
				return fmt.Errorf("check dni: %w", err)
			}
			if taken {
				return fmt.Errorf("dni %s: %w", logger.MaskDNI(req.DNI), ErrDNIAlreadyExists)
			}
		}

		previous := member.PhotoURL
		req.applyTo(member)
		switch {
		case newPhotoURL != "":
			member.PhotoURL = &newPhotoURL
		case req.RemovePhoto:
			member.PhotoURL = nil
		}
		if previous != nil && (newPhotoURL != "" || req.RemovePhoto) {
			oldPhotoURL = *previous
		}

		if err := s.memberRepository.Save(ctx, tx, member); err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("update member: %w", ErrDNIAlreadyExists)
			}
			return fmt.Errorf("update member: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("Member update failed", "member_id", id, "error", err)
		s.discardPhoto(ctx, newPhotoURL, "rollback")
		return nil, err
	}

	s.discardPhoto(ctx, oldPhotoURL, "replaced")

	log.Info("Member updated", "member_id", id)
	response := NewMemberResponse(member)
	return &response, nil
}

// Delete removes the member with its enrollments. Check-ins stay, detached from the member.
func (s *MemberService) Delete(ctx context.Context, id uint32) error {
	log := logger.FromContext(ctx)

	var photoURL string
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		member, err := s.memberRepository.FindByID(ctx, tx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("member id=%d: %w", id, ErrMemberNotFound)
			}
			return fmt.Errorf("find member: %w", err)
		}
		if member.PhotoURL != nil {
			photoURL = *member.PhotoURL
		}

		if err := s.memberRepository.DeleteEnrollments(ctx, tx, id); err != nil {
			return fmt.Errorf("delete enrollments: %w", err)
		}
		if err := s.memberRepository.DetachEntries(ctx, tx, id); err != nil {
			return fmt.Errorf("detach entries: %w", err)
		}

		affected, err := s.memberRepository.Delete(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("delete member: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("member id=%d: %w", id, ErrMemberNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.discardPhoto(ctx, photoURL, "member deleted")

	log.Info("Member deleted", "member_id", id)
	return nil
}

// discardPhoto deletes a stored photo and only logs failures.
func (s *MemberService) discardPhoto(ctx context.Context, url, reason string) {
	if url == "" {
		return
	}

	log := logger.FromContext(ctx)
	result, err := s.photos.Delete(ctx, url)
	if err != nil {
		log.Error("Photo delete failed", "url", url, "reason", reason, "error", err)
		return
	}
	log.Info("Photo deleted", "url", url, "reason", reason, "result", result)
}
