package member

import (
	"errors"
	"net/http"

	"github.com/lavictoria/club-api/internal/photo"
	sharedError "github.com/lavictoria/club-api/internal/shared/error"
	"github.com/lavictoria/club-api/internal/shared/handler"
	"github.com/lavictoria/club-api/internal/shared/pagination"
	"github.com/lavictoria/club-api/internal/shared/validator"

	"github.com/gin-gonic/gin"
)

const photoField = "photo"

type MemberHandler struct {
	memberService *MemberService
	classifier    *Classifier
	maxPhotoBytes int64
}

func NewMemberHandler(memberService *MemberService, classifier *Classifier, maxPhotoBytes int64) *MemberHandler {
	return &MemberHandler{
		memberService: memberService,
		classifier:    classifier,
		maxPhotoBytes: maxPhotoBytes,
	}
}

func (h *MemberHandler) List(c *gin.Context) {
	var query pagination.Query
	if !handler.BindQuery(c, &query) {
		return
	}

	page, err := h.memberService.List(c.Request.Context(), query)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *MemberHandler) Get(c *gin.Context) {
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	response, err := h.memberService.Get(c.Request.Context(), id)
	if err != nil {
		if resp, ok := sharedError.ResolveDomainError(err); ok {
			handler.RespondError(c, err, resp)
			return
		}

		handler.RespondError(c, err, sharedError.InternalServerError)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) Create(c *gin.Context) {
	var request CreateMemberRequest
	if !handler.BindForm(c, &request) {
		return
	}

	file, ok := h.readPhoto(c)
	if !ok {
		return
	}

	response, err := h.memberService.Create(c.Request.Context(), &request, file)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

func (h *MemberHandler) Update(c *gin.Context) {
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var request UpdateMemberRequest
	if !handler.BindForm(c, &request) {
		return
	}

	file, ok := h.readPhoto(c)
	if !ok {
		return
	}

	response, err := h.memberService.Update(c.Request.Context(), id, &request, file)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *MemberHandler) Delete(c *gin.Context) {
	id, ok := handler.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.memberService.Delete(c.Request.Context(), id); err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, DeleteMemberResponse{Message: "Socio eliminado exitosamente"})
}

// Registration classifies a document number for today's check-in.
func (h *MemberHandler) Registration(c *gin.Context) {
	dni := c.Param("dni")
	if !validator.IsDNI(dni) {
		c.JSON(sharedError.InvalidParameter.Status, sharedError.InvalidParameter)
		return
	}

	result, err := h.classifier.Classify(c.Request.Context(), dni)
	if err != nil {
		handler.RespondServiceError(c, err)
		return
	}

	response := RegistrationResponse{Category: string(result.Category)}
	if result.Member != nil {
		member := NewMemberResponse(result.Member)
		response.Member = &member
	}
	c.JSON(http.StatusOK, response)
}

// readPhoto returns the optional uploaded photo. false means a response was already sent.
func (h *MemberHandler) readPhoto(c *gin.Context) (*photo.File, bool) {
	fh, err := c.FormFile(photoField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, true
		}
		handler.RespondError(c, err, sharedError.InvalidRequest)
		return nil, false
	}

	file, err := photo.ReadMultipart(fh, h.maxPhotoBytes)
	if err != nil {
		handler.RespondServiceError(c, err)
		return nil, false
	}
	return file, true
}
