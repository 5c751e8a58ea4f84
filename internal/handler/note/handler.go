package note

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/handler"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/service/note"
)

type Handler struct {
	svc *note.Service
}

func NewHandler(svc *note.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	notes := r.Group("/notes")
	{
		notes.POST("", h.SubmitNote)
		notes.GET("", h.ListOwn)
		notes.GET("/patients/:id", h.ListForPatient)
	}
}

// SubmitNote stores an encrypted doctor note and replaces the doctor's
// reminder plan for the patient with the one extracted from it.
func (h *Handler) SubmitNote(c *gin.Context) {
	doctorID, err := handler.PrincipalID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	var req model.SubmitNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.svc.SubmitNote(c.Request.Context(), doctorID, &req)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

// ListOwn returns the caller's notes: every note a doctor wrote, or every
// note written about a patient.
func (h *Handler) ListOwn(c *gin.Context) {
	id, err := handler.PrincipalID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	var notes []*model.DoctorNote
	if handler.PrincipalRole(c) == model.RoleDoctor {
		notes, err = h.svc.ListForDoctor(c.Request.Context(), id)
	} else {
		notes, err = h.svc.ListForPatient(c.Request.Context(), id)
	}
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(notes))
}

func (h *Handler) ListForPatient(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient id"))
		return
	}

	notes, err := h.svc.ListForPatient(c.Request.Context(), patientID)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(notes))
}
