package reminder

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/handler"
	"github.com/jwalitptl/hms-api/internal/service/reminder"
)

type Handler struct {
	svc *reminder.Service
}

func NewHandler(svc *reminder.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	reminders := r.Group("/reminders")
	{
		reminders.GET("", h.ListOwnPending)
		reminders.GET("/patients/:id", h.ListPending)
		reminders.PATCH("/:id/check-in", h.CheckIn)
	}
}

// CheckIn marks a reminder completed and, when the patient's plan has
// lapsed, appends a catch-up task one day past the latest pending one.
func (h *Handler) CheckIn(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid reminder id"))
		return
	}

	if err := h.svc.CheckIn(c.Request.Context(), id); err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("checked in"))
}

func (h *Handler) ListOwnPending(c *gin.Context) {
	patientID, err := handler.PrincipalID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	reminders, err := h.svc.ListPending(c.Request.Context(), patientID)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(reminders))
}

func (h *Handler) ListPending(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient id"))
		return
	}

	reminders, err := h.svc.ListPending(c.Request.Context(), patientID)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(reminders))
}
