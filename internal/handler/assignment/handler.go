package assignment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/handler"
	"github.com/jwalitptl/hms-api/internal/model"
	"github.com/jwalitptl/hms-api/internal/service/assignment"
)

type Handler struct {
	svc       *assignment.Service
	adminOnly gin.HandlerFunc
}

func NewHandler(svc *assignment.Service, adminOnly gin.HandlerFunc) *Handler {
	return &Handler{svc: svc, adminOnly: adminOnly}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	assignments := r.Group("/assignments")
	{
		assignments.POST("", h.Assign)
		// Completing or canceling an assignment is an admin operation.
		assignments.POST("/cancel", h.adminOnly, h.Cancel)
		assignments.DELETE("/:id", h.adminOnly, h.Unassign)
	}
	r.GET("/doctors/:id/patients", h.PatientsOfDoctor)
	r.GET("/patients/:id/doctors", h.DoctorsOfPatient)
}

// Assign creates an active assignment between the authenticated patient
// and the requested doctor.
func (h *Handler) Assign(c *gin.Context) {
	patientID, err := handler.PrincipalID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse(err.Error()))
		return
	}

	var req model.AssignDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor id"))
		return
	}

	created, err := h.svc.Assign(c.Request.Context(), doctorID, patientID)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) Unassign(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid assignment id"))
		return
	}

	completed, err := h.svc.Unassign(c.Request.Context(), id)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(completed))
}

func (h *Handler) Cancel(c *gin.Context) {
	var req model.CancelAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}
	doctorID, err := uuid.Parse(req.DoctorID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor id"))
		return
	}
	patientID, err := uuid.Parse(req.PatientID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient id"))
		return
	}

	if err := h.svc.Cancel(c.Request.Context(), doctorID, patientID); err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse("assignment canceled"))
}

func (h *Handler) PatientsOfDoctor(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid doctor id"))
		return
	}

	activeOnly := c.DefaultQuery("active", "true") == "true"
	assignments, err := h.svc.PatientsOfDoctor(c.Request.Context(), doctorID, activeOnly)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(assignments))
}

func (h *Handler) DoctorsOfPatient(c *gin.Context) {
	patientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid patient id"))
		return
	}

	activeOnly := c.DefaultQuery("active", "true") == "true"
	assignments, err := h.svc.DoctorsOfPatient(c.Request.Context(), patientID, activeOnly)
	if err != nil {
		handler.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(assignments))
}
