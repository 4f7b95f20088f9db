package generate

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medaudit/audit-trail-api/internal/generator"
	"github.com/medaudit/audit-trail-api/internal/generator/patterns"
	"github.com/medaudit/audit-trail-api/internal/handler"
	generateService "github.com/medaudit/audit-trail-api/internal/service/generate"
)

type Handler struct {
	service *generateService.Service
}

func NewHandler(service *generateService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	gen := r.Group("/generate")
	{
		gen.POST("/event", h.GenerateEvent)
		gen.POST("/workflow", h.GenerateWorkflow)
	}
}

type workflowRequest struct {
	PatientType string `json:"patient_type" binding:"omitempty,oneof=outpatient emergency"`
}

func (h *Handler) GenerateEvent(c *gin.Context) {
	log, err := h.service.GenerateRandom(c.Request.Context())
	if err != nil {
		if errors.Is(err, generator.ErrEmptyPopulation) {
			c.JSON(http.StatusConflict, handler.NewErrorResponse("entity tables are empty, run the seeder first"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(log))
}

func (h *Handler) GenerateWorkflow(c *gin.Context) {
	var req workflowRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	patientType := patterns.PatientOutpatient
	if req.PatientType == string(patterns.PatientEmergency) {
		patientType = patterns.PatientEmergency
	}

	logs, err := h.service.GenerateWorkflow(c.Request.Context(), patientType)
	if err != nil {
		if errors.Is(err, generator.ErrEmptyPopulation) {
			c.JSON(http.StatusConflict, handler.NewErrorResponse("entity tables are empty, run the seeder first"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(logs))
}
