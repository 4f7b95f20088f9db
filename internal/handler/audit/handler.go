package audit

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/medaudit/audit-trail-api/internal/handler"
	"github.com/medaudit/audit-trail-api/internal/model"
	"github.com/medaudit/audit-trail-api/internal/repository"
	auditService "github.com/medaudit/audit-trail-api/internal/service/audit"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("auditlevel", func(fl validator.FieldLevel) bool {
			switch model.Level(fl.Field().String()) {
			case model.LevelInfo, model.LevelWarning, model.LevelError, model.LevelCritical:
				return true
			}
			return false
		})
	}
}

type Handler struct {
	service *auditService.Service
}

func NewHandler(service *auditService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/logs", h.ListLogs)
	r.GET("/logs/:id", h.GetLog)
	r.GET("/stats/dashboard", h.DashboardStats)
}

type listLogsQuery struct {
	HospitalID string `form:"hospital_id"`
	Level      string `form:"level" binding:"omitempty,auditlevel"`
	EventType  string `form:"event_type"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=5000"`
}

func (h *Handler) ListLogs(c *gin.Context) {
	var q listLogsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	filters := model.LogFilters{
		HospitalID: q.HospitalID,
		Level:      q.Level,
		EventType:  q.EventType,
		Limit:      q.Limit,
	}

	if q.StartDate != "" {
		t, err := time.Parse(time.RFC3339, q.StartDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid start_date"))
			return
		}
		filters.StartDate = &t
	}
	if q.EndDate != "" {
		t, err := time.Parse(time.RFC3339, q.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid end_date"))
			return
		}
		filters.EndDate = &t
	}

	logs, err := h.service.List(c.Request.Context(), filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(logs))
}

func (h *Handler) GetLog(c *gin.Context) {
	log, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, handler.NewErrorResponse("log not found"))
			return
		}
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(log))
}

func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.service.DashboardStats(c.Request.Context(), c.Query("hospital_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(stats))
}
