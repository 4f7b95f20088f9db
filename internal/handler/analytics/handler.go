package analytics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/medaudit/audit-trail-api/internal/handler"
	analyticsService "github.com/medaudit/audit-trail-api/internal/service/analytics"
)

type Handler struct {
	service *analyticsService.Service
}

func NewHandler(service *analyticsService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	analytics := r.Group("/analytics")
	{
		analytics.GET("/activity", h.Activity)
		analytics.GET("/event-distribution", h.EventDistribution)
		analytics.GET("/security", h.Security)
		analytics.GET("/performance", h.Performance)
		analytics.GET("/timeline", h.Timeline)
	}
}

// window reads the hours query parameter, defaulting to 24 and capping
// at 90 days.
func window(c *gin.Context) (time.Duration, bool) {
	hours := 24
	if v := c.Query("hours"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 24*90 {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("hours must be between 1 and 2160"))
			return 0, false
		}
		hours = parsed
	}
	return time.Duration(hours) * time.Hour, true
}

func (h *Handler) Activity(c *gin.Context) {
	w, ok := window(c)
	if !ok {
		return
	}
	report, err := h.service.Activity(c.Request.Context(), c.Query("hospital_id"), w)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}

func (h *Handler) EventDistribution(c *gin.Context) {
	w, ok := window(c)
	if !ok {
		return
	}
	counts, err := h.service.EventDistribution(c.Request.Context(), c.Query("hospital_id"), w)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(counts))
}

func (h *Handler) Security(c *gin.Context) {
	w, ok := window(c)
	if !ok {
		return
	}
	report, err := h.service.Security(c.Request.Context(), c.Query("hospital_id"), w)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}

func (h *Handler) Performance(c *gin.Context) {
	w, ok := window(c)
	if !ok {
		return
	}
	report, err := h.service.Performance(c.Request.Context(), c.Query("hospital_id"), w)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(report))
}

func (h *Handler) Timeline(c *gin.Context) {
	w, ok := window(c)
	if !ok {
		return
	}
	counts, err := h.service.Timeline(c.Request.Context(), c.Query("hospital_id"), w)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(counts))
}
