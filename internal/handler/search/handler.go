package search

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/medaudit/audit-trail-api/internal/handler"
	"github.com/medaudit/audit-trail-api/internal/repository"
)

type Handler struct {
	users    repository.UserRepository
	devices  repository.DeviceRepository
	patients repository.PatientRepository
}

func NewHandler(users repository.UserRepository, devices repository.DeviceRepository, patients repository.PatientRepository) *Handler {
	return &Handler{users: users, devices: devices, patients: patients}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	search := r.Group("/search")
	{
		search.GET("/doctors", h.SearchDoctors)
		search.GET("/devices", h.SearchDevices)
		search.GET("/patients", h.SearchPatients)
	}
}

func params(c *gin.Context) (q, hospitalID string, limit int, ok bool) {
	q = c.Query("q")
	if q == "" {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("q is required"))
		return "", "", 0, false
	}
	limit = 20
	if v := c.Query("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("limit must be between 1 and 100"))
			return "", "", 0, false
		}
		limit = parsed
	}
	return q, c.Query("hospital_id"), limit, true
}

func (h *Handler) SearchDoctors(c *gin.Context) {
	q, hospitalID, limit, ok := params(c)
	if !ok {
		return
	}
	users, err := h.users.Search(c.Request.Context(), hospitalID, q, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}

func (h *Handler) SearchDevices(c *gin.Context) {
	q, hospitalID, limit, ok := params(c)
	if !ok {
		return
	}
	devices, err := h.devices.Search(c.Request.Context(), hospitalID, q, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(devices))
}

func (h *Handler) SearchPatients(c *gin.Context) {
	q, hospitalID, limit, ok := params(c)
	if !ok {
		return
	}
	patients, err := h.patients.Search(c.Request.Context(), hospitalID, q, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}
