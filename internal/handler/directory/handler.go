// Package directory serves the entity listings backing the dashboard's
// filter dropdowns and detail pages.
package directory

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medaudit/audit-trail-api/internal/handler"
	"github.com/medaudit/audit-trail-api/internal/repository"
)

type Handler struct {
	hospitals repository.HospitalRepository
	users     repository.UserRepository
	devices   repository.DeviceRepository
	patients  repository.PatientRepository
}

func NewHandler(
	hospitals repository.HospitalRepository,
	users repository.UserRepository,
	devices repository.DeviceRepository,
	patients repository.PatientRepository,
) *Handler {
	return &Handler{hospitals: hospitals, users: users, devices: devices, patients: patients}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/hospitals", h.ListHospitals)
	r.GET("/hospitals/:id", h.GetHospital)
	r.GET("/users", h.ListUsers)
	r.GET("/users/:id", h.GetUser)
	r.GET("/devices", h.ListDevices)
	r.GET("/devices/:id", h.GetDevice)
	r.GET("/patients", h.ListPatients)
	r.GET("/patients/:id", h.GetPatient)
}

func (h *Handler) ListHospitals(c *gin.Context) {
	hospitals, err := h.hospitals.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(hospitals))
}

func (h *Handler) GetHospital(c *gin.Context) {
	hospital, err := h.hospitals.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLookupError(c, err, "hospital not found")
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(hospital))
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), c.Query("hospital_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}

func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLookupError(c, err, "user not found")
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) ListDevices(c *gin.Context) {
	devices, err := h.devices.List(c.Request.Context(), c.Query("hospital_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(devices))
}

func (h *Handler) GetDevice(c *gin.Context) {
	device, err := h.devices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLookupError(c, err, "device not found")
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(device))
}

func (h *Handler) ListPatients(c *gin.Context) {
	patients, err := h.patients.List(c.Request.Context(), c.Query("hospital_id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patients))
}

func (h *Handler) GetPatient(c *gin.Context) {
	patient, err := h.patients.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLookupError(c, err, "patient not found")
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(patient))
}

func respondLookupError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse(notFoundMsg))
		return
	}
	c.JSON(http.StatusInternalServerError, handler.NewErrorResponse(err.Error()))
}
