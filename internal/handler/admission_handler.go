package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avenues-school/site-api/internal/models"
	"github.com/avenues-school/site-api/internal/service"
	appErrors "github.com/avenues-school/site-api/pkg/errors"
	"github.com/avenues-school/site-api/pkg/response"
)

// AdmissionHandler exposes the public intake endpoints and the back-office
// admissions grid.
type AdmissionHandler struct {
	admissions *service.AdmissionService
	exports    *service.ExportService
}

// NewAdmissionHandler constructs AdmissionHandler.
func NewAdmissionHandler(admissions *service.AdmissionService, exports *service.ExportService) *AdmissionHandler {
	return &AdmissionHandler{admissions: admissions, exports: exports}
}

// statusUpdateRequest is the PATCH payload for the grid. Page tells the
// service which page to refetch after the write.
type statusUpdateRequest struct {
	Status models.AdmissionStatus `json:"status"`
	Page   int                    `json:"page"`
}

// Submit godoc
// @Summary Submit an admission application
// @Tags Admissions
// @Accept json
// @Produce json
// @Param payload body models.AdmissionForm true "Application fields"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admissions [post]
func (h *AdmissionHandler) Submit(c *gin.Context) {
	var form models.AdmissionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid application payload"))
		return
	}
	admission, err := h.admissions.Submit(c.Request.Context(), form)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, admission)
}

// CheckForm godoc
// @Summary Validate a draft application without submitting
// @Tags Admissions
// @Accept json
// @Produce json
// @Param payload body models.AdmissionForm true "Draft fields"
// @Success 200 {object} response.Envelope
// @Router /admissions/validate [post]
func (h *AdmissionHandler) CheckForm(c *gin.Context) {
	var form models.AdmissionForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid application payload"))
		return
	}
	fields := h.admissions.CheckForm(form)
	response.JSON(c, http.StatusOK, gin.H{"valid": len(fields) == 0, "fields": fields}, nil)
}

// List godoc
// @Summary List applications for the back-office grid
// @Tags Admissions
// @Produce json
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/admissions [get]
func (h *AdmissionHandler) List(c *gin.Context) {
	admissions, pagination, err := h.admissions.List(c.Request.Context(), pageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admissions, pagination)
}

// Get godoc
// @Summary Get a single application
// @Tags Admissions
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/admissions/{id} [get]
func (h *AdmissionHandler) Get(c *gin.Context) {
	admission, err := h.admissions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admission, nil)
}

// UpdateStatus godoc
// @Summary Update an application's review status
// @Tags Admissions
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body statusUpdateRequest true "New status and current page"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/admissions/{id}/status [patch]
func (h *AdmissionHandler) UpdateStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid status payload"))
		return
	}
	admissions, pagination, err := h.admissions.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.Page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admissions, pagination)
}

// Delete godoc
// @Summary Delete an application
// @Tags Admissions
// @Produce json
// @Param id path string true "Application ID"
// @Param page query int false "Current page to refetch"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/admissions/{id} [delete]
func (h *AdmissionHandler) Delete(c *gin.Context) {
	admissions, pagination, err := h.admissions.Delete(c.Request.Context(), c.Param("id"), pageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, admissions, pagination)
}

// Export godoc
// @Summary Download every application as CSV or PDF
// @Tags Admissions
// @Produce octet-stream
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /admin/admissions/export [get]
func (h *AdmissionHandler) Export(c *gin.Context) {
	file, err := h.exports.Generate(c.Request.Context(), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+file.Filename)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
