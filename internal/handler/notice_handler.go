package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avenues-school/site-api/internal/service"
	appErrors "github.com/avenues-school/site-api/pkg/errors"
	"github.com/avenues-school/site-api/pkg/response"
)

// NoticeHandler exposes the public notice board and its back-office CRUD.
type NoticeHandler struct {
	notices *service.NoticeService
}

// NewNoticeHandler constructs NoticeHandler.
func NewNoticeHandler(notices *service.NoticeService) *NoticeHandler {
	return &NoticeHandler{notices: notices}
}

// List godoc
// @Summary List board notices, newest first
// @Tags Notices
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /notices [get]
func (h *NoticeHandler) List(c *gin.Context) {
	notices, err := h.notices.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notices, nil)
}

// Create godoc
// @Summary Publish a notice with an optional attachment
// @Tags Notices
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param file formData file false "Attachment"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/notices [post]
func (h *NoticeHandler) Create(c *gin.Context) {
	sub, cleanup, err := h.submission(c, "")
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cleanup()

	notice, err := h.notices.Submit(c.Request.Context(), sub)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, notice)
}

// Update godoc
// @Summary Edit a notice, keeping its attachment unless a new file arrives
// @Tags Notices
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Notice ID"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param file formData file false "Replacement attachment"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /admin/notices/{id} [put]
func (h *NoticeHandler) Update(c *gin.Context) {
	sub, cleanup, err := h.submission(c, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer cleanup()

	notice, err := h.notices.Submit(c.Request.Context(), sub)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, notice, nil)
}

// Delete godoc
// @Summary Delete a notice
// @Tags Notices
// @Produce json
// @Param id path string true "Notice ID"
// @Success 204 "No Content"
// @Security BearerAuth
// @Router /admin/notices/{id} [delete]
func (h *NoticeHandler) Delete(c *gin.Context) {
	if err := h.notices.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// submission builds a NoticeSubmission from the multipart form. The cleanup
// func closes the attachment once the service is done with it.
func (h *NoticeHandler) submission(c *gin.Context, id string) (service.NoticeSubmission, func(), error) {
	sub := service.NoticeSubmission{
		ID:          id,
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
	}
	cleanup := func() {}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return sub, cleanup, nil
		}
		return sub, cleanup, appErrors.Clone(appErrors.ErrValidation, "invalid multipart payload")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return sub, cleanup, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file")
	}
	sub.File = file
	sub.FileName = fileHeader.Filename
	return sub, func() { _ = file.Close() }, nil
}
