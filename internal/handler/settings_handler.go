package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darsapp/dars-api/internal/service"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
	"github.com/darsapp/dars-api/pkg/response"
)

// SettingsHandler exposes admin SMTP configuration endpoints.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler constructs SettingsHandler.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GetSMTP godoc
// @Summary Get SMTP settings
// @Tags Settings
// @Produce json
// @Success 200 {object} service.SMTPSettingsView
// @Router /settings/smtp [get]
func (h *SettingsHandler) GetSMTP(c *gin.Context) {
	view, err := h.settings.GetSMTP(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// UpdateSMTP godoc
// @Summary Update SMTP settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body service.SMTPSettingsRequest true "SMTP payload"
// @Success 200 {object} service.SMTPSettingsView
// @Router /settings/smtp [put]
func (h *SettingsHandler) UpdateSMTP(c *gin.Context) {
	var req service.SMTPSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	view, err := h.settings.UpdateSMTP(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view)
}

// SendTest godoc
// @Summary Send a test mail with the stored settings
// @Tags Settings
// @Accept json
// @Success 204
// @Router /settings/smtp/test [post]
func (h *SettingsHandler) SendTest(c *gin.Context) {
	var req service.TestMailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	if err := h.settings.SendTestMail(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
