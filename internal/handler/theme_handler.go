package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darsapp/dars-api/internal/models"
	"github.com/darsapp/dars-api/internal/service"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
	"github.com/darsapp/dars-api/pkg/response"
)

// ThemeHandler exposes theme endpoints.
type ThemeHandler struct {
	themes *service.ThemeService
}

// NewThemeHandler constructs ThemeHandler.
func NewThemeHandler(themes *service.ThemeService) *ThemeHandler {
	return &ThemeHandler{themes: themes}
}

// List godoc
// @Summary List themes
// @Tags Themes
// @Produce json
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Page size (max 1000)"
// @Param search query string false "Search by name"
// @Param include_inactive query bool false "Include inactive rows (admin only)"
// @Success 200 {object} response.Page
// @Router /themes [get]
func (h *ThemeHandler) List(c *gin.Context) {
	filter := models.ThemeFilter{ListQuery: parseListQuery(c)}
	themes, total, err := h.themes.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, themes, total, filter.Skip, filter.Limit)
}

// Get godoc
// @Summary Get theme detail with dependent counts
// @Tags Themes
// @Produce json
// @Param id path int true "Theme ID"
// @Success 200 {object} models.ThemeWithCounts
// @Router /themes/{id} [get]
func (h *ThemeHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	theme, err := h.themes.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, theme)
}

// Create godoc
// @Summary Create theme
// @Tags Themes
// @Accept json
// @Produce json
// @Param payload body service.CreateThemeRequest true "Theme payload"
// @Success 201 {object} models.Theme
// @Router /themes [post]
func (h *ThemeHandler) Create(c *gin.Context) {
	var req service.CreateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	theme, err := h.themes.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, theme)
}

// Update godoc
// @Summary Update theme
// @Tags Themes
// @Accept json
// @Produce json
// @Param id path int true "Theme ID"
// @Param payload body service.UpdateThemeRequest true "Theme payload"
// @Success 200 {object} models.Theme
// @Router /themes/{id} [put]
func (h *ThemeHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.UpdateThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	theme, err := h.themes.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, theme)
}

// Delete godoc
// @Summary Delete theme
// @Tags Themes
// @Param id path int true "Theme ID"
// @Success 204
// @Router /themes/{id} [delete]
func (h *ThemeHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.themes.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
