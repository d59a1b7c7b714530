package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darsapp/dars-api/internal/middleware"
	"github.com/darsapp/dars-api/internal/models"
	"github.com/darsapp/dars-api/internal/service"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
	"github.com/darsapp/dars-api/pkg/response"
)

// BookmarkHandler exposes the caller's playback bookmark endpoints.
type BookmarkHandler struct {
	bookmarks *service.BookmarkService
}

// NewBookmarkHandler constructs BookmarkHandler.
func NewBookmarkHandler(bookmarks *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarks: bookmarks}
}

// List godoc
// @Summary List the caller's bookmarks
// @Tags Bookmarks
// @Produce json
// @Success 200 {array} models.Bookmark
// @Router /bookmarks [get]
func (h *BookmarkHandler) List(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	bookmarks, err := h.bookmarks.List(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if bookmarks == nil {
		bookmarks = []models.Bookmark{}
	}
	response.JSON(c, http.StatusOK, bookmarks)
}

// Save godoc
// @Summary Save a playback position
// @Tags Bookmarks
// @Accept json
// @Produce json
// @Param payload body service.BookmarkRequest true "Bookmark payload"
// @Success 200 {object} models.Bookmark
// @Router /bookmarks [post]
func (h *BookmarkHandler) Save(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.BookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	bookmark, err := h.bookmarks.Save(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookmark)
}

// Delete godoc
// @Summary Delete a bookmark
// @Tags Bookmarks
// @Param id path int true "Bookmark ID"
// @Success 204
// @Router /bookmarks/{id} [delete]
func (h *BookmarkHandler) Delete(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.bookmarks.Delete(c.Request.Context(), claims.UserID, id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
