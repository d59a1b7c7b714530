package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darsapp/dars-api/internal/models"
	"github.com/darsapp/dars-api/internal/service"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
	"github.com/darsapp/dars-api/pkg/response"
)

// AuthorHandler exposes book author endpoints.
type AuthorHandler struct {
	authors *service.AuthorService
}

// NewAuthorHandler constructs AuthorHandler.
func NewAuthorHandler(authors *service.AuthorService) *AuthorHandler {
	return &AuthorHandler{authors: authors}
}

// List godoc
// @Summary List book authors
// @Tags Authors
// @Produce json
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Page size (max 1000)"
// @Param search query string false "Search by name"
// @Param birth_year_from query int false "Born in or after this year"
// @Param birth_year_to query int false "Born in or before this year"
// @Success 200 {object} response.Page
// @Router /authors [get]
func (h *AuthorHandler) List(c *gin.Context) {
	filter := models.AuthorFilter{
		ListQuery:     parseListQuery(c),
		BirthYearFrom: queryInt(c, "birth_year_from"),
		BirthYearTo:   queryInt(c, "birth_year_to"),
	}
	authors, total, err := h.authors.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, authors, total, filter.Skip, filter.Limit)
}

// Get godoc
// @Summary Get author detail
// @Tags Authors
// @Produce json
// @Param id path int true "Author ID"
// @Success 200 {object} models.BookAuthor
// @Router /authors/{id} [get]
func (h *AuthorHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	author, err := h.authors.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, author)
}

// Create godoc
// @Summary Create author
// @Tags Authors
// @Accept json
// @Produce json
// @Param payload body service.AuthorRequest true "Author payload"
// @Success 201 {object} models.BookAuthor
// @Router /authors [post]
func (h *AuthorHandler) Create(c *gin.Context) {
	var req service.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	author, err := h.authors.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, author)
}

// Update godoc
// @Summary Update author
// @Tags Authors
// @Accept json
// @Produce json
// @Param id path int true "Author ID"
// @Param payload body service.AuthorRequest true "Author payload"
// @Success 200 {object} models.BookAuthor
// @Router /authors/{id} [put]
func (h *AuthorHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.AuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	author, err := h.authors.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, author)
}

// Delete godoc
// @Summary Delete author
// @Tags Authors
// @Param id path int true "Author ID"
// @Success 204
// @Router /authors/{id} [delete]
func (h *AuthorHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.authors.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
