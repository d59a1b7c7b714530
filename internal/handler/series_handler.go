package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darsapp/dars-api/internal/models"
	"github.com/darsapp/dars-api/internal/service"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
	"github.com/darsapp/dars-api/pkg/response"
)

// SeriesHandler exposes lesson series endpoints.
type SeriesHandler struct {
	series  *service.SeriesService
	lessons *service.LessonService
}

// NewSeriesHandler constructs SeriesHandler.
func NewSeriesHandler(series *service.SeriesService, lessons *service.LessonService) *SeriesHandler {
	return &SeriesHandler{series: series, lessons: lessons}
}

// List godoc
// @Summary List lesson series
// @Tags Series
// @Produce json
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Page size (max 1000)"
// @Param search query string false "Search by name"
// @Param teacher_id query int false "Filter by teacher"
// @Param book_id query int false "Filter by book"
// @Param theme_id query int false "Filter by theme"
// @Param year query int false "Filter by year"
// @Param is_completed query bool false "Filter by completion"
// @Success 200 {object} response.Page
// @Router /series [get]
func (h *SeriesHandler) List(c *gin.Context) {
	filter := models.SeriesFilter{
		ListQuery:   parseListQuery(c),
		TeacherID:   queryInt64(c, "teacher_id"),
		BookID:      queryInt64(c, "book_id"),
		ThemeID:     queryInt64(c, "theme_id"),
		Year:        queryInt(c, "year"),
		IsCompleted: queryBool(c, "is_completed"),
	}
	series, total, err := h.series.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, series, total, filter.Skip, filter.Limit)
}

// Get godoc
// @Summary Get series detail with lesson counts
// @Tags Series
// @Produce json
// @Param id path int true "Series ID"
// @Success 200 {object} models.SeriesWithCounts
// @Router /series/{id} [get]
func (h *SeriesHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	series, err := h.series.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, series)
}

// Lessons godoc
// @Summary List the active lessons of a series
// @Description Returns a bare array ordered by lesson number, not the list envelope.
// @Tags Series
// @Produce json
// @Param id path int true "Series ID"
// @Success 200 {array} models.Lesson
// @Router /series/{id}/lessons [get]
func (h *SeriesHandler) Lessons(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	lessons, err := h.lessons.ListBySeries(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if lessons == nil {
		lessons = []models.Lesson{}
	}
	response.JSON(c, http.StatusOK, lessons)
}

// Create godoc
// @Summary Create series
// @Tags Series
// @Accept json
// @Produce json
// @Param payload body service.SeriesRequest true "Series payload"
// @Success 201 {object} models.LessonSeries
// @Router /series [post]
func (h *SeriesHandler) Create(c *gin.Context) {
	var req service.SeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	series, err := h.series.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, series)
}

// Update godoc
// @Summary Update series
// @Tags Series
// @Accept json
// @Produce json
// @Param id path int true "Series ID"
// @Param payload body service.SeriesRequest true "Series payload"
// @Success 200 {object} models.LessonSeries
// @Router /series/{id} [put]
func (h *SeriesHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.SeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	series, err := h.series.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, series)
}

// Delete godoc
// @Summary Delete series
// @Tags Series
// @Param id path int true "Series ID"
// @Success 204
// @Router /series/{id} [delete]
func (h *SeriesHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.series.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
