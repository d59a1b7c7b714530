package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/darsapp/dars-api/internal/models"
	"github.com/darsapp/dars-api/internal/service"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
	"github.com/darsapp/dars-api/pkg/response"
)

// LessonHandler exposes lesson endpoints including the audio pipeline.
type LessonHandler struct {
	lessons        *service.LessonService
	metrics        *service.MetricsService
	maxUploadBytes int64
}

// NewLessonHandler constructs LessonHandler.
func NewLessonHandler(lessons *service.LessonService, metrics *service.MetricsService, maxUploadBytes int64) *LessonHandler {
	return &LessonHandler{lessons: lessons, metrics: metrics, maxUploadBytes: maxUploadBytes}
}

// List godoc
// @Summary List lessons
// @Tags Lessons
// @Produce json
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Page size (max 1000)"
// @Param search query string false "Search by title"
// @Param series_id query int false "Filter by series"
// @Param teacher_id query int false "Filter by teacher"
// @Param book_id query int false "Filter by book"
// @Param theme_id query int false "Filter by theme"
// @Success 200 {object} response.Page
// @Router /lessons [get]
func (h *LessonHandler) List(c *gin.Context) {
	filter := models.LessonFilter{
		ListQuery: parseListQuery(c),
		SeriesID:  queryInt64(c, "series_id"),
		TeacherID: queryInt64(c, "teacher_id"),
		BookID:    queryInt64(c, "book_id"),
		ThemeID:   queryInt64(c, "theme_id"),
	}
	lessons, total, err := h.lessons.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, lessons, total, filter.Skip, filter.Limit)
}

// Get godoc
// @Summary Get lesson detail
// @Tags Lessons
// @Produce json
// @Param id path int true "Lesson ID"
// @Success 200 {object} models.LessonDetail
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	lesson, err := h.lessons.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson)
}

// Create godoc
// @Summary Create lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param payload body service.LessonRequest true "Lesson payload"
// @Success 201 {object} models.Lesson
// @Router /lessons [post]
func (h *LessonHandler) Create(c *gin.Context) {
	var req service.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	lesson, err := h.lessons.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, lesson)
}

// Update godoc
// @Summary Update lesson
// @Tags Lessons
// @Accept json
// @Produce json
// @Param id path int true "Lesson ID"
// @Param payload body service.LessonRequest true "Lesson payload"
// @Success 200 {object} models.Lesson
// @Router /lessons/{id} [put]
func (h *LessonHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.LessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	lesson, err := h.lessons.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, lesson)
}

// Delete godoc
// @Summary Delete lesson
// @Tags Lessons
// @Param id path int true "Lesson ID"
// @Success 204
// @Router /lessons/{id} [delete]
func (h *LessonHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.lessons.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadAudio godoc
// @Summary Upload lesson audio
// @Description Accepts a multipart file, transcodes it to mono 64 kbit/s MP3 and stores both variants.
// @Tags Lessons
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Lesson ID"
// @Param file formData file true "Audio file"
// @Success 200 {object} service.AudioUploadResult
// @Router /lessons/{id}/audio [post]
func (h *LessonHandler) UploadAudio(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if c.Request.ContentLength > h.maxUploadBytes {
		response.Error(c, appErrors.ErrPayloadTooLarge)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		// Chunked uploads carry no Content-Length and trip MaxBytesReader
		// mid-parse instead of the pre-check.
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(c, appErrors.ErrPayloadTooLarge)
			return
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "audio file is required"))
		return
	}
	defer file.Close()

	start := time.Now()
	result, err := h.lessons.UploadAudio(c.Request.Context(), id, header.Filename, file)
	if err != nil {
		h.metrics.ObserveUpload(false, 0)
		response.Error(c, err)
		return
	}
	h.metrics.ObserveUpload(true, time.Since(start))
	response.JSON(c, http.StatusOK, result)
}

// StreamAudio godoc
// @Summary Stream lesson audio
// @Description Serves the processed audio with HTTP Range support.
// @Tags Lessons
// @Produce audio/mpeg
// @Param id path int true "Lesson ID"
// @Success 200
// @Success 206
// @Router /lessons/{id}/audio [get]
func (h *LessonHandler) StreamAudio(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	lesson, file, err := h.lessons.OpenAudio(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat audio"))
		return
	}

	c.Header("Content-Type", "audio/mpeg")
	c.Header("Accept-Ranges", "bytes")
	http.ServeContent(c.Writer, c.Request, lesson.Title+".mp3", info.ModTime(), file)
	h.metrics.ObserveAudioStreamed(info.Size())
}
