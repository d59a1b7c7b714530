package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/darsapp/dars-api/internal/models"
	"github.com/darsapp/dars-api/internal/service"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
	"github.com/darsapp/dars-api/pkg/response"
)

// TestHandler exposes test and question endpoints.
type TestHandler struct {
	tests *service.TestService
}

// NewTestHandler constructs TestHandler.
func NewTestHandler(tests *service.TestService) *TestHandler {
	return &TestHandler{tests: tests}
}

// List godoc
// @Summary List tests
// @Tags Tests
// @Produce json
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Page size (max 1000)"
// @Param search query string false "Search by title"
// @Param series_id query int false "Filter by series"
// @Param teacher_id query int false "Filter by teacher"
// @Success 200 {object} response.Page
// @Router /tests [get]
func (h *TestHandler) List(c *gin.Context) {
	filter := models.TestFilter{
		ListQuery: parseListQuery(c),
		SeriesID:  queryInt64(c, "series_id"),
		TeacherID: queryInt64(c, "teacher_id"),
	}
	tests, total, err := h.tests.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, tests, total, filter.Skip, filter.Limit)
}

// Get godoc
// @Summary Get test detail
// @Tags Tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {object} models.Test
// @Router /tests/{id} [get]
func (h *TestHandler) Get(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	test, err := h.tests.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, test)
}

// Create godoc
// @Summary Create test
// @Tags Tests
// @Accept json
// @Produce json
// @Param payload body service.TestRequest true "Test payload"
// @Success 201 {object} models.Test
// @Router /tests [post]
func (h *TestHandler) Create(c *gin.Context) {
	var req service.TestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	test, err := h.tests.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, test)
}

// Update godoc
// @Summary Update test
// @Tags Tests
// @Accept json
// @Produce json
// @Param id path int true "Test ID"
// @Param payload body service.TestRequest true "Test payload"
// @Success 200 {object} models.Test
// @Router /tests/{id} [put]
func (h *TestHandler) Update(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.TestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	test, err := h.tests.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, test)
}

// Delete godoc
// @Summary Delete test
// @Tags Tests
// @Param id path int true "Test ID"
// @Success 204
// @Router /tests/{id} [delete]
func (h *TestHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.tests.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListQuestions godoc
// @Summary List questions of a test
// @Tags Tests
// @Produce json
// @Param id path int true "Test ID"
// @Success 200 {array} models.TestQuestion
// @Router /tests/{id}/questions [get]
func (h *TestHandler) ListQuestions(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	questions, err := h.tests.ListQuestions(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	if questions == nil {
		questions = []models.TestQuestion{}
	}
	response.JSON(c, http.StatusOK, questions)
}

// GetQuestion godoc
// @Summary Get question
// @Tags Tests
// @Produce json
// @Param id path int true "Test ID"
// @Param questionId path int true "Question ID"
// @Success 200 {object} models.TestQuestion
// @Router /tests/{id}/questions/{questionId} [get]
func (h *TestHandler) GetQuestion(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	questionID, err := pathID(c, "questionId")
	if err != nil {
		response.Error(c, err)
		return
	}
	question, err := h.tests.GetQuestion(c.Request.Context(), id, questionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, question)
}

// CreateQuestion godoc
// @Summary Add question to a test
// @Tags Tests
// @Accept json
// @Produce json
// @Param id path int true "Test ID"
// @Param payload body service.QuestionRequest true "Question payload"
// @Success 201 {object} models.TestQuestion
// @Router /tests/{id}/questions [post]
func (h *TestHandler) CreateQuestion(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	question, err := h.tests.CreateQuestion(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, question)
}

// UpdateQuestion godoc
// @Summary Update question
// @Tags Tests
// @Accept json
// @Produce json
// @Param id path int true "Test ID"
// @Param questionId path int true "Question ID"
// @Param payload body service.QuestionRequest true "Question payload"
// @Success 200 {object} models.TestQuestion
// @Router /tests/{id}/questions/{questionId} [put]
func (h *TestHandler) UpdateQuestion(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	questionID, err := pathID(c, "questionId")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.QuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	question, err := h.tests.UpdateQuestion(c.Request.Context(), id, questionID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, question)
}

// DeleteQuestion godoc
// @Summary Delete question
// @Tags Tests
// @Param id path int true "Test ID"
// @Param questionId path int true "Question ID"
// @Success 204
// @Router /tests/{id}/questions/{questionId} [delete]
func (h *TestHandler) DeleteQuestion(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	questionID, err := pathID(c, "questionId")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.tests.DeleteQuestion(c.Request.Context(), id, questionID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
