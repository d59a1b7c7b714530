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

// FeedbackHandler exposes support thread endpoints.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler constructs FeedbackHandler.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// List godoc
// @Summary List feedback threads
// @Description Admins see every thread; other callers only their own.
// @Tags Feedback
// @Produce json
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Page size (max 1000)"
// @Param status query string false "Filter by status (new/replied/closed)"
// @Success 200 {object} response.Page
// @Router /feedbacks [get]
func (h *FeedbackHandler) List(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.FeedbackFilter{
		ListQuery: parseListQuery(c),
		Status:    c.Query("status"),
	}
	if !claims.IsAdmin() {
		filter.UserID = &claims.UserID
	}

	threads, total, err := h.feedback.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, threads, total, filter.Skip, filter.Limit)
}

// My godoc
// @Summary List the caller's own feedback threads
// @Tags Feedback
// @Produce json
// @Param skip query int false "Rows to skip"
// @Param limit query int false "Page size (max 1000)"
// @Param status query string false "Filter by status (new/replied/closed)"
// @Success 200 {object} response.Page
// @Router /feedbacks/my [get]
func (h *FeedbackHandler) My(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	filter := models.FeedbackFilter{
		ListQuery: parseListQuery(c),
		Status:    c.Query("status"),
		UserID:    &claims.UserID,
	}
	threads, total, err := h.feedback.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, threads, total, filter.Skip, filter.Limit)
}

// Get godoc
// @Summary Get a feedback thread with messages
// @Tags Feedback
// @Produce json
// @Param id path int true "Feedback ID"
// @Success 200 {object} service.FeedbackThread
// @Router /feedbacks/{id} [get]
func (h *FeedbackHandler) Get(c *gin.Context) {
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
	thread, err := h.feedback.Get(c.Request.Context(), id, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, thread)
}

// Create godoc
// @Summary Open a feedback thread
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body service.CreateFeedbackRequest true "Thread payload"
// @Success 201 {object} service.FeedbackThread
// @Router /feedbacks [post]
func (h *FeedbackHandler) Create(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.CreateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	thread, err := h.feedback.Create(c.Request.Context(), claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, thread)
}

// AddMessage godoc
// @Summary Append a message to a thread
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path int true "Feedback ID"
// @Param payload body service.FeedbackMessageRequest true "Message payload"
// @Success 201 {object} models.FeedbackMessage
// @Router /feedbacks/{id}/messages [post]
func (h *FeedbackHandler) AddMessage(c *gin.Context) {
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
	var req service.FeedbackMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	message, err := h.feedback.AddMessage(c.Request.Context(), id, claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, message)
}

// SetStatus godoc
// @Summary Change thread status
// @Tags Feedback
// @Accept json
// @Produce json
// @Param id path int true "Feedback ID"
// @Param payload body service.FeedbackStatusRequest true "Status payload"
// @Success 200 {object} models.Feedback
// @Router /feedbacks/{id}/status [put]
func (h *FeedbackHandler) SetStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.FeedbackStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}
	feedback, err := h.feedback.SetStatus(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, feedback)
}

// Delete godoc
// @Summary Delete a feedback thread
// @Tags Feedback
// @Param id path int true "Feedback ID"
// @Success 204
// @Router /feedbacks/{id} [delete]
func (h *FeedbackHandler) Delete(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.feedback.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
