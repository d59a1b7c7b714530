package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/darsapp/dars-api/internal/models"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
)

type feedbackRepository interface {
	List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error)
	FindByID(ctx context.Context, id int64) (*models.Feedback, error)
	Create(ctx context.Context, feedback *models.Feedback) error
	Update(ctx context.Context, feedback *models.Feedback) error
	Delete(ctx context.Context, id int64) error
	ListMessages(ctx context.Context, feedbackID int64) ([]models.FeedbackMessage, error)
	CreateMessage(ctx context.Context, message *models.FeedbackMessage) error
	DeleteMessage(ctx context.Context, feedbackID, messageID int64) error
}

type replyNotifier interface {
	SendFeedbackReply(ctx context.Context, email, subject string) error
}

// CreateFeedbackRequest opens a thread with its first message.
type CreateFeedbackRequest struct {
	Subject string `json:"subject" validate:"required,max=255"`
	Body    string `json:"body" validate:"required,max=10000"`
}

// FeedbackMessageRequest appends a message to a thread.
type FeedbackMessageRequest struct {
	Body string `json:"body" validate:"required,max=10000"`
}

// FeedbackStatusRequest moves a thread between statuses.
type FeedbackStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// FeedbackThread bundles a thread with its messages.
type FeedbackThread struct {
	Feedback models.Feedback          `json:"feedback"`
	Messages []models.FeedbackMessage `json:"messages"`
}

// FeedbackService orchestrates support threads.
type FeedbackService struct {
	repo      feedbackRepository
	users     userRepository
	notifier  replyNotifier
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService constructs a FeedbackService. notifier may be nil.
func NewFeedbackService(repo feedbackRepository, users userRepository, notifier replyNotifier, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{repo: repo, users: users, notifier: notifier, validator: validate, logger: logger}
}

// List returns threads plus the filtered total. Non-admin callers are
// restricted to their own threads by the handler-provided filter.
func (s *FeedbackService) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error) {
	if filter.Status != "" && !models.ValidFeedbackStatus(filter.Status) {
		return nil, 0, appErrors.Clone(appErrors.ErrValidation, "unknown feedback status")
	}
	threads, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}
	return threads, total, nil
}

// Get returns a thread with its messages, enforcing ownership for non-admins.
func (s *FeedbackService) Get(ctx context.Context, id int64, claims *models.JWTClaims) (*FeedbackThread, error) {
	feedback, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !claims.IsAdmin() && feedback.UserID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "feedback belongs to another user")
	}
	messages, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list messages")
	}
	return &FeedbackThread{Feedback: *feedback, Messages: messages}, nil
}

// Create opens a thread and stores the opening message.
func (s *FeedbackService) Create(ctx context.Context, claims *models.JWTClaims, req CreateFeedbackRequest) (*FeedbackThread, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}

	feedback := &models.Feedback{
		UserID:  claims.UserID,
		Subject: strings.TrimSpace(req.Subject),
		Status:  models.FeedbackStatusNew,
	}
	if err := s.repo.Create(ctx, feedback); err != nil {
		return nil, err
	}

	message := &models.FeedbackMessage{
		FeedbackID: feedback.ID,
		AuthorID:   claims.UserID,
		IsAdmin:    false,
		Body:       strings.TrimSpace(req.Body),
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	return &FeedbackThread{Feedback: *feedback, Messages: []models.FeedbackMessage{*message}}, nil
}

// AddMessage appends a message. Closed threads reject new messages. An admin
// reply moves the thread to replied and notifies the owner by mail.
func (s *FeedbackService) AddMessage(ctx context.Context, id int64, claims *models.JWTClaims, req FeedbackMessageRequest) (*models.FeedbackMessage, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
	}

	feedback, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !claims.IsAdmin() && feedback.UserID != claims.UserID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "feedback belongs to another user")
	}
	if feedback.Status == models.FeedbackStatusClosed {
		return nil, appErrors.Clone(appErrors.ErrThreadClosed, "")
	}

	message := &models.FeedbackMessage{
		FeedbackID: feedback.ID,
		AuthorID:   claims.UserID,
		IsAdmin:    claims.IsAdmin(),
		Body:       strings.TrimSpace(req.Body),
	}
	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	if claims.IsAdmin() {
		now := time.Now()
		feedback.Status = models.FeedbackStatusReplied
		feedback.RepliedAt = &now
		if err := s.repo.Update(ctx, feedback); err != nil {
			s.logger.Error("failed to mark feedback replied", zap.Int64("feedback_id", feedback.ID), zap.Error(err))
		}
		s.notifyOwner(ctx, feedback)
	}
	return message, nil
}

// SetStatus moves a thread to a new status.
func (s *FeedbackService) SetStatus(ctx context.Context, id int64, req FeedbackStatusRequest) (*models.Feedback, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	if !models.ValidFeedbackStatus(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown feedback status")
	}

	feedback, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	feedback.Status = req.Status
	if req.Status == models.FeedbackStatusClosed {
		now := time.Now()
		feedback.ClosedAt = &now
	} else {
		feedback.ClosedAt = nil
	}
	if err := s.repo.Update(ctx, feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// Delete removes a thread and its messages.
func (s *FeedbackService) Delete(ctx context.Context, id int64) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *FeedbackService) load(ctx context.Context, id int64) (*models.Feedback, error) {
	feedback, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "feedback not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load feedback")
	}
	return feedback, nil
}

func (s *FeedbackService) notifyOwner(ctx context.Context, feedback *models.Feedback) {
	if s.notifier == nil {
		return
	}
	owner, err := s.users.FindByID(ctx, feedback.UserID)
	if err != nil {
		s.logger.Warn("failed to load feedback owner for notification", zap.Int64("user_id", feedback.UserID), zap.Error(err))
		return
	}
	if err := s.notifier.SendFeedbackReply(ctx, owner.Email, feedback.Subject); err != nil {
		s.logger.Warn("failed to send reply notification", zap.String("email", owner.Email), zap.Error(err))
	}
}
