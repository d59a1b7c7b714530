package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darsapp/dars-api/internal/models"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
)

type mockFeedbackRepo struct {
	threads  map[int64]*models.Feedback
	messages map[int64][]models.FeedbackMessage
	updated  []*models.Feedback
}

func (m *mockFeedbackRepo) List(ctx context.Context, filter models.FeedbackFilter) ([]models.Feedback, int, error) {
	var items []models.Feedback
	for _, f := range m.threads {
		if filter.UserID != nil && f.UserID != *filter.UserID {
			continue
		}
		items = append(items, *f)
	}
	return items, len(items), nil
}

func (m *mockFeedbackRepo) FindByID(ctx context.Context, id int64) (*models.Feedback, error) {
	f, ok := m.threads[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *f
	return &copied, nil
}

func (m *mockFeedbackRepo) Create(ctx context.Context, feedback *models.Feedback) error {
	feedback.ID = int64(len(m.threads) + 1)
	copied := *feedback
	m.threads[feedback.ID] = &copied
	return nil
}

func (m *mockFeedbackRepo) Update(ctx context.Context, feedback *models.Feedback) error {
	m.updated = append(m.updated, feedback)
	copied := *feedback
	m.threads[feedback.ID] = &copied
	return nil
}

func (m *mockFeedbackRepo) Delete(ctx context.Context, id int64) error {
	delete(m.threads, id)
	return nil
}

func (m *mockFeedbackRepo) ListMessages(ctx context.Context, feedbackID int64) ([]models.FeedbackMessage, error) {
	return m.messages[feedbackID], nil
}

func (m *mockFeedbackRepo) CreateMessage(ctx context.Context, message *models.FeedbackMessage) error {
	message.ID = int64(len(m.messages[message.FeedbackID]) + 1)
	m.messages[message.FeedbackID] = append(m.messages[message.FeedbackID], *message)
	return nil
}

func (m *mockFeedbackRepo) DeleteMessage(ctx context.Context, feedbackID, messageID int64) error {
	return nil
}

type mockNotifier struct {
	emails   []string
	subjects []string
}

func (m *mockNotifier) SendFeedbackReply(ctx context.Context, email, subject string) error {
	m.emails = append(m.emails, email)
	m.subjects = append(m.subjects, subject)
	return nil
}

func userClaims(id int64) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, RoleLevel: models.RoleUser}
}

func adminClaims(id int64) *models.JWTClaims {
	return &models.JWTClaims{UserID: id, RoleLevel: models.RoleAdmin}
}

func newFeedbackFixture() (*FeedbackService, *mockFeedbackRepo, *mockNotifier) {
	repo := &mockFeedbackRepo{
		threads:  map[int64]*models.Feedback{},
		messages: map[int64][]models.FeedbackMessage{},
	}
	users := &mockUserRepo{users: map[int64]*models.User{
		5: {ID: 5, Email: "user@example.com", RoleLevel: models.RoleUser, IsActive: true},
	}}
	notifier := &mockNotifier{}
	return NewFeedbackService(repo, users, notifier, nil, nil), repo, notifier
}

func TestFeedbackServiceCreateOpensThreadWithMessage(t *testing.T) {
	svc, repo, _ := newFeedbackFixture()

	thread, err := svc.Create(context.Background(), userClaims(5), CreateFeedbackRequest{
		Subject: "Не играет аудио",
		Body:    "Урок 3 не открывается",
	})
	require.NoError(t, err)
	assert.Equal(t, models.FeedbackStatusNew, thread.Feedback.Status)
	require.Len(t, thread.Messages, 1)
	assert.False(t, thread.Messages[0].IsAdmin)
	assert.Len(t, repo.messages[thread.Feedback.ID], 1)
}

func TestFeedbackServiceClosedThreadRejectsMessages(t *testing.T) {
	svc, repo, _ := newFeedbackFixture()
	repo.threads[1] = &models.Feedback{ID: 1, UserID: 5, Subject: "Вопрос", Status: models.FeedbackStatusClosed}

	_, err := svc.AddMessage(context.Background(), 1, userClaims(5), FeedbackMessageRequest{Body: "Ещё вопрос"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrThreadClosed.Code, appErr.Code)
	assert.Equal(t, appErrors.ErrThreadClosed.Status, appErr.Status)
	assert.Empty(t, repo.messages[1])
}

func TestFeedbackServiceAdminReplyNotifiesOwner(t *testing.T) {
	svc, repo, notifier := newFeedbackFixture()
	repo.threads[1] = &models.Feedback{ID: 1, UserID: 5, Subject: "Вопрос", Status: models.FeedbackStatusNew}

	msg, err := svc.AddMessage(context.Background(), 1, adminClaims(2), FeedbackMessageRequest{Body: "Исправили"})
	require.NoError(t, err)
	assert.True(t, msg.IsAdmin)
	assert.Equal(t, models.FeedbackStatusReplied, repo.threads[1].Status)
	require.NotNil(t, repo.threads[1].RepliedAt)
	assert.Equal(t, []string{"user@example.com"}, notifier.emails)
}

func TestFeedbackServiceOwnershipEnforced(t *testing.T) {
	svc, repo, _ := newFeedbackFixture()
	repo.threads[1] = &models.Feedback{ID: 1, UserID: 5, Subject: "Вопрос", Status: models.FeedbackStatusNew}

	_, err := svc.Get(context.Background(), 1, userClaims(9))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.Get(context.Background(), 1, adminClaims(2))
	require.NoError(t, err)
}

func TestFeedbackServiceSetStatusTracksClosedAt(t *testing.T) {
	svc, repo, _ := newFeedbackFixture()
	repo.threads[1] = &models.Feedback{ID: 1, UserID: 5, Subject: "Вопрос", Status: models.FeedbackStatusNew}

	feedback, err := svc.SetStatus(context.Background(), 1, FeedbackStatusRequest{Status: models.FeedbackStatusClosed})
	require.NoError(t, err)
	require.NotNil(t, feedback.ClosedAt)

	feedback, err = svc.SetStatus(context.Background(), 1, FeedbackStatusRequest{Status: models.FeedbackStatusNew})
	require.NoError(t, err)
	assert.Nil(t, feedback.ClosedAt)
}

func TestFeedbackServiceListRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newFeedbackFixture()

	_, _, err := svc.List(context.Background(), models.FeedbackFilter{Status: "archived"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
