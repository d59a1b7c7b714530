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

type mockTestRepo struct {
	tests       map[int64]*models.Test
	created     []*models.Test
	refreshed   []int64
	createErr   error
	deletedIDs  []int64
	updatedRows []*models.Test
}

func (m *mockTestRepo) List(ctx context.Context, filter models.TestFilter) ([]models.Test, int, error) {
	items := make([]models.Test, 0, len(m.tests))
	for _, t := range m.tests {
		items = append(items, *t)
	}
	return items, len(items), nil
}

func (m *mockTestRepo) FindByID(ctx context.Context, id int64) (*models.Test, error) {
	t, ok := m.tests[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (m *mockTestRepo) Create(ctx context.Context, test *models.Test) error {
	if m.createErr != nil {
		return m.createErr
	}
	test.ID = int64(len(m.tests) + len(m.created) + 1)
	m.created = append(m.created, test)
	return nil
}

func (m *mockTestRepo) Update(ctx context.Context, test *models.Test) error {
	m.updatedRows = append(m.updatedRows, test)
	return nil
}

func (m *mockTestRepo) Delete(ctx context.Context, id int64) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

func (m *mockTestRepo) RefreshQuestionsCount(ctx context.Context, testID int64) error {
	m.refreshed = append(m.refreshed, testID)
	return nil
}

type mockQuestionRepo struct {
	questions map[int64]*models.TestQuestion
	created   []*models.TestQuestion
	deleted   []int64
}

func (m *mockQuestionRepo) ListByTest(ctx context.Context, testID int64) ([]models.TestQuestion, error) {
	var items []models.TestQuestion
	for _, q := range m.questions {
		if q.TestID == testID {
			items = append(items, *q)
		}
	}
	return items, nil
}

func (m *mockQuestionRepo) FindByID(ctx context.Context, testID, id int64) (*models.TestQuestion, error) {
	q, ok := m.questions[id]
	if !ok || q.TestID != testID {
		return nil, sql.ErrNoRows
	}
	copied := *q
	return &copied, nil
}

func (m *mockQuestionRepo) Create(ctx context.Context, question *models.TestQuestion) error {
	question.ID = int64(len(m.questions) + len(m.created) + 1)
	m.created = append(m.created, question)
	return nil
}

func (m *mockQuestionRepo) Update(ctx context.Context, question *models.TestQuestion) error {
	return nil
}

func (m *mockQuestionRepo) Delete(ctx context.Context, testID, id int64) error {
	m.deleted = append(m.deleted, id)
	delete(m.questions, id)
	return nil
}

func newTestFixture() (*TestService, *mockTestRepo, *mockQuestionRepo) {
	repo := &mockTestRepo{tests: map[int64]*models.Test{
		1: {ID: 1, Title: "Итоговый тест", SeriesID: 10, TeacherID: 1, PassingScore: 70, TimePerQuestionSeconds: 60, IsActive: true},
	}}
	questions := &mockQuestionRepo{questions: map[int64]*models.TestQuestion{}}
	series := &mockSeriesRepo{series: map[int64]*models.LessonSeries{
		10: {ID: 10, Name: "Серия", Year: 2023, TeacherID: 1, IsActive: true},
	}}
	lessons := &mockLessonRepo{lessons: map[int64]*models.Lesson{
		4: {ID: 4, Title: "Урок", SeriesID: 10, IsActive: true},
		9: {ID: 9, Title: "Чужой урок", SeriesID: 99, IsActive: true},
	}}
	return NewTestService(repo, questions, series, lessons, nil, nil), repo, questions
}

func TestTestServiceCreateDerivesTeacherFromSeries(t *testing.T) {
	svc, repo, _ := newTestFixture()

	test, err := svc.Create(context.Background(), TestRequest{
		Title:                  "Новый тест",
		SeriesID:               10,
		PassingScore:           80,
		TimePerQuestionSeconds: 45,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), test.TeacherID)
	assert.True(t, test.IsActive)
	require.Len(t, repo.created, 1)
}

func TestTestServiceCreateSurfacesSeriesUniqueness(t *testing.T) {
	svc, repo, _ := newTestFixture()
	repo.createErr = appErrors.Clone(appErrors.ErrConflict, "series already has a test")

	_, err := svc.Create(context.Background(), TestRequest{
		Title:                  "Дубликат",
		SeriesID:               10,
		PassingScore:           70,
		TimePerQuestionSeconds: 60,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestTestServiceCreateQuestionRefreshesCount(t *testing.T) {
	svc, repo, questions := newTestFixture()

	q, err := svc.CreateQuestion(context.Background(), 1, QuestionRequest{
		LessonID:           4,
		QuestionText:       "Сколько столпов у ислама?",
		Options:            []string{"Четыре", "Пять", "Шесть"},
		CorrectAnswerIndex: 1,
		Points:             10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), q.TestID)
	require.Len(t, questions.created, 1)
	assert.Equal(t, []int64{1}, repo.refreshed)
}

func TestTestServiceQuestionRejectsOutOfRangeAnswer(t *testing.T) {
	svc, _, questions := newTestFixture()

	_, err := svc.CreateQuestion(context.Background(), 1, QuestionRequest{
		LessonID:           4,
		QuestionText:       "Вопрос",
		Options:            []string{"Да", "Нет"},
		CorrectAnswerIndex: 2,
		Points:             5,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, questions.created)
}

func TestTestServiceQuestionRejectsTooFewOptions(t *testing.T) {
	svc, _, _ := newTestFixture()

	_, err := svc.CreateQuestion(context.Background(), 1, QuestionRequest{
		LessonID:           4,
		QuestionText:       "Вопрос",
		Options:            []string{"Единственный"},
		CorrectAnswerIndex: 0,
		Points:             5,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTestServiceQuestionRejectsLessonFromOtherSeries(t *testing.T) {
	svc, _, questions := newTestFixture()

	_, err := svc.CreateQuestion(context.Background(), 1, QuestionRequest{
		LessonID:           9,
		QuestionText:       "Вопрос",
		Options:            []string{"Да", "Нет"},
		CorrectAnswerIndex: 0,
		Points:             5,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.Empty(t, questions.created)
}

func TestTestServiceDeleteQuestionRefreshesCount(t *testing.T) {
	svc, repo, questions := newTestFixture()
	questions.questions[8] = &models.TestQuestion{ID: 8, TestID: 1, LessonID: 4, QuestionText: "Вопрос", Options: models.StringList{"Да", "Нет"}, Points: 5}

	err := svc.DeleteQuestion(context.Background(), 1, 8)
	require.NoError(t, err)
	assert.Equal(t, []int64{8}, questions.deleted)
	assert.Equal(t, []int64{1}, repo.refreshed)
}

func TestTestServiceGetQuestionScopedToTest(t *testing.T) {
	svc, _, questions := newTestFixture()
	questions.questions[8] = &models.TestQuestion{ID: 8, TestID: 1, LessonID: 4, QuestionText: "Вопрос", Options: models.StringList{"Да", "Нет"}, Points: 5}

	question, err := svc.GetQuestion(context.Background(), 1, 8)
	require.NoError(t, err)
	assert.Equal(t, "Вопрос", question.QuestionText)

	_, err = svc.GetQuestion(context.Background(), 2, 8)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
