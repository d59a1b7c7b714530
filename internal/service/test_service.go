package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/darsapp/dars-api/internal/models"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
)

type testRepository interface {
	List(ctx context.Context, filter models.TestFilter) ([]models.Test, int, error)
	FindByID(ctx context.Context, id int64) (*models.Test, error)
	Create(ctx context.Context, test *models.Test) error
	Update(ctx context.Context, test *models.Test) error
	Delete(ctx context.Context, id int64) error
	RefreshQuestionsCount(ctx context.Context, testID int64) error
}

type questionRepository interface {
	ListByTest(ctx context.Context, testID int64) ([]models.TestQuestion, error)
	FindByID(ctx context.Context, testID, id int64) (*models.TestQuestion, error)
	Create(ctx context.Context, question *models.TestQuestion) error
	Update(ctx context.Context, question *models.TestQuestion) error
	Delete(ctx context.Context, testID, id int64) error
}

// TestRequest represents payload for creating and updating tests.
type TestRequest struct {
	Title                  string  `json:"title" validate:"required,max=500"`
	Description            *string `json:"description" validate:"omitempty,max=10000"`
	SeriesID               int64   `json:"series_id" validate:"required,gt=0"`
	PassingScore           int     `json:"passing_score" validate:"gte=0,lte=100"`
	TimePerQuestionSeconds int     `json:"time_per_question_seconds" validate:"gte=5,lte=600"`
	IsActive               *bool   `json:"is_active"`
}

// QuestionRequest represents payload for creating and updating test questions.
type QuestionRequest struct {
	LessonID           int64    `json:"lesson_id" validate:"required,gt=0"`
	QuestionText       string   `json:"question_text" validate:"required,max=2000"`
	Options            []string `json:"options" validate:"required,min=2,max=6,dive,required,max=500"`
	CorrectAnswerIndex int      `json:"correct_answer_index" validate:"gte=0"`
	Explanation        *string  `json:"explanation" validate:"omitempty,max=2000"`
	Position           int      `json:"position" validate:"gte=0"`
	Points             int      `json:"points" validate:"gte=1,lte=100"`
}

// TestService orchestrates tests and their questions.
type TestService struct {
	repo      testRepository
	questions questionRepository
	series    seriesRepository
	lessons   lessonRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTestService constructs a TestService.
func NewTestService(repo testRepository, questions questionRepository, series seriesRepository, lessons lessonRepository, validate *validator.Validate, logger *zap.Logger) *TestService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TestService{repo: repo, questions: questions, series: series, lessons: lessons, validator: validate, logger: logger}
}

// List returns tests plus the filtered total.
func (s *TestService) List(ctx context.Context, filter models.TestFilter) ([]models.Test, int, error) {
	tests, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list tests")
	}
	return tests, total, nil
}

// Get returns a single test.
func (s *TestService) Get(ctx context.Context, id int64) (*models.Test, error) {
	test, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "test not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load test")
	}
	return test, nil
}

// Create registers a test for a series. Each series holds at most one test;
// the unique constraint surfaces as a conflict.
func (s *TestService) Create(ctx context.Context, req TestRequest) (*models.Test, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid test payload")
	}

	series, err := s.series.FindByID(ctx, req.SeriesID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "series does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load series")
	}

	test := &models.Test{
		Title:                  strings.TrimSpace(req.Title),
		Description:            normalizeOptional(req.Description),
		SeriesID:               series.ID,
		TeacherID:              series.TeacherID,
		PassingScore:           req.PassingScore,
		TimePerQuestionSeconds: req.TimePerQuestionSeconds,
		IsActive:               true,
	}
	if err := s.repo.Create(ctx, test); err != nil {
		return nil, err
	}
	return test, nil
}

// Update modifies an existing test.
func (s *TestService) Update(ctx context.Context, id int64, req TestRequest) (*models.Test, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid test payload")
	}

	test, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "test not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load test")
	}

	series, err := s.series.FindByID(ctx, req.SeriesID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "series does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load series")
	}

	test.Title = strings.TrimSpace(req.Title)
	test.Description = normalizeOptional(req.Description)
	test.SeriesID = series.ID
	test.TeacherID = series.TeacherID
	test.PassingScore = req.PassingScore
	test.TimePerQuestionSeconds = req.TimePerQuestionSeconds
	if req.IsActive != nil {
		test.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, test); err != nil {
		return nil, err
	}
	return test, nil
}

// Delete removes a test and, through the schema cascade, its questions.
func (s *TestService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "test not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load test")
	}
	return s.repo.Delete(ctx, id)
}

// ListQuestions returns the questions of a test in position order.
func (s *TestService) ListQuestions(ctx context.Context, testID int64) ([]models.TestQuestion, error) {
	if _, err := s.repo.FindByID(ctx, testID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "test not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load test")
	}
	questions, err := s.questions.ListByTest(ctx, testID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	return questions, nil
}

// GetQuestion returns one question of a test.
func (s *TestService) GetQuestion(ctx context.Context, testID, id int64) (*models.TestQuestion, error) {
	question, err := s.questions.FindByID(ctx, testID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	return question, nil
}

// CreateQuestion adds a question to a test and refreshes its counter.
func (s *TestService) CreateQuestion(ctx context.Context, testID int64, req QuestionRequest) (*models.TestQuestion, error) {
	test, err := s.repo.FindByID(ctx, testID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "test not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load test")
	}
	if err := s.validateQuestion(ctx, test, req); err != nil {
		return nil, err
	}

	question := &models.TestQuestion{
		TestID:             test.ID,
		LessonID:           req.LessonID,
		QuestionText:       strings.TrimSpace(req.QuestionText),
		Options:            models.StringList(req.Options),
		CorrectAnswerIndex: req.CorrectAnswerIndex,
		Explanation:        normalizeOptional(req.Explanation),
		Position:           req.Position,
		Points:             req.Points,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, err
	}
	s.refreshCount(ctx, test.ID)
	return question, nil
}

// UpdateQuestion modifies a question of a test.
func (s *TestService) UpdateQuestion(ctx context.Context, testID, id int64, req QuestionRequest) (*models.TestQuestion, error) {
	test, err := s.repo.FindByID(ctx, testID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "test not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load test")
	}

	question, err := s.questions.FindByID(ctx, testID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	if err := s.validateQuestion(ctx, test, req); err != nil {
		return nil, err
	}

	question.LessonID = req.LessonID
	question.QuestionText = strings.TrimSpace(req.QuestionText)
	question.Options = models.StringList(req.Options)
	question.CorrectAnswerIndex = req.CorrectAnswerIndex
	question.Explanation = normalizeOptional(req.Explanation)
	question.Position = req.Position
	question.Points = req.Points

	if err := s.questions.Update(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

// DeleteQuestion removes a question and refreshes the test counter.
func (s *TestService) DeleteQuestion(ctx context.Context, testID, id int64) error {
	if _, err := s.questions.FindByID(ctx, testID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	if err := s.questions.Delete(ctx, testID, id); err != nil {
		return err
	}
	s.refreshCount(ctx, testID)
	return nil
}

func (s *TestService) validateQuestion(ctx context.Context, test *models.Test, req QuestionRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	if req.CorrectAnswerIndex >= len(req.Options) {
		return appErrors.Clone(appErrors.ErrValidation, "correct answer index is out of range")
	}
	lesson, err := s.lessons.FindByID(ctx, req.LessonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, "lesson does not exist")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check lesson")
	}
	if lesson.SeriesID != test.SeriesID {
		return appErrors.Clone(appErrors.ErrValidation, "lesson belongs to a different series")
	}
	return nil
}

func (s *TestService) refreshCount(ctx context.Context, testID int64) {
	if err := s.repo.RefreshQuestionsCount(ctx, testID); err != nil {
		s.logger.Error("failed to refresh questions count", zap.Int64("test_id", testID), zap.Error(err))
	}
}
