package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/darsapp/dars-api/internal/audio"
	"github.com/darsapp/dars-api/internal/models"
	appErrors "github.com/darsapp/dars-api/pkg/errors"
	"github.com/darsapp/dars-api/pkg/storage"
)

type lessonRepository interface {
	List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error)
	ListBySeries(ctx context.Context, seriesID int64) ([]models.Lesson, error)
	FindByID(ctx context.Context, id int64) (*models.Lesson, error)
	Create(ctx context.Context, lesson *models.Lesson) error
	Update(ctx context.Context, lesson *models.Lesson) error
	Delete(ctx context.Context, id int64) error
}

// LessonRequest represents payload for creating and updating lessons.
type LessonRequest struct {
	Title        *string `json:"title" validate:"omitempty,max=500"`
	Description  *string `json:"description" validate:"omitempty,max=10000"`
	LessonNumber *int    `json:"lesson_number" validate:"omitempty,gte=0"`
	Tags         *string `json:"tags" validate:"omitempty,max=1000"`
	SeriesID     int64   `json:"series_id" validate:"required,gt=0"`
	IsActive     *bool   `json:"is_active"`
}

// AudioUploadResult is returned after an upload finished transcoding.
type AudioUploadResult struct {
	ProcessedPath   string `json:"processed_path"`
	DurationSeconds int    `json:"duration_seconds"`
}

// LessonService orchestrates lesson operations including the audio pipeline.
type LessonService struct {
	repo      lessonRepository
	series    seriesRepository
	teachers  teacherRepository
	books     bookRepository
	themes    themeRepository
	store     *storage.LocalStorage
	processor *audio.Processor
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLessonService constructs a LessonService.
func NewLessonService(repo lessonRepository, series seriesRepository, teachers teacherRepository, books bookRepository, themes themeRepository, store *storage.LocalStorage, processor *audio.Processor, validate *validator.Validate, logger *zap.Logger) *LessonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonService{
		repo:      repo,
		series:    series,
		teachers:  teachers,
		books:     books,
		themes:    themes,
		store:     store,
		processor: processor,
		validator: validate,
		logger:    logger,
	}
}

// List returns lessons plus the filtered total.
func (s *LessonService) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error) {
	lessons, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lessons")
	}
	return lessons, total, nil
}

// ListBySeries returns the active lessons of a series ordered by number.
func (s *LessonService) ListBySeries(ctx context.Context, seriesID int64) ([]models.Lesson, error) {
	if _, err := s.series.FindByID(ctx, seriesID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "series not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load series")
	}
	lessons, err := s.repo.ListBySeries(ctx, seriesID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list series lessons")
	}
	return lessons, nil
}

// Get returns a lesson enriched with series, teacher, book and theme refs.
func (s *LessonService) Get(ctx context.Context, id int64) (*models.LessonDetail, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	return s.buildDetail(ctx, lesson), nil
}

// Create registers a lesson inside a series. Denormalized references and,
// when the title is empty, a generated title come from the series.
func (s *LessonService) Create(ctx context.Context, req LessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}

	series, err := s.series.FindByID(ctx, req.SeriesID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "series does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load series")
	}

	lesson := &models.Lesson{
		Description:  normalizeOptional(req.Description),
		LessonNumber: req.LessonNumber,
		Tags:         normalizeOptional(req.Tags),
		SeriesID:     series.ID,
		BookID:       series.BookID,
		TeacherID:    &series.TeacherID,
		ThemeID:      series.ThemeID,
		IsActive:     true,
	}
	lesson.Title = s.resolveTitle(ctx, req.Title, series, req.LessonNumber)

	if err := s.repo.Create(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// Update modifies a lesson. Moving it to another series refreshes the
// denormalized references.
func (s *LessonService) Update(ctx context.Context, id int64, req LessonRequest) (*models.Lesson, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lesson payload")
	}

	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}

	series, err := s.series.FindByID(ctx, req.SeriesID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "series does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load series")
	}

	lesson.Description = normalizeOptional(req.Description)
	lesson.LessonNumber = req.LessonNumber
	lesson.Tags = normalizeOptional(req.Tags)
	lesson.SeriesID = series.ID
	lesson.BookID = series.BookID
	lesson.TeacherID = &series.TeacherID
	lesson.ThemeID = series.ThemeID
	lesson.Title = s.resolveTitle(ctx, req.Title, series, req.LessonNumber)
	if req.IsActive != nil {
		lesson.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// Delete removes a lesson and its stored audio files.
func (s *LessonService) Delete(ctx context.Context, id int64) error {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.removeAudioFiles(lesson)
	return nil
}

// UploadAudio stores the raw upload, transcodes it to the mono low-bitrate
// delivery format and updates the lesson row.
func (s *LessonService) UploadAudio(ctx context.Context, id int64, filename string, r io.Reader) (*AudioUploadResult, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".mp3"
	}
	token := uuid.New().String()
	originalRel := filepath.Join("original", fmt.Sprintf("lesson_%d_%s%s", id, token, ext))
	processedRel := filepath.Join("processed", fmt.Sprintf("lesson_%d_%s.mp3", id, token))

	savedOriginal, err := s.store.SaveStream(originalRel, r)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store uploaded audio")
	}

	duration, err := s.processor.Transcode(ctx, savedOriginal, processedRel)
	if err != nil {
		if removeErr := s.store.Delete(savedOriginal); removeErr != nil {
			s.logger.Warn("failed to remove unprocessable upload", zap.String("path", savedOriginal), zap.Error(removeErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "audio could not be processed")
	}

	// Replace earlier files only after the new ones are in place.
	previous := *lesson
	lesson.OriginalAudioPath = &savedOriginal
	lesson.AudioPath = &processedRel
	lesson.DurationSeconds = &duration
	if err := s.repo.Update(ctx, lesson); err != nil {
		return nil, err
	}
	s.removeAudioFiles(&previous)

	s.logger.Info("lesson audio processed",
		zap.Int64("lesson_id", id),
		zap.String("processed_path", processedRel),
		zap.Int("duration_seconds", duration))

	return &AudioUploadResult{ProcessedPath: processedRel, DurationSeconds: duration}, nil
}

// OpenAudio opens the processed audio file of a lesson for streaming.
func (s *LessonService) OpenAudio(ctx context.Context, id int64) (*models.Lesson, *os.File, error) {
	lesson, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "lesson not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lesson")
	}
	if lesson.AudioPath == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "lesson has no audio")
	}
	file, err := s.store.Open(*lesson.AudioPath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "audio file is missing")
	}
	return lesson, file, nil
}

// resolveTitle keeps an explicit title and otherwise derives one from the
// series context: teacher, book, year, series name and lesson number.
func (s *LessonService) resolveTitle(ctx context.Context, explicit *string, series *models.LessonSeries, number *int) string {
	if explicit != nil {
		if trimmed := strings.TrimSpace(*explicit); trimmed != "" {
			return trimmed
		}
	}

	parts := make([]string, 0, 4)
	if teacher, err := s.teachers.FindByID(ctx, series.TeacherID); err == nil {
		parts = append(parts, teacher.Name)
	}
	if series.BookID != nil {
		if book, err := s.books.FindByID(ctx, *series.BookID); err == nil {
			parts = append(parts, book.Name)
		}
	}
	parts = append(parts, series.DisplayName())
	title := strings.Join(parts, " - ")
	if number != nil {
		title = fmt.Sprintf("%s - урок %d", title, *number)
	}
	return title
}

func (s *LessonService) buildDetail(ctx context.Context, lesson *models.Lesson) *models.LessonDetail {
	detail := &models.LessonDetail{
		Lesson:            *lesson,
		DisplayTitle:      lesson.Title,
		FormattedDuration: lesson.FormattedDuration(),
		AudioURL:          fmt.Sprintf("/api/v1/lessons/%d/audio", lesson.ID),
	}
	if series, err := s.series.FindByID(ctx, lesson.SeriesID); err == nil {
		detail.Series = &models.SeriesRef{ID: series.ID, Name: series.Name, Year: series.Year, DisplayName: series.DisplayName()}
	}
	if lesson.TeacherID != nil {
		if teacher, err := s.teachers.FindByID(ctx, *lesson.TeacherID); err == nil {
			detail.Teacher = &models.LessonRef{ID: teacher.ID, Name: teacher.Name}
		}
	}
	if lesson.BookID != nil {
		if book, err := s.books.FindByID(ctx, *lesson.BookID); err == nil {
			detail.Book = &models.LessonRef{ID: book.ID, Name: book.Name}
		}
	}
	if lesson.ThemeID != nil {
		if theme, err := s.themes.FindByID(ctx, *lesson.ThemeID); err == nil {
			detail.Theme = &models.LessonRef{ID: theme.ID, Name: theme.Name}
		}
	}
	return detail
}

func (s *LessonService) removeAudioFiles(lesson *models.Lesson) {
	for _, path := range []*string{lesson.AudioPath, lesson.OriginalAudioPath} {
		if path == nil {
			continue
		}
		if err := s.store.Delete(*path); err != nil {
			s.logger.Warn("failed to remove audio file", zap.String("path", *path), zap.Error(err))
		}
	}
}
