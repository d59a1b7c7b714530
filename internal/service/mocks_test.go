package service

import (
	"context"
	"database/sql"

	"github.com/darsapp/dars-api/internal/models"
)

type mockThemeRepo struct {
	themes     map[int64]*models.Theme
	listErr    error
	created    []*models.Theme
	updated    []*models.Theme
	deleteErr  error
	deletedIDs []int64
}

func (m *mockThemeRepo) List(ctx context.Context, filter models.ThemeFilter) ([]models.Theme, int, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	items := make([]models.Theme, 0, len(m.themes))
	for _, t := range m.themes {
		items = append(items, *t)
	}
	return items, len(items), nil
}

func (m *mockThemeRepo) FindByID(ctx context.Context, id int64) (*models.Theme, error) {
	t, ok := m.themes[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (m *mockThemeRepo) FindWithCounts(ctx context.Context, id int64) (*models.ThemeWithCounts, error) {
	t, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.ThemeWithCounts{Theme: *t}, nil
}

func (m *mockThemeRepo) Create(ctx context.Context, theme *models.Theme) error {
	theme.ID = int64(len(m.themes) + len(m.created) + 1)
	m.created = append(m.created, theme)
	return nil
}

func (m *mockThemeRepo) Update(ctx context.Context, theme *models.Theme) error {
	m.updated = append(m.updated, theme)
	return nil
}

func (m *mockThemeRepo) Delete(ctx context.Context, id int64) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

type mockTeacherRepo struct {
	teachers map[int64]*models.Teacher
}

func (m *mockTeacherRepo) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	items := make([]models.Teacher, 0, len(m.teachers))
	for _, t := range m.teachers {
		items = append(items, *t)
	}
	return items, len(items), nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	t, ok := m.teachers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *t
	return &copied, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error { return nil }
func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error { return nil }
func (m *mockTeacherRepo) Delete(ctx context.Context, id int64) error                { return nil }

type mockBookRepo struct {
	books map[int64]*models.Book
}

func (m *mockBookRepo) List(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error) {
	items := make([]models.Book, 0, len(m.books))
	for _, b := range m.books {
		items = append(items, *b)
	}
	return items, len(items), nil
}

func (m *mockBookRepo) FindByID(ctx context.Context, id int64) (*models.Book, error) {
	b, ok := m.books[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *b
	return &copied, nil
}

func (m *mockBookRepo) Create(ctx context.Context, book *models.Book) error { return nil }
func (m *mockBookRepo) Update(ctx context.Context, book *models.Book) error { return nil }
func (m *mockBookRepo) Delete(ctx context.Context, id int64) error          { return nil }

type mockSeriesRepo struct {
	series     map[int64]*models.LessonSeries
	created    []*models.LessonSeries
	updated    []*models.LessonSeries
	synced     []int64
	syncErr    error
	deletedIDs []int64
}

func (m *mockSeriesRepo) List(ctx context.Context, filter models.SeriesFilter) ([]models.LessonSeries, int, error) {
	items := make([]models.LessonSeries, 0, len(m.series))
	for _, s := range m.series {
		items = append(items, *s)
	}
	return items, len(items), nil
}

func (m *mockSeriesRepo) FindByID(ctx context.Context, id int64) (*models.LessonSeries, error) {
	s, ok := m.series[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *s
	return &copied, nil
}

func (m *mockSeriesRepo) FindWithCounts(ctx context.Context, id int64) (*models.SeriesWithCounts, error) {
	s, err := m.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.SeriesWithCounts{LessonSeries: *s}, nil
}

func (m *mockSeriesRepo) Create(ctx context.Context, series *models.LessonSeries) error {
	series.ID = int64(len(m.series) + len(m.created) + 1)
	m.created = append(m.created, series)
	return nil
}

func (m *mockSeriesRepo) Update(ctx context.Context, series *models.LessonSeries) error {
	m.updated = append(m.updated, series)
	return nil
}

func (m *mockSeriesRepo) SyncLessonDenormalization(ctx context.Context, series *models.LessonSeries) error {
	if m.syncErr != nil {
		return m.syncErr
	}
	m.synced = append(m.synced, series.ID)
	return nil
}

func (m *mockSeriesRepo) Delete(ctx context.Context, id int64) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

type mockLessonRepo struct {
	lessons map[int64]*models.Lesson
	created []*models.Lesson
	updated []*models.Lesson
}

func (m *mockLessonRepo) List(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, int, error) {
	items := make([]models.Lesson, 0, len(m.lessons))
	for _, l := range m.lessons {
		items = append(items, *l)
	}
	return items, len(items), nil
}

func (m *mockLessonRepo) ListBySeries(ctx context.Context, seriesID int64) ([]models.Lesson, error) {
	var items []models.Lesson
	for _, l := range m.lessons {
		if l.SeriesID == seriesID {
			items = append(items, *l)
		}
	}
	return items, nil
}

func (m *mockLessonRepo) FindByID(ctx context.Context, id int64) (*models.Lesson, error) {
	l, ok := m.lessons[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *l
	return &copied, nil
}

func (m *mockLessonRepo) Create(ctx context.Context, lesson *models.Lesson) error {
	lesson.ID = int64(len(m.lessons) + len(m.created) + 1)
	m.created = append(m.created, lesson)
	return nil
}

func (m *mockLessonRepo) Update(ctx context.Context, lesson *models.Lesson) error {
	m.updated = append(m.updated, lesson)
	if _, ok := m.lessons[lesson.ID]; ok {
		copied := *lesson
		m.lessons[lesson.ID] = &copied
	}
	return nil
}

func (m *mockLessonRepo) Delete(ctx context.Context, id int64) error {
	delete(m.lessons, id)
	return nil
}

type mockUserRepo struct {
	users    map[int64]*models.User
	byEmail  map[string]*models.User
	byToken  map[string]*models.User
	created  []*models.User
	updated  []*models.User
	createFn func(user *models.User) error
}

func (m *mockUserRepo) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	items := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		items = append(items, *u)
	}
	return items, len(items), nil
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) FindByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	u, ok := m.byToken[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	if m.createFn != nil {
		return m.createFn(user)
	}
	user.ID = int64(len(m.users) + len(m.created) + 1)
	m.created = append(m.created, user)
	return nil
}

func (m *mockUserRepo) Update(ctx context.Context, user *models.User) error {
	m.updated = append(m.updated, user)
	return nil
}

func (m *mockUserRepo) Delete(ctx context.Context, id int64) error { return nil }
