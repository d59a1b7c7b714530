package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darsapp/dars-api/internal/middleware"
	"github.com/darsapp/dars-api/internal/models"
	"github.com/darsapp/dars-api/internal/service"
)

type capturingThemeRepo struct {
	stubThemeRepo
	lastFilter models.ThemeFilter
}

func (c *capturingThemeRepo) List(ctx context.Context, filter models.ThemeFilter) ([]models.Theme, int, error) {
	c.lastFilter = filter
	return c.stubThemeRepo.List(ctx, filter)
}

func newThemeRouter(repo *capturingThemeRepo, claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewThemeHandler(service.NewThemeService(repo, nil, nil))
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ContextUserKey, claims)
		}
	})
	r.GET("/themes", h.List)
	r.GET("/themes/:id", h.Get)
	return r
}

func TestThemeListUsesEnvelope(t *testing.T) {
	repo := &capturingThemeRepo{stubThemeRepo: stubThemeRepo{
		items: []models.Theme{
			{ID: 1, Name: "Акыда", IsActive: true},
			{ID: 2, Name: "Фикх", IsActive: true},
		},
		total: 12,
	}}
	r := newThemeRouter(repo, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/themes?skip=5&limit=2", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Items []models.Theme `json:"items"`
		Total int            `json:"total"`
		Skip  int            `json:"skip"`
		Limit int            `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 5, page.Skip)
	assert.Equal(t, 2, page.Limit)
}

func TestThemeListEmptyPageCarriesArray(t *testing.T) {
	r := newThemeRouter(&capturingThemeRepo{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/themes?search=nomatch", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), `"items":null`)
	var page struct {
		Items *[]models.Theme `json:"items"`
		Total int             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.NotNil(t, page.Items)
	assert.Empty(t, *page.Items)
	assert.Equal(t, 0, page.Total)
}

func TestThemeListIncludeInactiveRequiresAdmin(t *testing.T) {
	repo := &capturingThemeRepo{}
	r := newThemeRouter(repo, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/themes?include_inactive=true", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, repo.lastFilter.IncludeInactive)

	admin := &models.JWTClaims{UserID: 1, RoleLevel: models.RoleAdmin}
	r = newThemeRouter(repo, admin)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/themes?include_inactive=true", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, repo.lastFilter.IncludeInactive)
}

func TestThemeGetRejectsBadID(t *testing.T) {
	r := newThemeRouter(&capturingThemeRepo{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/themes/abc", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestThemeGetUnknownIDIs404(t *testing.T) {
	r := newThemeRouter(&capturingThemeRepo{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/themes/99", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
