package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/darsapp/dars-api/internal/middleware"
	"github.com/darsapp/dars-api/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth       *AuthHandler
	Themes     *ThemeHandler
	Authors    *AuthorHandler
	Books      *BookHandler
	Teachers   *TeacherHandler
	Series     *SeriesHandler
	Lessons    *LessonHandler
	Tests      *TestHandler
	Users      *UserHandler
	Feedback   *FeedbackHandler
	Bookmarks  *BookmarkHandler
	Settings   *SettingsHandler
	Statistics *StatisticsHandler
}

// RegisterRoutes wires the API surface under the given group. Read endpoints
// are public with optional claims; mutations require an admin token.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, auth *service.AuthService) {
	authn := middleware.JWT(auth)
	optional := middleware.OptionalJWT(auth)
	admin := middleware.RequireAdmin()

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
		authGroup.GET("/verify", h.Auth.Verify)
		authGroup.GET("/me", authn, h.Auth.Me)
		authGroup.PUT("/password", authn, h.Auth.ChangePassword)
	}

	themes := api.Group("/themes")
	{
		themes.GET("", optional, h.Themes.List)
		themes.GET("/:id", optional, h.Themes.Get)
		themes.POST("", authn, admin, h.Themes.Create)
		themes.PUT("/:id", authn, admin, h.Themes.Update)
		themes.DELETE("/:id", authn, admin, h.Themes.Delete)
	}

	authors := api.Group("/authors")
	{
		authors.GET("", optional, h.Authors.List)
		authors.GET("/:id", optional, h.Authors.Get)
		authors.POST("", authn, admin, h.Authors.Create)
		authors.PUT("/:id", authn, admin, h.Authors.Update)
		authors.DELETE("/:id", authn, admin, h.Authors.Delete)
	}

	books := api.Group("/books")
	{
		books.GET("", optional, h.Books.List)
		books.GET("/:id", optional, h.Books.Get)
		books.POST("", authn, admin, h.Books.Create)
		books.PUT("/:id", authn, admin, h.Books.Update)
		books.DELETE("/:id", authn, admin, h.Books.Delete)
	}

	teachers := api.Group("/teachers")
	{
		teachers.GET("", optional, h.Teachers.List)
		teachers.GET("/:id", optional, h.Teachers.Get)
		teachers.POST("", authn, admin, h.Teachers.Create)
		teachers.PUT("/:id", authn, admin, h.Teachers.Update)
		teachers.DELETE("/:id", authn, admin, h.Teachers.Delete)
	}

	series := api.Group("/series")
	{
		series.GET("", optional, h.Series.List)
		series.GET("/:id", optional, h.Series.Get)
		series.GET("/:id/lessons", optional, h.Series.Lessons)
		series.POST("", authn, admin, h.Series.Create)
		series.PUT("/:id", authn, admin, h.Series.Update)
		series.DELETE("/:id", authn, admin, h.Series.Delete)
	}

	lessons := api.Group("/lessons")
	{
		lessons.GET("", optional, h.Lessons.List)
		lessons.GET("/:id", optional, h.Lessons.Get)
		lessons.GET("/:id/audio", h.Lessons.StreamAudio)
		lessons.POST("", authn, admin, h.Lessons.Create)
		lessons.PUT("/:id", authn, admin, h.Lessons.Update)
		lessons.DELETE("/:id", authn, admin, h.Lessons.Delete)
		lessons.POST("/:id/audio", authn, admin, h.Lessons.UploadAudio)
	}

	tests := api.Group("/tests")
	{
		tests.GET("", optional, h.Tests.List)
		tests.GET("/:id", optional, h.Tests.Get)
		tests.GET("/:id/questions", optional, h.Tests.ListQuestions)
		tests.GET("/:id/questions/:questionId", optional, h.Tests.GetQuestion)
		tests.POST("", authn, admin, h.Tests.Create)
		tests.PUT("/:id", authn, admin, h.Tests.Update)
		tests.DELETE("/:id", authn, admin, h.Tests.Delete)
		tests.POST("/:id/questions", authn, admin, h.Tests.CreateQuestion)
		tests.PUT("/:id/questions/:questionId", authn, admin, h.Tests.UpdateQuestion)
		tests.DELETE("/:id/questions/:questionId", authn, admin, h.Tests.DeleteQuestion)
	}

	users := api.Group("/users", authn, admin)
	{
		users.GET("", h.Users.List)
		users.GET("/:id", h.Users.Get)
		users.PUT("/:id", h.Users.Update)
		users.DELETE("/:id", h.Users.Delete)
	}

	feedback := api.Group("/feedbacks", authn)
	{
		feedback.GET("", h.Feedback.List)
		feedback.GET("/my", h.Feedback.My)
		feedback.GET("/:id", h.Feedback.Get)
		feedback.POST("", h.Feedback.Create)
		feedback.POST("/:id/messages", h.Feedback.AddMessage)
		feedback.PUT("/:id/status", admin, h.Feedback.SetStatus)
		feedback.DELETE("/:id", admin, h.Feedback.Delete)
	}

	bookmarks := api.Group("/bookmarks", authn)
	{
		bookmarks.GET("", h.Bookmarks.List)
		bookmarks.POST("", h.Bookmarks.Save)
		bookmarks.DELETE("/:id", h.Bookmarks.Delete)
	}

	settings := api.Group("/settings", authn, admin)
	{
		settings.GET("/smtp", h.Settings.GetSMTP)
		settings.PUT("/smtp", h.Settings.UpdateSMTP)
		settings.POST("/smtp/test", h.Settings.SendTest)
	}

	statistics := api.Group("/statistics", authn, admin)
	{
		statistics.GET("", h.Statistics.Overview)
		statistics.GET("/export", h.Statistics.Export)
	}
}
