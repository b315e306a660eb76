package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/skillforge/skillforge-backend/internal/http/handlers"
	httpMW "github.com/skillforge/skillforge-backend/internal/http/middleware"
	"github.com/skillforge/skillforge-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	AuthHandler     *httpH.AuthHandler
	UserHandler     *httpH.UserHandler
	CourseHandler   *httpH.CourseHandler
	ProgressHandler *httpH.ProgressHandler
	QuizHandler     *httpH.QuizHandler
	HealthHandler   *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("skillforge"))
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())
	r.Use(httpMW.BodySizeLimit(1 << 20))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		if cfg.AuthHandler != nil {
			api.POST("/register", cfg.AuthHandler.Register)
			api.POST("/login", cfg.AuthHandler.Login)
			api.POST("/refresh", cfg.AuthHandler.Refresh)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.POST("/logout", cfg.AuthHandler.Logout)
		}

		if cfg.UserHandler != nil {
			protected.GET("/me", cfg.UserHandler.GetMe)
			protected.PUT("/me", cfg.UserHandler.UpdateMe)
			protected.PUT("/me/interests", cfg.UserHandler.UpdateInterests)
		}

		if cfg.CourseHandler != nil {
			protected.GET("/courses", cfg.CourseHandler.ListCourses)
			protected.GET("/courses/:id", cfg.CourseHandler.GetCourse)
		}

		if cfg.ProgressHandler != nil {
			protected.GET("/me/enrollments", cfg.ProgressHandler.ListEnrollments)
			protected.POST("/courses/:id/enroll", cfg.ProgressHandler.Enroll)
			protected.GET("/courses/:id/progress", cfg.ProgressHandler.GetProgress)
			protected.GET("/courses/:id/lessons/:lessonID", cfg.ProgressHandler.OpenLesson)
			protected.GET("/courses/:id/certificate", cfg.ProgressHandler.GetCertificate)
		}

		if cfg.QuizHandler != nil {
			protected.GET("/courses/:id/quiz/intro", cfg.QuizHandler.GetIntroQuiz)
			protected.GET("/courses/:id/quiz/final", cfg.QuizHandler.GetFinalQuiz)
			protected.GET("/courses/:id/lessons/:lessonID/quiz", cfg.QuizHandler.GetLessonQuiz)
			protected.GET("/courses/:id/quiz/summaries", cfg.QuizHandler.ListQuizSummaries)
			protected.GET("/quiz/summaries/:summaryID", cfg.QuizHandler.GetQuizSummary)
			protected.POST("/courses/:id/quiz/intro", cfg.QuizHandler.SubmitIntroQuiz)
			protected.POST("/courses/:id/lessons/:lessonID/quiz", cfg.QuizHandler.SubmitLessonQuiz)
			protected.POST("/courses/:id/quiz/final", cfg.QuizHandler.SubmitFinalQuiz)
		}
	}

	return r
}
