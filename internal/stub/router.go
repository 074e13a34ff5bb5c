package stub

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uniport/uniport-portal/pkg/config"
	"github.com/uniport/uniport-portal/pkg/logger"
	corsmiddleware "github.com/uniport/uniport-portal/pkg/middleware/cors"
	reqidmiddleware "github.com/uniport/uniport-portal/pkg/middleware/requestid"
)

// NewRouter assembles the stub portal's routes and middleware.
func NewRouter(store *Store, cfg config.StubConfig, logr *zap.Logger) *gin.Engine {
	h := NewHandler(store, cfg, logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.AllowedOrigins))
	r.Use(Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", MetricsHandler())

	r.POST("/login", h.Login)

	auth := r.Group("/", authRequired(cfg.JWTSecret))
	{
		auth.GET("/prereg/all-subjects", h.ListSections)
		auth.GET("/prereg/user-courses", h.UserPreregs)
		auth.POST("/prereg/add", h.CreatePrereg)
		auth.POST("/prereg/enroll", h.Enroll)

		auth.GET("/enrollments", h.ListEnrollments)
		auth.DELETE("/enrollments/:id", h.CancelEnrollment)

		auth.GET("/semesters", h.Semesters)
		auth.GET("/registration-form", h.RegistrationForm)
		auth.GET("/subjects-schedule", h.SubjectsSchedule)
		auth.GET("/grades", h.Grades)

		auth.GET("/applicant-profile", h.GetProfile)
		auth.PUT("/applicant-profile", h.UpdateProfile)
		auth.POST("/applicant-profile", h.CreateProfile)
	}

	return r
}
