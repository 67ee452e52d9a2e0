package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"careform-api/internal/database"
	"careform-api/internal/handler"
	"careform-api/internal/metrics"
	"careform-api/internal/middleware"
	"careform-api/internal/service"
)

// Config carries the dependencies the router wires together
type Config struct {
	Logger         *zap.Logger
	JWTSecret      string
	BasePath       string
	Metrics        *metrics.Metrics
	AllowedOrigins []string

	BusinessService   service.BusinessService
	ClientService     service.ClientService
	FormService       service.FormService
	SubmissionService service.SubmissionService
	ExportService     service.ExportService
}

// Setup builds the gin engine: global middleware, health and metrics
// endpoints, swagger, and the authenticated API routes under BasePath.
func Setup(cfg Config) *gin.Engine {
	r := gin.New()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	registerOperational(r, "")
	if cfg.BasePath != "" {
		registerOperational(r, cfg.BasePath)
	}

	businessHandler := handler.NewBusinessHandler(cfg.BusinessService)
	clientHandler := handler.NewClientHandler(cfg.ClientService)
	formHandler := handler.NewFormHandler(cfg.FormService)
	submissionHandler := handler.NewSubmissionHandler(cfg.SubmissionService)
	exportHandler := handler.NewExportHandler(cfg.ExportService)

	api := r.Group(cfg.BasePath)
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authed := api.Group("")
	authed.Use(middleware.Auth(cfg.JWTSecret))

	businesses := authed.Group("/businesses")
	{
		businesses.POST("", businessHandler.CreateBusiness)
		businesses.GET("", businessHandler.ListBusinesses)
		businesses.GET("/:businessId", businessHandler.GetBusiness)
		businesses.PATCH("/:businessId", businessHandler.UpdateBusiness)
		businesses.DELETE("/:businessId", businessHandler.DeleteBusiness)

		businesses.POST("/:businessId/members", businessHandler.AddMember)
		businesses.GET("/:businessId/members", businessHandler.ListMembers)
		businesses.PATCH("/:businessId/members/:userId", businessHandler.UpdateMemberRole)
		businesses.DELETE("/:businessId/members/:userId", businessHandler.RemoveMember)

		businesses.GET("/:businessId/usage", businessHandler.GetUsage)
		businesses.GET("/:businessId/billing", businessHandler.GetBilling)
		businesses.POST("/:businessId/billing/checkout", businessHandler.CreateCheckout)

		businesses.POST("/:businessId/clients", clientHandler.CreateClient)
		businesses.GET("/:businessId/clients", clientHandler.ListClients)
		businesses.GET("/:businessId/clients/:clientId", clientHandler.GetClient)
		businesses.PATCH("/:businessId/clients/:clientId", clientHandler.UpdateClient)
		businesses.DELETE("/:businessId/clients/:clientId", clientHandler.DeleteClient)

		businesses.POST("/:businessId/forms", formHandler.CreateForm)
		businesses.GET("/:businessId/forms", formHandler.ListForms)
		businesses.GET("/:businessId/forms/:formId", formHandler.GetForm)
		businesses.PATCH("/:businessId/forms/:formId", formHandler.UpdateForm)
		businesses.PATCH("/:businessId/forms/:formId/status", formHandler.UpdateFormStatus)
		businesses.DELETE("/:businessId/forms/:formId", formHandler.DeleteForm)
		businesses.GET("/:businessId/forms/:formId/render", formHandler.RenderForm)

		businesses.POST("/:businessId/forms/:formId/submissions", submissionHandler.CreateSubmission)
		businesses.GET("/:businessId/submissions", submissionHandler.ListSubmissions)
		businesses.GET("/:businessId/submissions/:submissionId", submissionHandler.GetSubmission)
		businesses.PATCH("/:businessId/submissions/:submissionId", submissionHandler.UpdateSubmission)
		businesses.DELETE("/:businessId/submissions/:submissionId", submissionHandler.DeleteSubmission)
		businesses.POST("/:businessId/submissions/:submissionId/submit", submissionHandler.SubmitSubmission)
		businesses.POST("/:businessId/submissions/:submissionId/review", submissionHandler.ReviewSubmission)

		businesses.GET("/:businessId/forms/:formId/exports/flat", exportHandler.ExportFlat)
		businesses.GET("/:businessId/exports/pivot", exportHandler.ExportPivot)
	}

	return r
}

// registerOperational mounts the unauthenticated operational endpoints at the
// given prefix. They are exposed both at the root and under the base path so
// cluster probes and edge routes both reach them.
func registerOperational(r *gin.Engine, prefix string) {
	r.GET(prefix+"/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET(prefix+"/ready", func(c *gin.Context) {
		if !database.IsConnected() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": "disconnected"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET(prefix+"/metrics", gin.WrapH(promhttp.Handler()))
}
