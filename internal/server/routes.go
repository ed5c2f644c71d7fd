// Package server contains the gin engine setup and route registration.
package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	// Init swagger doc
	_ "genai-hiring-backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"genai-hiring-backend/internal/auth"
	"genai-hiring-backend/internal/controller/application"
	"genai-hiring-backend/internal/controller/company"
	"genai-hiring-backend/internal/controller/file"
	"genai-hiring-backend/internal/controller/job"
	"genai-hiring-backend/internal/controller/user"
	"genai-hiring-backend/internal/middleware"
	"genai-hiring-backend/internal/model"
	"genai-hiring-backend/internal/workflow"
)

// RegisterRoutes registers every http endpoint on a new gin engine.
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader())

	lAuth := auth.NewLocalAuthHandler(s.DB)
	jobCtl := job.NewJobController(s.DB)
	appCtl := application.NewApplicationController(s.DB, s.Storage)
	fileCtl := file.NewFileController(s.DB, s.Storage)
	userCtl := user.NewUserController(s.DB)
	companyCtl := company.NewCompanyController(s.DB)

	r.GET("/health", s.healthHandler)

	api := r.Group("/api")
	{
		authRoute := api.Group("/auth")
		{
			authRoute.POST("register", lAuth.RegisterHandler)
			authRoute.POST("login", lAuth.LoginHandler)
			authRoute.GET("me", middleware.RequireAuth(s.DB), lAuth.MeHandler)
		}

		// Candidate-facing endpoints, no authentication
		public := api.Group("/public")
		{
			public.GET("jobs", jobCtl.GetPublicJobs)
			public.GET("jobs/:id", jobCtl.GetPublicJobByID)
			// The cap sits above the resume limit so oversized resumes are
			// rejected by validation with a message naming the constraint.
			public.POST("applications",
				middleware.EnvRateLimitMiddleware(),
				middleware.SizeLimit(2*workflow.MaxResumeSize),
				appCtl.SubmitApplication)
			public.GET("applications/:reference", appCtl.GetByReference)
		}

		needAuth := api.Group("", middleware.RequireAuth(s.DB))
		{
			jobRoute := needAuth.Group("/jobs")
			{
				jobRoute.POST("", middleware.CheckRole(model.RoleAccountManager, model.RoleAdmin), jobCtl.CreateJob)
				jobRoute.GET("", jobCtl.GetJobs)
				jobRoute.GET(":id", jobCtl.GetJobByID)
				jobRoute.PUT(":id", jobCtl.UpdateJob)
				jobRoute.DELETE(":id", jobCtl.DeleteJob)

				needHR := jobRoute.Group("", middleware.CheckRole(model.RoleHR, model.RoleAdmin))
				{
					needHR.PATCH(":id/approve", jobCtl.ApproveJob)
					needHR.PATCH(":id/publish", jobCtl.PublishJob)
					needHR.PATCH(":id/reject", jobCtl.RejectJob)
				}

				needManager := jobRoute.Group("", middleware.CheckRole(model.RoleAccountManager, model.RoleAdmin))
				{
					needManager.POST("generate-fields", jobCtl.GenerateJobFields)
					needManager.POST("generate-description", jobCtl.GenerateJobDescription)
				}
			}

			appRoute := needAuth.Group("/applications", middleware.CheckRole(model.RoleHR, model.RoleAdmin))
			{
				appRoute.GET("", appCtl.GetApplications)
				appRoute.GET("stats", appCtl.GetStats)
				appRoute.GET(":id", appCtl.GetApplicationByID)
				appRoute.PATCH(":id/status", appCtl.UpdateStatus)
			}

			fileRoute := needAuth.Group("/files", middleware.CheckRole(model.RoleHR, model.RoleAdmin))
			{
				fileRoute.GET(":id", fileCtl.GetFile)
			}

			userRoute := needAuth.Group("/users")
			{
				userRoute.GET("", middleware.CheckRole(model.RoleHR, model.RoleAdmin), userCtl.GetUsers)
				userRoute.POST("", middleware.CheckRole(model.RoleHR, model.RoleAdmin), userCtl.CreateUser)
				userRoute.GET(":id", userCtl.GetUserByID)
				userRoute.PUT(":id", userCtl.UpdateUser)
				userRoute.DELETE(":id", middleware.CheckRole(model.RoleHR, model.RoleAdmin), userCtl.DeactivateUser)
			}

			companyRoute := needAuth.Group("/companies")
			{
				companyRoute.GET("", companyCtl.GetCompanies)
				companyRoute.GET(":id", companyCtl.GetCompanyByID)
				companyRoute.PUT(":id", companyCtl.UpdateCompany)

				needAdmin := companyRoute.Group("", middleware.CheckRole(model.RoleAdmin))
				{
					needAdmin.POST("", companyCtl.CreateCompany)
					needAdmin.DELETE(":id", companyCtl.DeactivateCompany)
				}
			}

			needAuth.GET("/navigation", s.navigationHandler)
		}
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
