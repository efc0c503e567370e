package routes

import (
	"journal-management-api/controllers"
	"journal-management-api/middleware"
	"journal-management-api/models"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine) {
	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", controllers.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Journal Management API is running",
				})
			})
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			// User profile
			protected.GET("/profile", controllers.GetProfile)
			protected.PUT("/change-password", controllers.ChangePassword)

			// Manuscripts
			articles := protected.Group("/articles")
			{
				articles.GET("", controllers.GetArticles)
				articles.GET("/:id", controllers.GetArticle)
				articles.POST("", controllers.CreateArticle)
				articles.PUT("/:id", controllers.UpdateArticle)
				articles.POST("/:id/submit", controllers.SubmitArticle)
				articles.POST("/:id/publish",
					middleware.RequireRole(models.RoleEditorInChief, models.RoleAdmin),
					controllers.PublishArticle)
				articles.DELETE("/:id",
					middleware.RequireRole(models.RoleAdmin),
					controllers.DeleteArticle)

				// Manuscript files
				articles.POST("/:id/documents", controllers.UploadArticleDocument)
				articles.GET("/:id/documents", controllers.GetArticleDocuments)
			}
			protected.GET("/documents/download/:document_id", controllers.DownloadDocument)

			// Review workflow
			workflow := protected.Group("/review-workflow")
			{
				editorRoles := middleware.RequireRole(
					models.RoleAssociateEditor,
					models.RoleEditorialBoard,
					models.RoleEditorInChief,
					models.RoleAdmin,
				)

				workflow.POST("/assign-reviewer", editorRoles, controllers.AssignReviewer)
				workflow.GET("/editorial/queue", editorRoles, controllers.GetEditorialQueue)
				workflow.GET("/articles/:id/reviews", editorRoles, controllers.GetArticleReviews)

				// Decisions are reserved for the editor-in-chief
				workflow.POST("/editorial-decision/:id",
					middleware.RequireRole(models.RoleEditorInChief, models.RoleAdmin),
					controllers.MakeEditorialDecision)

				// Reviewer-side endpoints
				workflow.GET("/my-reviews", controllers.GetMyReviews)
				workflow.GET("/my-stats", controllers.GetMyReviewerStats)
				workflow.POST("/reviews/:id/accept", controllers.AcceptReview)
				workflow.POST("/reviews/:id/decline", controllers.DeclineReview)
				workflow.POST("/reviews/:id/submit", controllers.SubmitReview)
			}

			// Volumes and issues
			volumes := protected.Group("/volumes")
			{
				chiefRoles := middleware.RequireRole(models.RoleEditorInChief, models.RoleAdmin)

				volumes.GET("", controllers.GetVolumes)
				volumes.POST("", chiefRoles, controllers.CreateVolume)
				volumes.POST("/:id/issues", chiefRoles, controllers.CreateIssue)
			}
			protected.POST("/issues/:id/publish",
				middleware.RequireRole(models.RoleEditorInChief, models.RoleAdmin),
				controllers.PublishIssue)

			// Announcements
			announcements := protected.Group("/announcements")
			{
				officeRoles := middleware.RequireRole(
					models.RoleEditorialAssistant,
					models.RoleEditorInChief,
					models.RoleAdmin,
				)

				announcements.GET("", controllers.GetAnnouncements)
				announcements.POST("", officeRoles, controllers.CreateAnnouncement)
				announcements.PUT("/:id", officeRoles, controllers.UpdateAnnouncement)
				announcements.DELETE("/:id", officeRoles, controllers.DeleteAnnouncement)
			}

			// Notifications
			notifications := protected.Group("/notifications")
			{
				notifications.GET("", controllers.GetNotifications)
				notifications.GET("/count", controllers.GetNotificationCounter)
				notifications.PUT("/:id/read", controllers.MarkNotificationRead)
				notifications.PUT("/read-all", controllers.MarkAllNotificationsRead)
			}

			// Dashboard
			protected.GET("/dashboard/stats", controllers.GetDashboardStats)
		}
	}
}
