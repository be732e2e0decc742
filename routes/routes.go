package routes

import (
	"bayorder-backend/config"
	"bayorder-backend/controllers"
	"bayorder-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Controllers bundles the constructed controllers for router wiring.
type Controllers struct {
	Auth   *controllers.AuthController
	Menu   *controllers.MenuController
	Admin  *controllers.AdminController
	Orders *controllers.OrderController
}

func SetupRouter(ctrl Controllers) *gin.Engine {
	r := gin.Default()

	// The UI pages are static and hosted separately; the API is
	// CORS-open. Admin actions are gated by token, not origin.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:   []string{"Content-Length"},
	}))

	r.Use(config.PerformanceLogger())

	auth := r.Group("/auth")
	{
		auth.POST("/register", ctrl.Auth.Register)
		auth.POST("/login", ctrl.Auth.Login)

		auth.Use(utils.AuthMiddleware())
		auth.GET("/me", ctrl.Auth.Me)
	}

	api := r.Group("/api")
	{
		api.GET("/health", ctrl.Admin.Health)

		// Admin panel surface. Mutations verify the admin token inside
		// the handler so each can shape its own auth error payload.
		api.POST("/verify-auth", ctrl.Admin.VerifyAuth)
		api.GET("/stats", ctrl.Admin.Stats)
		api.GET("/history", ctrl.Admin.History)
		api.POST("/sync", ctrl.Admin.Sync)
		api.POST("/publish", ctrl.Admin.Publish)
		api.POST("/deploy", ctrl.Admin.Deploy)

		// Menu slots
		menu := api.Group("/menu")
		{
			menu.GET("/preview", ctrl.Menu.Preview)
			menu.GET("/production", ctrl.Menu.Production)
			menu.GET("/export", ctrl.Admin.ExportCSV)
		}

		// Ordering and the staff dashboard
		orders := api.Group("/orders")
		{
			orders.POST("", utils.OptionalAuthMiddleware(), ctrl.Orders.Create)
			orders.GET("/active", ctrl.Orders.Active)
			orders.GET("/history", ctrl.Orders.History)
			orders.GET("/stream", ctrl.Orders.Stream)
			orders.GET("/mine", utils.AuthMiddleware(), ctrl.Orders.Mine)
			orders.POST("/:id/confirm", ctrl.Orders.Confirm)
			orders.POST("/:id/complete", ctrl.Orders.Complete)
		}
	}

	return r
}
