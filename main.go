package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"bayorder-backend/config"
	"bayorder-backend/controllers"
	"bayorder-backend/models"
	"bayorder-backend/routes"
	"bayorder-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	db, err := config.Connect(os.Getenv("DB_URL"))
	if err != nil {
		log.Fatalf("Failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.MenuDocument{},
		&models.MenuBackup{},
		&models.Order{},
		&models.User{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	adminEmails := strings.Split(os.Getenv("ADMIN_EMAILS"), ",")
	gate := services.NewAuthGate(os.Getenv("GOOGLE_CLIENT_ID"), adminEmails)
	importer := services.NewSheetImporter(db, os.Getenv("SHEET_CSV_URL"))
	publisher := services.NewPublisher(db)
	deployer := services.NewDeployer(
		os.Getenv("MENU_REPO_DIR"),
		os.Getenv("MENU_GIT_REMOTE"),
		os.Getenv("MENU_GIT_BRANCH"),
	)
	feed := services.NewOrderFeed()
	notifier := services.NewOrderNotifierFromEnv()

	// Background sheet polling, only when a sheet is configured.
	if os.Getenv("SHEET_CSV_URL") != "" {
		autoSync := services.NewAutoSync(importer, os.Getenv("AUTO_SYNC_CRON"))
		if err := autoSync.Start(); err != nil {
			log.Printf("Failed to start auto-sync scheduler: %v", err)
		}
		defer autoSync.Stop()
	}

	r := routes.SetupRouter(routes.Controllers{
		Auth:   &controllers.AuthController{DB: db},
		Menu:   &controllers.MenuController{DB: db},
		Admin: &controllers.AdminController{
			DB:       db,
			Gate:     gate,
			Importer: importer,
			Pub:      publisher,
			Deployer: deployer,
		},
		Orders: &controllers.OrderController{
			DB:       db,
			Feed:     feed,
			Notifier: notifier,
		},
	})
	printRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printRoutes(r *gin.Engine) {
	for _, route := range r.Routes() {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
