package main

import (
	"credlyse/config"
	"credlyse/database"
	authRoutes "credlyse/routers/authRoutes"
	certificateRoutes "credlyse/routers/certificateRoutes"
	courseRoutes "credlyse/routers/courseRoutes"
	extensionRoutes "credlyse/routers/extensionRoutes"
	progressRoutes "credlyse/routers/progressRoutes"
	"credlyse/utils"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Issued certificate PDFs
	app.Static("/static", "./static")

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	certificateRoutes.SetupCertificateRoutes(app)
	extensionRoutes.SetupExtensionRoutes(app)

	utils.InitializeMaintenanceScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
