package routes

import (
	"food-recognizer/internal/api/handlers"
	"food-recognizer/internal/middleware"
	"food-recognizer/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App                *fiber.App
	UserHandler        handlers.UserHandler
	RecognitionHandler handlers.RecognitionHandler
	FoodLogHandler     handlers.FoodLogHandler
	Middleware         middleware.Middleware
	JWTService         jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.User()
	c.Recognition()
	c.GuestRoute()
}

func (c *Config) User() {
	api := c.App.Group("/api")
	// user routes
	{
		api.Post("/register", c.UserHandler.Register)
		api.Post("/login", c.UserHandler.Login)
		api.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.UserHandler.Me)
	}
}

func (c *Config) Recognition() {
	api := c.App.Group("/api")
	api.Post("/recognize", c.RecognitionHandler.Recognize)
	api.Get("/food-logs", c.FoodLogHandler.GetFoodLogs)
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
}
