package config

import (
	"context"
	"os"
	"time"

	"food-recognizer/internal/api/handlers"
	"food-recognizer/internal/api/routes"
	"food-recognizer/internal/middleware"
	"food-recognizer/internal/utils"
	"food-recognizer/internal/utils/mailing"
	"food-recognizer/internal/utils/storage"
	"food-recognizer/pkg/foodlog"
	"food-recognizer/pkg/jwt"
	"food-recognizer/pkg/recognition"
	"food-recognizer/pkg/summary"
	"food-recognizer/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

const maxUploadSize = 10 * 1024 * 1024

func NewApp(ctx context.Context, db *gorm.DB) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		AppName:   "food-recognizer",
		BodyLimit: maxUploadSize,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		return nil, err
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		return nil, err
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	var s3 storage.AwsS3
	if bucket := utils.GetConfig("AWS_S3_BUCKET"); bucket != "" {
		s3, err = storage.NewAwsS3(ctx,
			bucket,
			utils.GetConfig("AWS_S3_REGION"),
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
		)
		if err != nil {
			log.Warnf("image archive disabled: %v", err)
			s3 = nil
		}
	}

	var sendWelcome user.WelcomeSender
	if mailing.LoadMailConfig().Enabled() {
		sendWelcome = mailing.SendWelcomeMail
	}

	engine := recognition.LoadEngine(ctx, recognition.EngineConfig{
		Backend:            utils.GetConfig("CLASSIFIER_BACKEND"),
		ModelURL:           utils.GetConfig("MODEL_URL"),
		ModelName:          utils.GetConfig("MODEL_NAME"),
		LabelsPath:         utils.GetConfig("MODEL_LABELS_PATH"),
		NutritionTablePath: utils.GetConfig("NUTRITION_TABLE_PATH"),
		RekognitionRegion:  utils.GetConfig("AWS_REKOGNITION_REGION"),
	})
	if err := engine.Ready(); err != nil {
		log.Errorf("recognition disabled: %v", err)
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	foodLogRepository := foodlog.NewFoodLogRepository(db)

	// Service
	jwtService := jwt.NewJWTService(utils.GetConfig("JWT_SECRET"))
	userService := user.NewUserService(userRepository, jwtService, sendWelcome)
	foodLogService := foodlog.NewFoodLogService(foodLogRepository)
	summaryClient := summary.NewClient(utils.GetConfig("WIKI_URL"))
	recognitionService := recognition.NewRecognitionService(engine, summaryClient, foodLogService, s3, validator)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	recognitionHandler := handlers.NewRecognitionHandler(recognitionService)
	foodLogHandler := handlers.NewFoodLogHandler(foodLogService)

	// routes
	routesConfig := routes.Config{
		App:                app,
		UserHandler:        userHandler,
		RecognitionHandler: recognitionHandler,
		FoodLogHandler:     foodLogHandler,
		Middleware:         middlewares,
		JWTService:         jwtService,
	}
	routesConfig.Setup()
	return app, nil
}
