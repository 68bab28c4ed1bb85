package utils

import (
	"errors"
	"os"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Server
	AppPort string `yaml:"APP_PORT"`
	AppURL  string `yaml:"APP_URL"`

	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBPath     string `yaml:"DB_PATH"`

	JWTSecret string `yaml:"JWT_SECRET"`

	// Recognition
	NutritionTablePath string `yaml:"NUTRITION_TABLE_PATH"`
	ClassifierBackend  string `yaml:"CLASSIFIER_BACKEND"`
	ModelURL           string `yaml:"MODEL_URL"`
	ModelName          string `yaml:"MODEL_NAME"`
	ModelLabelsPath    string `yaml:"MODEL_LABELS_PATH"`
	WikiURL            string `yaml:"WIKI_URL"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS configuration
	AWSS3Bucket          string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region          string `yaml:"AWS_S3_REGION"`
	AWSAccessKey         string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey         string `yaml:"AWS_SECRET_KEY"`
	AWSRekognitionRegion string `yaml:"AWS_REKOGNITION_REGION"`
}

var (
	config Config
	mu     sync.RWMutex
)

func defaultConfig() Config {
	return Config{
		AppPort:            "8080",
		DBDriver:           "sqlite",
		DBPath:             "food_logs.db",
		NutritionTablePath: "ABBREV.xlsx",
		ClassifierBackend:  "http",
		ModelURL:           "http://localhost:8000",
		ModelName:          "food101",
		WikiURL:            "https://en.wikipedia.org",
		AWSS3Region:        "us-east-1",
	}
}

// LoadConfig reads CONFIG_PATH (default config.yaml) and a .env file if
// present. Environment variables win over both.
func LoadConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	if err := LoadConfigFrom(path); err != nil {
		log.Warnf("config: %v", err)
	}
}

func LoadConfigFrom(path string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warnf("error loading .env file: %v", err)
	}

	cfg := defaultConfig()
	var readErr error
	file, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(file, &cfg); err != nil {
			readErr = err
		}
	case errors.Is(err, os.ErrNotExist):
		log.Infof("%s not found, using defaults and environment", path)
	default:
		readErr = err
	}

	for key, field := range cfg.fields() {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field = v
		}
	}

	mu.Lock()
	config = cfg
	mu.Unlock()
	return readErr
}

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"APP_PORT":               &c.AppPort,
		"APP_URL":                &c.AppURL,
		"DB_DRIVER":              &c.DBDriver,
		"DB_USER":                &c.DBUser,
		"DB_NAME":                &c.DBName,
		"DB_PASSWORD":            &c.DBPassword,
		"DB_PORT":                &c.DBPort,
		"DB_HOST":                &c.DBHost,
		"DB_PATH":                &c.DBPath,
		"JWT_SECRET":             &c.JWTSecret,
		"NUTRITION_TABLE_PATH":   &c.NutritionTablePath,
		"CLASSIFIER_BACKEND":     &c.ClassifierBackend,
		"MODEL_URL":              &c.ModelURL,
		"MODEL_NAME":             &c.ModelName,
		"MODEL_LABELS_PATH":      &c.ModelLabelsPath,
		"WIKI_URL":               &c.WikiURL,
		"SMTP_HOST":              &c.SMTPHost,
		"SMTP_PORT":              &c.SMTPPort,
		"SMTP_SENDER_NAME":       &c.SMTPSenderName,
		"SMTP_AUTH_EMAIL":        &c.SMTPAuthEmail,
		"SMTP_AUTH_PASSWORD":     &c.SMTPAuthPassword,
		"AWS_S3_BUCKET":          &c.AWSS3Bucket,
		"AWS_S3_REGION":          &c.AWSS3Region,
		"AWS_ACCESS_KEY":         &c.AWSAccessKey,
		"AWS_SECRET_KEY":         &c.AWSSecretKey,
		"AWS_REKOGNITION_REGION": &c.AWSRekognitionRegion,
	}
}

func GetConfig(key string) string {
	mu.RLock()
	defer mu.RUnlock()

	c := config
	if field, ok := c.fields()[key]; ok {
		return *field
	}
	return ""
}
