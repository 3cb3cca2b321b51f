package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Config is the process configuration, read from GJINN_* environment
// variables (a .env file is honored when present).
type Config struct {
	StorageType    string `envconfig:"STORAGE_TYPE"`
	DataDir        string `envconfig:"LOCAL_STORAGE_PATH" default:"./data"`
	DataSourceName string `envconfig:"DATA_SOURCE_NAME" default:"gjinn.db"`
	S3Bucket       string `envconfig:"S3_BUCKET_NAME"`

	GeneratorBaseURL string `envconfig:"POLLINATIONS_BASE_URL" default:"https://image.pollinations.ai"`
	GeneratorAPIKey  string `envconfig:"POLLINATIONS_API_KEY"`
	GeneratorOffline bool   `envconfig:"GENERATOR_OFFLINE"`
	GeneratorModel   string `envconfig:"GENERATOR_MODEL" default:"flux"`

	MaxRequestsPerHour int `envconfig:"MAX_REQUESTS_PER_HOUR" default:"20"`
	ImageWidth         int `envconfig:"IMAGE_WIDTH" default:"1024"`
	ImageHeight        int `envconfig:"IMAGE_HEIGHT" default:"1024"`

	JWTSecret          string `envconfig:"JWT_SECRET"`
	GithubClientID     string `envconfig:"GITHUB_CLIENT_ID"`
	GithubClientSecret string `envconfig:"GITHUB_CLIENT_SECRET"`
	GithubRedirectURL  string `envconfig:"GITHUB_REDIRECT_URL"`
}

// Load reads the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found")
	}
	var cfg Config
	if err := envconfig.Process("gjinn", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
