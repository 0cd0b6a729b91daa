package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
)

type AppConfig struct {
	Name         string
	Env          string
	Port         string
	BaseURL      string
	RoutePrefix  string
	RateLimitMax int
}

var (
	appConfig *AppConfig
	appOnce   sync.Once
)

func LoadAppConfig() *AppConfig {
	appOnce.Do(func() {
		appConfig = newAppConfig()
	})
	return appConfig
}

func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func newAppConfig() *AppConfig {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
		log.Printf("Warning: APP_ENV not set, defaulting to %s", env)
	}
	name := os.Getenv("APP_NAME")
	if name == "" {
		name = "candidate-screener"
	}
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = ":8080"
	} else if !strings.Contains(port, ":") {
		port = ":" + port
	}
	rateLimit, err := strconv.Atoi(os.Getenv("RATE_LIMIT_MAX"))
	if err != nil || rateLimit <= 0 {
		rateLimit = 50
	}
	return &AppConfig{
		Name:         name,
		Env:          env,
		Port:         port,
		BaseURL:      os.Getenv("APP_URL"),
		RoutePrefix:  strings.TrimRight(os.Getenv("APP_ROUTE_PREFIX"), "/"),
		RateLimitMax: rateLimit,
	}
}
