package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr    string
	DBPath  string
	DBDebug bool
}

// Load reads .env (if any) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
	return &Config{
		Addr:    getEnv("ADDR", ":8080"),
		DBPath:  getEnv("DB_PATH", "nextgen.db"),
		DBDebug: getEnv("DB_DEBUG", "") == "true",
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
