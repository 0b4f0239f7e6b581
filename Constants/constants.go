package Constants

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Runtime configuration, loaded once at startup from .env / environment.
var (
	AppAddr       = ":8080"
	DatabasePath  = "database.db"
	BlaneAPIURL   = "https://api.blanemarketplace.com/back/v1"
	BlaneAPIToken = ""
	SyncSchedule  = "0 0 */6 * * *" // every 6 hours
	LogLevel      = "info"
)

// Load reads the .env file (if present) and overrides defaults from the
// environment. Missing keys keep their defaults; a missing .env file is
// not an error.
func Load() {
	_ = godotenv.Load(".env")

	if v := strings.TrimSpace(os.Getenv("APP_ADDR")); v != "" {
		AppAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_PATH")); v != "" {
		DatabasePath = v
	}
	if v := strings.TrimSpace(os.Getenv("BLANE_API_URL")); v != "" {
		BlaneAPIURL = strings.TrimRight(v, "/")
	}
	if v := strings.TrimSpace(os.Getenv("BLANE_API_TOKEN")); v != "" {
		BlaneAPIToken = v
	}
	if v := strings.TrimSpace(os.Getenv("SYNC_SCHEDULE")); v != "" {
		SyncSchedule = v
	}
	if v := strings.TrimSpace(os.Getenv("LOG_LEVEL")); v != "" {
		LogLevel = v
	}
}
