package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Profile is the configuration to start main server.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for server
	Addr string
	// Port is the binding port for server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where healthifier stores its own data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of server
	Version string

	// JWT configuration
	JWTAccessSecret  string        // HEALTHIFIER_JWT_ACCESS_SECRET
	JWTRefreshSecret string        // HEALTHIFIER_JWT_REFRESH_SECRET
	JWTAccessExpiry  time.Duration // HEALTHIFIER_JWT_ACCESS_EXPIRY (default: 15m)
	JWTRefreshExpiry time.Duration // HEALTHIFIER_JWT_REFRESH_EXPIRY (default: 720h)

	// AI configuration
	AIAPIKey    string // HEALTHIFIER_AI_API_KEY
	AIBaseURL   string // HEALTHIFIER_AI_BASE_URL (default: https://api.openai.com/v1)
	AIChatModel string // HEALTHIFIER_AI_CHAT_MODEL (default: gpt-4o-mini)

	// Chat session tuning
	ChatHistoryWindow  int           // turns replayed into a fresh session (default: 10)
	SessionIdleTimeout time.Duration // evict abandoned sessions after this (default: 30m)
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if an AI credential is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIAPIKey != ""
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}

	if p.Mode == "prod" && p.Data == "" {
		if runtime.GOOS == "windows" {
			p.Data = filepath.Join(os.Getenv("ProgramData"), "healthifier")
			if _, err := os.Stat(p.Data); os.IsNotExist(err) {
				if err := os.MkdirAll(p.Data, 0770); err != nil {
					slog.Error("failed to create data directory", slog.String("data", p.Data), slog.String("error", err.Error()))
					return err
				}
			}
		} else {
			p.Data = "/var/opt/healthifier"
		}
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", dataDir), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("healthifier_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}

	if p.JWTAccessSecret == "" || p.JWTRefreshSecret == "" {
		return errors.New("JWT secrets are required, set HEALTHIFIER_JWT_ACCESS_SECRET and HEALTHIFIER_JWT_REFRESH_SECRET")
	}

	if p.JWTAccessExpiry <= 0 {
		p.JWTAccessExpiry = 15 * time.Minute
	}
	if p.JWTRefreshExpiry <= 0 {
		p.JWTRefreshExpiry = 30 * 24 * time.Hour
	}
	if p.AIBaseURL == "" {
		p.AIBaseURL = "https://api.openai.com/v1"
	}
	if p.AIChatModel == "" {
		p.AIChatModel = "gpt-4o-mini"
	}
	if p.ChatHistoryWindow <= 0 {
		p.ChatHistoryWindow = 10
	}
	if p.SessionIdleTimeout <= 0 {
		p.SessionIdleTimeout = 30 * time.Minute
	}

	return nil
}
