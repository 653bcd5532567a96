package config

import (
	"fmt"
	"os"
	"strings"

	"careersync-engine/internal/secrets"
)

const (
	BackendSheets   = "sheets"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Vendors lists every registered source, in run order for "all".
var Vendors = []string{"kakao", "baemin", "daangn", "naver"}

// Config is built once at startup and passed by reference; nothing reads
// the environment after Load returns.
type Config struct {
	Backend         string
	CredentialsJSON []byte
	PostgresDSN     string
	RunlogPath      string
	Spreadsheets    map[string]string // vendor -> spreadsheet ID
	Tuning          Tuning
}

func Load() (Config, error) {
	cfg := Config{
		Backend:      strings.TrimSpace(os.Getenv("CAREERSYNC_BACKEND")),
		PostgresDSN:  strings.TrimSpace(os.Getenv("PG_DSN")),
		RunlogPath:   strings.TrimSpace(os.Getenv("CAREERSYNC_RUNLOG")),
		Spreadsheets: make(map[string]string, len(Vendors)),
		Tuning:       defaultTuning(),
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendSheets
	}

	switch cfg.Backend {
	case BackendSheets:
		creds, err := secrets.GoogleCredentials()
		if err != nil {
			return Config{}, err
		}
		cfg.CredentialsJSON = creds
	case BackendPostgres:
		if cfg.PostgresDSN == "" {
			return Config{}, fmt.Errorf("backend %q needs PG_DSN", cfg.Backend)
		}
	case BackendMemory:
	default:
		return Config{}, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	for _, vendor := range Vendors {
		cfg.Spreadsheets[vendor] = strings.TrimSpace(os.Getenv(strings.ToUpper(vendor) + "_SPREADSHEET_ID"))
	}
	// The kakao crawler predates the per-vendor naming.
	if cfg.Spreadsheets["kakao"] == "" {
		cfg.Spreadsheets["kakao"] = strings.TrimSpace(os.Getenv("SPREADSHEET_ID"))
	}

	if path := strings.TrimSpace(os.Getenv("CAREERSYNC_TUNING")); path != "" {
		if err := OverlayTuning(&cfg.Tuning, path); err != nil {
			return Config{}, fmt.Errorf("tuning overlay %s: %w", path, err)
		}
	}

	return cfg, nil
}

// SpreadsheetFor fails when the vendor's target sheet was never configured;
// callers check this before any network call.
func (c Config) SpreadsheetFor(vendor string) (string, error) {
	if id := c.Spreadsheets[vendor]; id != "" {
		return id, nil
	}
	return "", fmt.Errorf("%s_SPREADSHEET_ID is not set", strings.ToUpper(vendor))
}
