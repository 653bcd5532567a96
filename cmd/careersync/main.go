// careersync pulls job postings from corporate career APIs and reconciles
// them into per-vendor spreadsheets: an active sheet kept current and an
// Archive sheet collecting postings that disappeared from the API.
//
// Usage:
//
//	careersync <kakao|baemin|daangn|naver|all>
//	careersync set-credentials < service-account.json
//
// Exit code 0 covers every handled outcome including an empty fetch;
// non-zero means a configuration or fetch failure.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"careersync-engine/internal/config"
	"careersync-engine/internal/domain"
	"careersync-engine/internal/fetch/baemin"
	"careersync-engine/internal/fetch/daangn"
	"careersync-engine/internal/fetch/kakao"
	"careersync-engine/internal/fetch/naver"
	"careersync-engine/internal/fetch/util"
	"careersync-engine/internal/run"
	"careersync-engine/internal/runlog"
	"careersync-engine/internal/secrets"
	"careersync-engine/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <kakao|baemin|daangn|naver|all|set-credentials>\n", os.Args[0])
		os.Exit(2)
	}

	if os.Args[1] == "set-credentials" {
		if err := storeCredentials(os.Stdin); err != nil {
			log.Fatalf("set-credentials: %v", err)
		}
		log.Printf("credentials stored in keychain (service %q)", secrets.KeyringService)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	names, err := selectVendors(os.Args[1])
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Fail on missing target sheets before any network call is made.
	if cfg.Backend == config.BackendSheets {
		for _, name := range names {
			if _, err := cfg.SpreadsheetFor(name); err != nil {
				log.Fatalf("config: %v", err)
			}
		}
	}

	vendors := registry(cfg)

	var rl *runlog.Log
	if cfg.RunlogPath != "" {
		rl, err = runlog.Open(cfg.RunlogPath)
		if err != nil {
			log.Fatalf("runlog: %v", err)
		}
		defer rl.Close()
	}

	ctx := context.Background()
	failed := false

	for _, name := range names {
		st, closeStore, err := openStore(ctx, cfg, name)
		if err != nil {
			log.Printf("[run:%s] store: %v", name, err)
			failed = true
			continue
		}

		start := time.Now()
		rep, err := run.Once(ctx, st, vendors[name])
		closeStore()

		if rl != nil {
			entry := runlog.Entry{
				Vendor:    name,
				StartedAt: start,
				Duration:  time.Since(start),
				Fetched:   rep.Fetched,
				Archived:  rep.Archived,
				Written:   rep.Written,
				Appended:  rep.Appended,
			}
			if err != nil {
				entry.Err = err.Error()
			}
			if rerr := rl.Record(ctx, entry); rerr != nil {
				log.Printf("[runlog] %v", rerr)
			}
		}

		if err != nil {
			log.Printf("[run:%s] failed: %v", name, err)
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

func selectVendors(arg string) ([]string, error) {
	if arg == "all" {
		return config.Vendors, nil
	}
	for _, v := range config.Vendors {
		if v == arg {
			return []string{arg}, nil
		}
	}
	return nil, fmt.Errorf("unknown vendor %q", arg)
}

// registry wires every vendor with its schema and reconciliation policy.
// A new vendor must state its policy here explicitly.
func registry(cfg config.Config) map[string]run.Vendor {
	limiter := util.NewHostLimiter(cfg.Tuning.RequestsPerSecond, cfg.Tuning.Burst)
	var hydrator *util.LocationHydrator
	if cfg.Tuning.HydrateLocations {
		hydrator = util.NewLocationHydrator(limiter)
	}

	return map[string]run.Vendor{
		"kakao": {
			Fetcher: kakao.New(kakao.Config{
				Part:         cfg.Tuning.Kakao.Part,
				EmployeeType: cfg.Tuning.Kakao.EmployeeType,
				Company:      cfg.Tuning.Kakao.Company,
			}, limiter),
			Schema:   domain.CompactSchema,
			Strategy: run.StrategyAppend,
		},
		"baemin": {
			Fetcher: baemin.New(baemin.Config{
				JobGroupCodes:       cfg.Tuning.Baemin.JobGroupCodes,
				EmploymentTypeCodes: cfg.Tuning.Baemin.EmploymentTypeCodes,
			}, limiter, hydrator),
			Schema:   domain.FullSchema,
			Strategy: run.StrategyRefresh,
		},
		"daangn": {
			Fetcher: daangn.New(daangn.Config{
				EmploymentType: cfg.Tuning.Daangn.EmploymentType,
			}, limiter),
			Schema:   domain.FullSchema,
			Strategy: run.StrategyRefresh,
		},
		"naver": {
			Fetcher: naver.New(naver.Config{
				SubJobCodes:  cfg.Tuning.Naver.SubJobCodes,
				EmpTypeCodes: cfg.Tuning.Naver.EmpTypeCodes,
				PageSize:     cfg.Tuning.Naver.PageSize,
			}, limiter, hydrator),
			Schema:   domain.FullSchema,
			Strategy: run.StrategyRefresh,
		},
	}
}

func openStore(ctx context.Context, cfg config.Config, vendor string) (store.Store, func(), error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return store.NewMemory(), func() {}, nil
	case config.BackendPostgres:
		ps, err := store.NewPostgres(ctx, cfg.PostgresDSN, vendor)
		if err != nil {
			return nil, nil, err
		}
		return ps, ps.Close, nil
	default:
		id, err := cfg.SpreadsheetFor(vendor)
		if err != nil {
			return nil, nil, err
		}
		ss, err := store.NewSheets(ctx, cfg.CredentialsJSON, id)
		if err != nil {
			return nil, nil, err
		}
		return ss, func() {}, nil
	}
}

func storeCredentials(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	return secrets.SetGoogleCredentials(string(b))
}
