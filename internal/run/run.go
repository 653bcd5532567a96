// Package run sequences one crawl: fetch, reconcile, persist, report.
package run

import (
	"context"
	"fmt"
	"log"

	"careersync-engine/internal/domain"
	"careersync-engine/internal/fetch"
	"careersync-engine/internal/reconcile"
	"careersync-engine/internal/store"
)

const (
	// StrategyRefresh rewrites the active table every run and archives
	// postings the vendor stopped reporting.
	StrategyRefresh = "refresh"
	// StrategyAppend only ever adds unseen postings; nothing is archived.
	StrategyAppend = "append"
)

// Vendor bundles a fetcher with its table schema and reconciliation policy.
// The policy is a deliberate per-vendor choice, not a default.
type Vendor struct {
	Fetcher  fetch.Fetcher
	Schema   domain.Schema
	Strategy string
}

type Report struct {
	Vendor string
	Empty  bool // nothing fetched, tables untouched
	reconcile.Result
}

// Once executes a single fetch-reconcile pass for one vendor. An empty
// fetch is a clean no-op; every table read happens before any write, so a
// failed fetch leaves the target untouched.
func Once(ctx context.Context, st store.Store, v Vendor) (Report, error) {
	name := v.Fetcher.Name()

	postings, err := v.Fetcher.Fetch(ctx)
	if err != nil {
		return Report{Vendor: name}, err
	}

	postings = domain.DropInvalid(postings)
	if len(postings) == 0 {
		log.Printf("[run:%s] no postings fetched; leaving tables untouched", name)
		return Report{Vendor: name, Empty: true}, nil
	}

	var res reconcile.Result
	switch v.Strategy {
	case StrategyRefresh:
		res, err = reconcile.RefreshWithArchive(ctx, st, v.Schema, postings)
	case StrategyAppend:
		res, err = reconcile.AppendNew(ctx, st, v.Schema, postings)
	default:
		return Report{Vendor: name}, fmt.Errorf("vendor %s: unknown strategy %q", name, v.Strategy)
	}
	if err != nil {
		return Report{Vendor: name}, fmt.Errorf("reconcile %s: %w", name, err)
	}

	if v.Strategy == StrategyAppend {
		log.Printf("[run:%s] fetched=%d appended=%d", name, res.Fetched, res.Appended)
	} else {
		log.Printf("[run:%s] fetched=%d archived=%d written=%d", name, res.Fetched, res.Archived, res.Written)
	}
	return Report{Vendor: name, Result: res}, nil
}
