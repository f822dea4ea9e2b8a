// Package dataset loads the leaderboard tables from a directory or a web server.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/huangsam/leaderboard/internal/contract"
	"github.com/huangsam/leaderboard/schema"
	"golang.org/x/time/rate"
)

// Table file names, relative to the data source.
const (
	FeaturesFile     = "project_features.json"
	NormalizeFile    = "project_features_normalize.json"
	LocalizationFile = "project_features_localization.json"
	LinksFile        = "project_features_links.json"
	GroupsFile       = "project_features_groups.json"
)

// errNotFound is returned by a fetcher when a table does not exist.
var errNotFound = errors.New("table not found")

// fetcher returns the raw body of one table.
type fetcher interface {
	fetch(ctx context.Context, name string) ([]byte, error)
}

// Source implements contract.DataSource over a directory or an http(s) base URL.
type Source struct {
	location string
	fetcher  fetcher
}

var _ contract.DataSource = &Source{} // Compile-time check

// NewSource returns the data source described by cfg. Remote bodies are cached
// in cache when it is not nil.
func NewSource(cfg *contract.Config, cache contract.CacheStore) *Source {
	if contract.IsRemoteSource(cfg.DataSource) {
		return &Source{
			location: cfg.DataSource,
			fetcher: &httpFetcher{
				base:    cfg.DataSource,
				client:  &http.Client{Timeout: cfg.Timeout},
				cache:   cache,
				ttl:     cfg.CacheTTL,
				limiter: rate.NewLimiter(rate.Every(fetchInterval), fetchBurst),
			},
		}
	}
	return &Source{
		location: cfg.DataSource,
		fetcher:  dirFetcher{dir: cfg.DataSource},
	}
}

// Location returns the directory or base URL of the source.
func (s *Source) Location() string {
	return s.location
}

// Load fetches and parses all tables. The features table is required; the
// other tables are empty when absent.
func (s *Source) Load(ctx context.Context) (*schema.RawTables, error) {
	body, err := s.fetcher.fetch(ctx, FeaturesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s from %s: %w", FeaturesFile, s.location, err)
	}
	tables := &schema.RawTables{}
	if tables.Entries, err = parseFeatures(body); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FeaturesFile, err)
	}

	optional := []struct {
		name  string
		parse func([]byte) error
	}{
		{NormalizeFile, func(b []byte) (err error) { tables.Normalize, err = parseNormalize(b); return }},
		{LocalizationFile, func(b []byte) (err error) { tables.Descriptions, err = parseLocalization(b); return }},
		{LinksFile, func(b []byte) (err error) { tables.Links, err = parseLinks(b); return }},
		{GroupsFile, func(b []byte) (err error) { tables.Groups, err = parseGroups(b); return }},
	}
	for _, table := range optional {
		body, err := s.fetcher.fetch(ctx, table.name)
		if errors.Is(err, errNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load %s from %s: %w", table.name, s.location, err)
		}
		if err := table.parse(body); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", table.name, err)
		}
	}

	for feature, divisor := range tables.Normalize {
		if feature == divisor {
			contract.LogWarn("ignoring normalization", fmt.Errorf("feature %q is normalized by itself", feature))
			delete(tables.Normalize, feature)
		}
	}
	return tables, nil
}
