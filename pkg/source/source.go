// Package source loads event lists from their origin.
//
// Load dispatches on the reference's form:
//   - *.json files → the JSON schedule format (pkg/io)
//   - *.ics files → iCalendar (pkg/source/ics)
//   - http:// and https:// URLs → fetched iCalendar feeds
//
// Anything else is rejected with an UNSUPPORTED_FORMAT error naming the
// reference, so callers can surface the supported formats.
package source

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Bravo-Actual/timegrid/pkg/cache"
	"github.com/Bravo-Actual/timegrid/pkg/errors"
	"github.com/Bravo-Actual/timegrid/pkg/event"
	"github.com/Bravo-Actual/timegrid/pkg/io"
	"github.com/Bravo-Actual/timegrid/pkg/source/ics"
)

// Options configures loading.
type Options struct {
	// Zone interprets floating ICS timestamps and all-day dates.
	// Empty means UTC. JSON sources carry explicit offsets and ignore it.
	Zone string

	// Refresh bypasses the feed cache for remote sources.
	Refresh bool

	// Cache and Keyer back the feed cache for remote sources. A nil Cache
	// disables caching.
	Cache cache.Cache
	Keyer cache.Keyer

	// CacheTTL overrides the source-stage TTL for fetched feeds.
	CacheTTL time.Duration

	// Logger receives fetch and parse progress. Nil discards.
	Logger *log.Logger
}

// Load reads events from ref, which may be a local .json or .ics file or
// an http(s) URL pointing at an ICS feed.
func Load(ctx context.Context, ref string, opts Options) ([]event.Event, error) {
	if ref == "" {
		return nil, errors.New(errors.ErrCodeInvalidSource, "no source given")
	}

	loc := time.UTC
	if opts.Zone != "" {
		var err error
		loc, err = time.LoadLocation(opts.Zone)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidZone, err, "zone %s", opts.Zone)
		}
	}

	if isRemote(ref) {
		fetcher := ics.NewFetcher(opts.Cache, opts.Keyer, opts.CacheTTL, opts.Logger)
		body, err := fetcher.Fetch(ctx, ref, opts.Refresh)
		if err != nil {
			return nil, err
		}
		return ics.Parse(body, ics.Options{Zone: loc, Logger: opts.Logger})
	}

	switch strings.ToLower(filepath.Ext(ref)) {
	case ".json":
		return io.ImportJSON(ref)
	case ".ics":
		body, err := os.ReadFile(ref)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "source %s", ref)
			}
			return nil, errors.Wrap(errors.ErrCodeInvalidSource, err, "read %s", ref)
		}
		return ics.Parse(body, ics.Options{Zone: loc, Logger: opts.Logger})
	default:
		return nil, errors.New(errors.ErrCodeUnsupported,
			"unsupported source format %q (want .json, .ics, or an http(s) feed URL)", ref)
	}
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
