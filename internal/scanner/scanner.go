// Package scanner drives the sequential probe of the numeric store id space.
package scanner

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/locations-cli/internal/extract"
	"github.com/sells-group/locations-cli/internal/fetcher"
	"github.com/sells-group/locations-cli/internal/model"
)

// Options configures a scan.
type Options struct {
	BaseURL         string // site origin, no trailing slash
	MaxID           int    // conservative upper bound on the id space
	StopAfterMisses int    // consecutive-miss threshold for early termination
	MinID           int    // floor below which the threshold never fires
	ProgressEvery   int    // log progress every N ids; 0 disables
}

// Result accumulates the outcome of one scan.
type Result struct {
	Locations    map[string]model.Location
	IDsProbed    int
	StoppedEarly bool
}

// Scanner probes ids 1..MaxID sequentially, handing each fetched body to
// the extractor and folding hits into a result mapping keyed by the
// canonical store id.
type Scanner struct {
	fetcher fetcher.Fetcher
	extract *extract.Extractor
	opts    Options
}

// New creates a Scanner.
func New(f fetcher.Fetcher, ex *extract.Extractor, opts Options) *Scanner {
	return &Scanner{fetcher: f, extract: ex, opts: opts}
}

// Run executes the scan. Transport and extraction failures are never fatal;
// each counts as a miss for its id and the loop moves on. The scan ends when
// MaxID is exhausted or, past the MinID floor, when StopAfterMisses
// consecutive ids yield no record. Run only errors when ctx is cancelled.
func (s *Scanner) Run(ctx context.Context) (*Result, error) {
	log := zap.L().With(zap.String("component", "scanner"))

	result := &Result{Locations: make(map[string]model.Location)}
	misses := 0

	for i := 1; i <= s.opts.MaxID; i++ {
		select {
		case <-ctx.Done():
			return result, eris.Wrap(ctx.Err(), "scanner: interrupted")
		default:
		}

		url := fmt.Sprintf("%s/%d", s.opts.BaseURL, i)
		result.IDsProbed = i

		loc, ok := s.probe(ctx, url)
		if ok {
			// The id parsed from the URL path is authoritative; under
			// redirects it can diverge from the loop counter.
			if loc.ID != strconv.Itoa(i) {
				log.Warn("canonical id diverges from probed id",
					zap.String("canonical_id", loc.ID),
					zap.Int("probed_id", i),
				)
			}
			result.Locations[loc.ID] = *loc
			misses = 0
		} else {
			misses++
		}

		if s.opts.ProgressEvery > 0 && i%s.opts.ProgressEvery == 0 {
			log.Info("scan progress",
				zap.Int("checked", i),
				zap.Int("found", len(result.Locations)),
				zap.Int("consecutive_misses", misses),
			)
		}

		if misses >= s.opts.StopAfterMisses && i > s.opts.MinID {
			log.Info("stopping early",
				zap.Int("consecutive_misses", misses),
				zap.Int("last_id", i),
			)
			result.StoppedEarly = true
			break
		}
	}

	return result, nil
}

// probe fetches one candidate URL and attempts extraction. Any failure on
// the way — transport error, non-2xx, empty body, invalid page — is a miss.
func (s *Scanner) probe(ctx context.Context, url string) (*model.Location, bool) {
	page, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		zap.L().Debug("fetch failed", zap.String("url", url), zap.Error(err))
		return nil, false
	}
	if page.Body == "" {
		return nil, false
	}
	return s.extract.Extract(url, page.Body)
}
