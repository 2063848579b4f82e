package endpoint

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/sparqlq/internal/querysparql"
)

// ResultCache stores raw response bodies keyed by query fingerprint and
// endpoint. *store.Store implements it.
type ResultCache interface {
	GetResult(ctx context.Context, fingerprint, endpoint string) ([]byte, bool, error)
	PutResult(ctx context.Context, fingerprint, endpoint string, body []byte) error
}

// CachingExecutor answers from Cache when it can and otherwise asks Next,
// caching responses that decode successfully.
type CachingExecutor struct {
	Next     RawExecutor
	Cache    ResultCache
	Endpoint string // cache key component, usually the endpoint URL

	// Metrics records cache hits and misses. Nil disables recording.
	Metrics *Metrics

	// Logger receives cache logs. Nil means slog.Default().
	Logger *slog.Logger
}

// Query implements Executor.
func (e *CachingExecutor) Query(ctx context.Context, text string) (*ResultSet, error) {
	fingerprint := querysparql.Fingerprint(text)
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}

	body, found, err := e.Cache.GetResult(ctx, fingerprint, e.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("cache lookup: %w", err)
	}
	e.Metrics.recordCache(found)

	if found {
		logger.Debug("result cache hit", "fingerprint", fingerprint, "endpoint", e.Endpoint)
		rs, err := ParseResults(body)
		if err != nil {
			return nil, fmt.Errorf("cached result: %w", err)
		}
		return rs, nil
	}

	logger.Debug("result cache miss", "fingerprint", fingerprint, "endpoint", e.Endpoint)
	body, err = e.Next.QueryRaw(ctx, text)
	if err != nil {
		return nil, err
	}

	rs, err := ParseResults(body)
	if err != nil {
		e.Metrics.recordDecodeFailure()
		return nil, err
	}
	if err := e.Cache.PutResult(ctx, fingerprint, e.Endpoint, body); err != nil {
		return nil, fmt.Errorf("cache store: %w", err)
	}
	return rs, nil
}
