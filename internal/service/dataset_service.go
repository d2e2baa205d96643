package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hjkwon/Asset-Dashboard-Backend/internal/ingest"
	"github.com/hjkwon/Asset-Dashboard-Backend/internal/model"
)

// DatasetService produces the normalized dataset, caching it for a short
// validity window so repeated view requests do not refetch the spreadsheet.
// The cached dataset is immutable and safe to share across requests;
// concurrent refreshes collapse into a single fetch.
type DatasetService struct {
	fetcher ingest.CSVFetcher
	locator string
	ttl     time.Duration

	mu     sync.Mutex
	cached *model.Dataset
	group  singleflight.Group
}

// NewDatasetService creates a DatasetService loading from the given
// spreadsheet locator. ttl bounds how long a fetched dataset is reused
// before the next access triggers a fresh ingestion.
func NewDatasetService(fetcher ingest.CSVFetcher, locator string, ttl time.Duration) *DatasetService {
	return &DatasetService{
		fetcher: fetcher,
		locator: locator,
		ttl:     ttl,
	}
}

// Dataset returns the cached dataset when it is still within the validity
// window, otherwise ingests a fresh one. Callers must treat the returned
// dataset as read-only.
func (s *DatasetService) Dataset(ctx context.Context) (*model.Dataset, error) {
	s.mu.Lock()
	if s.cached != nil && time.Since(s.cached.FetchedAt) < s.ttl {
		ds := s.cached
		s.mu.Unlock()
		return ds, nil
	}
	s.mu.Unlock()

	result, err, _ := s.group.Do("dataset", func() (any, error) {
		// The fetch serves every caller collapsed into this flight, so it
		// must not die with the first caller's request context. The client's
		// own fetch timeout still bounds it.
		ds, err := ingest.Load(context.WithoutCancel(ctx), s.fetcher, s.locator)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.cached = ds
		s.mu.Unlock()
		return ds, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*model.Dataset), nil
}

// Invalidate drops the cached dataset so the next access refetches. This
// backs the explicit refresh action; there is no background refresh.
func (s *DatasetService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
