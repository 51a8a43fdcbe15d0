package history

import (
	"context"
	"log/slog"
	"sync"
)

// Warm prefetches the last days calendar dates (ending yesterday) with a
// fixed pool of workers, so the first dashboard load does not pay the
// fetch latency. Errors are logged and skipped; a failed date will simply
// be fetched again on first request.
func (s *Store) Warm(ctx context.Context, days, workers int) {
	if days <= 0 {
		return
	}
	if workers <= 0 {
		workers = 1
	}

	dates := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for date := range dates {
				if _, err := s.fetch(ctx, date, false); err != nil {
					slog.Warn("history warm-up fetch failed", "date", date, "err", err)
				}
			}
		}()
	}

	yesterday := s.now().AddDate(0, 0, -1)
feed:
	for i := 0; i < days; i++ {
		select {
		case <-ctx.Done():
			break feed
		case dates <- yesterday.AddDate(0, 0, -i).Format(DateLayout):
		}
	}
	close(dates)
	wg.Wait()

	slog.Info("history warm-up complete", "days", days, "cached", len(s.Dates()))
}
