package ingest

import (
	"context"
	"time"

	"github.com/mcordova/intake-dashboard-go/internal/utils"
)

var fetchBackoff = utils.NewBackoff(100*time.Millisecond, 2)

// GetJSONWithRetry fetches url into dst, retrying transient failures with
// exponential backoff.
func GetJSONWithRetry(ctx context.Context, c HTTPClient, url string, dst any) error {
	return fetchBackoff.Do(ctx, func(int) error {
		return getJSON(ctx, c, url, dst)
	})
}
