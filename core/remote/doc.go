// Package remote is the request layer over the Campaign Manager API.
//
// Service is the raw API: list one page, get, insert, update. HTTPService
// implements it over REST using Fiber's HTTP client. Client wraps any Service
// with the behaviour the sync engine relies on:
//
//   - List follows page tokens until a page comes back empty or without a token.
//     With an "ids" filter only the page token is sent on continuation pages.
//   - ChunkFetch splits id lists into batches of at most 500.
//   - Get and Update go through a swappable entity cache keyed by
//     type|id|generation; entries above 100,000 encoded characters are not cached.
//   - Every call retries transient failures (rate limits, quotas, 5xx, empty
//     responses) with doubling backoff and returns RetriesExhaustedError when
//     the retries run out. Other failures propagate immediately.
//
// # Usage
//
//	svc, _ := remote.NewHTTPService(cfg.Remote, profileID)
//	client := remote.NewClient(svc, remote.WithGeneration(job.Generation))
//	campaigns, err := client.ChunkFetch(ctx, "Campaigns", "campaigns", ids)
package remote
