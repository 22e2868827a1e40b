// Package notify publishes cache-invalidation signals after crawl runs.
//
// The presentation layer caches rendered patch views; when a run persists new
// patches for a game, an Event is published on a redis pub/sub channel so
// those caches refresh. The publisher is optional: with no redis address
// configured the crawler runs without it and only logs the outcome.
package notify
