// Package middleware groups the HTTP middleware used by the server:
//
//   - rayid: assigns a correlation id to every request and exposes it via
//     X-Ray-ID, which core/logger.WithRayID picks up for log correlation.
//   - auth: protects the crawl API with a shared API key.
package middleware
