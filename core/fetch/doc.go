// Package fetch provides the document-fetching capability the crawler
// consumes: given a URL, return the raw markup or fail.
//
// The Fetcher interface keeps the sync orchestrator independent of the
// transport, so tests substitute canned documents. The HTTP implementation
// sends a browser user agent and a Korean Accept-Language header, matching
// what the source site serves its localized pages for.
package fetch
