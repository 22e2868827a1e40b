// Package discover finds patch note documents on the public news index. It
// extracts per-game update references (version, URL, title, release date)
// from the index markup and orders them newest first. A headless browser
// variant expands the index for deep historical pulls.
package discover
