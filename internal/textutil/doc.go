// Package textutil provides text helpers for filename sanitization and
// display titles derived from media file names and URLs.
package textutil
