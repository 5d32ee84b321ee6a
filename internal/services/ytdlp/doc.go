// Package ytdlp wraps the yt-dlp CLI for source discovery and download.
//
// Discovery expands a playlist URL into its individual video entries so each
// recording gets its own queue item. Download fetches a single video into
// the staging directory and reports the final file path.
package ytdlp
