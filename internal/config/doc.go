// Package config loads and validates scrivener configuration.
//
// Configuration lives in a TOML file (default ~/.config/scrivener/config.toml)
// and is decoded over repository defaults, so a missing file yields a fully
// usable configuration. Load expands paths, normalizes values, and validates
// before returning; callers can assume a returned Config is internally
// consistent.
package config
