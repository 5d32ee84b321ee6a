// Package preflight verifies the runtime requirements of the pipeline before
// the daemon starts accepting work: external binaries on PATH, directory
// permissions, staging free space, and storage reachability.
package preflight
