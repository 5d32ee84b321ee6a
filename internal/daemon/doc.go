// Package daemon wraps the workflow manager with single-instance locking and
// the operations the CLI needs against a running or offline queue.
package daemon
