package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sys/unix"

	"scrivener/internal/config"
	"scrivener/internal/storage"
)

// MinStagingBytes is the minimum free space required in the staging
// directory. A one-hour recording costs roughly 2 GiB in WAV intermediates;
// 10 GiB leaves room for several items in flight.
const MinStagingBytes = 10 << 30

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// minBytes available.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := stat.Bavail * uint64(stat.Bsize)
	if free < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%.1f GiB free, need %.1f GiB", gib(free), gib(minBytes))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%.1f GiB free", gib(free))}
}

// CheckBinary verifies that a required executable resolves on PATH.
func CheckBinary(name, command, purpose string) Result {
	path, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s not found on PATH (required for %s)", command, purpose)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckStorage verifies that the configured storage backend answers a list
// request against the audio container.
func CheckStorage(ctx context.Context, cfg *config.Config, blobs storage.Store) Result {
	const name = "Storage"

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if _, err := blobs.List(checkCtx, cfg.Storage.AudioContainer, ""); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s backend unreachable: %v", cfg.Storage.Backend, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s backend reachable", cfg.Storage.Backend)}
}

func gib(bytes uint64) float64 {
	return float64(bytes) / float64(1<<30)
}
