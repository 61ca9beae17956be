// Package preflight provides readiness checks run before a batch starts.
//
// A failed required check aborts the run up front instead of wasting
// hours on a doomed batch: the external binaries must resolve, the scan
// root must be readable, and the filesystem needs headroom for encoder
// outputs.
package preflight

import (
	"fmt"
	"os"
	"os/exec"

	"golang.org/x/sys/unix"

	"vconvert/internal/textutil"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// MinFreeBytes is the free-space floor below which a run refuses to
// start; a full disk mid-encode leaves partial outputs everywhere.
const MinFreeBytes = 2 << 30

// CheckBinary verifies that the named executable resolves on PATH.
func CheckBinary(name, command string) Result {
	path, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s not found on PATH", command)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckDirectoryAccess verifies the path is a readable, listable directory.
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
	if err := unix.Access(path, unix.R_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (readable)", path)}
}

// CheckDiskSpace verifies the filesystem holding path has at least
// MinFreeBytes available.
func CheckDiskSpace(name, path string) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	free := int64(stat.Bavail) * stat.Bsize
	if free < MinFreeBytes {
		return Result{Name: name, Detail: fmt.Sprintf("only %s free on %s", textutil.FormatSize(free), path)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s free", textutil.FormatSize(free))}
}

// RunAll executes every check a run depends on: both external binaries,
// the scan root, and free space on it.
func RunAll(ffmpeg, ffprobe, root string) []Result {
	return []Result{
		CheckBinary("ffmpeg", ffmpeg),
		CheckBinary("ffprobe", ffprobe),
		CheckDirectoryAccess("scan root", root),
		CheckDiskSpace("disk space", root),
	}
}

// FirstFailure returns the first failed check, if any.
func FirstFailure(results []Result) (Result, bool) {
	for _, r := range results {
		if !r.Passed {
			return r, true
		}
	}
	return Result{}, false
}
