package preflight

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"capstan/internal/metadata"
	"capstan/internal/speakers"
)

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

// CheckSpeakerMap verifies that the configured speaker map loads cleanly.
func CheckSpeakerMap(path string) Result {
	const name = "Speaker map"

	if path == "" {
		return Result{Name: name, Passed: true, Detail: "Not configured"}
	}
	m, err := speakers.Load(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d speakers", m.Len())}
}

// CheckEpisodeTable verifies that the configured episode metadata table loads cleanly.
func CheckEpisodeTable(path string) Result {
	const name = "Episode table"

	if path == "" {
		return Result{Name: name, Passed: true, Detail: "Not configured"}
	}
	table, err := metadata.Load(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d episodes", table.Len())}
}
