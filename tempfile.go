package capture

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// TempDir returns a fresh temporary directory, in /dev/shm if it exists, or
// otherwise in the OS default temporary directory.
func TempDir() (string, error) {
	// Check if /dev/shm exists first. Don't want to accidentally create a
	// directory in /dev (if someone runs this as root).
	if fi, err := os.Stat("/dev/shm"); err == nil && fi.IsDir() {
		dir, err := os.MkdirTemp("/dev/shm", "capture")
		if err == nil {
			return dir, nil
		}
	}
	return os.MkdirTemp("", "capture")
}

// TempMovieFile returns the path for a fresh movie recording inside a new
// temporary directory. The file does not exist yet; the movie output
// creates it. Each recording session gets its own file, handed to the
// consumer for consumption and deletion.
func TempMovieFile() (string, error) {
	dir, err := TempDir()
	if err != nil {
		return "", fmt.Errorf("making temp dir for recording: %w", err)
	}
	name := fmt.Sprintf("recording-%d.mp4", time.Now().UnixNano())
	return filepath.Join(dir, name), nil
}
