package backend

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	capture "github.com/Istiakmorsalin/Signal-iOS"
	"github.com/Istiakmorsalin/Signal-iOS/platform"
)

// BeginVideo starts recording to a fresh temporary file. The done callback
// runs on an arbitrary goroutine once the file is finalized or recording
// fails. A recording that the capture stack reports as failed but that
// demonstrably finalized its file is a success; the error is suppressed.
func (c *core) BeginVideo(o capture.Orientation, done func(VideoResult)) error {
	c.q.MustBeOn()
	if !c.movieOK {
		return capture.ErrMovieOutputUnavailable
	}
	c.mu.Lock()
	active := c.videoActive
	c.mu.Unlock()
	if active || c.movie.Recording() {
		return capture.ErrRecordingActive
	}

	path, err := capture.TempMovieFile()
	if err != nil {
		return fmt.Errorf("preparing recording file: %w", err)
	}

	c.movie.SetOrientation(o)
	watch := watchFinalize(path, c.log)

	c.mu.Lock()
	c.videoActive = true
	c.mu.Unlock()

	c.movie.StartRecording(path, func(res platform.RecordingResult) {
		watch.close()
		c.mu.Lock()
		c.videoActive = false
		c.mu.Unlock()

		vr := VideoResult{Path: res.Path}
		if res.Err != nil {
			if res.FinalizedDespiteError || watch.finalized() {
				c.log.Debug("suppressing spurious recording error, file finalized", "error", res.Err, "path", res.Path)
			} else {
				vr.Err = fmt.Errorf("recording movie: %w", res.Err)
			}
		}
		done(vr)
	})
	return nil
}

// CompleteVideo stops the active recording. Finalization is asynchronous.
func (c *core) CompleteVideo() {
	c.q.MustBeOn()
	if c.movieOK && c.movie.Recording() {
		c.movie.StopRecording()
	}
}

// CancelVideo always fails: no hardware cancellation primitive exists and
// no user-facing path triggers one. Ending a recording is a complete, not
// a cancel.
func (c *core) CancelVideo() error {
	c.q.MustBeOn()
	return capture.ErrVideoCancelUnsupported
}

// finalizeWatch observes the recording file's directory so a completion
// error can be cross-checked against whether the file actually
// materialized.
type finalizeWatch struct {
	path    string
	watcher *fsnotify.Watcher
	written atomic.Bool
}

// watchFinalize starts watching for the recording file. Watching is a
// best-effort signal; a watcher setup failure degrades to stat-only checks.
func watchFinalize(path string, log *slog.Logger) *finalizeWatch {
	w := &finalizeWatch{path: path}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Debug("new file change watcher", "error", err)
		return w
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		log.Debug("registering file change watcher for recording dir", "error", err)
		watcher.Close()
		return w
	}
	w.watcher = watcher

	go func() {
		for {
			select {
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != path {
					continue
				}
				if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
					continue
				}
				if fi, err := os.Stat(path); err == nil && fi.Size() > 0 {
					w.written.Store(true)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Debug("watching recording file", "error", err)
			}
		}
	}()
	return w
}

// finalized reports whether the recording file materialized with content.
// The direct stat covers events the watcher had not processed yet when the
// completion callback fired.
func (w *finalizeWatch) finalized() bool {
	if w.written.Load() {
		return true
	}
	fi, err := os.Stat(w.path)
	return err == nil && fi.Size() > 0
}

func (w *finalizeWatch) close() {
	if w.watcher != nil {
		w.watcher.Close()
	}
}
