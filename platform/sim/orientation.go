package sim

import (
	"sync"

	capture "github.com/Istiakmorsalin/Signal-iOS"
	"github.com/Istiakmorsalin/Signal-iOS/platform"
)

// OrientationSource is the simulated device orientation source. Set drives
// orientation changes from tests and demos; subscribers run on the caller's
// goroutine, standing in for the UI context.
type OrientationSource struct {
	mu      sync.Mutex
	current capture.DeviceOrientation
	nextID  int
	subs    map[int]func(capture.DeviceOrientation)
}

var _ platform.OrientationSource = (*OrientationSource)(nil)

// Current returns the current raw device orientation.
func (s *OrientationSource) Current() capture.DeviceOrientation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe registers fn for orientation changes.
func (s *OrientationSource) Subscribe(fn func(capture.DeviceOrientation)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.subs == nil {
		s.subs = map[int]func(capture.DeviceOrientation){}
	}
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Set changes the raw device orientation and notifies subscribers.
func (s *OrientationSource) Set(raw capture.DeviceOrientation) {
	s.mu.Lock()
	s.current = raw
	subs := make([]func(capture.DeviceOrientation), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()
	for _, fn := range subs {
		fn(raw)
	}
}

// Subscribers returns the number of active subscriptions, for test
// inspection.
func (s *OrientationSource) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// AudioActivity is the simulated audio policy layer. It counts balanced
// Begin/End pairs and can be configured to deny the token.
type AudioActivity struct {
	deny bool

	mu     sync.Mutex
	active int
	begins int
	ends   int
}

var _ platform.AudioActivity = (*AudioActivity)(nil)

// Begin acquires the audio-activity token.
func (a *AudioActivity) Begin() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.deny {
		return capture.ErrAudioActivityDenied
	}
	a.active++
	a.begins++
	return nil
}

// End releases the audio-activity token.
func (a *AudioActivity) End() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.active--
	a.ends++
}

// Active returns the number of outstanding tokens, for test inspection.
func (a *AudioActivity) Active() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active
}

// Pairs returns total Begin and End calls, for verifying pairing.
func (a *AudioActivity) Pairs() (begins, ends int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.begins, a.ends
}
