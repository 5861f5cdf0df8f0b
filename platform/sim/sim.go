// Package sim implements a simulated capture stack for tests and demos. It
// enforces the same rules a real stack does: configuration brackets around
// session mutation, at most one video and one audio input, exclusive device
// locks, and asynchronous completion callbacks on arbitrary goroutines.
package sim

import (
	"fmt"
	"sync"
	"time"

	capture "github.com/Istiakmorsalin/Signal-iOS"
	"github.com/Istiakmorsalin/Signal-iOS/platform"
)

// Opts configures the simulated capture stack. The zero value is a stack
// with a back and a front camera, a microphone, the modern photo output and
// a working movie output.
type Opts struct {
	// Devices available to the stack. If empty, a default back and front
	// camera are used.
	Devices []capture.Device

	// LegacyPhoto makes the capability probe report no modern photo
	// output, forcing the legacy still-image variant.
	LegacyPhoto bool

	// NoMovie makes NewMovieOutput report video capture unavailable.
	NoMovie bool

	// NoMicrophone makes AudioDevice fail, as on a device without
	// microphone permission.
	NoMicrophone bool

	// DenyAudio makes the audio policy layer refuse the audio-activity
	// token.
	DenyAudio bool

	// FailDeviceLock makes every device-configuration lock attempt fail.
	FailDeviceLock bool

	// FailPhotoOutputAttach makes attaching the photo output to the
	// session fail. This is the fatal initialization case.
	FailPhotoOutputAttach bool

	// FailMovieOutputAttach makes attaching the movie output fail. Photo
	// capture proceeds, video capture becomes unavailable.
	FailMovieOutputAttach bool

	// PhotoErr is delivered instead of image data for every photo capture.
	PhotoErr error

	// PhotoDelay delays photo completion, for exercising concurrent
	// in-flight requests.
	PhotoDelay time.Duration

	// RecordErr is delivered on recording completion without finalizing
	// the file: a genuine recording failure.
	RecordErr error

	// SpuriousRecordErr finalizes the recording file but still reports an
	// error, reproducing the capture-stack quirk the adapter must
	// suppress.
	SpuriousRecordErr bool
}

// Provider is the simulated capture stack.
type Provider struct {
	opts Opts

	mu       sync.Mutex
	devices  map[capture.Position]*VideoDevice
	orient   *OrientationSource
	audio    *AudioActivity
	sessions []*Session
}

// Check that Provider implements the platform interface.
var _ platform.Provider = (*Provider)(nil)

// NewProvider creates a simulated capture stack.
func NewProvider(opts Opts) *Provider {
	if len(opts.Devices) == 0 {
		opts.Devices = []capture.Device{
			{ID: "sim:back", Name: "Simulated Back Camera", Position: capture.PositionBack, MaxZoom: 8.0},
			{ID: "sim:front", Name: "Simulated Front Camera", Position: capture.PositionFront, MaxZoom: 2.0},
		}
	}
	p := &Provider{
		opts:    opts,
		devices: map[capture.Position]*VideoDevice{},
		orient:  &OrientationSource{current: capture.DeviceOrientationPortrait},
		audio:   &AudioActivity{deny: opts.DenyAudio},
	}
	for _, d := range opts.Devices {
		if _, ok := p.devices[d.Position]; !ok {
			p.devices[d.Position] = &VideoDevice{info: d, failLock: opts.FailDeviceLock, zoom: 1.0}
		}
	}
	return p
}

// NewSession returns a fresh simulated session.
func (p *Provider) NewSession() platform.Session {
	s := &Session{failPhotoAttach: p.opts.FailPhotoOutputAttach, failMovieAttach: p.opts.FailMovieOutputAttach}
	p.mu.Lock()
	p.sessions = append(p.sessions, s)
	p.mu.Unlock()
	return s
}

// LastSession returns the most recently created session, for test
// inspection.
func (p *Provider) LastSession() *Session {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.sessions) == 0 {
		return nil
	}
	return p.sessions[len(p.sessions)-1]
}

// VideoDevice returns the camera at pos. The same instance is returned for
// every call, so device state persists across camera switches.
func (p *Provider) VideoDevice(pos capture.Position) (platform.VideoDevice, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	d, ok := p.devices[pos]
	if !ok {
		return nil, fmt.Errorf("position %v: %w", pos, capture.ErrNoMatchingDevice)
	}
	return d, nil
}

// Device returns the concrete simulated device at pos for test inspection.
func (p *Provider) Device(pos capture.Position) *VideoDevice {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.devices[pos]
}

// AudioDevice returns the simulated microphone.
func (p *Provider) AudioDevice() (platform.AudioDevice, error) {
	if p.opts.NoMicrophone {
		return nil, fmt.Errorf("no microphone available")
	}
	return audioDevice{}, nil
}

// ListDevices returns the configured device inventory.
func (p *Provider) ListDevices() []capture.Device {
	devs := make([]capture.Device, len(p.opts.Devices))
	copy(devs, p.opts.Devices)
	return devs
}

// NewPhotoOutput returns the modern photo output unless the stack is
// configured legacy-only.
func (p *Provider) NewPhotoOutput() (platform.PhotoOutput, bool) {
	if p.opts.LegacyPhoto {
		return nil, false
	}
	return &PhotoOutput{err: p.opts.PhotoErr, delay: p.opts.PhotoDelay}, true
}

// NewStillImageOutput returns the legacy still-image output.
func (p *Provider) NewStillImageOutput() platform.StillImageOutput {
	return &StillImageOutput{err: p.opts.PhotoErr, delay: p.opts.PhotoDelay}
}

// NewMovieOutput returns a movie output, unless configured unavailable.
func (p *Provider) NewMovieOutput() (platform.MovieOutput, bool) {
	if p.opts.NoMovie {
		return nil, false
	}
	return &MovieOutput{recordErr: p.opts.RecordErr, spurious: p.opts.SpuriousRecordErr}, true
}

// AudioActivity returns the simulated audio policy layer.
func (p *Provider) AudioActivity() platform.AudioActivity {
	return p.audio
}

// Orientation returns the simulated orientation source.
func (p *Provider) Orientation() platform.OrientationSource {
	return p.orient
}

// SimOrientation returns the concrete orientation source, for driving
// orientation changes from tests and demos.
func (p *Provider) SimOrientation() *OrientationSource {
	return p.orient
}

// SimAudioActivity returns the concrete audio policy layer for inspection.
func (p *Provider) SimAudioActivity() *AudioActivity {
	return p.audio
}

// Session is the simulated capture session. Mutation outside a
// configuration bracket panics: that is a programming error in the caller,
// never a runtime condition.
type Session struct {
	failPhotoAttach bool
	failMovieAttach bool

	mu          sync.Mutex
	configuring bool
	running     bool
	video       platform.VideoDevice
	audio       platform.AudioDevice
	outputs     []platform.Output
}

var _ platform.Session = (*Session)(nil)

// BeginConfiguration opens a configuration bracket. Brackets do not nest.
func (s *Session) BeginConfiguration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.configuring {
		panic("sim: nested configuration bracket")
	}
	s.configuring = true
}

// CommitConfiguration closes the configuration bracket.
func (s *Session) CommitConfiguration() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.configuring {
		panic("sim: commit without begin")
	}
	s.configuring = false
}

func (s *Session) requireBracket(op string) {
	if !s.configuring {
		panic("sim: " + op + " outside configuration bracket")
	}
}

// AddVideoInput attaches a camera. At most one video input may be attached.
func (s *Session) AddVideoInput(d platform.VideoDevice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireBracket("AddVideoInput")
	if s.video != nil {
		return fmt.Errorf("video input already attached")
	}
	s.video = d
	return nil
}

// RemoveVideoInput detaches the camera.
func (s *Session) RemoveVideoInput(d platform.VideoDevice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireBracket("RemoveVideoInput")
	if s.video == d {
		s.video = nil
	}
}

// AddAudioInput attaches a microphone. At most one audio input may be
// attached.
func (s *Session) AddAudioInput(d platform.AudioDevice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireBracket("AddAudioInput")
	if s.audio != nil {
		return fmt.Errorf("audio input already attached")
	}
	s.audio = d
	return nil
}

// RemoveAudioInput detaches the microphone.
func (s *Session) RemoveAudioInput(d platform.AudioDevice) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireBracket("RemoveAudioInput")
	if s.audio == d {
		s.audio = nil
	}
}

// AddOutput attaches a capture output.
func (s *Session) AddOutput(o platform.Output) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requireBracket("AddOutput")
	switch o.Kind() {
	case "photo", "stillImage":
		if s.failPhotoAttach {
			return fmt.Errorf("cannot attach %s output", o.Kind())
		}
	case "movie":
		if s.failMovieAttach {
			return fmt.Errorf("cannot attach movie output")
		}
	}
	s.outputs = append(s.outputs, o)
	return nil
}

// Start starts the session.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
}

// Stop stops the session.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
}

// Running reports whether the session is started.
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// VideoInput returns the attached camera, for test inspection.
func (s *Session) VideoInput() platform.VideoDevice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.video
}

// AudioInput returns the attached microphone, for test inspection.
func (s *Session) AudioInput() platform.AudioDevice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.audio
}

// Outputs returns the attached outputs, for test inspection.
func (s *Session) Outputs() []platform.Output {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]platform.Output, len(s.outputs))
	copy(out, s.outputs)
	return out
}

type audioDevice struct{}

func (audioDevice) ID() string { return "sim:mic" }
