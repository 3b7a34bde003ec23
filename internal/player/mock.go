package player

import (
	"sync"
	"time"
)

// Mock is a test double for Player.
type Mock struct {
	mu sync.Mutex

	playing  bool
	position time.Duration
	duration time.Duration

	LoadCalls  []string
	LoadPlay   []bool
	SeekCalls  []float64
	VolCalls   []float64
	MuteCalls  []bool
	PauseCount int
	ResumeN    int
	StopCount  int

	onLoaded   func(time.Duration)
	onFinished func()
	onError    func(string, error)
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)

// NewMock creates a new mock player for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Load(url string, play bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LoadCalls = append(m.LoadCalls, url)
	m.LoadPlay = append(m.LoadPlay, play)
	m.playing = play
	m.position = 0
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PauseCount++
	m.playing = false
}

func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResumeN++
	m.playing = true
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopCount++
	m.playing = false
}

func (m *Mock) SeekToFraction(fraction float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SeekCalls = append(m.SeekCalls, fraction)
	m.position = time.Duration(float64(m.duration) * fraction)
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VolCalls = append(m.VolCalls, level)
}

func (m *Mock) SetMuted(muted bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MuteCalls = append(m.MuteCalls, muted)
}

func (m *Mock) Position() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.position
}

func (m *Mock) Duration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.duration
}

func (m *Mock) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *Mock) OnLoaded(fn func(time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onLoaded = fn
}

func (m *Mock) OnFinished(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onFinished = fn
}

func (m *Mock) OnError(fn func(string, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onError = fn
}

func (m *Mock) Close() error { return nil }

// --- Test helpers ---

// LoadCount returns how many loads were issued.
func (m *Mock) LoadCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.LoadCalls)
}

// PauseTotal returns how many pauses were issued.
func (m *Mock) PauseTotal() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.PauseCount
}

// Volumes returns a copy of the applied volume levels.
func (m *Mock) Volumes() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]float64, len(m.VolCalls))
	copy(out, m.VolCalls)
	return out
}

// SetPosition sets the reported playback position.
func (m *Mock) SetPosition(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.position = d
}

// SetDuration sets the reported track duration.
func (m *Mock) SetDuration(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.duration = d
}

// FireLoaded simulates metadata-load completion.
func (m *Mock) FireLoaded(d time.Duration) {
	m.mu.Lock()
	m.duration = d
	fn := m.onLoaded
	m.mu.Unlock()
	if fn != nil {
		fn(d)
	}
}

// FireFinished simulates natural end of media.
func (m *Mock) FireFinished() {
	m.mu.Lock()
	m.playing = false
	fn := m.onFinished
	m.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// FireError simulates a playback failure.
func (m *Mock) FireError(op string, err error) {
	m.mu.Lock()
	fn := m.onError
	m.mu.Unlock()
	if fn != nil {
		fn(op, err)
	}
}
