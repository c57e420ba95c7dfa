package led

import (
	"sync"

	"scenenode-go/color"
)

// DefaultClockHz matches an 80 MHz APB clock with divider 1.
const DefaultClockHz = 80_000_000

// Recorder is an in-memory Transmitter. It keeps every frame it is given.
type Recorder struct {
	mu     sync.Mutex
	Hz     uint32
	Err    error // returned by Transmit when set
	frames []color.Frame
}

func (r *Recorder) ClockHz() (uint32, error) {
	if r.Hz == 0 {
		return DefaultClockHz, nil
	}
	return r.Hz, nil
}

func (r *Recorder) Transmit(f *color.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.frames = append(r.frames, *f)
	return nil
}

// Frames returns a copy of the recorded frames.
func (r *Recorder) Frames() []color.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]color.Frame(nil), r.frames...)
}

// Colors decodes the recorded frames.
func (r *Recorder) Colors() []color.RGB {
	fs := r.Frames()
	out := make([]color.RGB, 0, len(fs))
	for i := range fs {
		c, err := fs[i].RGB()
		if err != nil {
			continue
		}
		out = append(out, c)
	}
	return out
}
