package main

import (
	"bufio"
	"io"
	"log/slog"
	"strings"
	"sync/atomic"
)

// stdinInput stands in for the button during --dry-run: "p" presses,
// "r" releases. The line reads released until the first "p".
type stdinInput struct {
	r   io.Reader
	low atomic.Bool
}

func newStdinInput(r io.Reader) *stdinInput { return &stdinInput{r: r} }

func (s *stdinInput) Get() bool { return !s.low.Load() }

func (s *stdinInput) run() {
	sc := bufio.NewScanner(s.r)
	for sc.Scan() {
		switch strings.TrimSpace(sc.Text()) {
		case "":
		case "p", "press":
			s.low.Store(true)
		case "r", "release":
			s.low.Store(false)
		default:
			slog.Warn("unknown input, want p or r", "line", sc.Text())
		}
	}
}
