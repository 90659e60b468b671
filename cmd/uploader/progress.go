package main

import (
	"fmt"
	"io"
	"time"
)

const uploadSteps = 6

type progress struct {
	w     io.Writer
	total int
	start time.Time
}

func newProgress(w io.Writer, total int) *progress {
	return &progress{w: w, total: total, start: time.Now()}
}

func (p *progress) step(n int, format string, args ...any) {
	fmt.Fprintf(p.w, "[%d/%d] %s\n", n, p.total, fmt.Sprintf(format, args...))
}

func (p *progress) elapsed() time.Duration {
	return time.Since(p.start)
}
