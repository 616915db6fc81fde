package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickReportsPerInterval(t *testing.T) {
	var now time.Duration
	p := NewProfiler(WithClock(func() time.Duration { return now }), WithInterval(time.Second))

	for range 49 {
		now += 20 * time.Millisecond
		assert.False(t, p.Tick())
	}
	now += 20 * time.Millisecond
	assert.True(t, p.Tick())
	assert.InDelta(t, 50.0, p.Last().FPS, 0.01)
	assert.Greater(t, p.Last().SysMB, 0.0)

	now += time.Second / 2
	assert.False(t, p.Tick())
}

func TestDefaultClock(t *testing.T) {
	p := NewProfiler(WithInterval(time.Hour))
	assert.False(t, p.Tick())
	assert.Zero(t, p.Last().FPS)
}
