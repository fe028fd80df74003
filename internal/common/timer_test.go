package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimer(t *testing.T) {
	timer := NewNamedTimer("scan")
	assert.Equal(t, "scan", timer.Name())

	time.Sleep(10 * time.Millisecond)

	duration := timer.Stop()
	assert.GreaterOrEqual(t, duration, 10*time.Millisecond)
	assert.Equal(t, duration, timer.Duration())
	assert.Equal(t, duration, timer.Elapsed())

	str := timer.String()
	assert.Contains(t, str, "scan")
}

func TestTimer_ElapsedWhileRunning(t *testing.T) {
	timer := NewTimer()
	assert.Empty(t, timer.Name())

	time.Sleep(time.Millisecond)
	assert.Positive(t, timer.Elapsed())
	assert.Zero(t, timer.Duration())
}
