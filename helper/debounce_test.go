package helper

import (
	"testing"
	"time"

	"github.com/sjzsdu/workbench/helper/clock"
	"github.com/stretchr/testify/assert"
)

func TestDebouncerRunsLastTrigger(t *testing.T) {
	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	d := NewDebouncer(clk, 200*time.Millisecond)

	var calls []string
	d.Trigger(func() { calls = append(calls, "v1") })
	clk.Advance(100 * time.Millisecond)
	d.Trigger(func() { calls = append(calls, "v2") })
	clk.Advance(150 * time.Millisecond)
	assert.Empty(t, calls, "第二次触发重新计时")

	clk.Advance(50 * time.Millisecond)
	assert.Equal(t, []string{"v2"}, calls)
	assert.False(t, d.Pending())
}

func TestDebouncerFlushAndStop(t *testing.T) {
	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	d := NewDebouncer(clk, time.Second)

	count := 0
	d.Trigger(func() { count++ })
	assert.True(t, d.Flush())
	assert.Equal(t, 1, count)
	assert.False(t, d.Flush())

	clk.Advance(2 * time.Second)
	assert.Equal(t, 1, count, "flush 之后计时器不应再次触发")

	d.Trigger(func() { count++ })
	d.Stop()
	clk.Advance(2 * time.Second)
	d.Trigger(func() { count++ })
	clk.Advance(2 * time.Second)
	assert.Equal(t, 1, count)
}
