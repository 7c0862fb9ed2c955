package helper

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sjzsdu/workbench/helper/clock"
	"github.com/stretchr/testify/assert"
)

func TestProgress(t *testing.T) {
	clk := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	var buf bytes.Buffer
	p := NewProgress(&buf, "check", 4, WithWidth(4), WithClock(clk))

	clk.Advance(2 * time.Second)
	p.Increment()
	assert.Equal(t, "\rcheck [█░░░] 25.0% (1/4) ETA: 6s", buf.String())

	buf.Reset()
	p.Finish()
	assert.Equal(t, "\rcheck [████] 100.0% (4/4) 2s\n", buf.String())

	buf.Reset()
	p.Finish()
	p.Increment()
	assert.Empty(t, buf.String(), "完成后不再输出")
}

func TestProgressOptions(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "fmt", 2, WithWidth(2), WithoutETA(), WithoutPercent())
	p.Increment()
	assert.Equal(t, "\rfmt [█░] (1/2)", buf.String())

	buf.Reset()
	empty := NewProgress(&buf, "none", 0)
	empty.Increment()
	empty.Finish()
	assert.Equal(t, "\n", buf.String())
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"秒", 42 * time.Second, "42s"},
		{"分钟", 3*time.Minute + 5*time.Second, "3m5s"},
		{"小时", 2*time.Hour + 7*time.Minute, "2h7m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
			assert.False(t, strings.Contains(formatDuration(tt.d), " "))
		})
	}
}
