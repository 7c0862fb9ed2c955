package dispatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sjzsdu/workbench/engine"
	"github.com/sjzsdu/workbench/helper"
	"github.com/sjzsdu/workbench/helper/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerFunc func(ctx context.Context, req engine.Request) (engine.Response, error)

func (f handlerFunc) Handle(ctx context.Context, req engine.Request) (engine.Response, error) {
	return f(ctx, req)
}

// echo 原样返回内容，内容为 "slow" 时阻塞到 gate 关闭
func echo(gate <-chan struct{}, seen *[]string, mu *sync.Mutex) func() engine.Handler {
	return func() engine.Handler {
		return handlerFunc(func(ctx context.Context, req engine.Request) (engine.Response, error) {
			if mu != nil {
				mu.Lock()
				*seen = append(*seen, req.Content)
				mu.Unlock()
			}
			if req.Content == "slow" {
				<-gate
			}
			if req.Content == "boom" {
				panic("boom")
			}
			return engine.Response{Kind: req.Kind, Formatted: req.Content}, nil
		})
	}
}

func wait(t *testing.T, p *Pending) (engine.Response, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := p.Wait(ctx)
	require.False(t, errors.Is(err, context.DeadlineExceeded), "任务 %d 没有完成", p.ID())
	return resp, err
}

func TestPooledAndFallbackSameShape(t *testing.T) {
	ctx := context.Background()
	pooled := New(Options{Workers: 1})
	defer pooled.Close()
	degraded := New(Options{Workers: 0})
	defer degraded.Close()

	assert.False(t, pooled.Stats().Fallback)
	assert.True(t, degraded.Stats().Fallback)

	for _, d := range []*Dispatcher{pooled, degraded} {
		p := d.Submit(ctx, engine.KindValidate, engine.Request{Path: "a.js", Language: helper.LangJavaScript, Content: "not valid js("})
		assert.NotZero(t, p.ID())
		assert.Equal(t, engine.KindValidate, p.Kind())
		resp, err := wait(t, p)
		require.NoError(t, err)
		assert.Equal(t, engine.KindValidate, resp.Kind)
	}

	bad, err := pooled.Validate(ctx, "a.js", helper.LangJavaScript, "not valid js(")
	require.NoError(t, err)
	assert.False(t, bad.IsValid)

	fallback, err := degraded.Validate(ctx, "a.js", helper.LangJavaScript, "not valid js(")
	require.NoError(t, err)
	assert.True(t, fallback.IsValid, "降级模式总是通过")

	formatted, err := degraded.Format(ctx, "a.js", helper.LangJavaScript, "a=1")
	require.NoError(t, err)
	assert.Equal(t, "a=1", formatted)

	symbols, err := degraded.Symbols(ctx, "a.js", helper.LangJavaScript, "function f() {}")
	require.NoError(t, err)
	assert.Empty(t, symbols.Functions)
	assert.Equal(t, 2.0, testutil.ToFloat64(degraded.metrics.fallback.WithLabelValues("validate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(degraded.metrics.fallback.WithLabelValues("format")))
	assert.Equal(t, 1.0, testutil.ToFloat64(degraded.metrics.fallback.WithLabelValues("symbols")))
}

func TestQueueIsFIFO(t *testing.T) {
	gate := make(chan struct{})
	var mu sync.Mutex
	var seen []string
	d := New(Options{Workers: 1, NewHandler: echo(gate, &seen, &mu)})
	defer d.Close()
	ctx := context.Background()

	first := d.Submit(ctx, engine.KindFormat, engine.Request{Content: "slow"})
	second := d.Submit(ctx, engine.KindFormat, engine.Request{Content: "b"})
	third := d.Submit(ctx, engine.KindFormat, engine.Request{Content: "c"})

	stats := d.Stats()
	assert.Equal(t, 1, stats.Workers)
	assert.Equal(t, 1, stats.Busy)
	assert.Equal(t, 2, stats.Queued)
	assert.Equal(t, 2.0, testutil.ToFloat64(d.metrics.queued))

	close(gate)
	for _, p := range []*Pending{first, second, third} {
		_, err := wait(t, p)
		require.NoError(t, err)
	}
	mu.Lock()
	assert.Equal(t, []string{"slow", "b", "c"}, seen)
	mu.Unlock()
	assert.Equal(t, 3.0, testutil.ToFloat64(d.metrics.completed.WithLabelValues("format")))
}

func TestRepliesRoutedById(t *testing.T) {
	gate := make(chan struct{})
	d := New(Options{Workers: 2, NewHandler: echo(gate, nil, nil)})
	defer d.Close()
	ctx := context.Background()

	slow := d.Submit(ctx, engine.KindFormat, engine.Request{Content: "slow"})
	fast := d.Submit(ctx, engine.KindFormat, engine.Request{Content: "fast"})
	assert.Less(t, slow.ID(), fast.ID())

	resp, err := wait(t, fast)
	require.NoError(t, err)
	assert.Equal(t, "fast", resp.Formatted)

	select {
	case <-slow.Done():
		t.Fatal("慢任务不应提前完成")
	default:
	}

	close(gate)
	resp, err = wait(t, slow)
	require.NoError(t, err)
	assert.Equal(t, "slow", resp.Formatted)
}

func TestPanicRejectsOnlyThatTask(t *testing.T) {
	d := New(Options{Workers: 1, NewHandler: echo(nil, nil, nil)})
	defer d.Close()
	ctx := context.Background()

	_, err := wait(t, d.Submit(ctx, engine.KindFormat, engine.Request{Content: "boom"}))
	require.Error(t, err)
	var taskErr *TaskError
	require.ErrorAs(t, err, &taskErr)
	assert.Equal(t, engine.KindFormat, taskErr.Kind)

	resp, err := wait(t, d.Submit(ctx, engine.KindFormat, engine.Request{Content: "ok"}))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Formatted)
	assert.Equal(t, 1, d.Stats().Workers)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.failed.WithLabelValues("format")))
	assert.Equal(t, 0.0, testutil.ToFloat64(d.metrics.cancelled.WithLabelValues("format")))
}

func TestTimeoutReplacesWorker(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	clk := clock.Fake(time.Unix(0, 0))
	d := New(Options{Workers: 1, Timeout: time.Second, Clock: clk, NewHandler: echo(gate, nil, nil)})
	defer d.Close()
	ctx := context.Background()

	stuck := d.Submit(ctx, engine.KindFormat, engine.Request{Content: "slow"})
	queued := d.Submit(ctx, engine.KindFormat, engine.Request{Content: "next"})
	assert.Equal(t, 1, d.Stats().Queued)

	clk.Advance(time.Second)

	_, err := wait(t, stuck)
	assert.ErrorIs(t, err, ErrTimeout)

	resp, err := wait(t, queued)
	require.NoError(t, err)
	assert.Equal(t, "next", resp.Formatted)

	stats := d.Stats()
	assert.Equal(t, 1, stats.Workers)
	assert.Equal(t, 0, stats.Queued)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.timedOut.WithLabelValues("format")))
}

func TestCloseRejectsOutstanding(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)
	d := New(Options{Workers: 1, NewHandler: echo(gate, nil, nil)})
	ctx := context.Background()

	running := d.Submit(ctx, engine.KindFormat, engine.Request{Content: "slow"})
	queued := d.Submit(ctx, engine.KindFormat, engine.Request{Content: "b"})

	require.NoError(t, d.Close())
	require.NoError(t, d.Close(), "重复关闭无副作用")

	for _, p := range []*Pending{running, queued} {
		_, err := wait(t, p)
		assert.ErrorIs(t, err, ErrClosed)
	}
	_, err := wait(t, d.Submit(ctx, engine.KindFormat, engine.Request{Content: "c"}))
	assert.ErrorIs(t, err, ErrClosed)
	assert.Equal(t, Stats{}, d.Stats())
	assert.Equal(t, 3.0, testutil.ToFloat64(d.metrics.cancelled.WithLabelValues("format")))
	assert.Equal(t, 0.0, testutil.ToFloat64(d.metrics.failed.WithLabelValues("format")))
}

func TestCancelledContext(t *testing.T) {
	gate := make(chan struct{})
	d := New(Options{Workers: 1, NewHandler: echo(gate, nil, nil)})
	defer d.Close()

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := wait(t, d.Submit(cancelled, engine.KindFormat, engine.Request{Content: "a"}))
	assert.ErrorIs(t, err, context.Canceled)

	ctx, cancelQueued := context.WithCancel(context.Background())
	running := d.Submit(context.Background(), engine.KindFormat, engine.Request{Content: "slow"})
	queued := d.Submit(ctx, engine.KindFormat, engine.Request{Content: "b"})
	cancelQueued()
	close(gate)

	_, err = wait(t, running)
	require.NoError(t, err)
	_, err = wait(t, queued)
	assert.ErrorIs(t, err, context.Canceled, "排队期间取消的任务不再执行")

	assert.Equal(t, 2.0, testutil.ToFloat64(d.metrics.cancelled.WithLabelValues("format")))
	assert.Equal(t, 0.0, testutil.ToFloat64(d.metrics.failed.WithLabelValues("format")), "取消不计入失败")
}

func TestKindWithoutWorkerFallsBack(t *testing.T) {
	d := New(Options{
		Workers:     1,
		WorkerKinds: [][]engine.Kind{{engine.KindValidate}},
		NewHandler:  echo(nil, nil, nil),
	})
	defer d.Close()

	resp, err := wait(t, d.Submit(context.Background(), engine.KindFormat, engine.Request{Content: "x=1"}))
	require.NoError(t, err)
	assert.Equal(t, "x=1", resp.Formatted)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.fallback.WithLabelValues("format")))
	assert.Equal(t, 0.0, testutil.ToFloat64(d.metrics.completed.WithLabelValues("format")))
}

func TestDefaultWorkers(t *testing.T) {
	n := DefaultWorkers()
	assert.GreaterOrEqual(t, n, 1)
	assert.LessOrEqual(t, n, 2)

	d := New(Options{Workers: -1})
	defer d.Close()
	assert.Equal(t, n, d.Stats().Workers)
	assert.NotNil(t, d.Registry())
}
