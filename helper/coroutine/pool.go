// Package coroutine 提供有界并发执行工具
package coroutine

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// WorkFunc 是一个返回结果的工作函数
type WorkFunc[T any] func() (T, error)

// Result 保存单个工作函数的执行结果，Index 与输入顺序一致
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

// DefaultMaxWorkers 返回默认并发数
func DefaultMaxWorkers() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}

// CoroutinePool 以固定并发数执行一批工作函数
type CoroutinePool[T any] struct {
	maxWorkers int
}

// NewCoroutinePool 创建协程池，maxWorkers <= 0 时使用默认值
func NewCoroutinePool[T any](maxWorkers int) *CoroutinePool[T] {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers()
	}
	return &CoroutinePool[T]{maxWorkers: maxWorkers}
}

// Execute 执行所有工作函数并按输入顺序返回结果
//
// ctx 取消后尚未开始的工作不再执行，其结果的 Err 为 ctx.Err()。
// 工作函数中的 panic 会被转换为错误。
func (p *CoroutinePool[T]) Execute(ctx context.Context, works []WorkFunc[T]) []Result[T] {
	results := make([]Result[T], len(works))
	if len(works) == 0 {
		return results
	}

	sem := make(chan struct{}, p.maxWorkers)
	var wg sync.WaitGroup

	for i, work := range works {
		results[i].Index = i

		select {
		case <-ctx.Done():
			results[i].Err = ctx.Err()
			continue
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, work WorkFunc[T]) {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					results[i].Err = fmt.Errorf("coroutine panic: %v", r)
				}
			}()

			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			results[i].Value, results[i].Err = work()
		}(i, work)
	}

	wg.Wait()
	return results
}
