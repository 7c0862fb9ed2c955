package coroutine

import "context"

// Map 并行地对每个元素调用 mapFunc，结果顺序与 items 一致
func Map[T, R any](ctx context.Context, maxWorkers int, items []T, mapFunc func(T) (R, error)) []Result[R] {
	works := make([]WorkFunc[R], len(items))
	for i := range items {
		item := items[i]
		works[i] = func() (R, error) { return mapFunc(item) }
	}
	return NewCoroutinePool[R](maxWorkers).Execute(ctx, works)
}

// Each 并行地对每个元素调用 eachFunc，返回与 items 等长的错误切片
func Each[T any](ctx context.Context, maxWorkers int, items []T, eachFunc func(T) error) []error {
	results := Map(ctx, maxWorkers, items, func(item T) (struct{}, error) {
		return struct{}{}, eachFunc(item)
	})

	errs := make([]error, len(results))
	for i, r := range results {
		errs[i] = r.Err
	}
	return errs
}

// FirstError 返回第一个非空错误
func FirstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
