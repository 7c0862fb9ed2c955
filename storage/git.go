package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// CloneOptions 控制仓库克隆
type CloneOptions struct {
	Branch   string    // 为空时使用远端默认分支
	Depth    int       // 默认 1
	Progress io.Writer // 可为空
}

// CloneRepository 把仓库浅克隆到内存，返回工作区的存储
func CloneRepository(ctx context.Context, url string, opts CloneOptions) (*FS, error) {
	if opts.Depth <= 0 {
		opts.Depth = 1
	}

	worktree := memfs.New()
	cloneOpts := &git.CloneOptions{
		URL:          url,
		Depth:        opts.Depth,
		SingleBranch: true,
		Progress:     opts.Progress,
	}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
	}

	if _, err := git.CloneContext(ctx, memory.NewStorage(), worktree, cloneOpts); err != nil {
		return nil, fmt.Errorf("克隆仓库失败 %s: %w", url, err)
	}
	return New(worktree), nil
}
