package orchestrator

import (
	"context"
	"sort"

	"atlas/internal/model"
)

// CodeLookup 批量读取 code，缺失的 id 不出现在结果中
type CodeLookup interface {
	GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Code, error)
}

// Resolver 计算 package 的传递依赖闭包
type Resolver struct {
	codes CodeLookup
}

func NewResolver(codes CodeLookup) *Resolver {
	return &Resolver{codes: codes}
}

// Resolve 返回升序排列、去重后的闭包，包含输入本身
// 依赖缺失或存在环时返回 *DependencyError，不会部分返回
func (r *Resolver) Resolve(ctx context.Context, packages []int64) ([]int64, error) {
	return r.resolve(ctx, packages, nil)
}

// Check 校验即将写入的 code 的依赖，overlay 覆盖存储中的同 id 记录
func (r *Resolver) Check(ctx context.Context, code *model.Code) error {
	roots := append([]int64(nil), code.Dependencies...)
	overlay := map[int64]*model.Code{}
	if code.Id != 0 {
		overlay[code.Id] = code
		roots = []int64{code.Id}
	}
	_, err := r.resolve(ctx, roots, overlay)
	return err
}

const (
	unvisited = iota
	visiting
	done
)

func (r *Resolver) resolve(ctx context.Context, roots []int64, overlay map[int64]*model.Code) ([]int64, error) {
	graph := make(map[int64]*model.Code, len(roots))
	for id, c := range overlay {
		graph[id] = c
	}

	// 按层批量加载，避免逐条查询
	frontier := uniq(roots)
	for len(frontier) > 0 {
		var need []int64
		for _, id := range frontier {
			if _, ok := graph[id]; !ok {
				need = append(need, id)
			}
		}
		if len(need) > 0 {
			found, err := r.codes.GetByIDs(ctx, need)
			if err != nil {
				return nil, err
			}
			var missing []int64
			for _, id := range need {
				c, ok := found[id]
				if !ok {
					missing = append(missing, id)
					continue
				}
				graph[id] = c
			}
			if len(missing) > 0 {
				sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
				return nil, &DependencyError{Missing: missing}
			}
		}
		var next []int64
		for _, id := range frontier {
			for _, dep := range graph[id].Dependencies {
				if _, ok := graph[dep]; !ok {
					next = append(next, dep)
				}
			}
		}
		frontier = uniq(next)
	}

	state := make(map[int64]int, len(graph))
	var stack []int64
	var visit func(id int64) error
	visit = func(id int64) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			cycle := []int64{id}
			for i := len(stack) - 1; i >= 0; i-- {
				cycle = append([]int64{stack[i]}, cycle...)
				if stack[i] == id {
					break
				}
			}
			return &DependencyError{Cycle: cycle}
		}
		state[id] = visiting
		stack = append(stack, id)
		deps := uniq(graph[id].Dependencies)
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[id] = done
		return nil
	}

	for _, id := range uniq(roots) {
		if err := visit(id); err != nil {
			return nil, err
		}
	}

	closure := make([]int64, 0, len(state))
	for id := range state {
		closure = append(closure, id)
	}
	sort.Slice(closure, func(i, j int) bool { return closure[i] < closure[j] })
	return closure, nil
}

// uniq 去重并升序
func uniq(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
