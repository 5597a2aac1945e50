package orchestrator

import (
	"errors"
	"fmt"
	"strings"

	"atlas/internal/model"
)

// ConflictError 违反不变量，请求被同步拒绝，不会产生任务
type ConflictError struct {
	Entity string
	ID     string
	Reason string
}

func (e *ConflictError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s conflict: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("%s %s conflict: %s", e.Entity, e.ID, e.Reason)
}

func conflict(entity string, id interface{}, format string, args ...interface{}) *ConflictError {
	e := &ConflictError{Entity: entity, Reason: fmt.Sprintf(format, args...)}
	if id != nil {
		e.ID = fmt.Sprint(id)
	}
	return e
}

// DependencyError 依赖闭包无法计算：记录缺失或存在环
type DependencyError struct {
	Missing []int64
	Cycle   []int64
}

func (e *DependencyError) Error() string {
	if len(e.Cycle) > 0 {
		parts := make([]string, len(e.Cycle))
		for i, id := range e.Cycle {
			parts[i] = fmt.Sprint(id)
		}
		return "dependency cycle: " + strings.Join(parts, " -> ")
	}
	return fmt.Sprintf("dependency not found: %v", e.Missing)
}

// TransitionError 不允许的状态变更
type TransitionError struct {
	From model.InstanceStatus
	To   model.InstanceStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

var (
	ErrNotFound   = errors.New("record not found")
	ErrValidation = errors.New("validation failed")
)

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
