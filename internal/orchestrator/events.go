package orchestrator

import (
	"context"
	"errors"
	"sync"

	"atlas/internal/model"
)

type Entity string

const (
	EntityCode     Entity = "code"
	EntityInstance Entity = "instance"
	EntityRoute    Entity = "route"
	EntitySite     Entity = "site"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// EventKey 分发表的键
type EventKey struct {
	Entity Entity
	Action Action
}

// Event 已提交的变更，只在写入成功后发布
type Event interface {
	Key() EventKey
}

type CodeEvent struct {
	Action   Action
	Code     *model.Code
	Original *model.Code
}

func (e *CodeEvent) Key() EventKey { return EventKey{EntityCode, e.Action} }

// InstanceChanges 一次更新中变化的部分，任务据此重新生成执行计划
type InstanceChanges struct {
	From     model.InstanceStatus `json:"from,omitempty"`
	To       model.InstanceStatus `json:"to,omitempty"`
	Core     bool                 `json:"core,omitempty"`
	Profile  bool                 `json:"profile,omitempty"`
	Package  bool                 `json:"package,omitempty"`
	Settings bool                 `json:"settings,omitempty"`
	// CodeIDs 新引用的 code，部署标志从这些记录中读取
	CodeIDs []int64 `json:"code_ids,omitempty"`
}

func (c InstanceChanges) StatusChanged() bool {
	return c.To != "" && c.To != c.From
}

func (c InstanceChanges) CodeChanged() bool {
	return c.Core || c.Profile || c.Package
}

func (c InstanceChanges) Empty() bool {
	return !c.StatusChanged() && !c.CodeChanged() && !c.Settings
}

type InstanceEvent struct {
	Action   Action
	Instance *model.Instance
	Changes  InstanceChanges
}

func (e *InstanceEvent) Key() EventKey { return EventKey{EntityInstance, e.Action} }

type RouteEvent struct {
	Action   Action
	Route    *model.Route
	Original *model.Route
	// Launched 本次绑定后进入 launching 的实例
	Launched *model.Instance
}

func (e *RouteEvent) Key() EventKey { return EventKey{EntityRoute, e.Action} }

type SiteEvent struct {
	Action Action
	Site   *model.Site
}

func (e *SiteEvent) Key() EventKey { return EventKey{EntitySite, e.Action} }

type EventHandler func(ctx context.Context, e Event) error

// Dispatcher 按 (entity, action) 分发事件，处理函数按注册顺序执行
type Dispatcher struct {
	mu    sync.RWMutex
	table map[EventKey][]EventHandler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{table: make(map[EventKey][]EventHandler)}
}

func (d *Dispatcher) On(key EventKey, h EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.table[key] = append(d.table[key], h)
}

// Publish 所有处理函数都会执行，错误合并返回
func (d *Dispatcher) Publish(ctx context.Context, e Event) error {
	d.mu.RLock()
	handlers := d.table[e.Key()]
	d.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
