package executor

import (
	"fmt"
	"sort"
	"sync"

	"buildforge/pkg/types"
)

// Factory 根据任务定义中的配置构建一个动作实例。
type Factory func(config map[string]any) (types.Action, error)

// Registry 管理动作工厂的注册和查找。
type Registry struct {
	factories map[string]Factory
	mu        sync.RWMutex
}

// NewRegistry 创建一个新的动作注册表。
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register 为给定类型注册动作工厂。
// 如果该类型已注册，则返回错误。
func (r *Registry) Register(kind string, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("不能注册空工厂")
	}
	if kind == "" {
		return fmt.Errorf("动作类型不能为空")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("动作类型已注册: %s", kind)
	}

	r.factories[kind] = factory
	return nil
}

// MustRegister 注册动作工厂，如果出错则 panic。
func (r *Registry) MustRegister(kind string, factory Factory) {
	if err := r.Register(kind, factory); err != nil {
		panic(err)
	}
}

// RegisterAlias 为已注册的动作类型创建别名。
func (r *Registry) RegisterAlias(aliasKind, targetKind string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if target, exists := r.factories[targetKind]; exists {
		r.factories[aliasKind] = target
	}
}

// Get 按类型获取动作工厂，如果不存在则返回错误。
func (r *Registry) Get(kind string) (Factory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[kind]
	if !exists {
		return nil, NewActionNotFoundError(kind)
	}
	return factory, nil
}

// Has 检查给定类型是否已注册。
func (r *Registry) Has(kind string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, exists := r.factories[kind]
	return exists
}

// Kinds 返回所有已注册的动作类型（按字典序）。
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.factories))
	for k := range r.factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// Build 按类型构建动作实例。
func (r *Registry) Build(kind string, config map[string]any) (types.Action, error) {
	factory, err := r.Get(kind)
	if err != nil {
		return nil, err
	}
	return factory(config)
}

// DefaultRegistry 是全局默认动作注册表。
var DefaultRegistry = NewRegistry()

// MustRegister 在默认注册表中注册动作工厂，如果出错则 panic。
func MustRegister(kind string, factory Factory) {
	DefaultRegistry.MustRegister(kind, factory)
}

// RegisterAlias 在默认注册表中为已注册的动作类型创建别名。
func RegisterAlias(aliasKind, targetKind string) {
	DefaultRegistry.RegisterAlias(aliasKind, targetKind)
}
