package plugin

import (
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Registry 注解到生成器的映射
type Registry struct {
	mu           sync.RWMutex
	byAnnotation map[string]Generator
	byName       map[string]Generator
}

func NewRegistry() *Registry {
	return &Registry{
		byAnnotation: make(map[string]Generator),
		byName:       make(map[string]Generator),
	}
}

// Register 注册生成器，生成器名或任一注解已被占用时返回错误
func (r *Registry) Register(gen Generator) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := gen.Name()
	if _, ok := r.byName[name]; ok {
		return errors.Newf("生成器 %q 已注册", name)
	}
	for _, ann := range gen.Annotations() {
		if existing, ok := r.byAnnotation[ann]; ok {
			return errors.Newf("注解 @%s 已被生成器 %q 绑定，无法被 %q 再次绑定", ann, existing.Name(), name)
		}
	}

	r.byName[name] = gen
	for _, ann := range gen.Annotations() {
		r.byAnnotation[ann] = gen
	}
	return nil
}

func (r *Registry) MustRegister(gen Generator) {
	if err := r.Register(gen); err != nil {
		panic(err)
	}
}

// Lookup 按注解名查找生成器
func (r *Registry) Lookup(annotation string) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gen, ok := r.byAnnotation[annotation]
	return gen, ok
}

// Generators 按名称排序的全部生成器
func (r *Registry) Generators() []Generator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gens := lo.Values(r.byName)
	slices.SortFunc(gens, func(a, b Generator) int { return strings.Compare(a.Name(), b.Name()) })
	return gens
}

// Annotations 排序后的全部注解名
func (r *Registry) Annotations() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	anns := lo.Keys(r.byAnnotation)
	slices.Sort(anns)
	return anns
}

// DispatchTargets 将扫描结果分发给生成器，key 为生成器名
// 一个目标带有同一生成器的多个注解（如 @Display @Debug）时只分发一次
func (r *Registry) DispatchTargets(result *ScanResult) map[string][]*AnnotatedTarget {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dispatch := make(map[string][]*AnnotatedTarget)
	for _, target := range result.All() {
		seen := make(map[string]bool)
		for _, ann := range target.Annotations {
			gen, ok := r.byAnnotation[ann.Name]
			if !ok || seen[gen.Name()] || !slices.Contains(gen.SupportedTargets(), target.Target.Kind) {
				continue
			}
			seen[gen.Name()] = true
			dispatch[gen.Name()] = append(dispatch[gen.Name()], target)
		}
	}
	return dispatch
}

var globalRegistry = NewRegistry()

// Global 返回全局注册表，main 包在 init 中注册生成器
func Global() *Registry { return globalRegistry }

func Register(gen Generator) error { return globalRegistry.Register(gen) }

func MustRegister(gen Generator) { globalRegistry.MustRegister(gen) }
