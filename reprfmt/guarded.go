package reprfmt

import (
	"errors"
	"sync"
)

// ErrPoisoned 值在更新过程中发生过 panic
var ErrPoisoned = errors.New("reprfmt: guarded value is poisoned")

// Guarded 读写锁保护的值
// Update 中发生 panic 后值被标记为中毒，渲染结果为 None，读取返回 ErrPoisoned
// 不要在 Update 的回调中渲染同一个 Guarded，会死锁
type Guarded[T any] struct {
	mu       sync.RWMutex
	value    T
	poisoned bool
}

func NewGuarded[T any](value T) *Guarded[T] {
	return &Guarded[T]{value: value}
}

// Load 返回值的副本
func (g *Guarded[T]) Load() (T, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.poisoned {
		var zero T
		return zero, ErrPoisoned
	}
	return g.value, nil
}

// Read 在读锁内访问值
func (g *Guarded[T]) Read(fn func(T)) error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.poisoned {
		return ErrPoisoned
	}
	fn(g.value)
	return nil
}

// Update 在写锁内修改值，fn 中的 panic 会使值中毒并继续向上抛出
func (g *Guarded[T]) Update(fn func(*T)) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.poisoned {
		return ErrPoisoned
	}
	defer func() {
		if r := recover(); r != nil {
			g.poisoned = true
			panic(r)
		}
	}()
	fn(&g.value)
	return nil
}

// Poisoned 是否已中毒
func (g *Guarded[T]) Poisoned() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.poisoned
}

// ClearPoison 清除中毒标记，保留当前值
func (g *Guarded[T]) ClearPoison() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.poisoned = false
}

func (g *Guarded[T]) FmtDisplay() string {
	return g.render(displayMode)
}

func (g *Guarded[T]) FmtDebug() string {
	return g.render(debugMode)
}

func (g *Guarded[T]) render(m mode) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.poisoned {
		return None
	}
	return render(g.value, m)
}
