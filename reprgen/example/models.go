package example

import "github.com/donutnomad/reprgen/reprfmt"

//go:generate go run ../.. .

// WithFields 带字段的记录
// @Display
// @Debug
// @Dir
// @Getattr
// @Dict
type WithFields struct {
	dora int    // @Include
	my   string // @Include
	// @Skip(Debug)
	Name string
	// 会话标识不参与格式化
	// @Format(skip)
	Session string
	cache   map[string]int
}

// Count 和 Ratio 作为元组记录的载荷
type (
	Count int
	Ratio float64
)

// Data 元组记录，字段按位置命名
// @Display
// @Debug
// @Format(fmt="Struct: {}({})")
type Data struct {
	Count // @Format(fmt="{}")
	// @Format(fmt="[{}]")
	Ratio
}

// Marker 单元记录
// @Display
// @Debug
// @Dir
type Marker struct{}

// Counter 共享计数器
// @Display
type Counter struct {
	Hits *reprfmt.Guarded[int]
}

// Box 泛型容器
// @Display
// @Dict
type Box[T any] struct {
	Items []T
}

// Shape 图形
// @Display
// @Debug
// @Dir
// @Getattr
// @Dict
type Shape interface {
	isShape()
}

// @Variant(Shape)
type Circle struct {
	Radius float64
	// @Skip(Display)
	area float64
}

// @Variant(Shape)
type Origin struct{}

// Hidden 格式化时整体跳过
// @Variant(Shape)
// @Skip(Display, Debug)
type Hidden struct {
	Secret string
}

func (Circle) isShape() {}
func (Origin) isShape() {}
func (Hidden) isShape() {}

// Event 输入事件
// @Display
// @Debug
// @Format(fmt="{}::{}")
type Event interface {
	isEvent()
}

// @Variant(Event)
type Click int

// @Variant(of=Event)
// @Format(fmt="{}")
type Key string

func (Click) isEvent() {}
func (Key) isEvent()   {}
