package records

import "time"

// WithFields 带字段的记录
// @Display
// @Debug
// @Dir
// @Getattr
// @Dict
type WithFields struct {
	// @Skip(Debug)
	Name string
	dora int // @Include
	my   int // @Include
	// @Skip(Display)
	Hidden string
	secret string
	_      int
}

// Count 和 Values 没有注解，作为载荷使用
type (
	Count  int
	Values []float64
)

// Data 元组记录
// @Display
// @Debug
// @Format(fmt="Struct: {}({})")
type Data struct {
	Count
	Values
}

func (d Data) GoString() string { return "Data" }

// Empty 单元记录
// @Display
type Empty struct{}

// Celsius 非结构体具名类型
// @Display(stringer=false)
type Celsius float64

// Timeout 底层类型引用其他包
// @Debug
type Timeout time.Duration

// Box 泛型记录
// @Display
// @Getattr
type Box[T any] struct {
	Items []T
	Label string `json:"label"`
}

// Literals 字段模板的三种占位符数量
// @Display
type Literals struct {
	A int    // @Format(fmt="{}: {}")
	B string // @Format(fmt="<{}>")
	C int    // @Format(fmt="fixed")
}

// Brief 外层模板只填类型名
// @Display
// @Format(fmt="<{}>")
type Brief struct {
	X int
}

// Banner 外层模板没有占位符
// @Debug
// @Format(fmt="banner")
type Banner struct {
	X int
}
