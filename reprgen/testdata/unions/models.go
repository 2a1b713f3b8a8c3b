package unions

// Shape 图形
// @Display
// @Debug
// @Dir
// @Getattr
// @Dict
type Shape interface {
	isShape()
}

// Circle 圆
// @Variant(Shape)
type Circle struct {
	Radius float64
	// @Skip(Dict)
	label string
}

// @Variant(Shape)
type Origin struct{}

// @Variant(Shape)
// @Format(fmt="<{}>")
type Rect struct {
	W, H int
}

// Secret 展示时整体跳过
// @Variant(of=Shape)
// @Skip(Display)
type Secret struct {
	Code int
}

func (Circle) isShape() {}
func (Origin) isShape() {}
func (Rect) isShape()   {}
func (Secret) isShape() {}

// Token 词法单元
// @Display
// @Debug
// @Format(fmt="{}::{}")
type Token interface {
	isToken()
}

// @Variant(Token)
type Word string

// @Variant(Token)
// @Format(fmt="{}")
type Number int

func (Word) isToken()   {}
func (Number) isToken() {}
