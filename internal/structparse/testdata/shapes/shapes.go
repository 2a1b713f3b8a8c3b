package shapes

import (
	"time"

	yaml "gopkg.in/yaml.v3"
)

// User 用户
// @Display
type User struct {
	// @Skip(Debug)
	Name string
	age  int // @Include
	A, B int
	time.Duration
	*Base
	_ int
}

type Base struct{}

// @Variant(Shape)
type Celsius float64

type (
	// Shape 形状
	Shape interface{ isShape() }

	Box[K comparable, V any] struct {
		Items map[K]V
	}
)

type Alias = User

var _ = yaml.Marshal

func (u User) String() string { return u.Name }

func (b *Box[K, V]) Len() int { return len(b.Items) }
