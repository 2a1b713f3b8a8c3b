package reprfmt

import (
	"errors"
	"fmt"
)

// ErrNoAttribute 属性不存在，或被 @Skip 排除
var ErrNoAttribute = errors.New("no such attribute")

// AttributeError 由生成的 Getattr 返回
type AttributeError struct {
	Owner string // 类型名，联合类型的变体为 Union.Variant
	Attr  string
}

// NewAttributeError 创建属性错误
func NewAttributeError(owner, attr string) error {
	return &AttributeError{Owner: owner, Attr: attr}
}

func (e *AttributeError) Error() string {
	return fmt.Sprintf("'%s' has no attribute '%s'", e.Owner, e.Attr)
}

func (e *AttributeError) Is(target error) bool {
	return target == ErrNoAttribute
}
