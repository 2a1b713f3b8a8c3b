package reprgen

import (
	"fmt"
	"go/token"

	"github.com/cockroachdb/errors"
)

// ConfigError 注解配置错误，定位到出错的元素
// 出现配置错误的类型不会生成任何代码
type ConfigError struct {
	Pos   token.Position // 出错元素的位置
	Type  string         // 所属类型
	cause error
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s: %s: %v", e.Pos, e.Type, e.cause)
	}
	return fmt.Sprintf("%s: %v", e.Type, e.cause)
}

func (e *ConfigError) Unwrap() error { return e.cause }

// newConfigError 创建配置错误
func newConfigError(pos token.Position, typeName, format string, args ...any) error {
	return &ConfigError{Pos: pos, Type: typeName, cause: errors.Newf(format, args...)}
}

// asConfigError 为普通错误补充位置信息，已是 ConfigError 的原样返回
func asConfigError(err error, pos token.Position, typeName string) error {
	if err == nil {
		return nil
	}
	var ce *ConfigError
	if errors.As(err, &ce) {
		return err
	}
	return &ConfigError{Pos: pos, Type: typeName, cause: err}
}
