package reprfmt

import (
	"strings"
	"sync/atomic"

	"github.com/mattn/go-runewidth"
)

// DefaultEllipsisLimit 默认的集合显示宽度上限
const DefaultEllipsisLimit = 100

var ellipsisLimit atomic.Int64

func init() {
	ellipsisLimit.Store(DefaultEllipsisLimit)
}

// SetEllipsisLimit 设置集合渲染的显示宽度上限，进程内全局生效
// 并发读取可能看到旧值
func SetEllipsisLimit(n int) {
	ellipsisLimit.Store(int64(n))
}

// EllipsisLimit 返回当前的显示宽度上限
func EllipsisLimit() int {
	return int(ellipsisLimit.Load())
}

func joinItems(left, right string, items []string) string {
	return joinItemsFunc(left, right, len(items), func(i int) string { return items[i] })
}

// joinItemsFunc 逐个追加元素，追加后宽度超过上限时以 ... 结束
// 元素按需渲染，截断之后的元素不会被渲染
func joinItemsFunc(left, right string, n int, item func(i int) string) string {
	limit := EllipsisLimit()

	var sb strings.Builder
	sb.WriteString(left)
	width := runewidth.StringWidth(left)
	for i := 0; i < n; i++ {
		s := item(i)
		w := runewidth.StringWidth(s)
		if width+2+w > limit {
			sb.WriteString("..., ")
			break
		}
		sb.WriteString(s)
		sb.WriteString(", ")
		width += w + 2
	}
	return strings.TrimSuffix(sb.String(), ", ") + right
}
