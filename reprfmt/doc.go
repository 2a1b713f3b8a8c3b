// Package reprfmt 是 reprgen 生成代码使用的运行时格式化协议。
//
// Display 和 Debug 分别渲染值的展示形式和调试形式：
//   - nil、nil 指针渲染为 None，非 nil 指针渲染其指向的值
//   - 实现了 Displayer/Debugger 的值调用自身的方法
//   - 字符串带引号，数字、布尔值原样输出
//   - 切片、数组、列表渲染为 [a, b]，集合渲染为 {a, b}，映射渲染为 {k: v}
//   - Guarded 包装的值在中毒后渲染为 None
//
// 集合按显示宽度截断，超出 EllipsisLimit 的部分以 ... 结尾。
package reprfmt
