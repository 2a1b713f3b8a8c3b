// Package reprgen 根据注解为类型生成格式化、属性枚举、属性访问和字典导出方法。
//
// # 概述
//
// 类型注解开启行为，每个注解对应一个生成的方法：
//   - @Display: FmtDisplay() string，以及 String() string
//   - @Debug: FmtDebug() string，以及 GoString() string
//   - @Dir: Dir() []string
//   - @Getattr: Getattr(name string) (any, error)
//   - @Dict: Dict() map[string]any
//
// 第一个行为注解可以带参数 stringer=false 关闭 String/GoString，以及 output=... 指定输出文件。
// 类型已声明 String 或 GoString 时不会重复生成。
//
// # 基本用法
//
//	// @Display @Debug @Dir
//	// @Format(fmt="Struct: {}({})")
//	type User struct {
//	    Name  string
//	    Token string // @Skip(Display, Debug)
//	    age   int    // @Include
//	}
//
// 生成：
//
//	func (v User) FmtDisplay() string {
//	    return "Struct: User(Name=" + reprfmt.Display(v.Name) + ", age=" + reprfmt.Display(v.age) + ")"
//	}
//
// # 元素注解
//
// 写在字段的注释或行尾注释上，联合类型的变体写在变体类型的注释上：
//
//	@Skip                     跳过全部行为，等价于 @Skip(All) 或 @Skip(*)
//	@Skip(Display, Debug)     跳过指定行为，Str、Repr 分别是 Display、Debug 的别名
//	@Include                  强制包含未导出字段，别名 @NoSkip
//	@Format                   在 Display、Debug 中强制包含
//	@Format(fmt="[{}]")       自定义模板并强制包含
//	@Format(skip)             跳过 Display、Debug
//
// 判定优先级：同一行为的显式跳过 > 强制包含 > 通配跳过 > 是否导出。
//
// # 模板
//
// {} 是占位符，{{ 和 }} 输出字面括号。字段模板按占位符数量展开：
//
//	0 个: name=模板文本
//	1 个: name= + 模板(值)
//	2 个: 模板(name, 值)
//
// 类型模板默认 {}({})，联合类型默认 {}.{}，第一个占位符是类型名，第二个是字段内容。
// 占位符少于两个时不会读取任何字段。
//
// # 联合类型
//
// 带行为注解的接口是联合类型，同一个包中用 @Variant 关联的类型是它的变体：
//
//	// @Display @Debug
//	type Shape interface{ isShape() }
//
//	// @Variant(Shape)
//	type Circle struct{ R float64 }
//
//	// @Variant(Shape) @Skip(Display)
//	type Secret struct{ Key string }
//
// 方法生成在每个变体类型上，Circle{R: 1} 显示为 Shape.Circle(R=1)，
// Secret 的 FmtDisplay 固定返回 <variant skipped>。
// 变体模板：struct{} 默认 {}（变体名），其余默认 {}({})。
//
// # 结构分类
//
//   - struct{}: 输出 Name()
//   - 全部为嵌入字段的结构体、非结构体具名类型: 字段名为 0、1、...，不支持 @Dir、@Getattr、@Dict
//   - 其余结构体: 嵌入字段以类型名作为字段名
//
// 配置错误会定位到出错的元素，该类型不生成任何代码。
package reprgen
