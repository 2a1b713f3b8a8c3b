package structparse

import (
	"go/ast"
	"go/token"
)

// TypeKind 类型声明的种类
type TypeKind int

const (
	KindStruct    TypeKind = iota + 1 // 结构体
	KindInterface                     // 接口
	KindOther                         // 其他具名类型，如 type Celsius float64
)

// ImportInfo 导入信息
type ImportInfo struct {
	Alias       string // 显式别名（如果有）
	PackageName string // 推断的包名（别名优先）
	ImportPath  string // 完整导入路径
}

// MethodInfo 表示方法信息
type MethodInfo struct {
	Name         string // 方法名
	ReceiverName string // 接收器名称
	ReceiverType string // 接收器类型，如 User、*User
	FilePath     string // 方法所在文件
}

// FieldInfo 表示结构体字段信息
type FieldInfo struct {
	Name     string         // 字段名，嵌入字段为类型名
	Type     string         // 字段类型
	Embedded bool           // 是否为嵌入字段
	Exported bool           // 字段名是否导出
	Doc      string         // 字段上方的注释
	Comment  string         // 行尾注释
	Tag      string         // 字段标签
	Pos      token.Position // 字段位置
}

// TypeInfo 表示一个类型声明
type TypeInfo struct {
	Name        string         // 类型名
	PackageName string         // 包名
	FilePath    string         // 所在文件
	Pos         token.Position // 声明位置
	Doc         string         // 类型注释（分组声明优先使用 spec 上的注释）
	Kind        TypeKind
	TypeParams  []string // 类型参数名

	// Underlying 非结构体、非接口类型的底层类型表达式
	Underlying     string
	UnderlyingExpr ast.Expr

	Fields  []FieldInfo  // 结构体字段，声明顺序
	Imports []ImportInfo // 所在文件的导入
}

// PackageInfo 表示一个包目录内的全部类型声明
type PackageInfo struct {
	Name  string      // 包名
	Dir   string      // 包目录
	Types []*TypeInfo // 按文件名、声明顺序排列

	byName  map[string]*TypeInfo
	methods map[string][]MethodInfo // 接收器类型名（去掉 * 和类型参数） -> 方法
}
