// Package xast 提供 go/ast 节点到源码文本的转换等小工具
package xast

import (
	"go/ast"
	"go/types"
	"strings"
	"unicode"
	"unicode/utf8"
)

// GetFieldType 返回类型表达式的源码文本，如 map[string]*pkg.User
func GetFieldType(expr ast.Expr) string {
	if expr == nil {
		return ""
	}
	return types.ExprString(expr)
}

// EmbeddedName 返回嵌入字段的字段名
// *pkg.User -> User, Box[T] -> Box
func EmbeddedName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		return e.Name
	case *ast.StarExpr:
		return EmbeddedName(e.X)
	case *ast.SelectorExpr:
		return e.Sel.Name
	case *ast.IndexExpr:
		return EmbeddedName(e.X)
	case *ast.IndexListExpr:
		return EmbeddedName(e.X)
	case *ast.ParenExpr:
		return EmbeddedName(e.X)
	default:
		return ""
	}
}

// IsExported 判断标识符是否导出
func IsExported(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.IsUpper(r)
}

// TypeParamNames 返回类型参数名列表
// type Box[K comparable, V any] -> [K V]
func TypeParamNames(list *ast.FieldList) []string {
	if list == nil {
		return nil
	}
	var names []string
	for _, field := range list.List {
		for _, name := range field.Names {
			names = append(names, name.Name)
		}
	}
	return names
}

// InstanceType 返回带类型参数的类型名，用作方法接收器
// Box + [K V] -> Box[K, V]
func InstanceType(name string, typeParams []string) string {
	if len(typeParams) == 0 {
		return name
	}
	return name + "[" + strings.Join(typeParams, ", ") + "]"
}

// PackageQualifiers 返回类型表达式中引用的包名
// map[string]*time.Time -> [time]
func PackageQualifiers(expr ast.Expr) []string {
	var names []string
	seen := make(map[string]bool)
	ast.Inspect(expr, func(n ast.Node) bool {
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		if ident, ok := sel.X.(*ast.Ident); ok && !seen[ident.Name] {
			seen[ident.Name] = true
			names = append(names, ident.Name)
		}
		return false
	})
	return names
}
