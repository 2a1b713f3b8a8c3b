package reprgen

import (
	"go/token"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/donutnomad/reprgen/internal/structparse"
	"github.com/donutnomad/reprgen/internal/xast"
	"github.com/donutnomad/reprgen/plugin"
)

// ShapeKind 类型的结构分类
type ShapeKind int

const (
	ShapeRecord      ShapeKind = iota + 1 // 具名字段结构体
	ShapeRecordUnit                       // struct{}
	ShapeRecordTuple                      // 全部为嵌入字段的结构体，或非结构体具名类型
	ShapeUnion                            // 带 @Variant 变体的接口
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeRecord:
		return "record"
	case ShapeRecordUnit:
		return "unit"
	case ShapeRecordTuple:
		return "tuple"
	case ShapeUnion:
		return "union"
	default:
		return "unknown"
	}
}

// VariantKind 变体的结构分类
type VariantKind int

const (
	VariantUnit  VariantKind = iota + 1 // struct{}
	VariantTuple                        // 非结构体具名类型，单个无名载荷
	VariantNamed                        // 具名字段结构体
)

// Field 记录或变体的一个字段
type Field struct {
	Element
	Access string // 读取字段值的表达式，接收器为 v

	embedded bool
}

// Variant 联合类型的一个变体
type Variant struct {
	Element    // 变体本身，Name 为变体类型名
	Kind       VariantKind
	TypeParams []string
	Fields     []Field // unit 为空，tuple 为单个载荷
}

// TypeShape 一个带注解类型的结构描述
type TypeShape struct {
	Name        string
	PackageName string
	TypeParams  []string
	Pos         token.Position
	Kind        ShapeKind
	Axes        []Axis // 注解开启的行为

	Fields   []Field
	Variants []*Variant

	// Format 类型级 @Format(fmt="...")
	Format    string
	HasFormat bool

	// Imports 类型转换引用的包
	Imports []structparse.ImportInfo
}

// Receiver 变体方法的接收器类型
func (v *Variant) Receiver() string {
	return xast.InstanceType(v.Name, v.TypeParams)
}

// Receiver 方法接收器类型，如 Box[T]
func (s *TypeShape) Receiver() string {
	return xast.InstanceType(s.Name, s.TypeParams)
}

// Elements 全部元素，变体字段以 Variant.field 命名
func (s *TypeShape) Elements() []Element {
	var out []Element
	for _, f := range s.Fields {
		out = append(out, f.Element)
	}
	for _, v := range s.Variants {
		out = append(out, v.Element)
		for _, f := range v.Fields {
			el := f.Element
			el.Name = v.Name + "." + f.Name
			out = append(out, el)
		}
	}
	return out
}

// BuildShape 根据解析结果构建类型结构
func BuildShape(pkg *structparse.PackageInfo, info *structparse.TypeInfo) (*TypeShape, error) {
	annotations := plugin.ParseAnnotations(info.Doc)

	shape := &TypeShape{
		Name:        info.Name,
		PackageName: info.PackageName,
		TypeParams:  info.TypeParams,
		Pos:         info.Pos,
		Axes:        behaviorAxes(annotations),
	}

	format, ok, err := typeLiteral(annotations)
	if err != nil {
		return nil, asConfigError(err, info.Pos, info.Name)
	}
	shape.Format, shape.HasFormat = format, ok

	switch info.Kind {
	case structparse.KindStruct:
		fields, err := structFields(info, false)
		if err != nil {
			return nil, err
		}
		switch {
		case len(fields) == 0:
			shape.Kind = ShapeRecordUnit
		case lo.EveryBy(fields, func(f Field) bool { return f.embedded }):
			shape.Kind = ShapeRecordTuple
			for i := range fields {
				fields[i].Name = strconv.Itoa(i)
			}
		default:
			shape.Kind = ShapeRecord
		}
		shape.Fields = fields
	case structparse.KindOther:
		shape.Kind = ShapeRecordTuple
		shape.Fields = []Field{payloadField(info, "0")}
		shape.Imports = conversionImports(info)
	case structparse.KindInterface:
		shape.Kind = ShapeUnion
		variants, imports, err := findVariants(pkg, info)
		if err != nil {
			return nil, err
		}
		if len(variants) == 0 {
			return nil, newConfigError(info.Pos, info.Name,
				"接口 %s 没有任何 @Variant(%s) 变体，不支持无标签的联合类型", info.Name, info.Name)
		}
		shape.Variants = variants
		shape.Imports = imports
	}
	return shape, nil
}

// structFields 收集结构体字段，忽略空白字段
func structFields(info *structparse.TypeInfo, variant bool) ([]Field, error) {
	var fields []Field
	for _, f := range info.Fields {
		if f.Name == "_" {
			continue
		}
		markers, err := ParseMarkers(f.Doc + "\n" + f.Comment)
		if err != nil {
			return nil, asConfigError(err, f.Pos, info.Name)
		}
		fields = append(fields, Field{
			Element: Element{
				Name:     f.Name,
				Exported: f.Exported,
				Variant:  variant,
				Markers:  markers,
				Pos:      f.Pos,
			},
			Access:   "v." + f.Name,
			embedded: f.Embedded,
		})
	}
	return fields, nil
}

// payloadField 非结构体具名类型的唯一载荷，通过转换为底层类型读取
func payloadField(info *structparse.TypeInfo, name string) Field {
	return Field{
		Element: Element{Name: name, Exported: true, Pos: info.Pos},
		Access:  conversion(info.Underlying, "v"),
	}
}

// conversion 生成类型转换表达式
// 指针、函数、通道类型需要加括号
func conversion(typ, value string) string {
	if strings.HasPrefix(typ, "*") || strings.HasPrefix(typ, "func") || strings.HasPrefix(typ, "<-") {
		return "(" + typ + ")(" + value + ")"
	}
	return typ + "(" + value + ")"
}

// conversionImports 底层类型引用的包
func conversionImports(info *structparse.TypeInfo) []structparse.ImportInfo {
	var imports []structparse.ImportInfo
	for _, q := range xast.PackageQualifiers(info.UnderlyingExpr) {
		if imp, ok := info.ImportFor(q); ok {
			imports = append(imports, imp)
		}
	}
	return imports
}

// findVariants 按源码顺序查找联合类型的变体
func findVariants(pkg *structparse.PackageInfo, union *structparse.TypeInfo) ([]*Variant, []structparse.ImportInfo, error) {
	var variants []*Variant
	var imports []structparse.ImportInfo

	for _, info := range pkg.Types {
		annotations := plugin.ParseAnnotations(info.Doc)
		of, ok := variantOf(annotations)
		if !ok || of != union.Name {
			continue
		}
		if axes := behaviorAxes(annotations); len(axes) > 0 {
			return nil, nil, newConfigError(info.Pos, union.Name,
				"变体 %s 不能单独声明 @%s，行为由联合类型 %s 统一声明", info.Name, axes[0].Annotation(), union.Name)
		}
		if info.Kind == structparse.KindInterface {
			return nil, nil, newConfigError(info.Pos, union.Name, "变体 %s 不能是接口", info.Name)
		}

		markers, err := ParseMarkers(info.Doc)
		if err != nil {
			return nil, nil, asConfigError(err, info.Pos, union.Name)
		}
		v := &Variant{
			Element: Element{
				Name:    info.Name,
				Variant: true,
				Markers: markers,
				Pos:     info.Pos,
			},
			TypeParams: info.TypeParams,
		}

		switch info.Kind {
		case structparse.KindStruct:
			fields, err := structFields(info, true)
			if err != nil {
				return nil, nil, asConfigError(err, info.Pos, union.Name)
			}
			v.Fields = fields
			v.Kind = VariantNamed
			if len(fields) == 0 {
				v.Kind = VariantUnit
			}
		default:
			v.Kind = VariantTuple
			payload := payloadField(info, info.Name)
			payload.Variant = true
			v.Fields = []Field{payload}
			imports = append(imports, conversionImports(info)...)
		}
		variants = append(variants, v)
	}
	return variants, imports, nil
}

// checkVariantLinks 检查包内每个 @Variant 都指向带行为注解的接口
func checkVariantLinks(pkg *structparse.PackageInfo) []error {
	var errs []error
	for _, info := range pkg.Types {
		of, ok := variantOf(plugin.ParseAnnotations(info.Doc))
		if !ok {
			continue
		}
		if of == "" {
			errs = append(errs, newConfigError(info.Pos, info.Name, "@Variant 需要指定联合类型，例如 @Variant(Shape)"))
			continue
		}
		union := pkg.Lookup(of)
		switch {
		case union == nil:
			errs = append(errs, newConfigError(info.Pos, info.Name, "@Variant(%s) 指向的类型在包 %s 中不存在", of, pkg.Name))
		case union.Kind != structparse.KindInterface:
			errs = append(errs, newConfigError(info.Pos, info.Name, "@Variant(%s) 必须指向接口类型", of))
		case len(behaviorAxes(plugin.ParseAnnotations(union.Doc))) == 0:
			errs = append(errs, newConfigError(info.Pos, info.Name, "@Variant(%s) 指向的接口没有任何行为注解", of))
		}
	}
	return errs
}

// checkClashes 检查字段名和已有方法是否与生成的方法冲突
func checkClashes(pkg *structparse.PackageInfo, shape *TypeShape) error {
	check := func(typeName string, info *structparse.TypeInfo) error {
		for _, axis := range shape.Axes {
			method := axis.Method()
			if pkg.HasMethod(typeName, method) {
				return newConfigError(info.Pos, shape.Name, "类型 %s 已声明方法 %s，与生成的方法冲突", typeName, method)
			}
			if info.HasField(method) {
				return newConfigError(info.Pos, shape.Name, "类型 %s 的字段 %s 与生成的方法同名", typeName, method)
			}
		}
		return nil
	}

	if shape.Kind != ShapeUnion {
		return check(shape.Name, pkg.Lookup(shape.Name))
	}
	for _, v := range shape.Variants {
		if err := check(v.Name, pkg.Lookup(v.Name)); err != nil {
			return err
		}
	}
	return nil
}

// checkNamedAxes Dir、Getattr、Dict 需要字段名
func checkNamedAxes(shape *TypeShape) error {
	named := lo.Filter(shape.Axes, func(a Axis, _ int) bool { return !a.Formatting() })
	if len(named) == 0 {
		return nil
	}
	if shape.Kind == ShapeRecordTuple {
		return newConfigError(shape.Pos, shape.Name, "@%s 需要具名字段，%s 没有字段名", named[0].Annotation(), shape.Name)
	}
	for _, v := range shape.Variants {
		if v.Kind == VariantTuple {
			return newConfigError(v.Pos, shape.Name, "@%s 需要具名字段，变体 %s 没有字段名", named[0].Annotation(), v.Name)
		}
	}
	return nil
}
