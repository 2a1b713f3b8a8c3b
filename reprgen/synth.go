package reprgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/donutnomad/gg"
	"github.com/samber/lo"
)

// synthesizer 为一个类型生成方法
// 先完成全部校验与生成，任何错误都不会留下部分输出
type synthesizer struct {
	shape *TypeShape

	// display、debug 渲染函数与属性错误构造函数的限定名
	display, debug, attrError string

	// stringer 是否生成 String/GoString
	stringer bool
	// declared 检查类型是否已有同名的方法或字段
	declared func(typeName, name string) bool
}

// synthesize 生成类型的全部声明
func (s *synthesizer) synthesize() ([]any, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	var decls []any
	switch s.shape.Kind {
	case ShapeUnion:
		for _, v := range s.shape.Variants {
			items, err := s.variantDecls(v)
			if err != nil {
				return nil, err
			}
			decls = append(decls, items...)
		}
	default:
		items, err := s.recordDecls()
		if err != nil {
			return nil, err
		}
		decls = append(decls, items...)
	}
	return decls, nil
}

// validate 校验全部模板，不论元素是否被包含
func (s *synthesizer) validate() error {
	shape := s.shape
	if err := checkNamedAxes(shape); err != nil {
		return err
	}

	outerDefault := defaultRecordFormat
	if shape.Kind == ShapeUnion {
		outerDefault = defaultUnionFormat
	}
	if err := checkSlots(s.outerLiteral(outerDefault), 2); err != nil {
		return asConfigError(err, shape.Pos, shape.Name)
	}

	checkFields := func(fields []Field) error {
		for _, f := range fields {
			for _, m := range f.Markers {
				if !m.HasLiteral {
					continue
				}
				if err := checkSlots(m.Literal, 2); err != nil {
					return asConfigError(err, f.Pos, shape.Name)
				}
			}
		}
		return nil
	}

	if err := checkFields(shape.Fields); err != nil {
		return err
	}
	for _, v := range shape.Variants {
		limit := 2
		if v.Kind == VariantUnit {
			limit = 1
		}
		for _, m := range v.Markers {
			if !m.HasLiteral {
				continue
			}
			if err := checkSlots(m.Literal, limit); err != nil {
				return asConfigError(err, v.Pos, shape.Name)
			}
		}
		if v.Kind == VariantNamed {
			if err := checkFields(v.Fields); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *synthesizer) outerLiteral(def string) string {
	if s.shape.HasFormat {
		return s.shape.Format
	}
	return def
}

// render 字段值在格式化轴上的渲染表达式
func (s *synthesizer) render(axis Axis, access string) operand {
	fn := s.display
	if axis == AxisDebug {
		fn = s.debug
	}
	return code(fmt.Sprintf("%s(%s)", fn, access))
}

// entries 已包含字段的格式化条目
//
//	0 个占位符: name=literal
//	1 个占位符: name= + literal(value)
//	2 个占位符: literal(name, value)
func (s *synthesizer) entries(fields []Field, axis Axis) ([]operand, error) {
	var out []operand
	for _, f := range fields {
		d := Resolve(f.Element, axis)
		if !d.Included {
			continue
		}
		literal := defaultElementFormat
		if d.HasLiteral {
			literal = d.Literal
		}
		t, err := parseTemplateMax(literal, 2)
		if err != nil {
			return nil, asConfigError(err, f.Pos, s.shape.Name)
		}
		value := s.render(axis, f.Access)
		switch t.Slots {
		case 0:
			out = append(out, concat(lit(f.Name+"="), t.Render()))
		case 1:
			out = append(out, concat(lit(f.Name+"="), t.Render(value)))
		case 2:
			out = append(out, t.Render(lit(f.Name), value))
		}
	}
	return out, nil
}

// fill 按占位符数量填充：0 个原样，1 个填 first，2 个填 first 和 second
// second 只在需要时才会被构建
func fill(t *Template, first operand, second func() (operand, error)) (operand, error) {
	switch t.Slots {
	case 0:
		return t.Render(), nil
	case 1:
		return t.Render(first), nil
	default:
		v, err := second()
		if err != nil {
			return nil, err
		}
		return t.Render(first, v), nil
	}
}

// formatRecord 记录类型在格式化轴上的完整表达式
func (s *synthesizer) formatRecord(axis Axis) (operand, error) {
	outer, err := parseTemplateMax(s.outerLiteral(defaultRecordFormat), 2)
	if err != nil {
		return nil, asConfigError(err, s.shape.Pos, s.shape.Name)
	}
	return fill(outer, lit(s.shape.Name), func() (operand, error) {
		items, err := s.entries(s.shape.Fields, axis)
		if err != nil {
			return nil, err
		}
		return join(items, ", "), nil
	})
}

// formatVariant 变体在格式化轴上的完整表达式
// 被跳过的变体固定为 <variant skipped>，不读取任何字段
func (s *synthesizer) formatVariant(v *Variant, axis Axis) (operand, error) {
	d := Resolve(v.Element, axis)
	if !d.Included {
		return lit(skippedVariant), nil
	}

	limit, literal := 2, defaultFieldVariant
	if v.Kind == VariantUnit {
		limit, literal = 1, defaultUnitVariant
	}
	if d.HasLiteral {
		literal = d.Literal
	}
	inner, err := parseTemplateMax(literal, limit)
	if err != nil {
		return nil, asConfigError(err, v.Pos, s.shape.Name)
	}

	var body operand
	switch {
	case v.Kind == VariantTuple && inner.Slots == 1:
		// 单个占位符填载荷
		body = inner.Render(s.render(axis, v.Fields[0].Access))
	case v.Kind == VariantTuple:
		body, err = fill(inner, lit(v.Name), func() (operand, error) {
			return s.render(axis, v.Fields[0].Access), nil
		})
	default:
		body, err = fill(inner, lit(v.Name), func() (operand, error) {
			items, err := s.entries(v.Fields, axis)
			if err != nil {
				return nil, err
			}
			return join(items, ", "), nil
		})
	}
	if err != nil {
		return nil, err
	}

	outer, err := parseTemplateMax(s.outerLiteral(defaultUnionFormat), 2)
	if err != nil {
		return nil, asConfigError(err, s.shape.Pos, s.shape.Name)
	}
	return fill(outer, lit(s.shape.Name), func() (operand, error) { return body, nil })
}

// includedFields 在指定轴上包含的字段
func includedFields(fields []Field, axis Axis) []Field {
	return lo.Filter(fields, func(f Field, _ int) bool {
		return Resolve(f.Element, axis).Included
	})
}

func (s *synthesizer) recordDecls() ([]any, error) {
	shape := s.shape
	recv := shape.Receiver()

	var decls []any
	for _, axis := range shape.Axes {
		switch axis {
		case AxisDisplay, AxisDebug:
			expr, err := s.formatRecord(axis)
			if err != nil {
				return nil, err
			}
			decls = append(decls, s.formatDecls(axis, shape.Name, recv, expr)...)
		case AxisDir:
			decls = append(decls, dirFunc(recv, includedFields(shape.Fields, axis)))
		case AxisGetattr:
			decls = append(decls, s.getattrFunc(recv, shape.Name, includedFields(shape.Fields, axis)))
		case AxisDict:
			decls = append(decls, dictFunc(recv, includedFields(shape.Fields, axis)))
		}
	}
	return decls, nil
}

func (s *synthesizer) variantDecls(v *Variant) ([]any, error) {
	recv := v.Receiver()
	owner := s.shape.Name + "." + v.Name

	var decls []any
	if len(s.shape.TypeParams) == 0 && len(v.TypeParams) == 0 {
		decls = append(decls, gg.S("var _ %s = (*%s)(nil)", s.shape.Name, v.Name))
	}

	// 变体整体被跳过时没有任何字段
	fields := func(axis Axis) []Field {
		if !Resolve(v.Element, axis).Included || v.Kind != VariantNamed {
			return nil
		}
		return includedFields(v.Fields, axis)
	}

	for _, axis := range s.shape.Axes {
		switch axis {
		case AxisDisplay, AxisDebug:
			expr, err := s.formatVariant(v, axis)
			if err != nil {
				return nil, err
			}
			decls = append(decls, s.formatDecls(axis, v.Name, recv, expr)...)
		case AxisDir:
			decls = append(decls, dirFunc(recv, fields(axis)))
		case AxisGetattr:
			decls = append(decls, s.getattrFunc(recv, owner, fields(axis)))
		case AxisDict:
			decls = append(decls, dictFunc(recv, fields(axis)))
		}
	}
	return decls, nil
}

// formatDecls FmtDisplay/FmtDebug 以及对应的 String/GoString
func (s *synthesizer) formatDecls(axis Axis, typeName, recv string, expr operand) []any {
	decls := []any{
		gg.Function(axis.Method()).
			WithReceiver("v", recv).
			AddResult("", "string").
			AddBody(gg.S("return %s", expr.Expr())),
	}

	std := "String"
	if axis == AxisDebug {
		std = "GoString"
	}
	if s.stringer && (s.declared == nil || !s.declared(typeName, std)) {
		decls = append(decls, gg.Function(std).
			WithReceiver("v", recv).
			AddResult("", "string").
			AddBody(gg.S("return v.%s()", axis.Method())))
	}
	return decls
}

func dirFunc(recv string, fields []Field) any {
	names := lo.Map(fields, func(f Field, _ int) string { return strconv.Quote(f.Name) })
	return gg.Function("Dir").
		WithReceiver("v", recv).
		AddResult("", "[]string").
		AddBody(gg.S("return []string{%s}", strings.Join(names, ", ")))
}

func (s *synthesizer) getattrFunc(recv, owner string, fields []Field) any {
	var body []any
	if len(fields) > 0 {
		sw := gg.Switch("name")
		for _, f := range fields {
			sw.NewCase(gg.S("%q", f.Name)).AddBody(gg.S("return %s, nil", f.Access))
		}
		body = append(body, sw)
	}
	body = append(body, gg.S("return nil, %s(%q, name)", s.attrError, owner))

	return gg.Function("Getattr").
		WithReceiver("v", recv).
		AddParameter("name", "string").
		AddResult("", "any").
		AddResult("", "error").
		AddBody(body...)
}

func dictFunc(recv string, fields []Field) any {
	var sb strings.Builder
	sb.WriteString("return map[string]any{")
	for _, f := range fields {
		fmt.Fprintf(&sb, "\n%q: %s,", f.Name, f.Access)
	}
	if len(fields) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString("}")

	return gg.Function("Dict").
		WithReceiver("v", recv).
		AddResult("", "map[string]any").
		AddBody(gg.S("%s", sb.String()))
}
