package plugin

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// ParamDef 注解参数的元信息
type ParamDef struct {
	Name        string
	Required    bool
	Default     string // 未出现时使用
	Description string
}

// CommonParams 所有生成器都接受的注解参数，由框架处理
var CommonParams = []ParamDef{
	{Name: "output", Description: "输出文件路径（支持模板变量 $FILE, $PACKAGE）"},
}

// ParseParamsFromStruct 从结构体字段的 param tag 解析参数定义
//
//	type ReprParams struct {
//	    Stringer string `param:"name=stringer,required=false,default=true,description=..."`
//	}
func ParseParamsFromStruct(v any) []ParamDef {
	typ := reflect.TypeOf(v)
	if typ == nil {
		return nil
	}
	if typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil
	}

	var defs []ParamDef
	for i := 0; i < typ.NumField(); i++ {
		tag, ok := typ.Field(i).Tag.Lookup("param")
		if !ok {
			continue
		}
		if def := parseParamTag(tag); def.Name != "" {
			defs = append(defs, def)
		}
	}
	return defs
}

// parseParamTag 解析 name=xxx,required=true,default=xxx,description=xxx
func parseParamTag(tag string) ParamDef {
	var def ParamDef
	for _, pair := range splitTag(tag) {
		key, value, _ := strings.Cut(pair, "=")
		switch strings.TrimSpace(key) {
		case "name":
			def.Name = value
		case "required":
			def.Required = value == "true"
		case "default":
			def.Default = value
		case "description":
			def.Description = value
		}
	}
	return def
}

// splitTag 按逗号拆分，\, 表示字面逗号
func splitTag(tag string) []string {
	var parts []string
	var sb strings.Builder
	for i := 0; i < len(tag); i++ {
		switch c := tag[i]; {
		case c == '\\' && i+1 < len(tag):
			i++
			sb.WriteByte(tag[i])
		case c == ',':
			parts = append(parts, sb.String())
			sb.Reset()
		default:
			sb.WriteByte(c)
		}
	}
	if sb.Len() > 0 {
		parts = append(parts, sb.String())
	}
	return parts
}

// ParseParamBool 解析布尔参数，无法解析时为 false
func ParseParamBool(value string) bool {
	b, _ := strconv.ParseBool(value)
	return b
}

// ParseAnnotationParams 将注解参数填入 target 指向的结构体
// 未声明的键名、缺少必填参数和无法转换的值都返回错误，未出现的参数使用默认值
//
//	var params ReprParams
//	err := plugin.ParseAnnotationParams(annotation, &params, paramDefs)
func ParseAnnotationParams(annotation *Annotation, target any, paramDefs []ParamDef) error {
	val := reflect.ValueOf(target)
	if val.Kind() != reflect.Pointer || val.IsNil() || val.Elem().Kind() != reflect.Struct {
		return errors.AssertionFailedf("target 必须是结构体指针，得到 %T", target)
	}

	name := func(d ParamDef, _ int) string { return d.Name }
	known := append(lo.Map(paramDefs, name), lo.Map(CommonParams, name)...)
	for key := range annotation.Params {
		if !lo.Contains(known, key) {
			return errors.Newf("%s 不支持参数 %q，可用参数: %s", annotation.Raw, key, strings.Join(known, ", "))
		}
	}

	defaults := lo.SliceToMap(paramDefs, func(d ParamDef) (string, ParamDef) { return d.Name, d })

	val = val.Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		tag, ok := typ.Field(i).Tag.Lookup("param")
		if !ok || !val.Field(i).CanSet() {
			continue
		}
		key := parseParamTag(tag).Name
		if key == "" {
			continue
		}

		value, present := annotation.Params[key]
		def := defaults[key]
		if !present || value == "" {
			if def.Required {
				return errors.Newf("%s 缺少必填参数 %s", annotation.Raw, key)
			}
			value = def.Default
		}
		if err := setFieldValue(val.Field(i), value); err != nil {
			return errors.Wrapf(err, "%s 参数 %s", annotation.Raw, key)
		}
	}
	return nil
}

// setFieldValue 支持 string、bool、整数和浮点数字段，空值设为零值
func setFieldValue(field reflect.Value, value string) error {
	if value == "" && field.Kind() != reflect.String {
		field.SetZero()
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	default:
		return errors.Newf("不支持的参数字段类型 %s", field.Type())
	}
	return nil
}
