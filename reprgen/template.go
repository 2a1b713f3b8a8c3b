package reprgen

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// 默认模板
const (
	defaultElementFormat = "{}"
	defaultRecordFormat  = "{}({})"
	defaultUnionFormat   = "{}.{}"
	defaultUnitVariant   = "{}"
	defaultFieldVariant  = "{}({})"
)

// skippedVariant 整个变体被跳过时的固定输出
const skippedVariant = "<variant skipped>"

// CountSlots 统计模板中的占位符数量，{{ 和 }} 是转义，不计入
// 与渲染共用 ParseTemplate，不成对的单个括号返回错误
//
//	"{}"     -> 1
//	"{{}}"   -> 0
//	"{{}}{}" -> 1
func CountSlots(literal string) (int, error) {
	t, err := ParseTemplate(literal)
	if err != nil {
		return 0, err
	}
	return t.Slots, nil
}

// piece 模板片段：文本或占位符
type piece struct {
	text string
	slot bool
}

// Template 解析后的格式模板
type Template struct {
	Raw    string
	Slots  int
	pieces []piece
}

// ParseTemplate 解析格式模板，转义还原为单个括号
func ParseTemplate(literal string) (*Template, error) {
	t := &Template{Raw: literal}
	var sb strings.Builder
	flush := func() {
		if sb.Len() > 0 {
			t.pieces = append(t.pieces, piece{text: sb.String()})
			sb.Reset()
		}
	}

	for i := 0; i < len(literal); i++ {
		c := literal[i]
		if c != '{' && c != '}' {
			sb.WriteByte(c)
			continue
		}
		var next byte
		if i+1 < len(literal) {
			next = literal[i+1]
		}
		switch {
		case c == '{' && next == '{':
			sb.WriteByte('{')
		case c == '}' && next == '}':
			sb.WriteByte('}')
		case c == '{' && next == '}':
			flush()
			t.pieces = append(t.pieces, piece{slot: true})
			t.Slots++
		default:
			return nil, errors.Newf("格式字符串 %q 第 %d 个字符处有未配对的 %q，字面括号请写成 {{ 或 }}", literal, i+1, string(c))
		}
		i++
	}
	flush()
	return t, nil
}

// checkSlots 检查模板合法且占位符数量不超过上限
func checkSlots(literal string, limit int) error {
	n, err := CountSlots(literal)
	if err != nil {
		return err
	}
	if n > limit {
		return errors.Newf("格式字符串 %q 有 %d 个占位符，此处最多允许 %d 个", literal, n, limit)
	}
	return nil
}

// parseTemplateMax 解析模板并检查占位符数量上限
func parseTemplateMax(literal string, limit int) (*Template, error) {
	if err := checkSlots(literal, limit); err != nil {
		return nil, err
	}
	return ParseTemplate(literal)
}

// Render 依次填充占位符，参数数量必须等于 Slots
func (t *Template) Render(args ...operand) operand {
	if len(args) != t.Slots {
		panic(errors.AssertionFailedf("模板 %q 需要 %d 个参数，得到 %d 个", t.Raw, t.Slots, len(args)))
	}
	parts := make([]operand, 0, len(t.pieces))
	k := 0
	for _, p := range t.pieces {
		if p.slot {
			parts = append(parts, args[k])
			k++
			continue
		}
		parts = append(parts, lit(p.text))
	}
	return concat(parts...)
}

// segment 字符串拼接中的一项
type segment struct {
	text   string
	isExpr bool
}

// operand 生成代码中的字符串值，由常量文本和 Go 表达式拼接而成
type operand []segment

func lit(s string) operand {
	if s == "" {
		return nil
	}
	return operand{{text: s}}
}

func code(expr string) operand { return operand{{text: expr, isExpr: true}} }

// constant 值在生成期已知时返回其文本
func (o operand) constant() (string, bool) {
	switch {
	case len(o) == 0:
		return "", true
	case len(o) == 1 && !o[0].isExpr:
		return o[0].text, true
	}
	return "", false
}

// Expr 返回 Go 字符串表达式
func (o operand) Expr() string {
	if len(o) == 0 {
		return `""`
	}
	parts := make([]string, len(o))
	for i, seg := range o {
		if seg.isExpr {
			parts[i] = seg.text
		} else {
			parts[i] = strconv.Quote(seg.text)
		}
	}
	return strings.Join(parts, " + ")
}

// concat 拼接多个值，相邻常量在生成期合并
func concat(ops ...operand) operand {
	var out operand
	for _, op := range ops {
		for _, seg := range op {
			if n := len(out); n > 0 && !seg.isExpr && !out[n-1].isExpr {
				out[n-1].text += seg.text
				continue
			}
			out = append(out, seg)
		}
	}
	return out
}

// join 用分隔符拼接
func join(ops []operand, sep string) operand {
	all := make([]operand, 0, len(ops)*2)
	for i, op := range ops {
		if i > 0 {
			all = append(all, lit(sep))
		}
		all = append(all, op)
	}
	return concat(all...)
}
