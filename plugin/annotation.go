package plugin

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Annotation 注释中的一条注解
type Annotation struct {
	Name   string            // 如 Display、Skip
	Params map[string]string // key=value 参数，键名小写
	Args   []AnnotationArg   // 全部参数，按书写顺序
	Raw    string
}

// AnnotationArg 注解的一个参数
//
//	@Skip(Debug)        -> {Value: "Debug"}
//	@Format(fmt="{}")   -> {Key: "fmt", Value: "{}", Quoted: true, HasValue: true}
//	@Format(fmt=x)      -> {Key: "fmt", Value: "x", HasValue: true}
type AnnotationArg struct {
	Key      string // 小写，位置参数为空
	Value    string // 已去掉引号
	Quoted   bool
	HasValue bool // key=value 形式
}

// ParseAnnotations 解析注释文本中的全部注解，逐行扫描
//
//	@Name
//	@Name(key=value, key="value", key=`value`)
//	@Name(Word, Other)
//
// 引号内的括号、逗号和 @ 都按字面处理，如 @Format(fmt="Data({})")
func ParseAnnotations(comment string) []*Annotation {
	var annotations []*Annotation
	for line := range strings.Lines(comment) {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "//")
		line = strings.TrimSuffix(strings.TrimPrefix(line, "/*"), "*/")
		annotations = append(annotations, scanLine(strings.TrimSpace(line))...)
	}
	return annotations
}

// scanLine 扫描单行中的全部注解
func scanLine(line string) []*Annotation {
	var result []*Annotation
	for i := 0; i < len(line); i++ {
		if line[i] != '@' {
			continue
		}
		// 邮箱等 a@b 形式不算注解
		if i > 0 && isWordChar(line[i-1]) {
			continue
		}
		j := i + 1
		for j < len(line) && isWordChar(line[j]) {
			j++
		}
		if j == i+1 {
			continue
		}

		ann := &Annotation{
			Name:   line[i+1 : j],
			Params: make(map[string]string),
			Raw:    line[i:j],
		}

		if j < len(line) && line[j] == '(' {
			if end := matchParen(line, j); end > 0 {
				ann.Raw = line[i : end+1]
				ann.Args = parseArgs(line[j+1 : end])
				for _, arg := range ann.Args {
					if arg.Key != "" {
						ann.Params[arg.Key] = arg.Value
					}
				}
				j = end + 1
			}
		}

		result = append(result, ann)
		i = j - 1
	}
	return result
}

// matchParen 返回与 open 处左括号匹配的右括号下标，未闭合时返回 -1
func matchParen(line string, open int) int {
	depth := 0
	var quote byte
	for k := open; k < len(line); k++ {
		c := line[k]
		if quote != 0 {
			if c == '\\' && quote == '"' {
				k++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '`':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return k
			}
		}
	}
	return -1
}

// parseArgs 按逗号拆分参数，引号内的逗号保留
func parseArgs(content string) []AnnotationArg {
	var args []AnnotationArg
	for _, piece := range splitArgs(content) {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		eq := indexOutsideQuotes(piece, '=')
		if eq < 0 {
			value, quoted := unquoteValue(piece)
			args = append(args, AnnotationArg{Value: value, Quoted: quoted})
			continue
		}

		key := strings.ToLower(strings.TrimSpace(piece[:eq]))
		value, quoted := unquoteValue(strings.TrimSpace(piece[eq+1:]))
		args = append(args, AnnotationArg{
			Key:      key,
			Value:    value,
			Quoted:   quoted,
			HasValue: true,
		})
	}
	return args
}

func splitArgs(content string) []string {
	var parts []string
	var quote byte
	depth := 0
	start := 0
	for k := 0; k < len(content); k++ {
		c := content[k]
		if quote != 0 {
			if c == '\\' && quote == '"' {
				k++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, content[start:k])
				start = k + 1
			}
		}
	}
	return append(parts, content[start:])
}

func indexOutsideQuotes(s string, target byte) int {
	var quote byte
	for k := 0; k < len(s); k++ {
		c := s[k]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '"' || c == '`' {
			quote = c
			continue
		}
		if c == target {
			return k
		}
	}
	return -1
}

// unquoteValue 去除值两侧的引号
// 双引号按 Go 字符串字面量解析转义，反引号原样保留
func unquoteValue(s string) (string, bool) {
	if len(s) >= 2 {
		switch {
		case s[0] == '`' && s[len(s)-1] == '`':
			return s[1 : len(s)-1], true
		case s[0] == '"' && s[len(s)-1] == '"':
			if v, err := strconv.Unquote(s); err == nil {
				return v, true
			}
			return s[1 : len(s)-1], true
		}
	}
	return s, false
}

func isWordChar(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// FilterByNames 只保留指定名称的注解
func FilterByNames(annotations []*Annotation, names ...string) []*Annotation {
	if len(names) == 0 {
		return annotations
	}
	return lo.Filter(annotations, func(a *Annotation, _ int) bool { return lo.Contains(names, a.Name) })
}

func HasAnnotation(annotations []*Annotation, name string) bool {
	return GetAnnotation(annotations, name) != nil
}

// GetAnnotation 第一个同名注解
func GetAnnotation(annotations []*Annotation, name string) *Annotation {
	ann, _ := lo.Find(annotations, func(a *Annotation) bool { return a.Name == name })
	return ann
}

// GetParam 键名不区分大小写
func (a *Annotation) GetParam(key string) string {
	return a.Params[strings.ToLower(key)]
}

// Positional 不带 = 的参数
func (a *Annotation) Positional() []string {
	return lo.FilterMap(a.Args, func(arg AnnotationArg, _ int) (string, bool) {
		return arg.Value, !arg.HasValue
	})
}

// Arg 按键名查找参数，键名不区分大小写
func (a *Annotation) Arg(key string) (AnnotationArg, bool) {
	key = strings.ToLower(key)
	return lo.Find(a.Args, func(arg AnnotationArg) bool { return arg.HasValue && arg.Key == key })
}
