package reprgen

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/donutnomad/reprgen/plugin"
)

// Axis 行为轴，每个轴对应一个生成的方法
type Axis int

const (
	AxisDisplay Axis = iota // FmtDisplay / String
	AxisDebug               // FmtDebug / GoString
	AxisDir                 // Dir
	AxisGetattr             // Getattr
	AxisDict                // Dict
)

// Axes 全部行为轴，按生成顺序
var Axes = []Axis{AxisDisplay, AxisDebug, AxisDir, AxisGetattr, AxisDict}

var formattingAxes = []Axis{AxisDisplay, AxisDebug}

func (a Axis) String() string {
	switch a {
	case AxisDisplay:
		return "display"
	case AxisDebug:
		return "debug"
	case AxisDir:
		return "dir"
	case AxisGetattr:
		return "getattr"
	case AxisDict:
		return "dict"
	default:
		return "unknown"
	}
}

// Annotation 开启该轴的类型注解名
func (a Axis) Annotation() string {
	switch a {
	case AxisDisplay:
		return "Display"
	case AxisDebug:
		return "Debug"
	case AxisDir:
		return "Dir"
	case AxisGetattr:
		return "Getattr"
	case AxisDict:
		return "Dict"
	default:
		return ""
	}
}

// Method 该轴生成的方法名
func (a Axis) Method() string {
	switch a {
	case AxisDisplay:
		return "FmtDisplay"
	case AxisDebug:
		return "FmtDebug"
	default:
		return a.Annotation()
	}
}

// Formatting 是否为格式化轴
func (a Axis) Formatting() bool {
	return a == AxisDisplay || a == AxisDebug
}

// ParseAxis 解析 @Skip 中的轴名，大小写不敏感
// str、repr 分别是 display、debug 的别名
func ParseAxis(word string) (Axis, bool) {
	switch strings.ToLower(strings.TrimSpace(word)) {
	case "display", "str":
		return AxisDisplay, true
	case "debug", "repr":
		return AxisDebug, true
	case "dir":
		return AxisDir, true
	case "getattr":
		return AxisGetattr, true
	case "dict":
		return AxisDict, true
	default:
		return 0, false
	}
}

// 元素级注解
const (
	annSkip    = "Skip"
	annInclude = "Include"
	annNoSkip  = "NoSkip"
	annFormat  = "Format"
	annVariant = "Variant"
)

// MarkerKind 元素标记的种类
type MarkerKind int

const (
	MarkerAbsent  MarkerKind = iota // 与本生成器无关
	MarkerSkip                      // 跳过
	MarkerInclude                   // 强制包含
	MarkerFormat                    // 格式覆盖，可能带模板
)

// Marker 一条元素注解解析后的结果
type Marker struct {
	Kind       MarkerKind
	Axes       []Axis // 作用的轴，通配跳过时为空
	Wildcard   bool   // @Skip / @Skip(All)
	Literal    string // @Format(fmt="...") 的模板
	HasLiteral bool
}

// ParseMarker 解析一条注解
//
//	@Skip, @Skip(All), @Skip(*)        通配跳过
//	@Skip(Display, Repr, Dir, ...)     跳过指定轴，未知的轴名忽略
//	@Include, @NoSkip                  全部轴强制包含
//	@Format                            格式化轴强制包含
//	@Format(fmt="...")                 格式化轴强制包含并覆盖模板
//	@Format(skip)                      跳过格式化轴
func ParseMarker(ann *plugin.Annotation) (Marker, error) {
	switch ann.Name {
	case annSkip:
		return parseSkip(ann), nil
	case annInclude, annNoSkip:
		return Marker{Kind: MarkerInclude, Axes: Axes}, nil
	case annFormat:
		return parseFormat(ann)
	default:
		return Marker{Kind: MarkerAbsent}, nil
	}
}

func parseSkip(ann *plugin.Annotation) Marker {
	words := ann.Positional()
	if len(ann.Args) == 0 {
		return Marker{Kind: MarkerSkip, Wildcard: true}
	}
	m := Marker{Kind: MarkerSkip}
	for _, w := range words {
		if w == "*" || strings.EqualFold(w, "all") {
			m.Wildcard = true
			continue
		}
		if axis, ok := ParseAxis(w); ok {
			m.Axes = append(m.Axes, axis)
		}
	}
	if len(m.Axes) > 1 {
		m.Axes = lo.Uniq(m.Axes)
	}
	return m
}

func parseFormat(ann *plugin.Annotation) (Marker, error) {
	m := Marker{Kind: MarkerFormat, Axes: formattingAxes}
	for _, arg := range ann.Args {
		switch {
		case !arg.HasValue && strings.EqualFold(arg.Value, "skip"):
			return Marker{Kind: MarkerSkip, Axes: formattingAxes}, nil
		case arg.Key == "fmt" && arg.HasValue:
			if !arg.Quoted {
				return Marker{}, errors.Newf("%s 中 fmt 的值必须是字符串字面量，例如 fmt=\"{}\"", ann.Raw)
			}
			m.Literal = arg.Value
			m.HasLiteral = true
		case !arg.HasValue && strings.EqualFold(arg.Value, "fmt"):
			return Marker{}, errors.Newf("%s 缺少模板，应写成 fmt=\"...\"", ann.Raw)
		default:
			return Marker{}, errors.Newf("%s 含有不支持的参数 %q，只支持 fmt=\"...\" 和 skip", ann.Raw, argText(arg))
		}
	}
	return m, nil
}

func argText(arg plugin.AnnotationArg) string {
	if arg.HasValue {
		return arg.Key + "=" + arg.Value
	}
	return arg.Value
}

// ParseMarkers 解析注释中全部与本生成器相关的注解
func ParseMarkers(comment string) ([]Marker, error) {
	var markers []Marker
	var literalSeen bool
	for _, ann := range plugin.ParseAnnotations(comment) {
		m, err := ParseMarker(ann)
		if err != nil {
			return nil, err
		}
		if m.Kind == MarkerAbsent {
			continue
		}
		if m.HasLiteral {
			if literalSeen {
				return nil, errors.Newf("重复的 %s，同一元素只能指定一个模板", ann.Raw)
			}
			literalSeen = true
		}
		markers = append(markers, m)
	}
	return markers, nil
}

// behaviorAxes 返回类型注解开启的行为轴
func behaviorAxes(annotations []*plugin.Annotation) []Axis {
	return lo.Filter(Axes, func(a Axis, _ int) bool {
		return plugin.HasAnnotation(annotations, a.Annotation())
	})
}

// typeLiteral 返回类型级 @Format(fmt="...")
// 类型上的 @Format 只接受 fmt 参数
func typeLiteral(annotations []*plugin.Annotation) (string, bool, error) {
	ann := plugin.GetAnnotation(annotations, annFormat)
	if ann == nil {
		return "", false, nil
	}
	m, err := parseFormat(ann)
	if err != nil {
		return "", false, err
	}
	if m.Kind != MarkerFormat || !m.HasLiteral {
		return "", false, errors.Newf("类型上的 %s 必须指定 fmt=\"...\"", ann.Raw)
	}
	return m.Literal, true, nil
}

// variantOf 返回 @Variant 关联的联合类型名
//
//	@Variant(Shape) 或 @Variant(of=Shape)
func variantOf(annotations []*plugin.Annotation) (string, bool) {
	ann := plugin.GetAnnotation(annotations, annVariant)
	if ann == nil {
		return "", false
	}
	if of := ann.GetParam("of"); of != "" {
		return of, true
	}
	if pos := ann.Positional(); len(pos) > 0 {
		return pos[0], true
	}
	return "", true
}
