package reprfmt

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/emirpasic/gods/lists"
	"github.com/emirpasic/gods/maps"
	"github.com/emirpasic/gods/maps/hashmap"
	"github.com/emirpasic/gods/sets"
	"github.com/emirpasic/gods/sets/hashset"
)

// None 空值的渲染结果
const None = "None"

// Displayer 由 @Display 生成
type Displayer interface {
	FmtDisplay() string
}

// Debugger 由 @Debug 生成
type Debugger interface {
	FmtDebug() string
}

type mode int

const (
	displayMode mode = iota
	debugMode
)

// Display 渲染值的展示形式
func Display(v any) string {
	return render(v, displayMode)
}

// Debug 渲染值的调试形式
func Debug(v any) string {
	return render(v, debugMode)
}

func render(v any, m mode) string {
	if v == nil {
		return None
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return None
	}

	switch m {
	case displayMode:
		if d, ok := v.(Displayer); ok {
			return d.FmtDisplay()
		}
	case debugMode:
		if d, ok := v.(Debugger); ok {
			return d.FmtDebug()
		}
	}

	// gods 容器同时实现了 String，需要先于 Stringer 处理
	switch x := v.(type) {
	case maps.Map:
		return renderGodsMap(x, m)
	case sets.Set:
		items := renderAll(x.Values(), m)
		if _, ok := x.(*hashset.Set); ok {
			slices.Sort(items)
		}
		return joinItems("{", "}", items)
	case lists.List:
		return joinItems("[", "]", renderAll(x.Values(), m))
	}

	if m == debugMode {
		if s, ok := v.(fmt.GoStringer); ok {
			return s.GoString()
		}
	}
	switch x := v.(type) {
	case fmt.Stringer:
		return x.String()
	case error:
		return x.Error()
	}

	return renderValue(rv, m)
}

// formatFloat 整数值保留 ".0" 以区别于整数，极大或极小值用指数形式
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	if abs := math.Abs(f); abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'g', -1, bits)
	}
	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// renderValue 按反射种类渲染
func renderValue(rv reflect.Value, m mode) string {
	switch rv.Kind() {
	case reflect.String:
		return strconv.Quote(rv.String())
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return formatFloat(rv.Float(), 32)
	case reflect.Float64:
		return formatFloat(rv.Float(), 64)
	case reflect.Complex64:
		return strconv.FormatComplex(rv.Complex(), 'g', -1, 64)
	case reflect.Complex128:
		return strconv.FormatComplex(rv.Complex(), 'g', -1, 128)
	case reflect.Pointer:
		return render(rv.Elem().Interface(), m)
	case reflect.Slice, reflect.Array:
		return joinItemsFunc("[", "]", rv.Len(), func(i int) string {
			return renderElem(rv.Index(i), m)
		})
	case reflect.Map:
		return renderMap(rv, m)
	}

	if !rv.CanInterface() {
		return None
	}
	if m == debugMode {
		return fmt.Sprintf("%#v", rv.Interface())
	}
	return fmt.Sprint(rv.Interface())
}

func renderElem(rv reflect.Value, m mode) string {
	if !rv.CanInterface() {
		return renderValue(rv, m)
	}
	return render(rv.Interface(), m)
}

// renderMap 渲染 Go 映射，按键的渲染结果排序
// map[K]struct{} 视为集合
func renderMap(rv reflect.Value, m mode) string {
	isSet := rv.Type().Elem().Kind() == reflect.Struct && rv.Type().Elem().NumField() == 0

	type entry struct{ key, value string }
	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		e := entry{key: renderElem(iter.Key(), m)}
		if !isSet {
			e.value = renderElem(iter.Value(), m)
		}
		entries = append(entries, e)
	}
	slices.SortFunc(entries, func(a, b entry) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})

	items := make([]string, len(entries))
	for i, e := range entries {
		if isSet {
			items[i] = e.key
		} else {
			items[i] = e.key + ": " + e.value
		}
	}
	return joinItems("{", "}", items)
}

// renderGodsMap 有序映射保持自身顺序，hashmap 按键排序
func renderGodsMap(x maps.Map, m mode) string {
	keys := x.Keys()
	items := make([]string, 0, len(keys))
	for _, k := range keys {
		value, _ := x.Get(k)
		items = append(items, render(k, m)+": "+render(value, m))
	}
	if _, ok := x.(*hashmap.Map); ok {
		slices.Sort(items)
	}
	return joinItems("{", "}", items)
}

func renderAll(values []any, m mode) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = render(v, m)
	}
	return out
}
