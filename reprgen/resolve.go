package reprgen

import (
	"go/token"

	"github.com/samber/lo"
)

// Element 参与决策的元素：记录字段、变体字段或变体本身
type Element struct {
	Name     string
	Exported bool // 记录字段是否导出
	Variant  bool // 变体及其字段总是可访问
	Markers  []Marker
	Pos      token.Position
}

// Decision 元素在某个轴上的决策
type Decision struct {
	Included   bool
	Literal    string
	HasLiteral bool
}

// Resolve 计算元素在指定轴上的决策
// 优先级：同轴显式跳过 > 强制包含 > 通配跳过 > 可访问性默认值
// 模板不论是否包含都会记录
func Resolve(el Element, axis Axis) Decision {
	var d Decision
	var explicitSkip, force, wildcard bool

	for _, m := range el.Markers {
		switch m.Kind {
		case MarkerSkip:
			if m.Wildcard {
				wildcard = true
			}
			if lo.Contains(m.Axes, axis) {
				explicitSkip = true
			}
		case MarkerInclude, MarkerFormat:
			if lo.Contains(m.Axes, axis) {
				force = true
			}
		}
		if m.HasLiteral && axis.Formatting() {
			d.Literal = m.Literal
			d.HasLiteral = true
		}
	}

	switch {
	case explicitSkip:
		d.Included = false
	case force:
		d.Included = true
	case wildcard:
		d.Included = false
	default:
		d.Included = el.Variant || el.Exported
	}
	return d
}

// DecisionTable 元素在全部轴上的决策，用于详细输出
type DecisionTable map[string]map[string]Decision

// decisionTable 汇总一组元素的决策
func decisionTable(elements []Element) DecisionTable {
	table := make(DecisionTable, len(elements))
	for _, el := range elements {
		row := make(map[string]Decision, len(Axes))
		for _, axis := range Axes {
			row[axis.String()] = Resolve(el, axis)
		}
		table[el.Name] = row
	}
	return table
}
