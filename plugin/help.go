package plugin

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// FormatHelpText 列出已注册生成器的注解与参数，用于命令行帮助
func FormatHelpText(registry *Registry) string {
	gens := lo.Filter(registry.Generators(), func(g Generator, _ int) bool {
		return len(g.Annotations()) > 0
	})
	if len(gens) == 0 {
		return "  (暂无已注册的生成器)\n"
	}

	var sb strings.Builder
	for _, gen := range gens {
		anns := gen.Annotations()
		fmt.Fprintf(&sb, "  @%s - %s\n", strings.Join(anns, ", @"), gen.Name())

		sb.WriteString("    参数:\n")
		for _, def := range slices.Concat(gen.ParamDefs(), CommonParams) {
			fmt.Fprintf(&sb, "      %s\n", FormatParamDef(def))
		}

		sb.WriteString("    示例:\n")
		fmt.Fprintf(&sb, "      @%s\n", anns[0])
		for _, def := range gen.ParamDefs() {
			if def.Default != "" {
				fmt.Fprintf(&sb, "      @%s(%s=%s)\n", anns[0], def.Name, def.Default)
			}
		}
		fmt.Fprintf(&sb, "      @%s(output=$PACKAGE_repr.go)\n\n", anns[0])
	}
	return sb.String()
}

// FormatParamDef 单个参数的说明，如 stringer [默认: true] - 描述
func FormatParamDef(def ParamDef) string {
	var sb strings.Builder
	sb.WriteString(def.Name)
	if def.Required {
		sb.WriteString(" (必填)")
	}
	if def.Default != "" {
		fmt.Fprintf(&sb, " [默认: %s]", def.Default)
	}
	if def.Description != "" {
		sb.WriteString(" - ")
		sb.WriteString(def.Description)
	}
	return sb.String()
}
