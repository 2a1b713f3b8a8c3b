package plugin

import (
	"reflect"
	"slices"
)

// Generator 代码生成器
// 一个注解只能绑定到一个生成器，同一个目标只会分发给生成器一次
type Generator interface {
	Name() string
	Annotations() []string
	SupportedTargets() []TargetKind

	// ParamDefs 注解参数的元信息，用于帮助文本和默认值
	ParamDefs() []ParamDef
	// NewParams 返回参数结构体的指针，nil 表示没有参数
	NewParams() any

	// Generate 返回按输出路径分组的 gg 定义，由 Run 合并写入
	Generate(ctx *GenerateContext) (*GenerateResult, error)
}

// BaseGenerator 可嵌入的 Generator 基础实现，只缺 Generate
type BaseGenerator struct {
	name        string
	annotations []string
	targets     []TargetKind
	paramDefs   []ParamDef
	paramsType  reflect.Type
}

// NewBaseGenerator 创建基础生成器
// paramsProto 为参数结构体的零值，如 reprgen.ReprParams{}，没有参数时传 nil
func NewBaseGenerator(name string, annotations []string, targets []TargetKind, paramsProto any) *BaseGenerator {
	g := &BaseGenerator{
		name:        name,
		annotations: annotations,
		targets:     targets,
	}
	if paramsProto != nil {
		g.paramDefs = ParseParamsFromStruct(paramsProto)
		g.paramsType = reflect.TypeOf(paramsProto)
		if g.paramsType.Kind() == reflect.Pointer {
			g.paramsType = g.paramsType.Elem()
		}
	}
	return g
}

func (g *BaseGenerator) Name() string { return g.name }

func (g *BaseGenerator) Annotations() []string { return g.annotations }

func (g *BaseGenerator) SupportedTargets() []TargetKind { return g.targets }

func (g *BaseGenerator) ParamDefs() []ParamDef { return g.paramDefs }

func (g *BaseGenerator) NewParams() any {
	if g.paramsType == nil {
		return nil
	}
	return reflect.New(g.paramsType).Interface()
}

// owns 注解是否属于该生成器
func owns(gen Generator, name string) bool {
	return slices.Contains(gen.Annotations(), name)
}
