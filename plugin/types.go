package plugin

import (
	"slices"

	"github.com/donutnomad/gg"
)

// TargetKind 注解目标的种类
type TargetKind int

const (
	TargetStruct    TargetKind = iota + 1 // 结构体
	TargetInterface                       // 接口
	TargetType                            // 其他具名类型，如 type Celsius float64
)

func (k TargetKind) String() string {
	switch k {
	case TargetStruct:
		return "struct"
	case TargetInterface:
		return "interface"
	case TargetType:
		return "type"
	}
	return "unknown"
}

// Target 一个带注解的类型声明
type Target struct {
	Kind        TargetKind
	Name        string
	PackageName string
	FilePath    string // 绝对路径
}

type AnnotatedTarget struct {
	Target      *Target
	Annotations []*Annotation

	// ParsedParams 生成器参数结构体的值，由 Run 在分发后填入
	ParsedParams any
}

// ScanResult 按种类分组的扫描结果
type ScanResult struct {
	Structs    []*AnnotatedTarget
	Interfaces []*AnnotatedTarget
	Types      []*AnnotatedTarget

	// PackageConfigs key 为包目录
	PackageConfigs map[string]*PackageConfig
}

func (r *ScanResult) All() []*AnnotatedTarget {
	return slices.Concat(r.Structs, r.Interfaces, r.Types)
}

// PackageConfig 包级输出配置，来自包内任意文件的 go:reprgen: 指令
//
//	//go:reprgen: -output `$FILE_repr`
//	//go:reprgen: plugin:reprgen -output `$PACKAGE_repr`
type PackageConfig struct {
	PackageDir    string
	DefaultOutput string            // 对所有插件生效
	PluginOutputs map[string]string // key 为小写插件名
}

// GetPluginOutput 插件专属配置优先，否则使用包级默认值
// 允许在 nil 上调用
func (c *PackageConfig) GetPluginOutput(pluginName string) string {
	if c == nil {
		return ""
	}
	if output, ok := c.PluginOutputs[pluginName]; ok {
		return output
	}
	return c.DefaultOutput
}

// GenerateContext 传给 Generator.Generate 的输入
type GenerateContext struct {
	Targets        []*AnnotatedTarget
	PackageConfigs map[string]*PackageConfig
	DefaultOutput  string // 命令行 -output
	Verbose        bool
}

func (c *GenerateContext) GetPackageConfig(pkgDir string) *PackageConfig {
	return c.PackageConfigs[pkgDir]
}

// GenerateResult 生成器的输出
// 单个目标的错误记入 Errors，其余目标照常生成
type GenerateResult struct {
	Definitions map[string]*gg.Generator // key 为输出文件路径
	Errors      []error
}

func NewGenerateResult() *GenerateResult {
	return &GenerateResult{Definitions: make(map[string]*gg.Generator)}
}

func (r *GenerateResult) AddDefinition(path string, gen *gg.Generator) {
	if r.Definitions == nil {
		r.Definitions = make(map[string]*gg.Generator)
	}
	r.Definitions[path] = gen
}

func (r *GenerateResult) AddError(err error) {
	r.Errors = append(r.Errors, err)
}
