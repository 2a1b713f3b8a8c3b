package reprgen

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/davecgh/go-spew/spew"
	"github.com/donutnomad/gg"
	"github.com/samber/lo"

	"github.com/donutnomad/reprgen/internal/structparse"
	"github.com/donutnomad/reprgen/plugin"
)

const generatorName = "reprgen"

// RuntimeImportPath 生成代码依赖的运行时包
const RuntimeImportPath = "github.com/donutnomad/reprgen/reprfmt"

// defaultOutput 默认输出到源文件旁的 xxx_repr.go
const defaultOutput = "$FILE_repr.go"

// ReprParams 行为注解支持的参数，取类型上第一个行为注解
type ReprParams struct {
	Stringer string `param:"name=stringer,required=false,default=true,description=是否同时生成 String/GoString 方法: true|false"`
}

// Generator 实现 plugin.Generator 接口
type Generator struct {
	plugin.BaseGenerator
}

func NewGenerator() *Generator {
	annotations := lo.Map(Axes, func(a Axis, _ int) string { return a.Annotation() })
	return &Generator{
		BaseGenerator: *plugin.NewBaseGenerator(
			generatorName,
			annotations,
			[]plugin.TargetKind{plugin.TargetStruct, plugin.TargetInterface, plugin.TargetType},
			ReprParams{},
		),
	}
}

// typeTarget 单个类型的处理信息
type typeTarget struct {
	shape    *TypeShape
	pkg      *structparse.PackageInfo
	stringer bool
}

// Generate 执行代码生成
func (g *Generator) Generate(ctx *plugin.GenerateContext) (*plugin.GenerateResult, error) {
	result := plugin.NewGenerateResult()

	if len(ctx.Targets) == 0 {
		return result, nil
	}

	// 忽略自身生成的文件，避免把上次生成的 String 等方法当作用户声明
	parser := structparse.NewParseContext(plugin.GeneratedHeader)

	// key: 输出路径
	fileTargets := make(map[string][]*typeTarget)
	packages := make(map[string]*structparse.PackageInfo)

	for _, at := range ctx.Targets {
		ann := firstBehavior(at.Annotations)
		if ann == nil {
			continue
		}

		var params ReprParams
		if at.ParsedParams != nil {
			var ok bool
			params, ok = at.ParsedParams.(ReprParams)
			if !ok {
				result.AddError(fmt.Errorf("ParsedParams 类型断言失败: %T", at.ParsedParams))
				continue
			}
		}

		dir := filepath.Dir(at.Target.FilePath)
		pkg, err := parser.ParsePackage(dir)
		if err != nil {
			result.AddError(errors.Wrapf(err, "解析包 %s 失败", dir))
			continue
		}
		packages[pkg.Dir] = pkg

		info := pkg.Lookup(at.Target.Name)
		if info == nil {
			result.AddError(errors.Newf("包 %s 中没有找到类型 %s", pkg.Name, at.Target.Name))
			continue
		}
		if isVariant(info) {
			// 变体上的行为注解由联合类型报告
			if ctx.Verbose {
				fmt.Printf("[reprgen] 跳过变体 %s\n", info.Name)
			}
			continue
		}

		shape, err := BuildShape(pkg, info)
		if err == nil {
			err = checkClashes(pkg, shape)
		}
		if err != nil {
			result.AddError(errors.Wrapf(err, "生成 %s 失败", info.Name))
			continue
		}

		outputPath := plugin.GetOutputPath(at.Target, ann, defaultOutput, ctx.GetPackageConfig(dir), g.Name(), ctx.DefaultOutput)
		fileTargets[outputPath] = append(fileTargets[outputPath], &typeTarget{
			shape:    shape,
			pkg:      pkg,
			stringer: params.Stringer == "" || plugin.ParseParamBool(params.Stringer),
		})

		if ctx.Verbose {
			fmt.Printf("[reprgen] 处理类型 %s (%s) -> %s\n", info.Name, shape.Kind, outputPath)
			fmt.Printf("[reprgen] %s", spew.Sdump(decisionTable(shape.Elements())))
		}
	}

	// 悬空的 @Variant
	dirs := lo.Keys(packages)
	slices.Sort(dirs)
	for _, dir := range dirs {
		for _, err := range checkVariantLinks(packages[dir]) {
			result.AddError(err)
		}
	}

	outputPaths := lo.Keys(fileTargets)
	slices.Sort(outputPaths)

	for _, outputPath := range outputPaths {
		targets := fileTargets[outputPath]
		// 按源码位置排序
		slices.SortFunc(targets, func(a, b *typeTarget) int {
			if c := strings.Compare(a.shape.Pos.Filename, b.shape.Pos.Filename); c != 0 {
				return c
			}
			return a.shape.Pos.Offset - b.shape.Pos.Offset
		})

		gen, errs := g.generateDefinition(targets)
		for _, err := range errs {
			result.AddError(err)
		}
		if gen != nil {
			result.AddDefinition(outputPath, gen)
		}
	}

	return result, nil
}

// generateDefinition 为一组目标生成 gg 定义
// 出错的类型不输出任何内容，其余类型照常生成
func (g *Generator) generateDefinition(targets []*typeTarget) (*gg.Generator, []error) {
	gen := gg.New()
	gen.SetPackage(targets[0].shape.PackageName)
	rf := gen.P(RuntimeImportPath)

	var errs []error
	written := 0
	for _, t := range targets {
		pkg := t.pkg
		s := &synthesizer{
			shape:     t.shape,
			display:   fmt.Sprint(rf.Dot("Display")),
			debug:     fmt.Sprint(rf.Dot("Debug")),
			attrError: fmt.Sprint(rf.Dot("NewAttributeError")),
			stringer:  t.stringer,
			declared: func(typeName, name string) bool {
				info := pkg.Lookup(typeName)
				return pkg.HasMethod(typeName, name) || (info != nil && info.HasField(name))
			},
		}
		decls, err := s.synthesize()
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "生成 %s 失败", t.shape.Name))
			continue
		}

		for _, imp := range t.shape.Imports {
			if imp.Alias != "" {
				gen.PAlias(imp.ImportPath, imp.Alias)
			} else {
				gen.P(imp.ImportPath)
			}
		}
		for _, decl := range decls {
			gen.Body().AddLine()
			gen.Body().Append(decl)
		}
		written++
	}

	if written == 0 {
		return nil, errs
	}
	return gen, errs
}

// firstBehavior 返回第一个行为注解，output 和 stringer 参数取自它
func firstBehavior(annotations []*plugin.Annotation) *plugin.Annotation {
	for _, ann := range annotations {
		for _, axis := range Axes {
			if ann.Name == axis.Annotation() {
				return ann
			}
		}
	}
	return nil
}

func isVariant(info *structparse.TypeInfo) bool {
	_, ok := variantOf(plugin.ParseAnnotations(info.Doc))
	return ok
}
