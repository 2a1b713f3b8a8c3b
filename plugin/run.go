package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/donutnomad/gg"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/donutnomad/reprgen/internal/utils"
)

// GeneratedHeader 生成文件头，再次解析时据此忽略生成文件
const GeneratedHeader = "Code generated by reprgen. DO NOT EDIT."

// RunOptions 运行选项
type RunOptions struct {
	Registry *Registry // 为空时使用全局注册表
	Patterns []string
	Verbose  bool
	Output   string // 命令行指定的默认输出路径，优先级最低
	Async    bool   // 生成器并发执行
}

// RunStats 运行统计
type RunStats struct {
	ScanDuration     time.Duration
	GenerateDuration time.Duration
	TotalDuration    time.Duration
	TargetCount      int
	FileCount        int
}

// Run 扫描、分发、生成并写入文件
func Run(ctx context.Context, registry *Registry, patterns ...string) error {
	return RunWithOptions(ctx, &RunOptions{Registry: registry, Patterns: patterns})
}

func RunWithOptions(ctx context.Context, opts *RunOptions) error {
	_, err := RunWithOptionsAndStats(ctx, opts)
	return err
}

// RunWithOptionsAndStats 执行一次完整的生成
// 单个目标的错误不会中断其他目标，全部错误打印后汇总返回
func RunWithOptionsAndStats(ctx context.Context, opts *RunOptions) (*RunStats, error) {
	start := time.Now()

	registry := opts.Registry
	if registry == nil {
		registry = globalRegistry
	}
	annotations := registry.Annotations()
	if len(annotations) == 0 {
		return nil, errors.New("没有已注册的生成器")
	}

	scanner := NewScanner(WithAnnotationFilter(annotations...), WithScannerVerbose(opts.Verbose))
	scanned, err := scanner.Scan(ctx, opts.Patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "扫描失败")
	}

	stats := &RunStats{
		ScanDuration: time.Since(start),
		TargetCount:  len(scanned.All()),
	}
	if stats.TargetCount == 0 {
		if opts.Verbose {
			fmt.Println("没有找到任何带注解的目标")
		}
		stats.TotalDuration = time.Since(start)
		return stats, nil
	}
	if opts.Verbose {
		fmt.Printf("找到 %d 个带注解的目标 (扫描耗时: %v)\n", stats.TargetCount, stats.ScanDuration)
	}

	genStart := time.Now()
	dispatch := registry.DispatchTargets(scanned)
	gens := lo.Filter(registry.Generators(), func(g Generator, _ int) bool {
		_, ok := dispatch[g.Name()]
		return ok
	})
	names := lo.Map(gens, func(g Generator, _ int) string { return g.Name() })

	var errs []error
	for _, gen := range gens {
		var parseErrs []error
		dispatch[gen.Name()], parseErrs = parseTargetParams(gen, dispatch[gen.Name()])
		errs = append(errs, parseErrs...)
	}

	results := make([]*GenerateResult, len(names))
	failures := make([]error, len(names))
	var group errgroup.Group
	if !opts.Async {
		group.SetLimit(1)
	}
	for i, gen := range gens {
		group.Go(func() error {
			t := time.Now()
			results[i], failures[i] = gen.Generate(&GenerateContext{
				Targets:        dispatch[gen.Name()],
				PackageConfigs: scanned.PackageConfigs,
				DefaultOutput:  opts.Output,
				Verbose:        opts.Verbose,
			})
			if opts.Verbose {
				fmt.Printf("执行生成器: %s (%d 个目标, 耗时: %v)\n", gen.Name(), len(dispatch[gen.Name()]), time.Since(t))
			}
			return nil
		})
	}
	_ = group.Wait()

	// 同一个文件可能来自多个生成器，按生成器名顺序合并
	files := make(map[string][]namedDefinition)
	for i, name := range names {
		if failures[i] != nil {
			errs = append(errs, errors.Wrapf(failures[i], "生成器 %s 执行失败", name))
			continue
		}
		if results[i] == nil {
			continue
		}
		for path, def := range results[i].Definitions {
			files[path] = append(files[path], namedDefinition{name: name, def: def})
		}
		errs = append(errs, results[i].Errors...)
	}

	paths := lo.Keys(files)
	slices.Sort(paths)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		merged, err := mergeDefinitions(files[path])
		if err != nil {
			errs = append(errs, errors.Wrapf(err, "合并文件 %s 失败", path))
			continue
		}
		if err := writeGGFile(path, merged); err != nil {
			errs = append(errs, errors.Wrapf(err, "写入文件 %s 失败", path))
			continue
		}
		stats.FileCount++
		fmt.Printf("生成文件: %s\n", path)
	}

	stats.GenerateDuration = time.Since(genStart)
	stats.TotalDuration = time.Since(start)

	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Printf("错误: %v\n", e)
		}
		return stats, errors.Newf("生成过程中出现 %d 个错误", len(errs))
	}
	return stats, nil
}

// parseTargetParams 解析目标上第一个属于 gen 的注解参数，结果存入 ParsedParams
// 返回参数无误的目标
func parseTargetParams(gen Generator, targets []*AnnotatedTarget) ([]*AnnotatedTarget, []error) {
	if gen.NewParams() == nil {
		return targets, nil
	}
	var kept []*AnnotatedTarget
	var errs []error
	for _, target := range targets {
		ann, ok := lo.Find(target.Annotations, func(a *Annotation) bool { return owns(gen, a.Name) })
		if !ok {
			kept = append(kept, target)
			continue
		}
		params := gen.NewParams()
		if err := ParseAnnotationParams(ann, params, gen.ParamDefs()); err != nil {
			errs = append(errs, errors.Wrapf(err, "%s: %s", target.Target.FilePath, target.Target.Name))
			continue
		}
		target.ParsedParams = reflect.ValueOf(params).Elem().Interface()
		kept = append(kept, target)
	}
	return kept, errs
}

type namedDefinition struct {
	name string
	def  *gg.Generator
}

// mergeDefinitions 合并同一输出文件的定义，每个生成器的内容前加分隔注释
func mergeDefinitions(defs []namedDefinition) (*gg.Generator, error) {
	merged := gg.New()
	// 头注释后空一行，避免成为包文档
	merged.SetHeader(GeneratedHeader + "\n")

	var pkgName string
	for _, d := range defs {
		name := d.def.PackageName()
		if name == "" {
			continue
		}
		if pkgName != "" && pkgName != name {
			return nil, errors.Newf("包名不一致: %s vs %s", pkgName, name)
		}
		pkgName = name
	}
	if pkgName != "" {
		merged.SetPackage(pkgName)
	}

	// Merge 会保留导入别名
	for _, d := range defs {
		merged.Body().AddLine()
		merged.Body().AddString(fmt.Sprintf("// ================ %s ================", d.name))
		merged.Body().AddLine()
		merged.Merge(d.def)
	}
	return merged, nil
}

func writeGGFile(path string, gen *gg.Generator) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "创建目录失败")
	}
	return utils.WriteFormat(path, gen.Bytes())
}

// GetOutputPath 计算输出路径
// 优先级：注解 output 参数 > 包级插件配置 > 包级默认配置 > 命令行 -output > defaultFileName
// 支持 $FILE（源文件名，不含 .go）和 $PACKAGE（包名）
func GetOutputPath(target *Target, ann *Annotation, defaultFileName string, pkgConfig *PackageConfig, pluginName string, cmdOutput string) string {
	output := lo.CoalesceOrEmpty(
		ann.GetParam("output"),
		pkgConfig.GetPluginOutput(strings.ToLower(pluginName)),
		cmdOutput,
	)
	if output == "" {
		return GetDefaultOutputPath(target, defaultFileName)
	}

	output = replaceTemplateVars(output, target)
	if !strings.HasSuffix(output, ".go") {
		output += ".go"
	}
	if filepath.IsAbs(output) {
		return output
	}
	return filepath.Join(filepath.Dir(target.FilePath), output)
}

func replaceTemplateVars(template string, target *Target) string {
	file := strings.TrimSuffix(filepath.Base(target.FilePath), ".go")
	return strings.NewReplacer("$FILE", file, "$PACKAGE", target.PackageName).Replace(template)
}

// GetDefaultOutputPath 源文件目录下的默认输出文件
func GetDefaultOutputPath(target *Target, defaultFileName string) string {
	if defaultFileName == "" {
		defaultFileName = "$FILE_repr.go"
	}
	return filepath.Join(filepath.Dir(target.FilePath), replaceTemplateVars(defaultFileName, target))
}
