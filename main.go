// Command reprgen 为带注解的类型生成展示、调试、字段列举、属性读取与字典导出方法
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/donutnomad/reprgen/plugin"
	"github.com/donutnomad/reprgen/reprgen"
)

func init() {
	plugin.MustRegister(reprgen.NewGenerator())
}

var (
	verbose  = flag.Bool("v", false, "详细输出")
	help     = flag.Bool("h", false, "显示帮助信息")
	output   = flag.String("output", "", "默认输出路径（支持模板变量 $FILE, $PACKAGE），为空时输出到 $FILE_repr.go")
	noOutput = flag.Bool("no-output", false, "忽略 -output，每个源文件输出到独立文件")
	async    = flag.Bool("async", true, "异步执行生成器（默认 true）")
	debounce = flag.Duration("debounce", 2*time.Second, "dev 模式下文件变动后的等待时间")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		runGen([]string{"./..."})
		return
	}

	switch args[0] {
	case "gen":
		runGen(args[1:])
	case "dev":
		runDev(args[1:])
	default:
		// 不是子命令，当作路径参数处理
		runGen(args)
	}
}

// outputPath -no-output 时忽略 -output
func outputPath() string {
	if *noOutput {
		return ""
	}
	return *output
}

func runGen(patterns []string) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	registry := plugin.Global()
	if *verbose {
		fmt.Printf("已注册 %d 个生成器:\n", len(registry.Generators()))
		for _, gen := range registry.Generators() {
			anns := lo.Map(gen.Annotations(), func(item string, _ int) string {
				return "@" + item
			})
			fmt.Printf("  - %s (%s)\n", gen.Name(), strings.Join(anns, ","))
		}
		fmt.Println()
	}

	stats, err := plugin.RunWithOptionsAndStats(context.Background(), &plugin.RunOptions{
		Registry: registry,
		Patterns: patterns,
		Verbose:  *verbose,
		Output:   outputPath(),
		Async:    *async,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}

	if stats != nil && (stats.FileCount > 0 || *verbose) {
		fmt.Printf("\n统计: 扫描 %d 个目标, 生成 %d 个文件\n", stats.TargetCount, stats.FileCount)
		fmt.Printf("耗时: 扫描 %v, 生成 %v, 总计 %v\n", stats.ScanDuration, stats.GenerateDuration, stats.TotalDuration)
	}
}

func usage() {
	_, _ = fmt.Fprintf(os.Stderr, `reprgen - 为类型生成 FmtDisplay/FmtDebug/Dir/Getattr/Dict 方法

用法:
  reprgen [选项] [路径...]
  reprgen gen [选项] [路径...]
  reprgen dev [选项] [路径...]

命令:
  gen     执行代码生成（默认）
  dev     开发模式，监听文件变动自动生成

路径:
  ./...          递归扫描当前目录及子目录（默认）
  ./models       只扫描 models 目录

选项:
`)
	flag.PrintDefaults()

	_, _ = fmt.Fprintf(os.Stderr, "\n支持的注解:\n")
	_, _ = fmt.Fprint(os.Stderr, plugin.FormatHelpText(plugin.Global()))

	_, _ = fmt.Fprintf(os.Stderr, `字段注解:
  @Skip / @Skip(All)              所有行为中跳过
  @Skip(Display, Debug, ...)      在指定行为中跳过
  @Include / @NoSkip              强制包含未导出字段
  @Format(fmt="{}")               覆盖格式模板
  @Format(skip)                   不参与格式化

模板变量:
  $FILE     - 源文件名（不含 .go 后缀）
  $PACKAGE  - 包名

示例:
  reprgen                           扫描当前目录（默认 ./...）
  reprgen -v ./models/...           详细模式，打印每个字段的决策
  reprgen -output $PACKAGE_repr ./...  同一个包输出到一个文件
  reprgen dev ./...                 开发模式
`)
}
