package plugin

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

// Scanner 并行扫描源文件，收集带注解的类型声明
// 先按文本粗筛出含注解的文件，再对命中的文件做 AST 解析
type Scanner struct {
	workers int
	verbose bool
	filter  []string // 为空时接受全部注解
}

type ScannerOption func(*Scanner)

func WithWorkers(n int) ScannerOption {
	return func(s *Scanner) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithScannerVerbose(v bool) ScannerOption {
	return func(s *Scanner) { s.verbose = v }
}

// WithAnnotationFilter 只收集指定名称的注解
func WithAnnotationFilter(annotations ...string) ScannerOption {
	return func(s *Scanner) { s.filter = annotations }
}

func NewScanner(opts ...ScannerOption) *Scanner {
	s := &Scanner{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var annotationPattern = regexp.MustCompile(`@(\w+)`)

// directivePrefix 包级配置指令
const directivePrefix = "go:reprgen:"

var generatedSuffixes = []string{"_test.go", "_repr.go", "_gen.go"}

// IsGeneratedFile 测试文件和生成文件不参与扫描
func IsGeneratedFile(path string) bool {
	return lo.SomeBy(generatedSuffixes, func(suffix string) bool { return strings.HasSuffix(path, suffix) })
}

// SkipDir 扫描和监听时跳过的目录：隐藏目录、下划线开头的目录、vendor 和 testdata
func SkipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || name == "vendor" || name == "testdata"
}

// Scan 扫描文件或目录，目录以 /... 结尾时递归
//
//	./...  ./model  ./model/user.go  /abs/path/...
//
// 结果按文件收集顺序排列
func (s *Scanner) Scan(ctx context.Context, patterns ...string) (*ScanResult, error) {
	files, err := collectFiles(patterns)
	if err != nil {
		return nil, err
	}

	results := make([]*fileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			matched, err := s.QuickMatchFile(file)
			if err != nil || !matched {
				return nil
			}
			r, err := s.parseFile(file)
			if err != nil {
				if s.verbose {
					fmt.Printf("解析文件 %s 失败: %v\n", file, err)
				}
				return nil
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(err, "扫描中断")
	}

	parsed := lo.Compact(results)
	if s.verbose {
		fmt.Printf("快速匹配: %d/%d 个文件包含注解\n", len(parsed), len(files))
	}
	return mergeFileResults(parsed), nil
}

// QuickMatchFile 文件的注释中是否有关心的注解或 go:reprgen: 指令
// dev 模式据此判断文件变化是否需要重新生成
func (s *Scanner) QuickMatchFile(path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	for line := range strings.Lines(string(data)) {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "//") && !strings.HasPrefix(line, "/*") {
			continue
		}
		if strings.Contains(line, directivePrefix) {
			return true, nil
		}
		for _, m := range annotationPattern.FindAllStringSubmatch(line, -1) {
			if s.accepts(m[1]) {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *Scanner) accepts(name string) bool {
	return len(s.filter) == 0 || slices.Contains(s.filter, name)
}

type fileResult struct {
	targets []*AnnotatedTarget
	config  *PackageConfig
}

func (s *Scanner) parseFile(path string) (*fileResult, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	r := &fileResult{config: parsePackageConfig(file, path)}
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			if t := s.target(gd, spec.(*ast.TypeSpec), file.Name.Name, path); t != nil {
				r.targets = append(r.targets, t)
			}
		}
	}
	return r, nil
}

// target 类型声明对应的目标，没有关心的注解时返回 nil
// 分组声明 type ( ... ) 中的类型只读取自己的注释
func (s *Scanner) target(decl *ast.GenDecl, spec *ast.TypeSpec, pkgName, path string) *AnnotatedTarget {
	doc := spec.Doc
	if doc == nil && len(decl.Specs) == 1 {
		doc = decl.Doc
	}
	if doc == nil {
		return nil
	}
	kind := targetKind(spec)
	if kind == 0 {
		return nil
	}

	annotations := ParseAnnotations(doc.Text())
	if len(s.filter) > 0 {
		annotations = FilterByNames(annotations, s.filter...)
	}
	if len(annotations) == 0 {
		return nil
	}
	return &AnnotatedTarget{
		Target: &Target{
			Kind:        kind,
			Name:        spec.Name.Name,
			PackageName: pkgName,
			FilePath:    path,
		},
		Annotations: annotations,
	}
}

func targetKind(spec *ast.TypeSpec) TargetKind {
	// 别名没有自己的方法集
	if spec.Assign.IsValid() {
		return 0
	}
	switch spec.Type.(type) {
	case *ast.StructType:
		return TargetStruct
	case *ast.InterfaceType:
		return TargetInterface
	default:
		return TargetType
	}
}

func mergeFileResults(results []*fileResult) *ScanResult {
	out := &ScanResult{PackageConfigs: make(map[string]*PackageConfig)}
	for _, r := range results {
		for _, t := range r.targets {
			switch t.Target.Kind {
			case TargetStruct:
				out.Structs = append(out.Structs, t)
			case TargetInterface:
				out.Interfaces = append(out.Interfaces, t)
			case TargetType:
				out.Types = append(out.Types, t)
			}
		}
		if r.config != nil {
			mergeConfig(out.PackageConfigs, r.config)
		}
	}
	return out
}

// mergeConfig 同一个包的多个文件都有指令时，后出现的覆盖先出现的
func mergeConfig(configs map[string]*PackageConfig, c *PackageConfig) {
	existing, ok := configs[c.PackageDir]
	if !ok {
		configs[c.PackageDir] = c
		return
	}
	if c.DefaultOutput != "" {
		if existing.DefaultOutput != "" && existing.DefaultOutput != c.DefaultOutput {
			fmt.Printf("警告: 包 %s 中有多个不同的默认输出配置，使用 %s\n", c.PackageDir, c.DefaultOutput)
		}
		existing.DefaultOutput = c.DefaultOutput
	}
	for name, output := range c.PluginOutputs {
		if prev, ok := existing.PluginOutputs[name]; ok && prev != output {
			fmt.Printf("警告: 包 %s 中插件 %s 有多个不同的输出配置，使用 %s\n", c.PackageDir, name, output)
		}
		existing.PluginOutputs[name] = output
	}
}

// collectFiles 展开路径模式，去重后返回 .go 文件的绝对路径
func collectFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		root, recursive := strings.CutSuffix(pattern, "/...")
		root, err := filepath.Abs(root)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Wrapf(err, "无效的路径 %s", pattern)
		}
		if !info.IsDir() {
			if strings.HasSuffix(root, ".go") {
				files = append(files, root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (!recursive || SkipDir(d.Name())) {
					return filepath.SkipDir
				}
				return nil
			}
			if strings.HasSuffix(path, ".go") && !IsGeneratedFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return lo.Uniq(files), nil
}

var directivePattern = regexp.MustCompile(`go:reprgen:\s*(.*)`)

// parsePackageConfig 读取文件中的 go:reprgen: 指令
// 同一个文件出现多条指令时全部忽略
func parsePackageConfig(file *ast.File, path string) *PackageConfig {
	var lines []string
	for _, group := range file.Comments {
		for _, c := range group.List {
			text := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(c.Text, "//"), "/*"), "*/")
			if m := directivePattern.FindStringSubmatch(text); m != nil {
				lines = append(lines, m[1])
			}
		}
	}

	switch len(lines) {
	case 0:
		return nil
	case 1:
		return parseDirective(lines[0], filepath.Dir(path))
	default:
		fmt.Printf("警告: 文件 %s 有多条 %s 指令，已忽略\n", path, directivePrefix)
		return nil
	}
}

// parseDirective 解析指令参数
//
//	-output `$FILE_repr`                   对所有插件生效
//	plugin:reprgen -output `$PACKAGE_repr` 只对 reprgen 生效
func parseDirective(line, dir string) *PackageConfig {
	config := &PackageConfig{PackageDir: dir, PluginOutputs: make(map[string]string)}

	var current string
	words := directiveWords(line)
	for i := 0; i < len(words); i++ {
		switch w := words[i]; {
		case strings.HasPrefix(w, "plugin:"):
			current = strings.ToLower(strings.TrimPrefix(w, "plugin:"))
		case w == "-output" && i+1 < len(words):
			i++
			if current == "" {
				config.DefaultOutput = words[i]
			} else {
				config.PluginOutputs[current] = words[i]
			}
		}
	}

	if config.DefaultOutput == "" && len(config.PluginOutputs) == 0 {
		return nil
	}
	return config
}

// directiveWords 按空白拆分，引号内的空白保留，结果不含引号
func directiveWords(line string) []string {
	var words []string
	var sb strings.Builder
	var quote rune
	inWord := false
	for _, r := range line {
		switch {
		case quote != 0 && r == quote:
			quote = 0
		case quote != 0:
			sb.WriteRune(r)
		case r == '`' || r == '"' || r == '\'':
			quote, inWord = r, true
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, sb.String())
				sb.Reset()
				inWord = false
			}
		default:
			sb.WriteRune(r)
			inWord = true
		}
	}
	if inWord {
		words = append(words, sb.String())
	}
	return words
}
