package reprgen

import (
	"context"
	"go/format"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/donutnomad/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donutnomad/reprgen/plugin"
)

// generate 扫描目录并执行生成，与命令行流程一致
func generate(t *testing.T, dir string) *plugin.GenerateResult {
	t.Helper()

	gen := NewGenerator()
	scanner := plugin.NewScanner(plugin.WithAnnotationFilter(gen.Annotations()...))
	absPath, err := filepath.Abs(dir)
	require.NoError(t, err)
	scanned, err := scanner.Scan(context.Background(), absPath)
	require.NoError(t, err)

	targets := scanned.All()
	paramDefs := plugin.ParseParamsFromStruct(ReprParams{})
	for _, at := range targets {
		ann := firstBehavior(at.Annotations)
		if ann == nil {
			continue
		}
		var params ReprParams
		require.NoError(t, plugin.ParseAnnotationParams(ann, &params, paramDefs))
		at.ParsedParams = params
	}

	result, err := gen.Generate(&plugin.GenerateContext{
		Targets:        targets,
		PackageConfigs: scanned.PackageConfigs,
		Verbose:        testing.Verbose(),
	})
	require.NoError(t, err)
	return result
}

// source 格式化生成的代码并压缩空白，便于按片段比较
func source(t *testing.T, def *gg.Generator) string {
	t.Helper()
	code := def.String()
	src, err := format.Source([]byte(code))
	require.NoError(t, err, code)
	return strings.Join(strings.Fields(string(src)), " ")
}

// writePackage 在临时目录中写入单文件包
func writePackage(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models.go"), []byte(src), 0644))
	return dir
}

func onlyDefinition(t *testing.T, result *plugin.GenerateResult) (string, string) {
	t.Helper()
	require.Len(t, result.Definitions, 1)
	for path, def := range result.Definitions {
		return path, source(t, def)
	}
	return "", ""
}

func TestGenerateRecords(t *testing.T) {
	result := generate(t, "testdata/records")
	require.Empty(t, result.Errors)

	path, code := onlyDefinition(t, result)
	assert.Equal(t, "models_repr.go", filepath.Base(path))
	assert.Contains(t, code, "package records")
	assert.Contains(t, code, `"github.com/donutnomad/reprgen/reprfmt"`)
	assert.Contains(t, code, `"time"`)

	t.Run("字段记录", func(t *testing.T) {
		assert.Contains(t, code, `func (v WithFields) FmtDisplay() string { return "WithFields(Name=" + reprfmt.Display(v.Name) + ", dora=" + reprfmt.Display(v.dora) + ", my=" + reprfmt.Display(v.my) + ")" }`)
		assert.Contains(t, code, `func (v WithFields) FmtDebug() string { return "WithFields(dora=" + reprfmt.Debug(v.dora) + ", my=" + reprfmt.Debug(v.my) + ", Hidden=" + reprfmt.Debug(v.Hidden) + ")" }`)
		assert.Contains(t, code, `func (v WithFields) String() string { return v.FmtDisplay() }`)
		assert.Contains(t, code, `func (v WithFields) GoString() string { return v.FmtDebug() }`)
		assert.Contains(t, code, `func (v WithFields) Dir() []string { return []string{"Name", "dora", "my", "Hidden"} }`)
		assert.Contains(t, code, `case "dora": return v.dora, nil`)
		assert.NotContains(t, code, `case "secret"`)
		assert.Contains(t, code, `return nil, reprfmt.NewAttributeError("WithFields", name)`)
		assert.Contains(t, code, `"Hidden": v.Hidden,`)
		assert.NotContains(t, code, `"secret": v.secret`)
	})

	t.Run("元组记录", func(t *testing.T) {
		assert.Contains(t, code, `func (v Data) FmtDisplay() string { return "Struct: Data(0=" + reprfmt.Display(v.Count) + ", 1=" + reprfmt.Display(v.Values) + ")" }`)
		// 已手写 GoString
		assert.NotContains(t, code, `func (v Data) GoString()`)
		assert.Contains(t, code, `func (v Data) FmtDebug() string`)
	})

	t.Run("单元记录", func(t *testing.T) {
		assert.Contains(t, code, `func (v Empty) FmtDisplay() string { return "Empty()" }`)
		assert.NotContains(t, code, `func (v Empty) FmtDebug()`)
	})

	t.Run("具名类型", func(t *testing.T) {
		assert.Contains(t, code, `func (v Celsius) FmtDisplay() string { return "Celsius(0=" + reprfmt.Display(float64(v)) + ")" }`)
		assert.NotContains(t, code, `func (v Celsius) String()`)
		assert.Contains(t, code, `func (v Timeout) FmtDebug() string { return "Timeout(0=" + reprfmt.Debug(time.Duration(v)) + ")" }`)
	})

	t.Run("泛型记录", func(t *testing.T) {
		assert.Contains(t, code, `func (v Box[T]) FmtDisplay() string`)
		assert.Contains(t, code, `func (v Box[T]) Getattr(name string) (any, error)`)
		assert.Contains(t, code, `case "Label": return v.Label, nil`)
		assert.Contains(t, code, `reprfmt.NewAttributeError("Box", name)`)
	})

	t.Run("字段模板", func(t *testing.T) {
		assert.Contains(t, code, `func (v Literals) FmtDisplay() string { return "Literals(A: " + reprfmt.Display(v.A) + ", B=<" + reprfmt.Display(v.B) + ">, C=fixed)" }`)
	})

	t.Run("外层模板不足两个占位符", func(t *testing.T) {
		assert.Contains(t, code, `func (v Brief) FmtDisplay() string { return "<Brief>" }`)
		assert.Contains(t, code, `func (v Banner) FmtDebug() string { return "banner" }`)
		assert.NotContains(t, code, "reprfmt.Display(v.X)")
		assert.NotContains(t, code, "reprfmt.Debug(v.X)")
	})

	// 按源码顺序输出
	assert.Less(t, strings.Index(code, "func (v WithFields)"), strings.Index(code, "func (v Data)"))
	assert.Less(t, strings.Index(code, "func (v Data)"), strings.Index(code, "func (v Box[T])"))
}

func TestGenerateUnions(t *testing.T) {
	result := generate(t, "testdata/unions")
	require.Empty(t, result.Errors)

	_, code := onlyDefinition(t, result)

	t.Run("具名变体", func(t *testing.T) {
		assert.Contains(t, code, `var _ Shape = (*Circle)(nil)`)
		assert.Contains(t, code, `func (v Circle) FmtDisplay() string { return "Shape.Circle(Radius=" + reprfmt.Display(v.Radius) + ", label=" + reprfmt.Display(v.label) + ")" }`)
		assert.Contains(t, code, `func (v Circle) Dir() []string { return []string{"Radius", "label"} }`)
		assert.Contains(t, code, `case "label": return v.label, nil`)
		assert.Contains(t, code, `reprfmt.NewAttributeError("Shape.Circle", name)`)
		assert.Contains(t, code, `"Radius": v.Radius,`)
		assert.NotContains(t, code, `"label": v.label`)
	})

	t.Run("单元变体", func(t *testing.T) {
		assert.Contains(t, code, `func (v Origin) FmtDisplay() string { return "Shape.Origin" }`)
		assert.Contains(t, code, `func (v Origin) Dir() []string { return []string{} }`)
		assert.Contains(t, code, `func (v Origin) Dict() map[string]any { return map[string]any{} }`)
	})

	t.Run("变体模板", func(t *testing.T) {
		assert.Contains(t, code, `func (v Rect) FmtDisplay() string { return "Shape.<Rect>" }`)
	})

	t.Run("跳过的变体", func(t *testing.T) {
		assert.Contains(t, code, `func (v Secret) FmtDisplay() string { return "<variant skipped>" }`)
		assert.Contains(t, code, `func (v Secret) FmtDebug() string { return "Shape.Secret(Code=" + reprfmt.Debug(v.Code) + ")" }`)
	})

	t.Run("元组变体", func(t *testing.T) {
		assert.Contains(t, code, `func (v Word) FmtDisplay() string { return "Token::Word(" + reprfmt.Display(string(v)) + ")" }`)
		assert.Contains(t, code, `func (v Number) FmtDebug() string { return "Token::" + reprfmt.Debug(int(v)) }`)
		assert.NotContains(t, code, `func (v Word) Dir()`)
	})

	// 接口本身没有方法
	assert.NotContains(t, code, "func (v Shape)")
	assert.NotContains(t, code, "func (v Token)")
}

func TestGenerateConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{
			name: "占位符过多",
			src: `package p

// @Display
type A struct {
	// @Format(fmt="{}{}{}")
	X int
}
`,
			msg: "最多允许 2 个",
		},
		{
			name: "括号不成对",
			src: `package p

// @Display
type A struct {
	X int // @Format(fmt="{")
}
`,
			msg: "未配对",
		},
		{
			name: "跳过的字段模板同样校验",
			src: `package p

// @Debug
type A struct {
	// @Skip(Debug)
	// @Format(fmt="}")
	X int
}
`,
			msg: "未配对",
		},
		{
			name: "fmt 不是字符串",
			src: `package p

// @Display
type A struct {
	X int // @Format(fmt=bare)
}
`,
			msg: "字符串字面量",
		},
		{
			name: "类型模板占位符过多",
			src: `package p

// @Display
// @Format(fmt="{}{}{}")
type A struct {
	X int
}
`,
			msg: "最多允许 2 个",
		},
		{
			name: "单元变体模板占位符过多",
			src: `package p

// @Display
type U interface{ isU() }

// @Variant(U)
// @Format(fmt="{}{}")
type V struct{}
`,
			msg: "最多允许 1 个",
		},
		{
			name: "无标签联合类型",
			src: `package p

// @Display
type U interface{ isU() }
`,
			msg: "不支持无标签的联合类型",
		},
		{
			name: "变体单独声明行为",
			src: `package p

// @Display
type U interface{ isU() }

// @Variant(U)
// @Debug
type V struct{}
`,
			msg: "不能单独声明 @Debug",
		},
		{
			name: "方法冲突",
			src: `package p

// @Display
type A struct{ X int }

func (a A) FmtDisplay() string { return "" }
`,
			msg: "与生成的方法冲突",
		},
		{
			name: "字段与方法同名",
			src: `package p

// @Dict
type A struct{ Dict int }
`,
			msg: "与生成的方法同名",
		},
		{
			name: "元组记录不支持 Dir",
			src: `package p

// @Dir
type C float64
`,
			msg: "需要具名字段",
		},
		{
			name: "元组变体不支持 Getattr",
			src: `package p

// @Getattr
type U interface{ isU() }

// @Variant(U)
type W string
`,
			msg: "需要具名字段",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := generate(t, writePackage(t, tt.src))
			require.Len(t, result.Errors, 1)
			err := result.Errors[0]
			assert.Contains(t, err.Error(), tt.msg)

			var ce *ConfigError
			require.True(t, errors.As(err, &ce), "应为 ConfigError: %v", err)
			assert.True(t, ce.Pos.IsValid())
			assert.Empty(t, result.Definitions)
		})
	}
}

func TestGenerateDanglingVariant(t *testing.T) {
	dir := writePackage(t, `package p

// @Display
type A struct{ X int }

// @Variant(Missing)
type V struct{}

type NotUnion struct{}

// @Variant(NotUnion)
type W struct{}
`)
	result := generate(t, dir)
	require.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[0].Error(), "@Variant(Missing)")
	assert.Contains(t, result.Errors[1].Error(), "必须指向接口类型")

	// 其余类型照常生成
	_, code := onlyDefinition(t, result)
	assert.Contains(t, code, "func (v A) FmtDisplay() string")
}

func TestGenerateIsolatesFailingType(t *testing.T) {
	dir := writePackage(t, `package p

// @Display
type Bad struct {
	X int // @Format(fmt="{")
}

// @Display
type Good struct{ Y int }
`)
	result := generate(t, dir)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Error(), "Bad")

	_, code := onlyDefinition(t, result)
	assert.Contains(t, code, `func (v Good) FmtDisplay() string { return "Good(Y=" + reprfmt.Display(v.Y) + ")" }`)
	assert.NotContains(t, code, "Bad")
}

func TestGenerateOutputParam(t *testing.T) {
	dir := writePackage(t, `package p

// @Display(output=custom)
// @Debug
type A struct{ X int }

// @Display
type B struct{ Y int }
`)
	result := generate(t, dir)
	require.Empty(t, result.Errors)
	require.Len(t, result.Definitions, 2)

	custom, ok := result.Definitions[filepath.Join(dir, "custom.go")]
	require.True(t, ok)
	code := source(t, custom)
	assert.Contains(t, code, "func (v A) FmtDebug() string")
	assert.NotContains(t, code, "func (v B)")

	def, ok := result.Definitions[filepath.Join(dir, "models_repr.go")]
	require.True(t, ok)
	assert.Contains(t, source(t, def), "func (v B) FmtDisplay() string")
}

func TestGenerateIgnoresPreviousOutput(t *testing.T) {
	dir := writePackage(t, `package p

// @Display
type A struct{ X int }
`)
	// 上次生成的文件不应被视为手写的 String
	previous := "// " + plugin.GeneratedHeader + "\n\npackage p\n\nfunc (v A) String() string { return \"\" }\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "models_repr.go"), []byte(previous), 0644))

	result := generate(t, dir)
	require.Empty(t, result.Errors)
	_, code := onlyDefinition(t, result)
	assert.Contains(t, code, "func (v A) String() string { return v.FmtDisplay() }")
}

func TestSynthesizeDoesNotMutateShape(t *testing.T) {
	shape := &TypeShape{
		Name: "A",
		Kind: ShapeRecord,
		Axes: []Axis{AxisDisplay},
		Fields: []Field{
			{Element: Element{Name: "X", Exported: true}, Access: "v.X"},
		},
	}
	s := &synthesizer{shape: shape, display: "reprfmt.Display", debug: "reprfmt.Debug", attrError: "reprfmt.NewAttributeError"}

	first, err := s.formatRecord(AxisDisplay)
	require.NoError(t, err)
	second, err := s.formatRecord(AxisDisplay)
	require.NoError(t, err)
	assert.Equal(t, first.Expr(), second.Expr())
	assert.Equal(t, `"A(X=" + reprfmt.Display(v.X) + ")"`, first.Expr())
}
