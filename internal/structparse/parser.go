package structparse

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/donutnomad/reprgen/internal/xast"
)

// ParseContext 解析上下文，按目录缓存解析结果
type ParseContext struct {
	// skipHeader 文件头包含该文本时跳过，用于忽略自身的生成文件
	skipHeader string

	mu    sync.Mutex
	cache map[string]*PackageInfo
}

// NewParseContext 创建解析上下文
// skipHeader 为空时不跳过任何文件
func NewParseContext(skipHeader string) *ParseContext {
	return &ParseContext{
		skipHeader: skipHeader,
		cache:      make(map[string]*PackageInfo),
	}
}

// ParsePackage 解析目录下的全部非测试 Go 文件（不递归）
func (c *ParseContext) ParsePackage(dir string) (*PackageInfo, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if pkg, ok := c.cache[absDir]; ok {
		return pkg, nil
	}

	pkg, err := parsePackage(absDir, c.skipHeader)
	if err != nil {
		return nil, err
	}
	c.cache[absDir] = pkg
	return pkg, nil
}

// ParsePackage 解析目录（包级便捷函数，不缓存）
func ParsePackage(dir string) (*PackageInfo, error) {
	return NewParseContext("").ParsePackage(dir)
}

func parsePackage(dir, skipHeader string) (*PackageInfo, error) {
	files, err := FindGoFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("查找包文件失败: %w", err)
	}

	pkg := &PackageInfo{
		Dir:     dir,
		byName:  make(map[string]*TypeInfo),
		methods: make(map[string][]MethodInfo),
	}

	fset := token.NewFileSet()
	for _, filename := range files {
		file, err := parser.ParseFile(fset, filename, nil, parser.ParseComments)
		if err != nil {
			return nil, fmt.Errorf("解析文件失败: %w", err)
		}
		if skipHeader != "" && hasHeader(file, skipHeader) {
			continue
		}
		if pkg.Name == "" {
			pkg.Name = file.Name.Name
		}
		pkg.addFile(fset, filename, file)
	}

	if pkg.Name == "" {
		return nil, fmt.Errorf("目录 %s 中没有 Go 文件", dir)
	}
	return pkg, nil
}

// hasHeader 检查 package 声明之前的注释是否包含指定文本
func hasHeader(file *ast.File, header string) bool {
	for _, cg := range file.Comments {
		if cg.Pos() >= file.Package {
			break
		}
		if strings.Contains(cg.Text(), header) {
			return true
		}
	}
	return false
}

func (p *PackageInfo) addFile(fset *token.FileSet, filename string, file *ast.File) {
	imports := extractImports(file)

	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			if d.Tok != token.TYPE {
				continue
			}
			for _, spec := range d.Specs {
				typeSpec, ok := spec.(*ast.TypeSpec)
				if !ok || typeSpec.Assign.IsValid() {
					continue
				}
				info := newTypeInfo(fset, filename, file.Name.Name, d, typeSpec)
				info.Imports = imports
				p.Types = append(p.Types, info)
				p.byName[info.Name] = info
			}
		case *ast.FuncDecl:
			if d.Recv == nil || len(d.Recv.List) == 0 {
				continue
			}
			recv := d.Recv.List[0]
			method := MethodInfo{
				Name:         d.Name.Name,
				ReceiverType: xast.GetFieldType(recv.Type),
				FilePath:     filename,
			}
			if len(recv.Names) > 0 {
				method.ReceiverName = recv.Names[0].Name
			}
			key := xast.EmbeddedName(recv.Type)
			p.methods[key] = append(p.methods[key], method)
		}
	}
}

func newTypeInfo(fset *token.FileSet, filename, pkgName string, decl *ast.GenDecl, spec *ast.TypeSpec) *TypeInfo {
	doc := spec.Doc
	if doc == nil && len(decl.Specs) == 1 {
		doc = decl.Doc
	}

	info := &TypeInfo{
		Name:        spec.Name.Name,
		PackageName: pkgName,
		FilePath:    filename,
		Pos:         fset.Position(spec.Pos()),
		TypeParams:  xast.TypeParamNames(spec.TypeParams),
	}
	if doc != nil {
		info.Doc = doc.Text()
	}

	switch t := spec.Type.(type) {
	case *ast.StructType:
		info.Kind = KindStruct
		info.Fields = parseFields(fset, t.Fields)
	case *ast.InterfaceType:
		info.Kind = KindInterface
	default:
		info.Kind = KindOther
		info.Underlying = xast.GetFieldType(t)
		info.UnderlyingExpr = t
	}
	return info
}

// parseFields 解析结构体字段，多名字段 a, b int 展开为多个
func parseFields(fset *token.FileSet, list *ast.FieldList) []FieldInfo {
	if list == nil {
		return nil
	}

	var fields []FieldInfo
	for _, field := range list.List {
		base := FieldInfo{
			Type: xast.GetFieldType(field.Type),
			Pos:  fset.Position(field.Pos()),
		}
		if field.Doc != nil {
			base.Doc = field.Doc.Text()
		}
		if field.Comment != nil {
			base.Comment = field.Comment.Text()
		}
		if field.Tag != nil {
			base.Tag = field.Tag.Value
		}

		if len(field.Names) == 0 {
			// 嵌入字段
			f := base
			f.Name = xast.EmbeddedName(field.Type)
			f.Embedded = true
			f.Exported = xast.IsExported(f.Name)
			fields = append(fields, f)
			continue
		}

		for _, name := range field.Names {
			f := base
			f.Name = name.Name
			f.Exported = xast.IsExported(name.Name)
			f.Pos = fset.Position(name.Pos())
			fields = append(fields, f)
		}
	}
	return fields
}

func extractImports(file *ast.File) []ImportInfo {
	var imports []ImportInfo
	for _, imp := range file.Imports {
		importPath, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			continue
		}
		info := ImportInfo{
			ImportPath:  importPath,
			PackageName: guessPackageName(importPath),
		}
		if imp.Name != nil {
			info.Alias = imp.Name.Name
			info.PackageName = imp.Name.Name
		}
		imports = append(imports, info)
	}
	return imports
}

// guessPackageName 根据导入路径推断包名
// gopkg.in/yaml.v3 -> yaml, github.com/x/y/v2 -> y, github.com/x/go-y -> y
func guessPackageName(importPath string) string {
	base := path.Base(importPath)
	if len(base) >= 2 && base[0] == 'v' && isDigits(base[1:]) {
		base = path.Base(path.Dir(importPath))
	}
	if idx := strings.Index(base, ".v"); idx > 0 && isDigits(base[idx+2:]) {
		base = base[:idx]
	}
	base = strings.TrimPrefix(base, "go-")
	return strings.ReplaceAll(base, "-", "_")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// FindGoFiles 查找目录中的 Go 文件（不递归，不包含测试文件），按文件名排序
func FindGoFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	slices.Sort(files)
	return files, nil
}

// Lookup 按名称查找类型
func (p *PackageInfo) Lookup(name string) *TypeInfo {
	return p.byName[name]
}

// Methods 返回类型声明的全部方法（值接收器和指针接收器）
func (p *PackageInfo) Methods(typeName string) []MethodInfo {
	return p.methods[typeName]
}

// HasMethod 检查类型是否声明了指定方法
func (p *PackageInfo) HasMethod(typeName, method string) bool {
	for _, m := range p.methods[typeName] {
		if m.Name == method {
			return true
		}
	}
	return false
}

// HasField 检查结构体是否有指定字段
func (t *TypeInfo) HasField(name string) bool {
	for _, f := range t.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// ImportFor 根据包名查找导入
func (t *TypeInfo) ImportFor(pkgName string) (ImportInfo, bool) {
	for _, imp := range t.Imports {
		if imp.PackageName == pkgName {
			return imp, true
		}
	}
	return ImportInfo{}, false
}
