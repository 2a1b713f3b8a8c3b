// Package structparse 解析一个包目录内的全部类型声明。
//
// 与逐个查找结构体不同，这里一次读取整个目录，得到：
//
//  1. 类型声明 - 结构体、接口和其他具名类型，保持文件名和声明顺序
//  2. 字段信息 - 字段名、类型、是否嵌入、是否导出、字段注释和行尾注释
//  3. 方法集合 - 包内所有方法按接收器类型归类，用于判断类型是否已实现某方法
//  4. 导入信息 - 每个文件的导入路径和包名，用于生成代码时补齐 import
//
// # 基本用法
//
//	ctx := structparse.NewParseContext("Code generated by reprgen")
//	pkg, err := ctx.ParsePackage("./model")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, t := range pkg.Types {
//	    fmt.Printf("类型: %s.%s\n", t.PackageName, t.Name)
//	}
//
// 同一个 ParseContext 对同一目录只解析一次。
package structparse
