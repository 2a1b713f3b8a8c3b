package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/tools/imports"

	"github.com/donutnomad/reprgen/plugin"
)

// DevOptions dev 命令选项
type DevOptions struct {
	Patterns []string
	Verbose  bool
	Output   string
	Async    bool
	Debounce time.Duration // 同一个包连续变动只生成一次
}

// devRunner 监听文件变动并按包重新生成
type devRunner struct {
	opts     *DevOptions
	registry *plugin.Registry
	watcher  *fsnotify.Watcher
	scanner  *plugin.Scanner
	ctx      context.Context

	mu      sync.Mutex
	pending map[string]*time.Timer // key: 包目录
	locks   map[string]*sync.Mutex // 同一个包的生成串行执行
	run     func(pkgDir string)
}

func runDev(patterns []string) {
	if len(patterns) == 0 {
		patterns = []string{"./..."}
	}

	opts := &DevOptions{
		Patterns: patterns,
		Verbose:  *verbose,
		Output:   outputPath(),
		Async:    *async,
		Debounce: *debounce,
	}
	if err := dev(opts); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}

func dev(opts *DevOptions) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "创建文件监听器失败")
	}
	defer watcher.Close()

	registry := plugin.Global()
	runner := &devRunner{
		opts:     opts,
		registry: registry,
		watcher:  watcher,
		scanner:  plugin.NewScanner(plugin.WithAnnotationFilter(registry.Annotations()...)),
		ctx:      ctx,
		pending:  make(map[string]*time.Timer),
		locks:    make(map[string]*sync.Mutex),
	}
	runner.run = runner.generate
	defer runner.stopTimers()

	dirs, err := collectWatchDirs(opts.Patterns)
	if err != nil {
		return errors.Wrap(err, "收集监听目录失败")
	}
	if len(dirs) == 0 {
		return errors.New("没有找到需要监听的目录")
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "添加监听目录失败 %s", dir)
		}
		if opts.Verbose {
			fmt.Printf("[reprgen] 监听目录: %s\n", dir)
		}
	}

	fmt.Printf("开发模式已启动，监听 %d 个目录，按 Ctrl+C 退出\n\n", len(dirs))

	err = runner.watchLoop()
	fmt.Println("\n正在退出...")
	return err
}

func (r *devRunner) stopTimers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, timer := range r.pending {
		timer.Stop()
	}
}

func (r *devRunner) watchLoop() error {
	for {
		select {
		case <-r.ctx.Done():
			return nil
		case event, ok := <-r.watcher.Events:
			if !ok {
				return nil
			}
			r.handleEvent(event)
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return nil
			}
			if r.opts.Verbose {
				fmt.Printf("[reprgen] 监听错误: %v\n", err)
			}
		}
	}
}

func (r *devRunner) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	path := event.Name
	if !strings.HasSuffix(path, ".go") || plugin.IsGeneratedFile(path) {
		return
	}

	ok, err := r.scanner.QuickMatchFile(path)
	if err != nil || !ok {
		if err != nil && r.opts.Verbose {
			fmt.Printf("[reprgen] 检查注解失败 %s: %v\n", path, err)
		}
		return
	}

	// 保存到一半的文件不触发生成
	if err := checkSyntax(path); err != nil {
		fmt.Printf("语法错误 %s: %v\n", path, err)
		return
	}

	if r.opts.Verbose {
		fmt.Printf("[reprgen] 检测到变化: %s\n", path)
	}
	r.schedule(filepath.Dir(path))
}

func (r *devRunner) schedule(pkgDir string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if timer, ok := r.pending[pkgDir]; ok {
		timer.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(r.opts.Debounce, func() {
		r.mu.Lock()
		// 已被新的定时器取代，由新的定时器负责生成
		if r.pending[pkgDir] != timer {
			r.mu.Unlock()
			return
		}
		delete(r.pending, pkgDir)
		lock := r.locks[pkgDir]
		if lock == nil {
			lock = &sync.Mutex{}
			r.locks[pkgDir] = lock
		}
		r.mu.Unlock()

		if r.ctx.Err() != nil {
			return
		}
		lock.Lock()
		defer lock.Unlock()
		r.run(pkgDir)
	})
	r.pending[pkgDir] = timer
}

func (r *devRunner) generate(pkgDir string) {
	stats, err := plugin.RunWithOptionsAndStats(r.ctx, &plugin.RunOptions{
		Registry: r.registry,
		Patterns: []string{pkgDir},
		Verbose:  r.opts.Verbose,
		Output:   r.opts.Output,
		Async:    r.opts.Async,
	})
	if err != nil {
		fmt.Printf("生成失败: %v\n", err)
		return
	}
	if stats.FileCount > 0 {
		fmt.Printf("生成完成: %d 个文件 (耗时: %v)\n", stats.FileCount, stats.TotalDuration)
	} else if r.opts.Verbose {
		fmt.Println("[reprgen] 生成完成: 无文件生成")
	}
}

// checkSyntax 只检查语法，不修改文件
func checkSyntax(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = imports.Process(path, content, &imports.Options{
		Fragment:   true,
		AllErrors:  true,
		Comments:   true,
		FormatOnly: true,
	})
	return err
}

// collectWatchDirs 与扫描器使用相同的目录规则
func collectWatchDirs(patterns []string) ([]string, error) {
	var dirs []string
	seen := make(map[string]bool)

	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	for _, pattern := range patterns {
		recursive := strings.HasSuffix(pattern, "/...")
		absDir, err := filepath.Abs(strings.TrimSuffix(pattern, "/..."))
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(absDir)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			continue
		}
		if !recursive {
			add(absDir)
			continue
		}

		err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != absDir && plugin.SkipDir(d.Name()) {
				return filepath.SkipDir
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return dirs, nil
}
