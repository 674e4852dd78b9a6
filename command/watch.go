package command

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"

	"github.com/m4gshm/crudr/generator"
	"github.com/m4gshm/crudr/logger"
	"github.com/m4gshm/crudr/model/util"
	"github.com/m4gshm/crudr/params"
)

const DefaultDebounce = 300 * time.Millisecond

func NewWatch() *Command {
	const name = "watch"
	var (
		flagSet      = flag.NewFlagSet(name, flag.ExitOnError)
		projectFlags = params.NewProjectFlags(flagSet)
		all          = allFlag(flagSet)
		debounce     = flagSet.Duration("debounce", DefaultDebounce, "delay between a source change and the regeneration")
	)
	return New(
		name, "run crud and rerun it on changes of the package go files until interrupted",
		flagSet,
		func(c *Context) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watch(ctx, c, projectFlags.Apply(c.Project), *all, *debounce)
		},
	)
}

func watch(ctx context.Context, c *Context, project *params.Project, all bool, debounce time.Duration) error {
	pkgs, err := c.Packages()
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer func() { _ = watcher.Close() }()
	for _, dir := range util.PackageDirs(pkgs) {
		if err := watcher.Add(dir); err != nil {
			return errors.Wrapf(err, "watch %s", dir)
		}
		logger.Infof("watching %s", dir)
	}

	run := func() {
		if _, err := generate(c, project, all, generator.AllParts); err != nil {
			logger.Errorf("generate: %v", err)
		}
	}
	run()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			} else if !isSourceChange(event, project.Root) {
				continue
			}
			logger.Debugf("source changed: %s", event)
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warnf("watch: %v", err)
		case <-fire:
			fire = nil
			c.Reset()
			run()
		}
	}
}

// isSourceChange skips non go files and the generated files under the bundle root.
func isSourceChange(event fsnotify.Event, root string) bool {
	if !strings.HasSuffix(event.Name, ".go") || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) {
		return false
	}
	if len(root) == 0 {
		return true
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return true
	}
	absName, err := filepath.Abs(event.Name)
	if err != nil {
		return true
	}
	rel, err := filepath.Rel(absRoot, absName)
	return err != nil || strings.HasPrefix(rel, "..")
}
