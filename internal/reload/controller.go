// Package reload implements the operator control loop that rebuilds and
// republishes site content while the server keeps running.
package reload

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Bitlatte/suspect/internal/content"
	"github.com/Bitlatte/suspect/internal/metrics"
)

// Commands understood by the controller.
const (
	CommandReload = "reload"
	CommandQuit   = "quit"
)

// Builder builds a fresh snapshot.
type Builder interface {
	Build() (*content.Snapshot, error)
}

// Publisher makes a snapshot live.
type Publisher interface {
	Publish(*content.Snapshot)
}

// Stage is another piece of live state reloaded alongside content, such as
// templates. Prepare builds the replacement without touching live state and
// returns a commit func that installs it.
type Stage interface {
	Name() string
	Prepare() (commit func(), err error)
}

// Controller executes operator commands. Only one goroutine may call Run,
// Execute or Reload at a time.
type Controller struct {
	builder  Builder
	store    Publisher
	stages   []Stage
	shutdown func()
	log      *slog.Logger
}

// New returns a controller publishing snapshots from builder into store.
// shutdown is called when the operator asks to quit.
func New(builder Builder, store Publisher, shutdown func(), log *slog.Logger, stages ...Stage) *Controller {
	return &Controller{
		builder:  builder,
		store:    store,
		stages:   stages,
		shutdown: shutdown,
		log:      log,
	}
}

// Reload rebuilds content and every stage. Nothing is published unless all of
// them succeed.
func (c *Controller) Reload() error {
	start := time.Now()

	err := c.reload()
	metrics.RecordReload(err == nil, time.Since(start).Seconds())
	return err
}

func (c *Controller) reload() error {
	snap, err := c.builder.Build()
	if err != nil {
		return fmt.Errorf("build content: %w", err)
	}

	commits := make([]func(), 0, len(c.stages))
	for _, stage := range c.stages {
		commit, err := stage.Prepare()
		if err != nil {
			return fmt.Errorf("prepare %s: %w", stage.Name(), err)
		}
		commits = append(commits, commit)
	}

	c.store.Publish(snap)
	for _, commit := range commits {
		commit()
	}
	metrics.SetSnapshot(snap.Len(), len(snap.Tags()))

	c.log.Info("content reloaded", slog.Int("posts", snap.Len()))
	return nil
}

// Execute runs a single command line and reports whether the loop should stop.
func (c *Controller) Execute(line string) (quit bool) {
	switch cmd := strings.TrimSpace(line); cmd {
	case "":
		return false
	case CommandReload:
		if err := c.Reload(); err != nil {
			c.log.Error("reload failed, keeping previous content", slog.Any("error", err))
		}
		return false
	case CommandQuit:
		c.log.Info("quit requested")
		if c.shutdown != nil {
			c.shutdown()
		}
		return true
	default:
		c.log.Warn("unrecognized command", slog.String("command", cmd))
		return false
	}
}

// Run executes commands until quit is received or ctx is done. A closed
// commands channel stops input but not the loop.
func (c *Controller) Run(ctx context.Context, commands <-chan string) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-commands:
			if !ok {
				commands = nil
				continue
			}
			if c.Execute(line) {
				return nil
			}
		}
	}
}
