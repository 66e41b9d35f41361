package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Bitlatte/suspect/internal/config"
	"github.com/Bitlatte/suspect/internal/content"
	"github.com/Bitlatte/suspect/internal/metrics"
	"github.com/Bitlatte/suspect/internal/post"
	"github.com/Bitlatte/suspect/internal/reload"
	"github.com/Bitlatte/suspect/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the blog and listens for reload commands",
	Long: `The serve command loads every post and template, then starts the web
server. While it runs, type "reload" on standard input to rebuild posts and
templates without restarting, or "quit" to shut down. A failed reload keeps
the previous content online. With --watch, changes to the post and template
directories trigger a reload automatically.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, appConfig, logger, os.Stdin)
	},
}

func newLoader(cfg config.Config) *post.Loader {
	var opts []post.Option
	if cfg.Sanitize {
		opts = append(opts, post.WithSanitizer())
	}
	return post.NewLoader(opts...)
}

// runServe runs the server until ctx is done, the operator types quit, or the
// listener fails. Failing to build the initial content is fatal.
func runServe(ctx context.Context, cfg config.Config, log *slog.Logger, input io.Reader) error {
	builder := content.NewBuilder(cfg.ContentDir, newLoader(cfg))
	snap, err := builder.Build()
	if err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}
	renderer, err := web.NewRenderer(cfg.TemplateDir)
	if err != nil {
		return fmt.Errorf("initial template load failed: %w", err)
	}

	store := content.NewStore(snap)
	metrics.SetSnapshot(snap.Len(), len(snap.Tags()))
	log.Info("content loaded", slog.Int("posts", snap.Len()), slog.String("dir", cfg.ContentDir))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	server := web.NewServer(cfg, store, renderer, log)
	controller := reload.New(builder, store, cancel, log, renderer)

	commands := make(chan string)
	go reload.ReadCommands(ctx, input, commands, log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server", slog.Duration("timeout", cfg.ShutdownTimeout))
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return controller.Run(gctx, commands)
	})
	if cfg.Watch {
		watcher := reload.NewWatcher([]string{cfg.ContentDir, cfg.TemplateDir}, reload.DefaultDebounce, log)
		g.Go(func() error {
			return watcher.Run(gctx, commands)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server stopped cleanly")
	return nil
}

func init() {
	serveCmd.Flags().String("addr", "", "address to listen on (overrides config)")
	serveCmd.Flags().Bool("watch", false, "reload automatically when posts or templates change")
	rootCmd.AddCommand(serveCmd)
}
