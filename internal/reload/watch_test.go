package reload_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/suspect/internal/reload"
)

func TestWatcher_SendsReloadOnChange(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan string, 8)
	w := reload.NewWatcher([]string{dir, filepath.Join(dir, "missing")}, 20*time.Millisecond, discardLogger())

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx, out) }()

	// give the watcher a moment to register the directory
	require.Eventually(t, func() bool {
		name := filepath.Join(dir, "post.md")
		if err := os.WriteFile(name, []byte("x"), 0o644); err != nil {
			return false
		}
		select {
		case cmd := <-out:
			return cmd == reload.CommandReload
		case <-time.After(200 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
