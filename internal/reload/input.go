package reload

import (
	"bufio"
	"context"
	"io"
	"log/slog"
)

// ReadCommands sends every line of r to out until r is exhausted or ctx is
// done. The read itself cannot be interrupted, so callers pass os.Stdin and
// let process exit reclaim the goroutine.
func ReadCommands(ctx context.Context, r io.Reader, out chan<- string, log *slog.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case out <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error("reading commands", slog.Any("error", err))
		return
	}
	log.Debug("command input closed")
}
