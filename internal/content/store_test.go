package content_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bitlatte/suspect/internal/content"
	"github.com/Bitlatte/suspect/internal/model"
)

func TestStore_NilInitial(t *testing.T) {
	s := content.NewStore(nil)
	require.NotNil(t, s.Current())
	assert.Equal(t, 0, s.Current().Len())
	assert.Equal(t, uint64(0), s.Generation())
}

func TestStore_PublishKeepsOldSnapshotsValid(t *testing.T) {
	first, err := content.NewSnapshot([]model.Post{mkPost("a", "Jan 1, 2020")})
	require.NoError(t, err)
	second, err := content.NewSnapshot([]model.Post{mkPost("b", "Jan 2, 2020"), mkPost("c", "Jan 3, 2020")})
	require.NoError(t, err)

	s := content.NewStore(first)
	held := s.Current()

	s.Publish(second)

	assert.Same(t, second, s.Current())
	assert.Equal(t, uint64(1), s.Generation())

	_, ok := held.BySlug("a")
	assert.True(t, ok)
	assert.Equal(t, 1, held.Len())
}

// Readers racing a writer must only ever see whole snapshots: every slug in
// the index resolves inside posts and the post count matches the generation
// the snapshot was built for.
func TestStore_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	build := func(n int) *content.Snapshot {
		posts := make([]model.Post, n)
		for i := range posts {
			posts[i] = mkPost(fmt.Sprintf("p%03d", i), "Jan 1, 2020", model.Tag(fmt.Sprintf("size-%d", n)))
		}
		snap, err := content.NewSnapshot(posts)
		require.NoError(t, err)
		return snap
	}

	s := content.NewStore(build(1))
	const rounds = 200

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for r := 0; r < 8; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				snap := s.Current()
				n := snap.Len()
				indices := snap.TagIndices(model.Tag(fmt.Sprintf("size-%d", n)))
				if len(indices) != n {
					t.Errorf("torn snapshot: %d posts, %d tagged", n, len(indices))
					return
				}
				for _, i := range indices {
					if i >= n {
						t.Errorf("index %d out of range %d", i, n)
						return
					}
				}
			}
		}()
	}

	for i := 2; i <= rounds; i++ {
		s.Publish(build(i%17 + 1))
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, uint64(rounds-1), s.Generation())
}
