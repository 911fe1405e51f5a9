package normalizer_test

import (
	"context"
	"errors"
	"iter"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lull/internal/core/domain"
	"go.trai.ch/lull/internal/core/ports/mocks"
	"go.trai.ch/lull/internal/engine/ledger"
	"go.trai.ch/lull/internal/engine/normalizer"
	"go.uber.org/mock/gomock"
)

// recordingActivity captures the ledger size at every signal.
type recordingActivity struct {
	mu      sync.Mutex
	ledger  *ledger.Ledger
	signals []int
}

func (a *recordingActivity) OnActivity() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signals = append(a.signals, a.ledger.Len())
}

func (a *recordingActivity) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.signals)
}

func newNormalizer(t *testing.T, includeDeletes bool) (*normalizer.Normalizer, *ledger.Ledger, *recordingActivity) {
	t.Helper()
	l := ledger.New(domain.RenameLatest)
	activity := &recordingActivity{ledger: l}
	n := normalizer.New(normalizer.Config{
		Ledger:         l,
		Activity:       activity,
		IncludeDeletes: includeDeletes,
	})
	return n, l, activity
}

func TestNormalize_Kinds(t *testing.T) {
	n, _, _ := newNormalizer(t, false)

	tests := []struct {
		name string
		raw  domain.RawEvent
		want domain.ChangeEvent
	}{
		{
			name: "write",
			raw:  domain.RawEvent{Op: domain.RawWrite, Path: "/w/a"},
			want: domain.ChangeEvent{Path: "/w/a", Kind: domain.Modified},
		},
		{
			name: "create",
			raw:  domain.RawEvent{Op: domain.RawCreate, Path: "/w/a"},
			want: domain.ChangeEvent{Path: "/w/a", Kind: domain.Created},
		},
		{
			name: "remove",
			raw:  domain.RawEvent{Op: domain.RawRemove, Path: "/w/a"},
			want: domain.ChangeEvent{Path: "/w/a", Kind: domain.Deleted},
		},
		{
			name: "paired rename",
			raw:  domain.RawEvent{Op: domain.RawRename, Path: "/w/b", OldPath: "/w/a"},
			want: domain.ChangeEvent{Path: "/w/b", Kind: domain.RenamedTo, PreviousPath: "/w/a"},
		},
		{
			name: "rename without origin",
			raw:  domain.RawEvent{Op: domain.RawRename, Path: "/w/b"},
			want: domain.ChangeEvent{Path: "/w/b", Kind: domain.Created},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := n.Normalize(tt.raw)
			require.True(t, ok)
			assert.Equal(t, tt.want.Path, got.Path)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.PreviousPath, got.PreviousPath)
			assert.False(t, got.At.IsZero())
		})
	}
}

func TestHandle_ModifyAndCreateAreRecordedBeforeSignal(t *testing.T) {
	n, l, activity := newNormalizer(t, false)

	n.Handle(context.Background(), domain.RawEvent{Op: domain.RawWrite, Path: "/w/a"})
	n.Handle(context.Background(), domain.RawEvent{Op: domain.RawCreate, Path: "/w/b"})

	assert.Equal(t, []int{1, 2}, activity.signals)
	assert.Equal(t, []string{"/w/a", "/w/b"}, l.SnapshotAndClear().Paths)
}

func TestHandle_DeletePolicy(t *testing.T) {
	t.Run("Excluded", func(t *testing.T) {
		n, l, activity := newNormalizer(t, false)

		n.Handle(context.Background(), domain.RawEvent{Op: domain.RawRemove, Path: "/w/a"})

		assert.Equal(t, 1, activity.count(), "a delete still re-arms the session")
		assert.True(t, l.SnapshotAndClear().Empty())
	})

	t.Run("Included", func(t *testing.T) {
		n, l, activity := newNormalizer(t, true)

		n.Handle(context.Background(), domain.RawEvent{Op: domain.RawRemove, Path: "/w/a"})

		assert.Equal(t, 1, activity.count())
		assert.Equal(t, []string{"/w/a"}, l.SnapshotAndClear().Paths)
	})
}

func TestHandle_RenamePairing(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		n, l, activity := newNormalizer(t, false)

		n.Handle(context.Background(), domain.RawEvent{Op: domain.RawRenameFrom, Path: "/w/a"})
		time.Sleep(10 * time.Millisecond)
		n.Handle(context.Background(), domain.RawEvent{Op: domain.RawCreate, Path: "/w/b"})

		time.Sleep(time.Second)
		synctest.Wait()

		cs := l.SnapshotAndClear()
		assert.Equal(t, []string{"/w/b"}, cs.Paths)
		origin, ok := cs.Origin("/w/b")
		require.True(t, ok)
		assert.Equal(t, "/w/a", origin)
		assert.Equal(t, 2, activity.count())
	})
}

func TestHandle_RenameOriginRecordedBeforeSignal(t *testing.T) {
	l := ledger.New(domain.RenameLatest)
	var originAtSignal string
	n := normalizer.New(normalizer.Config{
		Ledger: l,
		Activity: activityFunc(func() {
			cs := l.SnapshotAndClear()
			originAtSignal, _ = cs.Origin("/w/b")
		}),
	})

	n.Handle(context.Background(), domain.RawEvent{Op: domain.RawRename, Path: "/w/b", OldPath: "/w/a"})

	assert.Equal(t, "/w/a", originAtSignal)
}

func TestHandle_UnpairedRenameBecomesDelete(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		n, l, activity := newNormalizer(t, true)

		n.Handle(context.Background(), domain.RawEvent{Op: domain.RawRenameFrom, Path: "/w/a"})
		assert.Equal(t, 0, l.Len())

		time.Sleep(domain.DefaultRenamePairWindow + time.Millisecond)
		synctest.Wait()

		assert.Equal(t, []string{"/w/a"}, l.SnapshotAndClear().Paths)
		assert.Equal(t, 2, activity.count())

		// A late create is a plain creation.
		n.Handle(context.Background(), domain.RawEvent{Op: domain.RawCreate, Path: "/w/b"})
		cs := l.SnapshotAndClear()
		assert.Empty(t, cs.RenameOrigins)
		assert.Equal(t, []string{"/w/b"}, cs.Paths)
	})
}

func TestHandle_RenameOriginOnlyPairsWithNextEvent(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		n, l, activity := newNormalizer(t, true)

		n.Handle(context.Background(), domain.RawEvent{Op: domain.RawRenameFrom, Path: "/w/dir1/a.txt"})
		n.Handle(context.Background(), domain.RawEvent{Op: domain.RawWrite, Path: "/w/other/c.log"})
		n.Handle(context.Background(), domain.RawEvent{Op: domain.RawCreate, Path: "/w/other/new.bin"})

		cs := l.SnapshotAndClear()
		assert.Empty(t, cs.RenameOrigins, "an unrelated create must not inherit the moved-out entry")
		assert.Equal(t, []string{"/w/dir1/a.txt", "/w/other/c.log", "/w/other/new.bin"}, cs.Paths)
		assert.Equal(t, 4, activity.count())

		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, 0, l.Len(), "the expired origin must not be reported twice")
	})
}

func TestHandle_SecondRenameFromExpiresFirst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		n, l, _ := newNormalizer(t, true)

		n.Handle(context.Background(), domain.RawEvent{Op: domain.RawRenameFrom, Path: "/w/a"})
		n.Handle(context.Background(), domain.RawEvent{Op: domain.RawRenameFrom, Path: "/w/b"})
		n.Handle(context.Background(), domain.RawEvent{Op: domain.RawCreate, Path: "/w/c"})

		cs := l.SnapshotAndClear()
		assert.Equal(t, []string{"/w/a", "/w/c"}, cs.Paths)
		origin, ok := cs.Origin("/w/c")
		require.True(t, ok)
		assert.Equal(t, "/w/b", origin)
	})
}

func TestHandle_ReportsEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	reporter := mocks.NewMockReporter(ctrl)
	l := ledger.New(domain.RenameLatest)
	n := normalizer.New(normalizer.Config{Ledger: l, Reporter: reporter})

	reporter.EXPECT().OnEvent(gomock.Any()).Do(func(ev domain.ChangeEvent) {
		assert.Equal(t, domain.RenamedTo, ev.Kind)
		assert.Equal(t, "/w/b", ev.Path)
		assert.Equal(t, "/w/a", ev.PreviousPath)
	})

	n.Handle(context.Background(), domain.RawEvent{Op: domain.RawRename, Path: "/w/b", OldPath: "/w/a"})
}

func TestHandleError(t *testing.T) {
	t.Run("Overflow", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		logger := mocks.NewMockLogger(ctrl)
		l := ledger.New(domain.RenameLatest)
		activity := &recordingActivity{ledger: l}
		n := normalizer.New(normalizer.Config{Ledger: l, Activity: activity, Logger: logger})

		logger.EXPECT().Warn(gomock.Any())

		err := n.HandleError(fsnotify.ErrEventOverflow)
		require.ErrorIs(t, err, domain.ErrSourceOverflow)
		require.ErrorIs(t, err, fsnotify.ErrEventOverflow)
		assert.Equal(t, 1, activity.count())
	})

	t.Run("Other", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		logger := mocks.NewMockLogger(ctrl)
		n := normalizer.New(normalizer.Config{Ledger: ledger.New(domain.RenameLatest), Logger: logger})
		cause := errors.New("inotify: bad descriptor")

		logger.EXPECT().Error(gomock.Any())

		err := n.HandleError(cause)
		require.ErrorIs(t, err, domain.ErrSourceFailed)
		require.ErrorIs(t, err, cause)
	})

	t.Run("Nil", func(t *testing.T) {
		n := normalizer.New(normalizer.Config{Ledger: ledger.New(domain.RenameLatest)})
		assert.NoError(t, n.HandleError(nil))
	})
}

func TestRun_DrainsSourceAndSurvivesOverflow(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockEventSource(ctrl)
	logger := mocks.NewMockLogger(ctrl)
	l := ledger.New(domain.RenameLatest)
	n := normalizer.New(normalizer.Config{Ledger: l, Logger: logger})

	var seq iter.Seq2[domain.RawEvent, error] = func(yield func(domain.RawEvent, error) bool) {
		if !yield(domain.RawEvent{Op: domain.RawWrite, Path: "/w/a"}, nil) {
			return
		}
		if !yield(domain.RawEvent{}, fsnotify.ErrEventOverflow) {
			return
		}
		yield(domain.RawEvent{Op: domain.RawCreate, Path: "/w/b"}, nil)
	}
	source.EXPECT().Events().Return(seq)
	logger.EXPECT().Warn(gomock.Any())

	err := n.Run(context.Background(), source)
	require.NoError(t, err)
	assert.Equal(t, []string{"/w/a", "/w/b"}, l.SnapshotAndClear().Paths)
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctrl := gomock.NewController(t)
	source := mocks.NewMockEventSource(ctrl)
	l := ledger.New(domain.RenameLatest)
	n := normalizer.New(normalizer.Config{Ledger: l})
	ctx, cancel := context.WithCancel(context.Background())

	var seq iter.Seq2[domain.RawEvent, error] = func(yield func(domain.RawEvent, error) bool) {
		for _, p := range []string{"/w/a", "/w/b", "/w/c"} {
			if p == "/w/b" {
				cancel()
			}
			if !yield(domain.RawEvent{Op: domain.RawWrite, Path: p}, nil) {
				return
			}
		}
	}
	source.EXPECT().Events().Return(seq)

	err := n.Run(ctx, source)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"/w/a"}, l.SnapshotAndClear().Paths)
}

func TestClose_FlushesPendingRenames(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		n, l, _ := newNormalizer(t, true)

		n.Handle(context.Background(), domain.RawEvent{Op: domain.RawRenameFrom, Path: "/w/a"})
		n.Close()

		assert.Equal(t, []string{"/w/a"}, l.SnapshotAndClear().Paths)

		time.Sleep(time.Second)
		synctest.Wait()
		assert.Equal(t, 0, l.Len(), "the cancelled timer must not report the origin twice")
	})
}

type activityFunc func()

func (f activityFunc) OnActivity() { f() }
