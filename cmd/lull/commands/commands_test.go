package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/lull/cmd/lull/commands"
	"go.trai.ch/lull/internal/app"
	"go.trai.ch/lull/internal/build"
	"go.trai.ch/lull/internal/core/domain"
)

type mockApp struct {
	watchFunc    func(ctx context.Context, opts app.WatchOptions) error
	setRootFunc  func(path string) error
	settingsFunc func() (*domain.Settings, string, error)
	historyFunc  func(ctx context.Context, limit int) ([]domain.HistoryEntry, error)
	statusFunc   func(ctx context.Context) (string, error)
}

func (m *mockApp) Watch(ctx context.Context, opts app.WatchOptions) error {
	if m.watchFunc != nil {
		return m.watchFunc(ctx, opts)
	}
	return nil
}

func (m *mockApp) SetRoot(path string) error {
	if m.setRootFunc != nil {
		return m.setRootFunc(path)
	}
	return nil
}

func (m *mockApp) Settings() (*domain.Settings, string, error) {
	if m.settingsFunc != nil {
		return m.settingsFunc()
	}
	return domain.DefaultSettings(), "settings.yaml", nil
}

func (m *mockApp) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if m.historyFunc != nil {
		return m.historyFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockApp) Status(ctx context.Context) (string, error) {
	if m.statusFunc != nil {
		return m.statusFunc(ctx)
	}
	return "SERVING", nil
}

func execute(t *testing.T, a commands.Application, stdin string, args ...string) (string, error) {
	t.Helper()

	cli := commands.New(a)
	buf := new(bytes.Buffer)
	cli.SetOutput(buf, buf)
	cli.SetInput(strings.NewReader(stdin))
	cli.SetArgs(args)

	err := cli.Execute(context.Background())
	return buf.String(), err
}

func TestCommands_Watch(t *testing.T) {
	t.Run("wires flags correctly", func(t *testing.T) {
		var captured app.WatchOptions
		mock := &mockApp{
			watchFunc: func(_ context.Context, opts app.WatchOptions) error {
				captured = opts
				return nil
			},
		}

		_, err := execute(t, mock, "",
			"watch", "--root", "/src", "--quiescence", "3s",
			"--include-deletes", "--flush-on-exit", "--log-json",
		)
		require.NoError(t, err)
		assert.Equal(t, app.WatchOptions{
			Root:           "/src",
			Quiescence:     3 * time.Second,
			IncludeDeletes: true,
			FlushOnExit:    true,
			LogJSON:        true,
		}, captured)
	})

	t.Run("returns error on watch failure", func(t *testing.T) {
		mock := &mockApp{
			watchFunc: func(_ context.Context, _ app.WatchOptions) error {
				return errors.New("simulated error")
			},
		}

		_, err := execute(t, mock, "", "watch")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "simulated error")
	})

	t.Run("prompts for a replacement root", func(t *testing.T) {
		var saved string
		mock := &mockApp{
			watchFunc: func(_ context.Context, _ app.WatchOptions) error {
				return domain.ErrInvalidRootPath
			},
			setRootFunc: func(path string) error {
				saved = path
				return nil
			},
		}

		out, err := execute(t, mock, "  /new/root \n", "watch")
		require.NoError(t, err)
		assert.Equal(t, "/new/root", saved)
		assert.Contains(t, out, "[Path] <- ")
		assert.Contains(t, out, "Restart lull")
	})

	t.Run("empty answer returns the root error", func(t *testing.T) {
		mock := &mockApp{
			watchFunc: func(_ context.Context, _ app.WatchOptions) error {
				return domain.ErrInvalidRootPath
			},
			setRootFunc: func(string) error {
				panic("should not be called")
			},
		}

		_, err := execute(t, mock, "", "watch")
		assert.ErrorIs(t, err, domain.ErrInvalidRootPath)
	})

	t.Run("no-prompt fails immediately", func(t *testing.T) {
		mock := &mockApp{
			watchFunc: func(_ context.Context, _ app.WatchOptions) error {
				return domain.ErrInvalidRootPath
			},
		}

		out, err := execute(t, mock, "/ignored\n", "watch", "--no-prompt")
		assert.ErrorIs(t, err, domain.ErrInvalidRootPath)
		assert.NotContains(t, out, "[Path] <- ")
	})

	t.Run("replacement root is validated", func(t *testing.T) {
		mock := &mockApp{
			watchFunc: func(_ context.Context, _ app.WatchOptions) error {
				return domain.ErrInvalidRootPath
			},
			setRootFunc: func(string) error {
				return domain.ErrSettingsWriteFailed
			},
		}

		_, err := execute(t, mock, "/somewhere\n", "watch")
		assert.ErrorIs(t, err, domain.ErrSettingsWriteFailed)
	})
}

func TestCommands_Config(t *testing.T) {
	t.Run("show prints the settings", func(t *testing.T) {
		mock := &mockApp{
			settingsFunc: func() (*domain.Settings, string, error) {
				s := domain.DefaultSettings()
				s.Root = "/src"
				s.HistoryPath = ""
				return s, "/home/me/.config/lull/settings.yaml", nil
			},
		}

		out, err := execute(t, mock, "", "config", "show")
		require.NoError(t, err)
		assert.Contains(t, out, "# /home/me/.config/lull/settings.yaml")
		assert.Contains(t, out, "root:")
		assert.Contains(t, out, "/src")
		assert.Contains(t, out, "10s")
		assert.Contains(t, out, "latest")
		assert.Contains(t, out, "(none)")
	})

	t.Run("set-root persists the path", func(t *testing.T) {
		var saved string
		mock := &mockApp{
			setRootFunc: func(path string) error {
				saved = path
				return nil
			},
		}

		_, err := execute(t, mock, "", "config", "set-root", "/src")
		require.NoError(t, err)
		assert.Equal(t, "/src", saved)
	})

	t.Run("set-root requires a path", func(t *testing.T) {
		_, err := execute(t, &mockApp{}, "", "config", "set-root")
		require.Error(t, err)
	})
}

func TestCommands_History(t *testing.T) {
	settledAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	mock := &mockApp{
		historyFunc: func(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
			assert.Equal(t, 5, limit)
			return []domain.HistoryEntry{{
				SessionID:   "c0ffee",
				SettledAt:   settledAt,
				Fingerprint: 0xabc,
				Paths:       []string{"/src/a.go"},
				Renames:     map[string]string{"/src/b.go": "/src/old.go"},
			}}, nil
		},
	}

	out, err := execute(t, mock, "", "history", "-n", "5", "-v")
	require.NoError(t, err)
	assert.Contains(t, out, "2026-03-01 12:00:00  c0ffee  0000000000000abc  1 paths, 1 renames")
	assert.Contains(t, out, "~ /src/a.go")
	assert.Contains(t, out, "/src/old.go → /src/b.go")
}

func TestCommands_History_Empty(t *testing.T) {
	out, err := execute(t, &mockApp{}, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "no settled sessions recorded")
}

func TestCommands_History_Disabled(t *testing.T) {
	mock := &mockApp{
		historyFunc: func(context.Context, int) ([]domain.HistoryEntry, error) {
			return nil, domain.ErrHistoryDisabled
		},
	}

	_, err := execute(t, mock, "", "history")
	assert.ErrorIs(t, err, domain.ErrHistoryDisabled)
}

func TestCommands_Status(t *testing.T) {
	out, err := execute(t, &mockApp{}, "", "status")
	require.NoError(t, err)
	assert.Equal(t, "SERVING\n", out)
}

func TestCommands_Version(t *testing.T) {
	out, err := execute(t, &mockApp{}, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, build.Version)
}

func TestRoot_Help(t *testing.T) {
	out, err := execute(t, &mockApp{}, "", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "watch")
	assert.Contains(t, out, "history")
}
