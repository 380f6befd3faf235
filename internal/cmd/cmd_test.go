package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/x/exp/golden"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/charmbracelet/virtualize/internal/config"
	"github.com/charmbracelet/virtualize/internal/virtualize"
)

// The commands share the global rootCmd and its flags, so these tests do not
// run in parallel.

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(t.Context()))
	return out.String()
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRenderLayout(t *testing.T) {
	items := []string{"A", "B", "C", "D", "E"}
	hundred := make([]string, 100)
	for i := range hundred {
		hundred[i] = fmt.Sprintf("item-%d", i)
	}
	cases := []struct {
		name string
		req  renderRequest
		want string
	}{
		{
			name: "whole list",
			req:  renderRequest{items: items, itemSize: 10, spacer: 0, container: 25, edge: "before"},
			want: "spacer before size=0 items=0\n" +
				"item 0 A\nitem 1 B\nitem 2 C\nitem 3 D\nitem 4 E\n" +
				"spacer after size=0 items=0\n",
		},
		{
			name: "scrolled into the list",
			req:  renderRequest{items: items, itemSize: 10, spacer: 25, container: 10, edge: "before"},
			want: "spacer before size=10 items=1\n" +
				"item 1 B\nitem 2 C\nitem 3 D\n" +
				"spacer after size=10 items=1\n",
		},
		{
			name: "trailing spacer",
			req:  renderRequest{items: items, itemSize: 10, spacer: 10, container: 10, edge: "after"},
			want: "spacer before size=20 items=2\n" +
				"item 2 C\nitem 3 D\nitem 4 E\n" +
				"spacer after size=0 items=0\n",
		},
		{
			name: "pending fetch keeps loaded items and fills the rest",
			req:  renderRequest{items: items, itemSize: 10, spacer: 10, container: 10, edge: "after", pending: true},
			want: "spacer before size=20 items=2\n" +
				"item 2 C\nplaceholder 3\nplaceholder 4\n" +
				"spacer after size=0 items=0\n",
		},
		{
			name: "pending scroll far from the loaded page",
			req:  renderRequest{items: hundred, itemSize: 10, spacer: 40, container: 10, edge: "before", pending: true},
			want: "spacer before size=30 items=3\n" +
				"placeholder 3\nplaceholder 4\nplaceholder 5\n" +
				"spacer after size=940 items=94\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout, err := renderLayout(tc.req, discard())
			require.NoError(t, err)
			assert.Equal(t, tc.want, layout.String())
		})
	}

	_, err := renderLayout(renderRequest{items: items, itemSize: 10, edge: "sideways"}, discard())
	require.Error(t, err)

	_, err = renderLayout(renderRequest{items: items, itemSize: 0, edge: "before"}, discard())
	require.ErrorIs(t, err, virtualize.ErrInvalidItemSize)
}

func TestRenderCommand(t *testing.T) {
	out := execute(t, "render", "--items", "A,B,C,D,E", "--spacer", "25", "--container", "10")
	golden.RequireEqual(t, []byte(out))
}

func TestConfigSetCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "virtualize.json")

	out := execute(t, "config", "set", "list.item_height", "3", "--config", path)
	assert.Contains(t, out, "Set list.item_height")
	execute(t, "config", "set", "source.kind", "sqlite", "--config", path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.List.ItemHeight)
	assert.Equal(t, config.SourceSQLite, cfg.Source.Kind)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	rootCmd.SetArgs([]string{"config", "set", "source.kind", "bogus", "--config", path})
	rootCmd.SetOut(io.Discard)
	require.Error(t, rootCmd.ExecuteContext(t.Context()))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))

	execute(t, "config", "set", "source.kind", "memory", "--config", path)
	cfg, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.SourceMemory, cfg.Source.Kind)
}

func TestSeedCommand(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "entries.db")
	out := execute(t, "seed", "--count", "5", "--path", db, "--config", filepath.Join(dir, "none.json"))
	assert.Equal(t, "Added 5 entries to "+db+" (5 total)\n", out)
	_, err := os.Stat(db)
	require.NoError(t, err)
}

func TestDirsCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VIRTUALIZE_GLOBAL_CONFIG", filepath.Join(dir, "config"))
	t.Setenv("VIRTUALIZE_GLOBAL_DATA", filepath.Join(dir, "data"))

	out := execute(t, "dirs", "--data")
	assert.Equal(t, filepath.Join(dir, "data")+"\n", out)
}
