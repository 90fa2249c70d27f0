package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/gtww/pkg/errors"
	"github.com/matzehuels/gtww/pkg/gr"
	"github.com/matzehuels/gtww/pkg/redblack"
	"github.com/matzehuels/gtww/pkg/solver"
)

const pathGraph = "p tww 4 3\n1 2\n2 3\n3 4\n"

// isolate points the config and cache directories at temp dirs and silences
// status output.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	old := uiOut
	uiOut = io.Discard
	t.Cleanup(func() { uiOut = old })
}

// execute runs gtww with args, feeding stdin and returning stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetIO(strings.NewReader(stdin), &out)

	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRootSolvesStdin(t *testing.T) {
	isolate(t)

	out, err := execute(t, pathGraph)
	require.NoError(t, err)
	assert.Equal(t, "c tww: 1\n1 2\n1 3\n1 4\n", out)
}

func TestSolveEmptyGraph(t *testing.T) {
	isolate(t)

	out, err := execute(t, "c nothing\n", "solve")
	require.NoError(t, err)
	assert.Equal(t, "c tww: 0\n", out)
}

func TestSolveInvalidInput(t *testing.T) {
	isolate(t)

	out, err := execute(t, "1 x\n", "solve", "--no-cache")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "code = %s", errors.GetCode(err))
	assert.Empty(t, out)
}

func TestSolveFileJSONAndCache(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "path.gr", pathGraph)

	var first, second jsonReport
	out, err := execute(t, "", "solve", path, "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &first))

	out, err = execute(t, "", "solve", path, "--json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &second))

	assert.Equal(t, "path.gr", first.Name)
	assert.Equal(t, 4, first.Vertices)
	assert.Equal(t, 3, first.Edges)
	assert.Equal(t, 1, first.Width)
	assert.Len(t, first.Contractions, 3)
	assert.False(t, first.Cached)

	assert.True(t, second.Cached)
	assert.Equal(t, first.Contractions, second.Contractions)
	assert.Equal(t, first.GraphHash, second.GraphHash)
}

func TestSolveOutputFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "path.gr", pathGraph)
	dest := filepath.Join(dir, "path.gr.tww")

	out, err := execute(t, "", "solve", path, "-o", dest, "--verify")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "c tww: 1\n1 2\n1 3\n1 4\n", string(data))
}

func TestSolveStepLimit(t *testing.T) {
	isolate(t)

	_, err := execute(t, pathGraph, "solve", "--max-steps", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeStepLimit))
}

func TestBatch(t *testing.T) {
	isolate(t)
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "results")
	writeFile(t, in, "path.gr", pathGraph)
	writeFile(t, in, "star.gr", "1 2\n1 3\n1 4\n")
	writeFile(t, in, "broken.gr", "1 2\n2\n")
	writeFile(t, in, "notes.txt", "1 2\n")

	_, err := execute(t, "", "batch", in, out, "--quiet", "--jobs", "2")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 graphs failed")

	f, err := os.Open(filepath.Join(out, "path.gr.tww"))
	require.NoError(t, err)
	defer f.Close()
	seq, err := gr.ReadSequence(f)
	require.NoError(t, err)
	assert.Equal(t, 1, seq.Width)
	assert.Len(t, seq.Pairs, 3)

	assert.FileExists(t, filepath.Join(out, "star.gr.tww"))
	assert.NoFileExists(t, filepath.Join(out, "star.gr.log"))
	assert.NoFileExists(t, filepath.Join(out, "notes.txt.tww"))

	assert.NoFileExists(t, filepath.Join(out, "broken.gr.tww"))
	log, err := os.ReadFile(filepath.Join(out, "broken.gr.log"))
	require.NoError(t, err)
	assert.Contains(t, string(log), "solve failed")
	assert.Contains(t, string(log), "line 2")
}

func TestBatchEmptyDir(t *testing.T) {
	isolate(t)
	out := filepath.Join(t.TempDir(), "results")

	_, err := execute(t, "", "batch", t.TempDir(), out)
	require.NoError(t, err)
	assert.NoDirExists(t, out)
}

func TestBatchMissingDir(t *testing.T) {
	isolate(t)

	_, err := execute(t, "", "batch", filepath.Join(t.TempDir(), "nope"), t.TempDir())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestVerify(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	graph := writeFile(t, dir, "path.gr", pathGraph)

	tests := []struct {
		name    string
		seq     string
		wantErr bool
	}{
		{"greedy sequence", "c tww: 1\n1 2\n1 3\n1 4\n", false},
		{"other order", "c tww: 1\n4 3\n4 2\n4 1\n", false},
		{"wrong width", "c tww: 0\n1 2\n1 3\n1 4\n", true},
		{"incomplete", "c tww: 1\n1 2\n", true},
		{"unknown vertex", "c tww: 1\n1 9\n", true},
		{"missing width line", "1 2\n1 3\n1 4\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq := writeFile(t, dir, "seq.tww", tt.seq)
			_, err := execute(t, "", "verify", graph, seq)
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeInvalidSequence), "code = %s", errors.GetCode(err))
		})
	}
}

func TestRenderDOT(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "path.gr", pathGraph)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"graph after one step", []string{"--steps", "1"}, "graph G {"},
		{"contraction tree", []string{"--tree"}, "digraph T {"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", path, "--format", "dot"}, tt.args...)
			_, err := execute(t, "", args...)
			require.NoError(t, err)

			data, err := os.ReadFile(filepath.Join(dir, "path.dot"))
			require.NoError(t, err)
			assert.Contains(t, string(data), tt.want)
		})
	}
}

func TestRenderStdinToStdout(t *testing.T) {
	isolate(t)

	out, err := execute(t, pathGraph, "render", "-f", "DOT", "--steps", "0")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "graph G {"), out)
}

func TestRenderInvalidFormat(t *testing.T) {
	isolate(t)

	_, err := execute(t, pathGraph, "render", "--format", "pdf")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestInspectStatic(t *testing.T) {
	isolate(t)

	out, err := execute(t, pathGraph, "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "stdin  width 1")
	assert.Contains(t, out, "Survivor")
	assert.Contains(t, out, "[3/3]")
}

func TestConfigCommands(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "gtww", "config.toml")

	out, err := execute(t, "", "--config", path, "config", "path")
	require.Error(t, err, "an explicit config file must exist")
	assert.Empty(t, out)

	t.Setenv("XDG_CONFIG_HOME", filepath.Dir(filepath.Dir(path)))
	out, err = execute(t, "", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)

	_, err = execute(t, "", "config", "init")
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = execute(t, "", "config", "init")
	require.Error(t, err)
	_, err = execute(t, "", "config", "init", "--force")
	require.NoError(t, err)

	out, err = execute(t, "", "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, `backend = "file"`)
	assert.Contains(t, out, `ttl = "168h0m0s"`)
}

func TestConfigFileApplies(t *testing.T) {
	isolate(t)
	path := writeFile(t, t.TempDir(), "config.toml", "[solve]\nmax_steps = 1\n")

	_, err := execute(t, pathGraph, "--config", path, "solve")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeStepLimit))

	_, err = execute(t, pathGraph, "--config", path, "solve", "--max-steps", "0")
	require.NoError(t, err)
}

func TestCacheCommands(t *testing.T) {
	isolate(t)

	out, err := execute(t, "", "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CACHE_HOME"), appName)+"\n", out)

	path := writeFile(t, t.TempDir(), "path.gr", pathGraph)
	_, err = execute(t, "", "solve", path)
	require.NoError(t, err)

	_, err = execute(t, "", "cache", "clear")
	require.NoError(t, err)

	out, err = execute(t, "", "solve", path, "--json")
	require.NoError(t, err)
	var report jsonReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.False(t, report.Cached)
}

func TestCacheNamespaces(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "path.gr", pathGraph)
	nsA := writeFile(t, dir, "a.toml", "[cache]\nnamespace = \"set-a\"\n")
	nsB := writeFile(t, dir, "b.toml", "[cache]\nnamespace = \"set-b\"\n")

	cached := func(config string) bool {
		t.Helper()
		out, err := execute(t, "", "--config", config, "solve", path, "--json")
		require.NoError(t, err)
		var report jsonReport
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		return report.Cached
	}

	assert.False(t, cached(nsA))
	assert.True(t, cached(nsA))
	assert.False(t, cached(nsB), "namespaces must not share entries")
	assert.True(t, cached(nsB))
}

func TestReplaySteps(t *testing.T) {
	g, err := gr.Read(strings.NewReader(pathGraph))
	require.NoError(t, err)
	model := NewStepperModel("path", g, mustSolve(t, pathGraph))

	require.Len(t, model.States, 4)
	assert.Equal(t, stepState{Vertices: 4, Black: 3}, model.States[0])

	s := model.States[1]
	assert.Equal(t, 3, s.Vertices)
	assert.Equal(t, 1, s.Black)
	assert.Equal(t, 1, s.Red)
	assert.Equal(t, 1, s.MaxRed)
	assert.EqualValues(t, 1, s.Survivor)
	assert.Equal(t, []redblack.Vertex{3}, s.RedNbrs)

	last := model.States[3]
	assert.Equal(t, 1, last.Vertices)
	assert.Zero(t, last.Red)
	assert.Equal(t, 4, g.Len(), "replay must not modify the input graph")
}

func TestStepperModelKeys(t *testing.T) {
	g, err := gr.Read(strings.NewReader(pathGraph))
	require.NoError(t, err)
	var m tea.Model = NewStepperModel("path", g, mustSolve(t, pathGraph))

	press := func(key tea.KeyMsg) StepperModel {
		var cmd tea.Cmd
		m, cmd = m.Update(key)
		assert.Nil(t, cmd)
		return m.(StepperModel)
	}
	runes := func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

	assert.Equal(t, 0, press(tea.KeyMsg{Type: tea.KeyUp}).Cursor)
	assert.Equal(t, 1, press(tea.KeyMsg{Type: tea.KeyDown}).Cursor)
	assert.Equal(t, 3, press(runes("G")).Cursor)
	assert.Equal(t, 3, press(runes("j")).Cursor, "cursor stops at the last step")
	assert.Equal(t, 1, press(runes("w")).Cursor, "first step reaching the width")
	assert.Equal(t, 0, press(runes("g")).Cursor)

	view := m.View()
	assert.Contains(t, view, "initial graph")

	_, cmd := m.Update(runes("q"))
	assert.NotNil(t, cmd)
}

func TestStepperModelWindowSize(t *testing.T) {
	g, err := gr.Read(strings.NewReader(pathGraph))
	require.NoError(t, err)
	m, _ := NewStepperModel("path", g, mustSolve(t, pathGraph)).Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	assert.Equal(t, 5, m.(StepperModel).Height)
}

func mustSolve(t *testing.T, input string) *solver.Sequence {
	t.Helper()
	g, err := gr.Read(strings.NewReader(input))
	require.NoError(t, err)
	return solver.Greedy(g)
}
