package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/facet/internal/logging"
	"github.com/aretw0/facet/pkg/button"
	"github.com/aretw0/facet/pkg/manifest"
	"github.com/aretw0/facet/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const widgetManifest = `
classes:
  - name: widget
    properties:
      - name: label
        type: string
        doc: Text | shown
  - name: checkbox
    parent: widget
    properties:
      - name: checked
        type: bool
        access: r
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// chdir changes the working directory for the rest of the test and restores
// it on cleanup (testing.T.Chdir needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}

func TestDiscoverManifest(t *testing.T) {
	t.Run("yaml first", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "classes.json", "{}")
		writeFile(t, dir, "classes.yaml", "")
		path, ok := discoverManifest(dir)
		require.True(t, ok)
		assert.Equal(t, "classes.yaml", filepath.Base(path))
	})

	t.Run("json fallback", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "classes.json", "{}")
		path, ok := discoverManifest(dir)
		require.True(t, ok)
		assert.Equal(t, "classes.json", filepath.Base(path))
	})

	t.Run("none", func(t *testing.T) {
		_, ok := discoverManifest(t.TempDir())
		assert.False(t, ok)
	})
}

func TestResolveManifests(t *testing.T) {
	logger := logging.NewNop()

	t.Run("explicit wins", func(t *testing.T) {
		assert.Equal(t, []string{"a.yaml"}, resolveManifests([]string{"a.yaml"}, "", logger))
	})

	t.Run("next to script", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "classes.toml", "")
		assert.Equal(t, []string{path}, resolveManifests(nil, filepath.Join(dir, "main.lua"), logger))
	})

	t.Run("working directory", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "classes.yaml", widgetManifest)
		chdir(t, dir)
		got := resolveManifests(nil, "", logger)
		require.Len(t, got, 1)
		assert.Equal(t, "classes.yaml", filepath.Base(got[0]))
	})

	t.Run("none", func(t *testing.T) {
		chdir(t, t.TempDir())
		assert.Empty(t, resolveManifests(nil, "", logger))
	})
}

func TestDiscovery_WithoutScript(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "classes.yaml", widgetManifest)
	chdir(t, dir)

	var buf bytes.Buffer
	require.NoError(t, Describe(DescribeOptions{Names: []string{"checkbox"}, Plain: true}, &buf))
	assert.Contains(t, buf.String(), "# checkbox")

	buf.Reset()
	require.NoError(t, Execute(RunOptions{Eval: `assert(widget({ label = "x" }).label == "x")`, Quiet: true}, &buf))
}

func TestDescribeClasses(t *testing.T) {
	reg := registry.NewRegistry()
	_, err := button.Define(reg)
	require.NoError(t, err)
	path := writeFile(t, t.TempDir(), "classes.yaml", widgetManifest)
	_, err = manifest.NewLoader(reg).LoadFile(path)
	require.NoError(t, err)

	out, err := DescribeClasses(reg, []string{"checkbox", "button"})
	require.NoError(t, err)

	assert.Contains(t, out, "# checkbox")
	assert.Contains(t, out, "Extends `widget`.")
	assert.Contains(t, out, "| `checked` | bool | r |")
	assert.Contains(t, out, "# button")
	assert.Contains(t, out, "| `modifiers` | [string] | rw |")
	assert.Less(t, strings.Index(out, "# checkbox"), strings.Index(out, "# button"))

	all, err := DescribeClasses(reg, nil)
	require.NoError(t, err)
	assert.Contains(t, all, `Text \| shown`)

	_, err = DescribeClasses(reg, []string{"ghost"})
	assert.Error(t, err)
}

func TestDescribe_Plain(t *testing.T) {
	path := writeFile(t, t.TempDir(), "classes.yaml", widgetManifest)
	var buf bytes.Buffer
	require.NoError(t, Describe(DescribeOptions{Classes: []string{path}, Names: []string{"widget"}}, &buf))
	assert.True(t, strings.HasPrefix(buf.String(), "# widget"))
}

func TestDescribe_Mermaid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "classes.yaml", widgetManifest)
	var buf bytes.Buffer
	require.NoError(t, Describe(DescribeOptions{
		Classes: []string{path},
		Names:   []string{"widget", "checkbox"},
		Mermaid: true,
	}, &buf))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "classDiagram\n"))
	assert.Contains(t, out, "+string label")
	assert.Contains(t, out, "#bool checked")
	assert.Contains(t, out, "widget <|-- checkbox")
}

func TestExecute(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "classes.yaml", widgetManifest)
	script := writeFile(t, dir, "main.lua", `
w = widget({ label = greeting })
assert(w.label == "hi")
b = button()
b.connect_signal("press", function(b) b.button = 1 end)
b.emit_signal("press")
`)

	var buf bytes.Buffer
	err := Execute(RunOptions{
		Script:  script,
		Eval:    `assert(b.button == 1)`,
		Context: `{"greeting": "hi"}`,
		Metrics: true,
		Quiet:   true,
	}, &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `facet_objects_created_total{class="widget"} 1`)
	assert.Contains(t, buf.String(), `facet_signal_emits_total{class="button",failed="false",signal="press"} 1`)
}

func TestExecute_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Execute(RunOptions{Quiet: true}, &buf))
	assert.Error(t, Execute(RunOptions{Eval: `error("boom")`, Quiet: true}, &buf))
	assert.Error(t, Execute(RunOptions{Eval: `x = 1`, Context: `[1]`, Quiet: true}, &buf))
	assert.Error(t, Execute(RunOptions{Eval: `x = 1`, LogLevel: "loud", Quiet: true}, &buf))
	assert.Error(t, Execute(RunOptions{Eval: `x = 1`, Classes: []string{"missing.yaml"}, Quiet: true}, &buf))
}

func TestWriteMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: "probe_total", Help: "probe"})
	reg.MustRegister(c)
	c.Inc()

	var buf bytes.Buffer
	require.NoError(t, writeMetrics(&buf, reg))
	assert.Contains(t, buf.String(), "# TYPE probe_total counter")
	assert.Contains(t, buf.String(), "probe_total 1")
}

func TestCreateLogger(t *testing.T) {
	logger, err := createLogger("", false)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = createLogger("warn", false)
	require.NoError(t, err)

	_, err = createLogger("nope", true)
	require.NoError(t, err, "debug wins over the level flag")
}

func TestExecute_WatchNeedsFiles(t *testing.T) {
	var buf bytes.Buffer
	err := Execute(RunOptions{Eval: `x = 1`, Watch: true, Quiet: true}, &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--watch")
}

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "main.lua", "x = 1")
	fw, err := newFileWatcher([]string{path, path}, logging.NewNop())
	require.NoError(t, err)
	defer fw.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(filepath.Join(dir, "other.lua"), []byte("y = 1"), 0644)
		_ = os.WriteFile(path, []byte("x = 2"), 0644)
	}()

	name, err := fw.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, "main.lua", filepath.Base(name))
}

func TestFileWatcher_Cancel(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.lua", "x = 1")
	fw, err := newFileWatcher([]string{path}, logging.NewNop())
	require.NoError(t, err)
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = fw.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReplEvaluator(t *testing.T) {
	dir := t.TempDir()
	manifestPath := writeFile(t, dir, "classes.yaml", widgetManifest)
	script := writeFile(t, dir, "init.lua", `print("setup"); w = widget({ label = "hi" })`)

	eval, err := newReplEvaluator(ReplOptions{Classes: []string{manifestPath}, Script: script})
	require.NoError(t, err)
	defer eval.rt.Close()

	ctx := context.Background()
	out, err := eval.Eval(ctx, `w.label`)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, out, "setup output is dropped")

	out, err = eval.Eval(ctx, `print("a"); print("b")`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a\nb"}, out)

	_, err = eval.Eval(ctx, `w.nope = 1`)
	assert.Error(t, err)

	assert.Contains(t, eval.GlobalNames(), "widget")
}
