package facet_test

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/aretw0/facet"
	"github.com/aretw0/facet/pkg/button"
	"github.com/aretw0/facet/pkg/domain"
	"github.com/aretw0/facet/pkg/dsl"
	"github.com/aretw0/facet/pkg/object"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRuntime(t *testing.T, opts ...facet.Option) *facet.Runtime {
	t.Helper()
	rt, err := facet.New(opts...)
	require.NoError(t, err)
	t.Cleanup(rt.Close)
	return rt
}

func TestRuntime_Builtins(t *testing.T) {
	rt := newRuntime(t)
	assert.Equal(t, []string{button.ClassName}, rt.Registry().Names())

	require.NoError(t, rt.Run(`b = button({ button = 4 })`))
	v, err := rt.Host().Global("b")
	require.NoError(t, err)
	state, err := button.Of(v.(*object.Object))
	require.NoError(t, err)
	assert.Equal(t, uint32(4), state.Button)

	bare := newRuntime(t, facet.WithoutBuiltins())
	assert.Empty(t, bare.Registry().Names())
	assert.Error(t, bare.Run(`b = button()`))
}

func TestRuntime_Define(t *testing.T) {
	rt := newRuntime(t)

	type lamp struct{ On bool }
	b := dsl.New("lamp", func() any { return &lamp{} }).
		Add(object.Field("on",
			func(l *lamp) bool { return l.On },
			func(l *lamp, v bool) { l.On = v }))
	_, err := rt.Define(b)
	require.NoError(t, err)

	require.NoError(t, rt.Run(`
l = lamp()
assert(l.on == false)
l.on = true
assert(l.on == true)
`))

	_, err = rt.Define(dsl.New("lamp", nil))
	assert.ErrorIs(t, err, domain.ErrDuplicateClass)
}

func TestRuntime_LoadManifest(t *testing.T) {
	rt := newRuntime(t)
	classes, err := rt.LoadManifest(filepath.Join("pkg", "manifest", "testdata", "widgets.yaml"))
	require.NoError(t, err)
	assert.Len(t, classes, 2)

	require.NoError(t, rt.Run(`
c = checkbox({ label = "go" })
assert(c.label == "go")
assert(c.width == 10)
c.width = "12"
assert(c.width == 12)
assert(#checkbox.properties() == 2)
`))
}

func TestRuntime_Metrics(t *testing.T) {
	promReg := prometheus.NewRegistry()
	rt := newRuntime(t, facet.WithMetrics(promReg))

	var seen int
	hooked := newRuntime(t, facet.WithLifecycleHooks(domain.LifecycleHooks{
		OnInstantiate: func(*domain.ObjectEvent) { seen++ },
	}))

	require.NoError(t, rt.Run(`button(); button()`))
	require.NoError(t, hooked.Run(`button()`))

	assert.Equal(t, 2.0, testutil.ToFloat64(rt.Metrics().Objects.WithLabelValues(button.ClassName)))
	assert.Equal(t, 1, seen)
	assert.Nil(t, hooked.Metrics())
}

func TestRuntime_Instantiate(t *testing.T) {
	rt := newRuntime(t)
	o, err := rt.Instantiate(button.ClassName, map[string]any{"button": 2})
	require.NoError(t, err)
	require.NoError(t, rt.SetGlobal("b", o))
	require.NoError(t, rt.Run(`assert(b.button == 2)`))

	_, err = rt.Instantiate("ghost")
	assert.ErrorIs(t, err, domain.ErrUnknownClass)
}

func TestRuntime_OutputAndEval(t *testing.T) {
	var out bytes.Buffer
	rt := newRuntime(t, facet.WithOutput(&out))

	require.NoError(t, rt.Run(`b = button({ button = 2 }); print(b.button)`))
	assert.Equal(t, "2\n", out.String())

	res, err := rt.Eval(context.Background(), `b.button + 1`)
	require.NoError(t, err)
	assert.Equal(t, []string{"3"}, res)
}

func TestVersion(t *testing.T) {
	assert.NotEmpty(t, facet.Version)
}
