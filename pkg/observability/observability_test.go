package observability_test

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/aretw0/facet/pkg/domain"
	"github.com/aretw0/facet/pkg/object"
	"github.com/aretw0/facet/pkg/observability"
	"github.com/aretw0/facet/pkg/registry"
	"github.com/aretw0/facet/pkg/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counter struct{ N int64 }

func defineCounter(t *testing.T, hooks domain.LifecycleHooks) *object.Class {
	t.Helper()
	reg := registry.NewRegistry(registry.WithHooks(hooks))
	c, err := reg.Define("counter", func() any { return &counter{} })
	require.NoError(t, err)
	require.NoError(t, c.AddProperty(object.Property{
		Name: "n",
		Type: schema.Int(),
		Get:  func(o *object.Object) (any, error) { return o.Raw().(*counter).N, nil },
		Set: func(o *object.Object, v any) error {
			o.Raw().(*counter).N = v.(int64)
			return nil
		},
		Default: func(o *object.Object, v any) error {
			o.Raw().(*counter).N = 0
			return nil
		},
	}))
	require.NoError(t, c.AddProperty(object.Property{
		Name: "id",
		Get:  func(o *object.Object) (any, error) { return "c", nil },
	}))
	require.NoError(t, reg.Save(c))
	return c
}

func TestMetrics_RecordsLifecycle(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m := observability.NewMetrics(promReg)
	c := defineCounter(t, m.Hooks())

	o, err := c.Instantiate()
	require.NoError(t, err)
	_, err = c.Instantiate()
	require.NoError(t, err)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Objects.WithLabelValues("counter")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Live.WithLabelValues("counter")))

	o.Destroy()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Live.WithLabelValues("counter")))
}

func TestMetrics_RecordsProperties(t *testing.T) {
	m := observability.NewMetrics(nil)
	c := defineCounter(t, m.Hooks())
	c.SetIndexMissHandler(func(o *object.Object, key string) (any, error) { return nil, nil })

	o, err := c.Instantiate()
	require.NoError(t, err)

	require.NoError(t, o.Set("n", int64(3)))
	require.NoError(t, o.Set("n", "three"))
	_, err = o.Get("n")
	require.NoError(t, err)
	_, err = o.Get("whatever")
	require.NoError(t, err)
	assert.Error(t, o.Set("id", "x"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.PropertyOps.WithLabelValues("counter", "set", observability.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PropertyOps.WithLabelValues("counter", "set", observability.OutcomeCoerced)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PropertyOps.WithLabelValues("counter", "get", observability.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PropertyOps.WithLabelValues("counter", "get", observability.OutcomeMiss)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PropertyOps.WithLabelValues("counter", "set", observability.OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PropertyErrors.WithLabelValues("counter", "read_only")))
}

func TestMetrics_RecordsSignals(t *testing.T) {
	m := observability.NewMetrics(nil)
	c := defineCounter(t, m.Hooks())
	o, err := c.Instantiate()
	require.NoError(t, err)

	noop := func(*object.Object, ...any) error { return nil }
	require.NoError(t, o.ConnectSignal("tick", noop))
	require.NoError(t, o.ConnectSignal("tick", noop))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Connections.WithLabelValues("counter", "tick")))

	require.NoError(t, o.EmitSignal("tick", 1))
	require.NoError(t, o.ConnectSignal("fail", func(*object.Object, ...any) error { return errors.New("boom") }))
	require.Error(t, o.EmitSignal("fail"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.SignalEmits.WithLabelValues("counter", "tick", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SignalEmits.WithLabelValues("counter", "fail", "true")))

	require.NoError(t, o.DisconnectSignal("tick"))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Connections.WithLabelValues("counter", "tick")))
}

func TestMetrics_RegistersCollectors(t *testing.T) {
	promReg := prometheus.NewRegistry()
	m := observability.NewMetrics(promReg)
	m.Objects.WithLabelValues("x").Inc()

	n, err := testutil.GatherAndCount(promReg, "facet_objects_created_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestReason(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{domain.NewError(domain.OpGet, "c", "k", domain.ErrUnknownProperty), "unknown"},
		{domain.ErrReadOnlyProperty, "read_only"},
		{domain.ErrWriteOnlyProperty, "write_only"},
		{domain.ErrTypeMismatch, "type_mismatch"},
		{domain.ErrMarshal, "marshal"},
		{errors.New("x"), "other"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, observability.Reason(tt.err))
	}
}

func TestChain(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{
		OnInstantiate: func(*domain.ObjectEvent) { order = append(order, "a") },
	}
	b := domain.LifecycleHooks{
		OnInstantiate: func(*domain.ObjectEvent) { order = append(order, "b") },
		OnDestroy:     func(*domain.ObjectEvent) { order = append(order, "b-destroy") },
	}

	h := observability.Chain(a, domain.LifecycleHooks{}, b)
	h.OnInstantiate(&domain.ObjectEvent{})
	h.OnDestroy(&domain.ObjectEvent{})

	assert.Equal(t, []string{"a", "b", "b-destroy"}, order)
	assert.Nil(t, h.OnPropertyGet)
	assert.True(t, observability.Chain().Empty())
}

func TestDebugHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	c := defineCounter(t, observability.DebugHooks(logger))

	o, err := c.Instantiate()
	require.NoError(t, err)
	require.NoError(t, o.Set("n", int64(1)))
	require.Error(t, o.Set("id", 1))
	require.NoError(t, o.EmitSignal("noop"))

	out := buf.String()
	assert.Contains(t, out, "msg=Instantiate")
	assert.Contains(t, out, "msg=Set")
	assert.Contains(t, out, `msg="Set (Error)"`)
	assert.Contains(t, out, "msg=Emit")
	assert.Contains(t, out, "signal=noop")
}
