package manifest_test

import (
	"errors"
	"testing"

	"github.com/aretw0/facet/pkg/domain"
	"github.com/aretw0/facet/pkg/manifest"
	"github.com/aretw0/facet/pkg/object"
	"github.com/aretw0/facet/pkg/registry"
	"github.com/aretw0/facet/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadWidgets(t *testing.T) *registry.Registry {
	t.Helper()
	reg := registry.NewRegistry()
	classes, err := manifest.NewLoader(reg).LoadFile("testdata/widgets.yaml")
	require.NoError(t, err)
	require.Len(t, classes, 2)
	assert.Equal(t, "widget", classes[0].Name(), "parents load first")
	assert.Equal(t, "checkbox", classes[1].Name())
	return reg
}

func TestLoader_Defaults(t *testing.T) {
	reg := loadWidgets(t)

	o, err := reg.Instantiate("checkbox")
	require.NoError(t, err)

	tests := []struct {
		key  string
		want any
	}{
		{"label", "untitled"},
		{"width", int64(10)},
		{"tags", []any{}},
		{"checked", false},
		{"id", "cb"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, err := o.Get(tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoader_Inheritance(t *testing.T) {
	reg := loadWidgets(t)

	widget, err := reg.Lookup("widget")
	require.NoError(t, err)
	checkbox, err := reg.Lookup("checkbox")
	require.NoError(t, err)

	assert.True(t, checkbox.IsA(widget))
	assert.Len(t, checkbox.Properties(), 2)
	assert.True(t, checkbox.Sealed())

	w, err := widget.Instantiate()
	require.NoError(t, err)
	_, err = w.Get("checked")
	assert.ErrorIs(t, err, domain.ErrUnknownProperty)
}

func TestLoader_Writes(t *testing.T) {
	reg := loadWidgets(t)
	o, err := reg.Instantiate("checkbox", map[string]any{"label": "ok", "checked": true})
	require.NoError(t, err)

	label, err := o.Get("label")
	require.NoError(t, err)
	assert.Equal(t, "ok", label)

	require.NoError(t, o.Set("width", 42))
	width, err := o.Get("width")
	require.NoError(t, err)
	assert.Equal(t, int64(42), width, "ints are normalized")

	t.Run("coerce converts weakly", func(t *testing.T) {
		require.NoError(t, o.Set("width", "7"))
		width, err := o.Get("width")
		require.NoError(t, err)
		assert.Equal(t, int64(7), width)
	})

	t.Run("coerce falls back to the default", func(t *testing.T) {
		require.NoError(t, o.Set("width", "wide"))
		width, err := o.Get("width")
		require.NoError(t, err)
		assert.Equal(t, int64(10), width)
	})

	t.Run("mismatch without coerce", func(t *testing.T) {
		err := o.Set("label", 5)
		assert.ErrorIs(t, err, domain.ErrTypeMismatch)
		label, _ := o.Get("label")
		assert.Equal(t, "ok", label)
	})

	t.Run("access", func(t *testing.T) {
		assert.ErrorIs(t, o.Set("id", "x"), domain.ErrReadOnlyProperty)
		require.NoError(t, o.Set("secret", "s3"))
		_, err := o.Get("secret")
		assert.ErrorIs(t, err, domain.ErrWriteOnlyProperty)

		r, err := manifest.Of(o)
		require.NoError(t, err)
		v, ok := r.Get("secret")
		require.True(t, ok)
		assert.Equal(t, "s3", v)
	})
}

func TestLoader_InstancesDoNotShareValues(t *testing.T) {
	reg := loadWidgets(t)
	a, err := reg.Instantiate("widget")
	require.NoError(t, err)
	b, err := reg.Instantiate("widget")
	require.NoError(t, err)

	require.NoError(t, a.Set("tags", []any{"x"}))
	tags, err := b.Get("tags")
	require.NoError(t, err)
	assert.Equal(t, []any{}, tags)

	got, err := a.Get("tags")
	require.NoError(t, err)
	got.([]any)[0] = "mutated"
	again, _ := a.Get("tags")
	assert.Equal(t, []any{"x"}, again)
}

func TestLoader_JSON(t *testing.T) {
	reg := registry.NewRegistry()
	_, err := manifest.NewLoader(reg).LoadFile("testdata/point.json")
	require.NoError(t, err)

	o, err := reg.Instantiate("point")
	require.NoError(t, err)
	y, err := o.Get("y")
	require.NoError(t, err)
	assert.Equal(t, 1.5, y)
}

func TestLoader_TOML(t *testing.T) {
	reg := registry.NewRegistry()
	classes, err := manifest.NewLoader(reg).LoadFile("testdata/gauge.toml")
	require.NoError(t, err)
	require.Len(t, classes, 1)

	o, err := reg.Instantiate("gauge")
	require.NoError(t, err)
	level, err := o.Get("level")
	require.NoError(t, err)
	assert.Equal(t, int64(3), level)

	require.NoError(t, o.Set("level", "7"))
	level, err = o.Get("level")
	require.NoError(t, err)
	assert.Equal(t, int64(7), level)

	assert.ErrorIs(t, o.Set("unit", "bar"), domain.ErrReadOnlyProperty)
}

func TestLoader_ExtendsEarlierManifest(t *testing.T) {
	reg := registry.NewRegistry()
	l := manifest.NewLoader(reg)
	_, err := l.LoadFile("testdata/widgets.yaml")
	require.NoError(t, err)

	_, err = l.Load(&manifest.File{Classes: []manifest.ClassSpec{
		{Name: "slider", Parent: "widget", Properties: []manifest.PropertySpec{{Name: "value", Type: "float"}}},
	}})
	require.NoError(t, err)

	o, err := reg.Instantiate("slider")
	require.NoError(t, err)
	label, err := o.Get("label")
	require.NoError(t, err)
	assert.Equal(t, "untitled", label)
}

func TestLoader_Rejects(t *testing.T) {
	foreign, err := object.NewClass("foreign", nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		specs []manifest.ClassSpec
		want  error
	}{
		{
			name:  "cycle",
			specs: []manifest.ClassSpec{{Name: "a", Parent: "b"}, {Name: "b", Parent: "a"}},
			want:  domain.ErrCyclicClass,
		},
		{
			name:  "self parent",
			specs: []manifest.ClassSpec{{Name: "a", Parent: "a"}},
			want:  domain.ErrCyclicClass,
		},
		{
			name:  "unknown parent",
			specs: []manifest.ClassSpec{{Name: "a", Parent: "ghost"}},
			want:  domain.ErrUnknownClass,
		},
		{
			name:  "duplicate class",
			specs: []manifest.ClassSpec{{Name: "a"}, {Name: "a"}},
			want:  domain.ErrDuplicateClass,
		},
		{
			name:  "already saved",
			specs: []manifest.ClassSpec{{Name: "foreign"}},
			want:  domain.ErrDuplicateClass,
		},
		{
			name: "duplicate property",
			specs: []manifest.ClassSpec{{Name: "a", Properties: []manifest.PropertySpec{
				{Name: "p"}, {Name: "p"},
			}}},
			want: domain.ErrDuplicateProperty,
		},
		{
			name: "bad default",
			specs: []manifest.ClassSpec{{Name: "a", Properties: []manifest.PropertySpec{
				{Name: "n", Type: "int", Default: "many"},
			}}},
			want: domain.ErrTypeMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := registry.NewRegistry()
			require.NoError(t, reg.Save(foreign))
			_, err := manifest.NewLoader(reg).Load(&manifest.File{Classes: tt.specs})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, []string{"foreign"}, reg.Names(), "nothing saved")
		})
	}
}

func TestLoader_ValidationErrors(t *testing.T) {
	reg := registry.NewRegistry()
	_, err := manifest.NewLoader(reg).Load(&manifest.File{Classes: []manifest.ClassSpec{
		{Name: "a", Properties: []manifest.PropertySpec{
			{Name: "x", Type: "complex"},
			{Name: "y", Access: "rx"},
		}},
		{Name: ""},
	}})
	require.Error(t, err)

	var agg *schema.AggregateError
	require.True(t, errors.As(err, &agg))
	assert.Len(t, agg.Errors, 3)

	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "a.x", verr.Key)
}

func TestLoader_NonRecordParent(t *testing.T) {
	reg := registry.NewRegistry()
	c, err := reg.Define("native", nil)
	require.NoError(t, err)
	require.NoError(t, reg.Save(c))

	_, err = manifest.NewLoader(reg).Load(&manifest.File{Classes: []manifest.ClassSpec{{Name: "sub", Parent: "native"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a record class")
}

func TestParse(t *testing.T) {
	t.Run("unknown key", func(t *testing.T) {
		_, err := manifest.Parse([]byte("classes:\n  - name: a\n    parnet: b\n"), manifest.FormatYAML)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parnet")
	})

	t.Run("json", func(t *testing.T) {
		f, err := manifest.Parse([]byte(`{"classes":[{"name":"a","properties":[{"name":"p","coerce":true}]}]}`), manifest.FormatJSON)
		require.NoError(t, err)
		require.Len(t, f.Classes, 1)
		assert.True(t, f.Classes[0].Properties[0].Coerce)
	})

	t.Run("toml", func(t *testing.T) {
		f, err := manifest.Parse([]byte("[[classes]]\nname = \"a\"\nparent = \"b\"\n"), manifest.FormatTOML)
		require.NoError(t, err)
		require.Len(t, f.Classes, 1)
		assert.Equal(t, "b", f.Classes[0].Parent)
	})

	t.Run("empty", func(t *testing.T) {
		f, err := manifest.Parse(nil, manifest.FormatYAML)
		require.NoError(t, err)
		assert.Empty(t, f.Classes)
	})

	assert.Equal(t, manifest.FormatJSON, manifest.FormatOf("x.JSON"))
	assert.Equal(t, manifest.FormatYAML, manifest.FormatOf("x.yml"))
	assert.Equal(t, manifest.FormatTOML, manifest.FormatOf("x.toml"))
}
