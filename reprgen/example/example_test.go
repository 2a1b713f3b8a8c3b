package example

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donutnomad/reprgen/reprfmt"
)

func TestWithFields(t *testing.T) {
	w := WithFields{dora: 299792458, my: "Hello world", Name: "alice", Session: "s-1", cache: map[string]int{"a": 1}}

	assert.Equal(t, `WithFields(dora=299792458, my="Hello world")`, w.FmtDebug())
	assert.Equal(t, `WithFields(dora=299792458, my="Hello world", Name="alice")`, w.FmtDisplay())
	assert.Equal(t, w.FmtDisplay(), fmt.Sprint(w))
	assert.Equal(t, w.FmtDebug(), fmt.Sprintf("%#v", w))

	assert.Equal(t, []string{"dora", "my", "Name", "Session"}, w.Dir())
	assert.Equal(t, map[string]any{"dora": 299792458, "my": "Hello world", "Name": "alice", "Session": "s-1"}, w.Dict())

	v, err := w.Getattr("dora")
	require.NoError(t, err)
	assert.Equal(t, 299792458, v)
}

func TestGetattrSkippedMatchesAbsent(t *testing.T) {
	w := WithFields{}

	_, skipped := w.Getattr("cache")
	_, absent := w.Getattr("nope")
	require.Error(t, skipped)
	require.Error(t, absent)
	assert.ErrorIs(t, skipped, reprfmt.ErrNoAttribute)
	assert.ErrorIs(t, absent, reprfmt.ErrNoAttribute)
	assert.Equal(t, "'WithFields' has no attribute 'cache'", skipped.Error())
	assert.Equal(t, "'WithFields' has no attribute 'nope'", absent.Error())
}

func TestTupleRecord(t *testing.T) {
	d := Data{Count: 5, Ratio: 1.23}
	assert.Equal(t, "Struct: Data(0=5, 1=[1.23])", d.FmtDisplay())
	assert.Equal(t, "Struct: Data(0=5, 1=[1.23])", d.FmtDebug())
}

func TestUnitRecord(t *testing.T) {
	var m Marker
	assert.Equal(t, "Marker()", m.FmtDisplay())
	assert.Equal(t, "Marker()", reprfmt.Debug(m))
	assert.Empty(t, m.Dir())
}

func TestNestedRendering(t *testing.T) {
	b := Box[Data]{Items: []Data{{Count: 1, Ratio: 0.5}}}
	assert.Equal(t, "Box(Items=[Struct: Data(0=1, 1=[0.5])])", b.FmtDisplay())
	assert.Equal(t, map[string]any{"Items": b.Items}, b.Dict())

	shapes := []Shape{Circle{Radius: 2}, Origin{}, nil}
	assert.Equal(t, "[Shape.Circle(Radius=2.0), Shape.Origin, None]", reprfmt.Display(shapes))
}

func TestGuardedField(t *testing.T) {
	c := Counter{Hits: reprfmt.NewGuarded(3)}
	assert.Equal(t, "Counter(Hits=3)", c.FmtDisplay())

	assert.Panics(t, func() {
		_ = c.Hits.Update(func(n *int) { panic("boom") })
	})
	assert.Equal(t, "Counter(Hits=None)", c.FmtDisplay())

	assert.Equal(t, "Counter(Hits=None)", Counter{}.FmtDisplay())
}

func TestUnionVariants(t *testing.T) {
	c := Circle{Radius: 1.5, area: 7.07}
	assert.Equal(t, "Shape.Circle(Radius=1.5)", c.FmtDisplay())
	assert.Equal(t, "Shape.Circle(Radius=1.5, area=7.07)", c.FmtDebug())
	assert.Equal(t, []string{"Radius", "area"}, c.Dir())

	_, err := c.Getattr("diameter")
	assert.EqualError(t, err, "'Shape.Circle' has no attribute 'diameter'")

	o := Origin{}
	assert.Equal(t, "Shape.Origin", o.FmtDisplay())
	assert.Empty(t, o.Dir())
	assert.Empty(t, o.Dict())
}

func TestSkippedVariant(t *testing.T) {
	h := Hidden{Secret: "token"}
	assert.Equal(t, "<variant skipped>", h.FmtDisplay())
	assert.Equal(t, "<variant skipped>", h.FmtDebug())
	assert.NotContains(t, fmt.Sprint(h), "token")

	// 只跳过格式化轴，其余行为照常
	v, err := h.Getattr("Secret")
	require.NoError(t, err)
	assert.Equal(t, "token", v)
}

func TestTupleVariants(t *testing.T) {
	events := []Event{Click(3), Key("q")}
	assert.Equal(t, `[Event::Click(3), Event::"q"]`, reprfmt.Display(events))
	assert.Equal(t, `Event::"q"`, Key("q").FmtDebug())
}
