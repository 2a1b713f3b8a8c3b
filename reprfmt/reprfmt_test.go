package reprfmt

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type point struct{ X, Y int }

func (p point) FmtDisplay() string { return fmt.Sprintf("(%d, %d)", p.X, p.Y) }
func (p point) FmtDebug() string   { return fmt.Sprintf("point{%d, %d}", p.X, p.Y) }

type color string

type level int

func (l level) String() string { return fmt.Sprintf("L%d", int(l)) }

func TestScalars(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, "None"},
		{"string", "Hello world", `"Hello world"`},
		{"escaped string", "a\"b", `"a\"b"`},
		{"named string", color("red"), `"red"`},
		{"int", 299792458, "299792458"},
		{"negative", int8(-3), "-3"},
		{"uint", uint64(7), "7"},
		{"float32", float32(1.23), "1.23"},
		{"float64", 0.1, "0.1"},
		{"integral float", 2.0, "2.0"},
		{"large integral float", 1234567.0, "1234567.0"},
		{"negative zero", math.Copysign(0, -1), "-0.0"},
		{"tiny float", 1e-7, "1e-07"},
		{"huge float", 1e20, "1e+20"},
		{"inf", math.Inf(1), "inf"},
		{"nan", math.NaN(), "NaN"},
		{"bool", true, "true"},
		{"stringer", level(3), "L3"},
		{"error", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Display(tt.value))
			assert.Equal(t, tt.want, Debug(tt.value))
		})
	}
}

func TestProtocolDispatch(t *testing.T) {
	p := point{1, 2}
	assert.Equal(t, "(1, 2)", Display(p))
	assert.Equal(t, "point{1, 2}", Debug(p))

	// 指针按指向的值渲染
	assert.Equal(t, "(1, 2)", Display(&p))

	var nilPoint *point
	assert.Equal(t, "None", Display(nilPoint))
	assert.Equal(t, "None", Debug(nilPoint))

	n := 5
	assert.Equal(t, "5", Display(&n))
}

func TestGoStringerInDebug(t *testing.T) {
	d := 1500 * time.Millisecond
	assert.Equal(t, "1.5s", Display(d))
	// time.Duration 没有 GoString，调试形式同样使用 String
	assert.Equal(t, "1.5s", Debug(d))
}

func TestContainers(t *testing.T) {
	t.Run("slice", func(t *testing.T) {
		assert.Equal(t, `["a", "b"]`, Display([]string{"a", "b"}))
		assert.Equal(t, "[]", Display([]int{}))
		assert.Equal(t, "[1, None]", Display([]*int{ptr(1), nil}))
	})

	t.Run("array", func(t *testing.T) {
		assert.Equal(t, "[1, 2, 3]", Debug([3]int{1, 2, 3}))
	})

	t.Run("nested", func(t *testing.T) {
		assert.Equal(t, "[[(1, 2)], []]", Display([][]point{{{1, 2}}, {}}))
	})

	t.Run("map sorted by key", func(t *testing.T) {
		m := map[string]int{"b": 2, "a": 1, "c": 3}
		assert.Equal(t, `{"a": 1, "b": 2, "c": 3}`, Display(m))
		assert.Equal(t, "{}", Display(map[string]int{}))
	})

	t.Run("set", func(t *testing.T) {
		s := map[int]struct{}{3: {}, 1: {}, 2: {}}
		assert.Equal(t, "{1, 2, 3}", Display(s))
	})

	t.Run("gods list", func(t *testing.T) {
		l := arraylist.New()
		l.Add(1, "x")
		assert.Equal(t, `[1, "x"]`, Display(l))
	})

	t.Run("gods ordered map", func(t *testing.T) {
		tm := treemap.NewWithStringComparator()
		tm.Put("b", 2)
		tm.Put("a", 1)
		assert.Equal(t, `{"a": 1, "b": 2}`, Display(tm))

		lm := linkedhashmap.New()
		lm.Put("z", point{0, 1})
		lm.Put("a", nil)
		assert.Equal(t, `{"z": point{0, 1}, "a": None}`, Debug(lm))
	})

	t.Run("gods set", func(t *testing.T) {
		ts := treeset.NewWithIntComparator(3, 1, 2)
		assert.Equal(t, "{1, 2, 3}", Display(ts))

		hs := hashset.New("b", "a")
		assert.Equal(t, `{"a", "b"}`, Display(hs))
	})
}

func TestEllipsis(t *testing.T) {
	t.Run("sequence", func(t *testing.T) {
		values := make([]int, 150)
		for i := range values {
			values[i] = i
		}
		got := Display(values)
		assert.Len(t, got, 103)
		assert.True(t, strings.HasPrefix(got, "[0, 1, "))
		assert.True(t, strings.HasSuffix(got, ", 26, ...]"))
	})

	t.Run("map", func(t *testing.T) {
		m := make(map[string]string, 100)
		for i := 0; i < 100; i++ {
			k := fmt.Sprintf("%05d", i)
			m[k] = k
		}
		got := Display(m)
		assert.Len(t, got, 95)
		assert.True(t, strings.HasPrefix(got, `{"00000": "00000", `))
		assert.True(t, strings.HasSuffix(got, `"00004": "00004", ...}`))
	})

	t.Run("wide runes", func(t *testing.T) {
		defer SetEllipsisLimit(EllipsisLimit())
		SetEllipsisLimit(12)
		// "你好" 宽度为 4，加引号为 6
		assert.Equal(t, `["你好", ...]`, Display([]string{"你好", "你好"}))
	})

	t.Run("limit", func(t *testing.T) {
		defer SetEllipsisLimit(EllipsisLimit())
		SetEllipsisLimit(5)
		assert.Equal(t, 5, EllipsisLimit())
		assert.Equal(t, "[1, ...]", Display([]int{1, 2, 3}))
	})
}

func TestConcurrentLimit(t *testing.T) {
	defer SetEllipsisLimit(DefaultEllipsisLimit)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			SetEllipsisLimit(20 + i)
			_ = Display([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
		}(i)
	}
	wg.Wait()
	assert.GreaterOrEqual(t, EllipsisLimit(), 20)
}

func TestAttributeError(t *testing.T) {
	err := NewAttributeError("WithFields", "name")
	assert.EqualError(t, err, "'WithFields' has no attribute 'name'")
	assert.ErrorIs(t, err, ErrNoAttribute)

	var attrErr *AttributeError
	require.ErrorAs(t, err, &attrErr)
	assert.Equal(t, "WithFields", attrErr.Owner)
	assert.Equal(t, "name", attrErr.Attr)

	variantErr := NewAttributeError("Shape.Circle", "x")
	assert.EqualError(t, variantErr, "'Shape.Circle' has no attribute 'x'")
}

func ptr[T any](v T) *T { return &v }
