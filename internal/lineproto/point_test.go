package lineproto

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestEmptyPoint(t *testing.T) {
	require.Equal(t, "measurement1 ", New("measurement1").String())
}

func TestFieldValues(t *testing.T) {
	p := New("measurement1").
		AddField("keyI64", Int(1)).
		AddField("keyU64", Uint(1)).
		AddField("keyStr", Str("value")).
		AddField("keyBool", Bool(true)).
		AddField("keyF64", Float(1.1))
	require.Equal(t, `measurement1 keyI64=1i,keyU64=1u,keyStr="value",keyBool=true,keyF64=1.1`, p.String())
}

func TestTagsOnly(t *testing.T) {
	p := New("measurement1").AddTag("tag1", "1").AddTag("tag2", "something")
	require.Equal(t, "measurement1,tag1=1,tag2=something ", p.String())
}

func TestDuplicateTagsKeepOrder(t *testing.T) {
	p := New("m").AddTag("a", "1").AddTag("a", "2").AddField("v", Bool(false))
	require.Equal(t, "m,a=1,a=2 v=false", p.String())
}

func TestFloatRendering(t *testing.T) {
	cases := map[float64]string{
		21.5:   "21.5",
		-100:   "-100",
		0:      "0",
		553.5:  "553.5",
		1e21:   "1000000000000000000000",
		0.0001: "0.0001",
	}
	for in, want := range cases {
		require.Equal(t, want, Float(in).String(), "float %v", in)
	}
}

func TestIntegerExtremes(t *testing.T) {
	require.Equal(t, "-9223372036854775808i", Int(math.MinInt64).String())
	require.Equal(t, "18446744073709551615u", Uint(math.MaxUint64).String())
}

func TestTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 123456789)
	p := New("m").AddField("v", Int(2)).SetTime(ts)
	require.Equal(t, "m v=2i 1700000000123456789", p.String())

	got, ok := p.Time()
	require.True(t, ok)
	require.True(t, got.Equal(ts))

	p.SetTime(time.Time{})
	require.Equal(t, "m v=2i", p.String())
	_, ok = p.Time()
	require.False(t, ok)
}

func TestAppendToReusesBuffer(t *testing.T) {
	buf := []byte("prefix:")
	buf = New("m").AddField("v", Uint(3)).AppendTo(buf)
	require.Equal(t, "prefix:m v=3u", string(buf))
}
