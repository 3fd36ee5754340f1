package conv

import (
	"math"
	"testing"
)

func TestIntToUint32(t *testing.T) {
	for _, n := range []int{0, 1, 1 << 20, math.MaxUint32} {
		if got := IntToUint32(n); int(got) != n {
			t.Errorf("IntToUint32(%d) = %d", n, got)
		}
	}
}

func TestIntToInt32(t *testing.T) {
	for _, n := range []int{math.MinInt32, -1, 0, math.MaxInt32} {
		if got := IntToInt32(n); int(got) != n {
			t.Errorf("IntToInt32(%d) = %d", n, got)
		}
	}
}

func TestOverflowPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"uint32 negative", func() { IntToUint32(-1) }},
		{"uint32 too large", func() { IntToUint32(math.MaxUint32 + 1) }},
		{"int32 too small", func() { IntToInt32(math.MinInt32 - 1) }},
		{"int32 too large", func() { IntToInt32(math.MaxInt32 + 1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}
