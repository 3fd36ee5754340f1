package sparse

import (
	"testing"
)

func TestSet_Basic(t *testing.T) {
	s := New(10)
	if s.Capacity() != 10 || !s.IsEmpty() {
		t.Fatalf("New(10): Capacity=%d IsEmpty=%v", s.Capacity(), s.IsEmpty())
	}

	if !s.Insert(3) || !s.Insert(7) {
		t.Error("first Insert should report a new value")
	}
	if s.Insert(3) {
		t.Error("second Insert of 3 should report an existing value")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if !s.Contains(3) || !s.Contains(7) || s.Contains(5) {
		t.Error("Contains mismatch")
	}
}

func TestSet_InsertionOrder(t *testing.T) {
	s := New(10)
	for _, v := range []uint32{5, 1, 9, 1, 0} {
		s.Insert(v)
	}
	want := []uint32{5, 1, 9, 0}
	got := s.Values()
	if len(got) != len(want) {
		t.Fatalf("Values() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Values() = %v, want %v", got, want)
		}
	}
}

func TestSet_Clear(t *testing.T) {
	s := New(8)
	s.Insert(2)
	s.Insert(4)
	s.Clear()

	if !s.IsEmpty() || s.Contains(2) || s.Contains(4) {
		t.Error("Clear should remove every value")
	}
	if s.Capacity() != 8 {
		t.Errorf("Capacity() = %d after Clear, want 8", s.Capacity())
	}

	// Stale sparse entries must not resurrect members.
	s.Insert(4)
	if s.Contains(2) || !s.Contains(4) {
		t.Error("stale entry visible after refill")
	}
}

func TestSet_ContainsOutOfBounds(t *testing.T) {
	s := New(4)
	if s.Contains(4) || s.Contains(1 << 31) {
		t.Error("Contains out of capacity should be false")
	}
}

// TestSet_CrossValidation compares against a map over many rounds.
func TestSet_CrossValidation(t *testing.T) {
	s := New(64)
	for round := 0; round < 5; round++ {
		s.Clear()
		ref := make(map[uint32]bool)
		for i := 0; i < 40; i++ {
			v := uint32((i*7 + round*13) % 64)
			if got, want := s.Insert(v), !ref[v]; got != want {
				t.Fatalf("round %d: Insert(%d) = %v, want %v", round, v, got, want)
			}
			ref[v] = true
		}
		if s.Len() != len(ref) {
			t.Fatalf("round %d: Len() = %d, want %d", round, s.Len(), len(ref))
		}
		for v := uint32(0); v < 64; v++ {
			if s.Contains(v) != ref[v] {
				t.Fatalf("round %d: Contains(%d) = %v", round, v, s.Contains(v))
			}
		}
	}
}

func BenchmarkSet_Insert(b *testing.B) {
	s := New(1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if i%1000 == 0 {
			s.Clear()
		}
		s.Insert(uint32(i % 1000))
	}
}

func BenchmarkSet_Contains(b *testing.B) {
	s := New(1000)
	for i := uint32(0); i < 1000; i += 2 {
		s.Insert(i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Contains(uint32(i % 1000))
	}
}
