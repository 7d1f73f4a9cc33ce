package cache

import (
	"slices"
	"testing"
)

func collect(l *List[int]) []int {
	var out []int
	for k := range l.FromOldest() {
		out = append(out, k)
	}
	return out
}

func TestList_TouchOrder(t *testing.T) {
	l := NewList[int]()
	for i := 1; i <= 4; i++ {
		l.Touch(i)
	}
	if got := collect(l); !slices.Equal(got, []int{1, 2, 3, 4}) {
		t.Fatalf("order = %v, want [1 2 3 4]", got)
	}

	l.Touch(2)
	l.Touch(4) // already head
	if got := collect(l); !slices.Equal(got, []int{1, 3, 2, 4}) {
		t.Errorf("order after touch = %v, want [1 3 2 4]", got)
	}
	if l.Len() != 4 {
		t.Errorf("Len() = %d, want 4", l.Len())
	}
	if k, ok := l.Oldest(); !ok || k != 1 {
		t.Errorf("Oldest() = %d, %v", k, ok)
	}
}

func TestList_Remove(t *testing.T) {
	l := NewList[int]()
	for i := range 5 {
		l.Touch(i)
	}
	if !l.Remove(0) || !l.Remove(4) || !l.Remove(2) {
		t.Fatal("Remove of present keys should succeed")
	}
	if l.Remove(2) {
		t.Error("second Remove should report absence")
	}
	if got := collect(l); !slices.Equal(got, []int{1, 3}) {
		t.Errorf("order = %v, want [1 3]", got)
	}
	if l.Contains(2) || !l.Contains(3) {
		t.Error("Contains disagrees with contents")
	}
}

func TestList_RemoveDuringIteration(t *testing.T) {
	l := NewList[int]()
	for i := range 6 {
		l.Touch(i)
	}
	for k := range l.FromOldest() {
		if k%2 == 0 {
			l.Remove(k)
		}
	}
	if got := collect(l); !slices.Equal(got, []int{1, 3, 5}) {
		t.Errorf("order = %v, want [1 3 5]", got)
	}
}

func TestList_EarlyStopAndClear(t *testing.T) {
	l := NewList[int]()
	for i := range 3 {
		l.Touch(i)
	}
	var seen []int
	for k := range l.FromOldest() {
		seen = append(seen, k)
		if len(seen) == 2 {
			break
		}
	}
	if !slices.Equal(seen, []int{0, 1}) {
		t.Errorf("seen = %v", seen)
	}
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Len() after Clear = %d", l.Len())
	}
	if _, ok := l.Oldest(); ok {
		t.Error("Oldest() on empty list should fail")
	}
	l.Touch(9)
	if got := collect(l); !slices.Equal(got, []int{9}) {
		t.Errorf("after reuse = %v", got)
	}
}
