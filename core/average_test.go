package core

import "testing"

func TestAverageCountClamp(t *testing.T) {
	if got := MinAverageCount.Halve(); got != MinAverageCount {
		t.Errorf("Halve at floor: expected %d, got %d", MinAverageCount, got)
	}
	if got := MaxAverageCount.Double(); got != MaxAverageCount {
		t.Errorf("Double at ceiling: expected %d, got %d", MaxAverageCount, got)
	}

	// Walk the whole ladder in both directions
	c := MinAverageCount
	for i := 0; i < 20; i++ {
		c = c.Double()
		if !c.Valid() {
			t.Fatalf("Double produced invalid count %d", c)
		}
	}
	if c != MaxAverageCount {
		t.Errorf("Expected to settle at %d, got %d", MaxAverageCount, c)
	}
	for i := 0; i < 20; i++ {
		c = c.Halve()
		if !c.Valid() {
			t.Fatalf("Halve produced invalid count %d", c)
		}
	}
	if c != MinAverageCount {
		t.Errorf("Expected to settle at %d, got %d", MinAverageCount, c)
	}
}

func TestAverageCountShift(t *testing.T) {
	testCases := []struct {
		count AverageCount
		shift uint8
	}{
		{1, 0}, {2, 1}, {4, 2}, {8, 3}, {16, 4}, {32, 5}, {64, 6}, {128, 7}, {256, 8},
	}

	for _, tc := range testCases {
		if got := tc.count.Shift(); got != tc.shift {
			t.Errorf("AverageCount(%d).Shift() = %d, want %d", tc.count, got, tc.shift)
		}
	}
}

func TestAverageCountValid(t *testing.T) {
	for _, c := range []AverageCount{0, 3, 6, 512} {
		if c.Valid() {
			t.Errorf("AverageCount(%d) should be invalid", c)
		}
	}
}
