package components

import "testing"

func TestLayoutRowSumsExactly(t *testing.T) {
	cases := []struct{ total, n int }{
		{100, 4},
		{101, 4},
		{103, 4},
		{80, 3},
		{7, 2},
	}
	for _, tc := range cases {
		widths := LayoutRow(tc.total, tc.n)
		if len(widths) != tc.n {
			t.Fatalf("LayoutRow(%d, %d) returned %d widths", tc.total, tc.n, len(widths))
		}
		sum := 0
		for _, w := range widths {
			sum += w
		}
		if sum != tc.total {
			t.Fatalf("LayoutRow(%d, %d) sums to %d", tc.total, tc.n, sum)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if idx := TabIdxByKey('e'); idx != 1 {
		t.Fatalf("TabIdxByKey('e') = %d", idx)
	}
	if idx := TabIdxByKey('x'); idx != 3 {
		t.Fatalf("TabIdxByKey('x') = %d", idx)
	}
	if idx := TabIdxByKey('z'); idx != -1 {
		t.Fatalf("TabIdxByKey('z') = %d", idx)
	}
}
