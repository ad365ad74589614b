package money

import "testing"

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		total  int64
		shares []int
		want   []int64
	}{
		{
			name:   "single full share keeps every cent",
			total:  12301,
			shares: []int{1000},
			want:   []int64{12301},
		},
		{
			name:   "even halves of an even total",
			total:  100,
			shares: []int{500, 500},
			want:   []int64{50, 50},
		},
		{
			name:   "odd total gives the remainder cent to the last recipient",
			total:  101,
			shares: []int{500, 500},
			want:   []int64{50, 51},
		},
		{
			name:   "three-way split stays exact",
			total:  100,
			shares: []int{333, 333, 334},
			want:   []int64{33, 33, 34},
		},
		{
			name:   "partial allocation leaves the remainder unallocated",
			total:  1000,
			shares: []int{300},
			want:   []int64{300},
		},
		{
			name:   "zero total",
			total:  0,
			shares: []int{500, 500},
			want:   []int64{0, 0},
		},
		{
			name:   "zero share gets nothing",
			total:  100,
			shares: []int{0, 1000},
			want:   []int64{0, 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.total, tt.shares)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d amounts, got %d", len(tt.want), len(got))
			}
			var sum, wantSum int64
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("amount %d: expected %d, got %d", i, tt.want[i], got[i])
				}
				if got[i] < 0 {
					t.Fatalf("amount %d is negative: %d", i, got[i])
				}
				sum += got[i]
				wantSum += tt.want[i]
			}
			if sum != wantSum {
				t.Fatalf("amounts sum to %d, expected %d", sum, wantSum)
			}
		})
	}
}

func TestSplitRejectsInvalidInput(t *testing.T) {
	if _, err := Split(-1, []int{1000}); err == nil {
		t.Fatal("expected error for negative total")
	}
	if _, err := Split(100, []int{1001}); err == nil {
		t.Fatal("expected error for share above 1000")
	}
	if _, err := Split(100, []int{-1}); err == nil {
		t.Fatal("expected error for negative share")
	}
	if _, err := Split(100, []int{600, 600}); err == nil {
		t.Fatal("expected error for shares summing above 1000")
	}
}

func TestShareAmount(t *testing.T) {
	got, err := ShareAmount(2000, 300)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 600 {
		t.Fatalf("expected 600, got %d", got)
	}
}
