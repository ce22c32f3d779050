package position

import (
	"math"
	"testing"

	"position-watcher/internal/types"
)

func TestParseRecord(t *testing.T) {
	nan := math.NaN()
	cases := []struct {
		in   string
		want types.Snapshot
	}{
		{"Long;3;4521.25", types.Snapshot{Side: types.SideLong, Quantity: 3, Price: 4521.25}},
		{"  Short;1;99.5 \n", types.Snapshot{Side: types.SideShort, Quantity: 1, Price: 99.5}},
		{"Flat;0;0", types.Snapshot{Side: types.SideFlat}},
		{"Long;2;10;extra", types.Snapshot{Side: types.SideLong, Quantity: 2, Price: 10}},
		{"Long;;10", types.Snapshot{Side: types.SideLong, Quantity: 0, Price: 10}},
		{"Short;abc;100", types.Snapshot{Side: types.SideShort, Quantity: nan, Price: 100}},
		{"Long;2", types.Snapshot{Side: types.SideLong, Quantity: 2, Price: nan}},
		{"", types.Snapshot{Side: types.SideUnknown, Quantity: nan, Price: nan}},
		{"Weird;1;1", types.Snapshot{Side: types.SideUnknown, Quantity: 1, Price: 1}},
		{"Long;inf;1", types.Snapshot{Side: types.SideLong, Quantity: nan, Price: 1}},
		{"Long;-Inf;1", types.Snapshot{Side: types.SideLong, Quantity: nan, Price: 1}},
		{"Long;infinity;1", types.Snapshot{Side: types.SideLong, Quantity: nan, Price: 1}},
		{"Long;NaN;1", types.Snapshot{Side: types.SideLong, Quantity: nan, Price: 1}},
		{"Long;0x10;1", types.Snapshot{Side: types.SideLong, Quantity: 16, Price: 1}},
		{"Long;0b101;0o17", types.Snapshot{Side: types.SideLong, Quantity: 5, Price: 15}},
		{"Long;-0x10;1", types.Snapshot{Side: types.SideLong, Quantity: nan, Price: 1}},
		{"Long;0x1p4;1", types.Snapshot{Side: types.SideLong, Quantity: nan, Price: 1}},
		{"Long;-0x1p4;1", types.Snapshot{Side: types.SideLong, Quantity: nan, Price: 1}},
		{"Long;0x;1", types.Snapshot{Side: types.SideLong, Quantity: nan, Price: 1}},
		{"Long;1_000;1", types.Snapshot{Side: types.SideLong, Quantity: nan, Price: 1}},
		{"Long;.5;2e3", types.Snapshot{Side: types.SideLong, Quantity: 0.5, Price: 2000}},
	}

	for _, tc := range cases {
		got := ParseRecord(tc.in)
		if !got.Equal(tc.want) {
			t.Errorf("ParseRecord(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseRecordOverflowIsInf(t *testing.T) {
	got := ParseRecord("Long;1;1e400")
	if !math.IsInf(got.Price, 1) {
		t.Errorf("Expected +Inf price, got %v", got.Price)
	}
}

func TestParseRecordInfinitySpellings(t *testing.T) {
	got := ParseRecord("Short;Infinity;-Infinity")
	if !math.IsInf(got.Quantity, 1) {
		t.Errorf("Expected +Inf quantity, got %v", got.Quantity)
	}
	if !math.IsInf(got.Price, -1) {
		t.Errorf("Expected -Inf price, got %v", got.Price)
	}
}
