package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Additional-Code/gridlock/internal/dto"
)

func vehicles() []dto.Vehicle {
	return []dto.Vehicle{
		{ID: 1, Make: "Toyota", Model: "Camry", Status: "active", Condition: "Excellent"},
		{ID: 2, Make: "Honda", Model: "Civic", Status: "active", Condition: "Good"},
		{ID: 3, Make: "Ford", Model: "F-150", Status: "ended", Condition: "Excellent"},
	}
}

func ids(vs []dto.Vehicle) []int64 {
	out := make([]int64, 0, len(vs))
	for _, v := range vs {
		out = append(out, v.ID)
	}
	return out
}

func TestVehicles_Apply(t *testing.T) {
	tests := []struct {
		name   string
		filter Vehicles
		want   []int64
	}{
		{name: "empty", filter: Vehicles{}, want: []int64{1, 2, 3}},
		{name: "all_sentinel", filter: Vehicles{Status: "all", Condition: "ALL"}, want: []int64{1, 2, 3}},
		{name: "search_make_case_insensitive", filter: Vehicles{Search: "toy"}, want: []int64{1}},
		{name: "search_spans_make_and_model", filter: Vehicles{Search: "honda civ"}, want: []int64{2}},
		{name: "status", filter: Vehicles{Status: "active"}, want: []int64{1, 2}},
		{name: "condition_and_status", filter: Vehicles{Status: "ended", Condition: "excellent"}, want: []int64{3}},
		{name: "no_match", filter: Vehicles{Search: "tesla"}, want: []int64{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ids(tc.filter.Apply(vehicles())))
		})
	}
}

func TestAuctions_Apply(t *testing.T) {
	in := []dto.Auction{
		{ID: 1, Vehicle: dto.AuctionVehicle{Make: "Toyota", Model: "Camry"}, Status: "active"},
		{ID: 2, Vehicle: dto.AuctionVehicle{Make: "Ford", Model: "F-150"}, Status: "ended"},
	}

	got := Auctions{Search: "f-1"}.Apply(in)
	assert.Len(t, got, 1)
	assert.Equal(t, int64(2), got[0].ID)

	assert.Len(t, Auctions{Status: "active"}.Apply(in), 1)
	assert.Len(t, Auctions{Status: "all"}.Apply(in), 2)
}
