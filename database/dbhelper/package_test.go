package dbhelper

import (
	"strings"
	"testing"

	"github.com/ray-remotestate/foodwaste/models"
)

func TestBuildPackageQuery(t *testing.T) {
	tests := []struct {
		name       string
		filter     models.PackageFilter
		contains   []string
		absent     []string
		wantArgs   int
		wantSuffix string
	}{
		{
			name:       "no filter",
			filter:     models.PackageFilter{},
			absent:     []string{"WHERE", "JOIN"},
			wantSuffix: "ORDER BY p.id ASC",
		},
		{
			name:       "available in a city",
			filter:     models.PackageFilter{Status: models.StatusAvailable, City: "Breda", OrderBy: models.OrderByPriceDesc},
			contains:   []string{"JOIN cafeterias c", "LOWER(c.city) = LOWER($1)", "p.reservation_status = $2"},
			wantArgs:   2,
			wantSuffix: "ORDER BY p.price DESC, p.id ASC",
		},
		{
			name:       "meal type and ids",
			filter:     models.PackageFilter{MealType: models.MealBread, IDs: []int{1, 2}},
			contains:   []string{"p.meal_type = $1", "p.id = ANY($2)"},
			absent:     []string{"JOIN"},
			wantArgs:   2,
			wantSuffix: "ORDER BY p.id ASC",
		},
		{
			name:       "pickup order",
			filter:     models.PackageFilter{OrderBy: models.OrderByPickupDate},
			wantSuffix: "ORDER BY p.pickup_date_time ASC, p.id ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := buildPackageQuery(tt.filter)

			for _, s := range tt.contains {
				if !strings.Contains(query, s) {
					t.Errorf("query %q does not contain %q", query, s)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(query, s) {
					t.Errorf("query %q contains %q", query, s)
				}
			}
			if len(args) != tt.wantArgs {
				t.Errorf("len(args) = %d, want %d", len(args), tt.wantArgs)
			}
			if !strings.HasSuffix(query, tt.wantSuffix) {
				t.Errorf("query %q does not end with %q", query, tt.wantSuffix)
			}
		})
	}
}
