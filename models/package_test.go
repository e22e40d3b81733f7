package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestPackageJSONPrice(t *testing.T) {
	b, err := json.Marshal(Package{ID: 1, Price: decimal.RequireFromString("2.50")})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(b), `"price":2.5`) {
		t.Errorf("Marshal() = %s, want price as a number", b)
	}

	var draft PackageDraft
	if err := json.Unmarshal([]byte(`{"price":3.75,"mealType":"hotdinner"}`), &draft); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !draft.Price.Equal(decimal.RequireFromString("3.75")) || draft.MealType != MealHotDinner {
		t.Errorf("Unmarshal() = %+v", draft)
	}
}

func TestParsePackageOrder(t *testing.T) {
	tests := []struct {
		in   string
		want PackageOrder
	}{
		{in: "", want: OrderByPickupDate},
		{in: "Name", want: OrderByName},
		{in: "price-desc", want: OrderByPriceDesc},
		{in: " PickupDateTime_DESC ", want: OrderByPickupDateDesc},
		{in: "colour", want: OrderByPickupDate},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParsePackageOrder(tt.in); got != tt.want {
				t.Errorf("ParsePackageOrder(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
