package core

import (
	"errors"
	"testing"
)

func TestFarmValidate(t *testing.T) {
	good := Farm{Name: "North Field", Location: "IA", SizeAcres: 120}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		f    Farm
		want error
	}{
		{"empty name", Farm{Name: "  ", SizeAcres: 10}, ErrEmptyName},
		{"zero size", Farm{Name: "x", SizeAcres: 0}, ErrInvalidSize},
		{"negative size", Farm{Name: "x", SizeAcres: -3}, ErrInvalidSize},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.f.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestCropValidate(t *testing.T) {
	good := Crop{
		FarmID:              1,
		CropType:            "Corn",
		AreaAcres:           40,
		PlantingDate:        "2024-03-01",
		ExpectedHarvestDate: "2024-09-01",
		Status:              StatusPlanted,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name string
		mod  func(c *Crop)
		want error
	}{
		{"empty type", func(c *Crop) { c.CropType = "" }, ErrEmptyCropType},
		{"zero area", func(c *Crop) { c.AreaAcres = 0 }, ErrInvalidArea},
		{"bad planting date", func(c *Crop) { c.PlantingDate = "not-a-date" }, ErrInvalidDate},
		{"bad harvest date", func(c *Crop) { c.ExpectedHarvestDate = "" }, ErrInvalidDate},
		{"harvest before planting", func(c *Crop) { c.ExpectedHarvestDate = "2024-02-01" }, ErrHarvestBeforePlanting},
		{"unknown status", func(c *Crop) { c.Status = "Composted" }, ErrInvalidStatus},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := good
			tc.mod(&c)
			if err := c.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestTaskValidate(t *testing.T) {
	good := Task{FarmID: 1, Title: "Irrigate", Priority: PriorityHigh, DueDate: "2024-06-15"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := good
	bad.Priority = "urgent"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected %v, got %v", ErrInvalidPriority, err)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{FarmID: 1, Amount: 12.5, Category: CategorySeeds, Date: "2024-04-10"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Expense{Amount: 0, Date: "2024-04-10"}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected amount error")
	}
	if err := (Expense{Amount: 5, Date: "04/10/2024"}).Validate(); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected date error")
	}
}

func TestCropStatusNext(t *testing.T) {
	cases := []struct {
		from CropStatus
		to   CropStatus
		ok   bool
	}{
		{StatusPlanted, StatusGrowing, true},
		{StatusGrowing, StatusReady, true},
		{StatusReady, StatusHarvested, true},
		{StatusHarvested, StatusHarvested, false},
	}
	for _, tc := range cases {
		got, ok := tc.from.Next()
		if got != tc.to || ok != tc.ok {
			t.Fatalf("%s.Next() = %s,%v want %s,%v", tc.from, got, ok, tc.to, tc.ok)
		}
	}
}
