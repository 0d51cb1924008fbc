package core

import "testing"

func TestBadgeTones(t *testing.T) {
	t.Run("crop status", func(t *testing.T) {
		cases := []struct {
			in   CropStatus
			want BadgeTone
		}{
			{StatusPlanted, ToneInfo},
			{StatusGrowing, ToneWarning},
			{StatusReady, ToneSuccess},
			{StatusHarvested, ToneDefault},
			{"Unknown", ToneDefault},
		}
		for _, tc := range cases {
			if got := tc.in.Tone(); got != tc.want {
				t.Fatalf("%s: got %s, want %s", tc.in, got, tc.want)
			}
		}
	})

	t.Run("expense category", func(t *testing.T) {
		cases := []struct {
			in   ExpenseCategory
			want BadgeTone
		}{
			{CategorySeeds, ToneSecondary},
			{CategoryFertilizer, ToneSuccess},
			{CategoryEquipment, TonePrimary},
			{CategoryLabor, ToneWarning},
			{CategoryFuel, ToneAccent},
			{CategoryMaintenance, ToneInfo},
			{CategoryOther, ToneDefault},
			{"Misc", ToneDefault},
		}
		for _, tc := range cases {
			if got := tc.in.Tone(); got != tc.want {
				t.Fatalf("%s: got %s, want %s", tc.in, got, tc.want)
			}
		}
	})

	t.Run("income source", func(t *testing.T) {
		cases := []struct {
			in   IncomeSource
			want BadgeTone
		}{
			{SourceCropSales, ToneSuccess},
			{SourceLivestockSales, TonePrimary},
			{SourceEquipmentRent, ToneSecondary},
			{SourceSubsidies, ToneInfo},
			{SourceInsurance, ToneWarning},
			{SourceOther, ToneDefault},
		}
		for _, tc := range cases {
			if got := tc.in.Tone(); got != tc.want {
				t.Fatalf("%s: got %s, want %s", tc.in, got, tc.want)
			}
		}
	})

	t.Run("task priority", func(t *testing.T) {
		cases := []struct {
			in   TaskPriority
			want BadgeTone
		}{
			{PriorityHigh, ToneError},
			{PriorityMedium, ToneWarning},
			{PriorityLow, ToneSuccess},
		}
		for _, tc := range cases {
			if got := tc.in.Tone(); got != tc.want {
				t.Fatalf("%s: got %s, want %s", tc.in, got, tc.want)
			}
		}
	})
}
