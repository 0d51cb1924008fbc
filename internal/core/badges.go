package core

// BadgeTone names a UI badge color. The maps below are the single
// source of truth for record-to-tone lookups; every view reads them
// through the *Tone helpers so unknown values degrade to ToneDefault
// instead of an unstyled badge.
type BadgeTone string

const (
	TonePrimary   BadgeTone = "primary"
	ToneSecondary BadgeTone = "secondary"
	ToneAccent    BadgeTone = "accent"
	ToneInfo      BadgeTone = "info"
	ToneSuccess   BadgeTone = "success"
	ToneWarning   BadgeTone = "warning"
	ToneError     BadgeTone = "error"
	ToneDefault   BadgeTone = "default"
)

var cropStatusTones = map[CropStatus]BadgeTone{
	StatusPlanted:   ToneInfo,
	StatusGrowing:   ToneWarning,
	StatusReady:     ToneSuccess,
	StatusHarvested: ToneDefault,
}

var expenseCategoryTones = map[ExpenseCategory]BadgeTone{
	CategorySeeds:       ToneSecondary,
	CategoryFertilizer:  ToneSuccess,
	CategoryEquipment:   TonePrimary,
	CategoryLabor:       ToneWarning,
	CategoryFuel:        ToneAccent,
	CategoryMaintenance: ToneInfo,
	CategoryOther:       ToneDefault,
}

var incomeSourceTones = map[IncomeSource]BadgeTone{
	SourceCropSales:      ToneSuccess,
	SourceLivestockSales: TonePrimary,
	SourceEquipmentRent:  ToneSecondary,
	SourceSubsidies:      ToneInfo,
	SourceInsurance:      ToneWarning,
	SourceOther:          ToneDefault,
}

var taskPriorityTones = map[TaskPriority]BadgeTone{
	PriorityHigh:   ToneError,
	PriorityMedium: ToneWarning,
	PriorityLow:    ToneSuccess,
}

func (s CropStatus) Tone() BadgeTone {
	if t, ok := cropStatusTones[s]; ok {
		return t
	}
	return ToneDefault
}

func (c ExpenseCategory) Tone() BadgeTone {
	if t, ok := expenseCategoryTones[c]; ok {
		return t
	}
	return ToneDefault
}

func (s IncomeSource) Tone() BadgeTone {
	if t, ok := incomeSourceTones[s]; ok {
		return t
	}
	return ToneDefault
}

func (p TaskPriority) Tone() BadgeTone {
	if t, ok := taskPriorityTones[p]; ok {
		return t
	}
	return ToneDefault
}
