package core

import (
	"errors"
	"strings"
	"time"
)

const (
	StatusPlanted   CropStatus = "Planted"
	StatusGrowing   CropStatus = "Growing"
	StatusReady     CropStatus = "Ready to Harvest"
	StatusHarvested CropStatus = "Harvested"
)

const (
	PriorityHigh   TaskPriority = "High"
	PriorityMedium TaskPriority = "Medium"
	PriorityLow    TaskPriority = "Low"
)

const (
	CategorySeeds       ExpenseCategory = "Seeds"
	CategoryFertilizer  ExpenseCategory = "Fertilizer"
	CategoryEquipment   ExpenseCategory = "Equipment"
	CategoryLabor       ExpenseCategory = "Labor"
	CategoryFuel        ExpenseCategory = "Fuel"
	CategoryMaintenance ExpenseCategory = "Maintenance"
	CategoryOther       ExpenseCategory = "Other"
)

const (
	SourceCropSales      IncomeSource = "Crop Sales"
	SourceLivestockSales IncomeSource = "Livestock Sales"
	SourceEquipmentRent  IncomeSource = "Equipment Rental"
	SourceSubsidies      IncomeSource = "Government Subsidies"
	SourceInsurance      IncomeSource = "Insurance Claims"
	SourceOther          IncomeSource = "Other"
)

type (
	CropStatus      string
	TaskPriority    string
	ExpenseCategory string
	IncomeSource    string

	Farm struct {
		ID        int64
		Name      string
		Location  string
		SizeAcres float64
		CreatedAt time.Time
	}

	Crop struct {
		ID                  int64
		FarmID              int64
		CropType            string
		AreaAcres           float64
		PlantingDate        string // yyyy-MM-dd
		ExpectedHarvestDate string // yyyy-MM-dd
		Status              CropStatus
	}

	Task struct {
		ID          int64
		FarmID      int64
		CropID      *int64 // optional link to a crop
		Title       string
		Description string
		Priority    TaskPriority
		DueDate     string // yyyy-MM-dd
		Completed   bool
		CreatedAt   time.Time
	}

	Expense struct {
		ID          int64
		FarmID      int64
		Amount      float64
		Category    ExpenseCategory
		Date        string // yyyy-MM-dd
		Description string
	}

	Income struct {
		ID          int64
		Source      IncomeSource
		Amount      float64
		Date        string // yyyy-MM-dd
		Description string
	}
)

var (
	ErrEmptyName             = errors.New("empty name")
	ErrEmptyTitle            = errors.New("empty title")
	ErrEmptyCropType         = errors.New("empty crop type")
	ErrInvalidSize           = errors.New("size must be positive")
	ErrInvalidArea           = errors.New("area must be positive")
	ErrInvalidAmount         = errors.New("invalid amount")
	ErrInvalidDate           = errors.New("invalid date")
	ErrInvalidPriority       = errors.New("invalid priority")
	ErrInvalidStatus         = errors.New("invalid crop status")
	ErrHarvestBeforePlanting = errors.New("expected harvest date must be after planting date")
)

// ExpenseCategories lists the known categories in display order.
var ExpenseCategories = []ExpenseCategory{
	CategorySeeds, CategoryFertilizer, CategoryEquipment,
	CategoryLabor, CategoryFuel, CategoryMaintenance, CategoryOther,
}

// IncomeSources lists the known sources in display order.
var IncomeSources = []IncomeSource{
	SourceCropSales, SourceLivestockSales, SourceEquipmentRent,
	SourceSubsidies, SourceInsurance, SourceOther,
}

func (s CropStatus) Valid() bool {
	switch s {
	case StatusPlanted, StatusGrowing, StatusReady, StatusHarvested:
		return true
	}
	return false
}

// Next returns the status that follows s in the crop lifecycle.
// The second return is false once the crop is harvested; the
// lifecycle never moves backwards.
func (s CropStatus) Next() (CropStatus, bool) {
	switch s {
	case StatusPlanted:
		return StatusGrowing, true
	case StatusGrowing:
		return StatusReady, true
	case StatusReady:
		return StatusHarvested, true
	}
	return s, false
}

// Known reports whether the category is one of the canonical set.
// Aggregations fold unknown categories into Other instead of failing.
func (c ExpenseCategory) Known() bool {
	for _, k := range ExpenseCategories {
		if c == k {
			return true
		}
	}
	return false
}

// Known reports whether the source is one of the canonical set.
func (s IncomeSource) Known() bool {
	for _, k := range IncomeSources {
		if s == k {
			return true
		}
	}
	return false
}

func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func (f Farm) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return ErrEmptyName
	}
	if f.SizeAcres <= 0 {
		return ErrInvalidSize
	}
	return nil
}

func (c Crop) Validate() error {
	if strings.TrimSpace(c.CropType) == "" {
		return ErrEmptyCropType
	}
	if c.AreaAcres <= 0 {
		return ErrInvalidArea
	}
	planted, err := ParseDay(c.PlantingDate)
	if err != nil {
		return ErrInvalidDate
	}
	harvest, err := ParseDay(c.ExpectedHarvestDate)
	if err != nil {
		return ErrInvalidDate
	}
	if !harvest.After(planted) {
		return ErrHarvestBeforePlanting
	}
	if !c.Status.Valid() {
		return ErrInvalidStatus
	}
	return nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if _, err := ParseDay(t.DueDate); err != nil {
		return ErrInvalidDate
	}
	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

func (e Expense) Validate() error {
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := ParseDay(e.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

func (i Income) Validate() error {
	if i.Amount <= 0 {
		return ErrInvalidAmount
	}
	if _, err := ParseDay(i.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// RecordDate implementations feed the date-range filter.

func (e Expense) RecordDate() string { return e.Date }
func (i Income) RecordDate() string { return i.Date }
