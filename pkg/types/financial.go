package types

import "strings"

// Financial record types.
const (
	FinancialIncome  = "income"
	FinancialExpense = "expense"
)

// Category is one selectable financial category.
type Category struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

var incomeCategories = []Category{
	{Value: "sales", Label: "Crop Sales"},
	{Value: "grants", Label: "Grants & Subsidies"},
	{Value: "other", Label: "Other Income"},
}

var expenseCategories = []Category{
	{Value: "seeds", Label: "Seeds & Plants"},
	{Value: "fertilizer", Label: "Fertilizer & Chemicals"},
	{Value: "equipment", Label: "Equipment & Tools"},
	{Value: "fuel", Label: "Fuel & Energy"},
	{Value: "labor", Label: "Labor Costs"},
	{Value: "utilities", Label: "Utilities"},
	{Value: "other", Label: "Other Expenses"},
}

// FinancialCategories returns the categories valid for the record type.
// Any type other than income gets the expense set.
func FinancialCategories(recordType string) []Category {
	src := expenseCategories
	if recordType == FinancialIncome {
		src = incomeCategories
	}
	out := make([]Category, len(src))
	copy(out, src)
	return out
}

// Financial is one income or expense entry.
type Financial struct {
	ID          int64   `json:"id" yaml:"id,omitempty"`
	Type        string  `json:"type" yaml:"type"`
	Category    string  `json:"category" yaml:"category"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Description string  `json:"description" yaml:"description"`
	Date        string  `json:"date" yaml:"date"`
	CropID      int64   `json:"cropId,omitempty" yaml:"cropId,omitempty"` // soft reference, 0 for none
}

// Validate checks the fields a financial record must carry before it is
// submitted. The category must belong to the record type's set.
func (f *Financial) Validate() error {
	if f.Type != FinancialIncome && f.Type != FinancialExpense {
		return Validationf("Invalid financial type %q", f.Type)
	}
	if f.Category == "" {
		return Validationf("Category is required")
	}
	valid := false
	for _, c := range FinancialCategories(f.Type) {
		if c.Value == f.Category {
			valid = true
			break
		}
	}
	if !valid {
		return Validationf("Category %q is not valid for %s", f.Category, f.Type)
	}
	switch {
	case f.Amount <= 0:
		return Validationf("Amount must be greater than zero")
	case strings.TrimSpace(f.Description) == "":
		return Validationf("Description is required")
	case f.CropID < 0:
		return Validationf("Invalid crop reference")
	}
	if f.Date != "" {
		if _, err := ParseDate(f.Date); err != nil {
			return Validationf("Invalid date %q", f.Date)
		}
	}
	return nil
}
