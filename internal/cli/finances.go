package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/farmbook/internal/farm"
	"github.com/mesh-intelligence/farmbook/pkg/types"
)

func (a *app) financesCmd() *cobra.Command {
	return entityCmd(a, entityDef[types.Financial]{
		use:      "finances",
		singular: "financial record",
		plural:   "financial records",
		service:  func(s *farm.Services) entityService[types.Financial] { return s.Financials },
		bind: func(fs *pflag.FlagSet, f *types.Financial) {
			fs.StringVar(&f.Type, "type", "", "income or expense")
			fs.StringVar(&f.Category, "category", "", "category (see \"finances categories\")")
			fs.Float64Var(&f.Amount, "amount", 0, "amount, greater than zero")
			fs.StringVar(&f.Description, "description", "", "description")
			fs.StringVar(&f.Date, "date", "", "date (YYYY-MM-DD, default today)")
			fs.Int64Var(&f.CropID, "crop-id", 0, "related crop (0 for none)")
		},
		id:      func(f *types.Financial) int64 { return f.ID },
		columns: []string{"ID", "DATE", "TYPE", "CATEGORY", "AMOUNT", "DESCRIPTION"},
		row: func(f types.Financial) []string {
			return []string{
				strconv.FormatInt(f.ID, 10),
				f.Date,
				f.Type,
				f.Category,
				formatAmount(f.Amount),
				truncate(f.Description, 40),
			}
		},
		labels: []string{"ID", "Date", "Type", "Category", "Amount", "Description", "Crop"},
		detail: func(f types.Financial) []string {
			return []string{
				strconv.FormatInt(f.ID, 10),
				f.Date,
				f.Type,
				categoryLabel(f.Type, f.Category),
				formatAmount(f.Amount),
				f.Description,
				formatRef(f.CropID),
			}
		},
		listFlags: func(fs *pflag.FlagSet) func([]types.Financial, time.Time) ([]types.Financial, error) {
			var f farm.FinancialFilter
			fs.StringVar(&f.Search, "search", "", "match description or category")
			fs.StringVar(&f.Type, "type", farm.FilterAll, "all, income or expense")
			fs.StringVar(&f.Category, "category", farm.FilterAll, "only this category")
			fs.StringVar(&f.SortBy, "sort", farm.SortFinancialsByDate, "date, amount or description")
			return func(records []types.Financial, _ time.Time) ([]types.Financial, error) {
				if err := oneOf("type", f.Type, farm.FilterAll, types.FinancialIncome, types.FinancialExpense); err != nil {
					return nil, err
				}
				if err := oneOf("sort", f.SortBy, farm.SortFinancialsByDate, farm.SortFinancialsByAmount, farm.SortFinancialsByDescription); err != nil {
					return nil, err
				}
				return farm.FilterFinancials(records, f), nil
			}
		},
		listFooter: func(a *app, cmd *cobra.Command, records []types.Financial) {
			t := farm.SumFinancials(records)
			fmt.Fprintf(cmd.OutOrStdout(), "Income: %s, expenses: %s, net: %s\n",
				t.Income.StringFixed(2), t.Expenses.StringFixed(2), t.Net.StringFixed(2))
		},
	}, a.financeCategoriesCmd())
}

func (a *app) financeCategoriesCmd() *cobra.Command {
	var recordType string
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the categories valid for a record type",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := oneOf("type", recordType, types.FinancialIncome, types.FinancialExpense); err != nil {
				return err
			}
			cats := types.FinancialCategories(recordType)
			if a.flags.jsonMode {
				return printJSON(cmd.OutOrStdout(), cats)
			}
			rows := make([][]string, len(cats))
			for i, c := range cats {
				rows[i] = []string{c.Value, c.Label}
			}
			printTable(cmd.OutOrStdout(), []string{"VALUE", "LABEL"}, rows, recordType+" categories")
			return nil
		},
	}
	cmd.Flags().StringVar(&recordType, "type", types.FinancialExpense, "income or expense")
	return cmd
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func categoryLabel(recordType, value string) string {
	for _, c := range types.FinancialCategories(recordType) {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}
