package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/apetros/billfold/internal/cli"
	"github.com/apetros/billfold/internal/service"
)

func reportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show running totals",
		Long: `Display income, expense and net totals for the current month, the
previous month, the current year and all time. Totals are computed from
persisted data, not from any in-memory view.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.close()

			now := today()
			monthStart := firstOfMonth(now)
			lastMonthStart := firstOfMonth(monthStart.AddDate(0, 0, -1))
			lastMonthEnd := monthStart.AddDate(0, 0, -1)
			yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

			periods := []struct {
				name  string
				total func(*service.TransactionService) (int64, error)
			}{
				{"This month", func(s *service.TransactionService) (int64, error) {
					return s.TotalAmountSince(ctx, monthStart)
				}},
				{"Last month", func(s *service.TransactionService) (int64, error) {
					return s.TotalAmountBetween(ctx, lastMonthStart, lastMonthEnd)
				}},
				{"This year", func(s *service.TransactionService) (int64, error) {
					return s.TotalAmountSince(ctx, yearStart)
				}},
				{"All time", func(s *service.TransactionService) (int64, error) {
					return s.TotalAmount(ctx)
				}},
			}

			fmt.Println(cli.TitleStyle.Render("Ledger report"))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				cli.HeaderStyle.Render("Period"),
				cli.HeaderStyle.Render("Income"),
				cli.HeaderStyle.Render("Expenses"),
				cli.HeaderStyle.Render("Net"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 10),
				strings.Repeat("-", 10),
				strings.Repeat("-", 10),
				strings.Repeat("-", 10))

			for _, period := range periods {
				incomeTotal, err := period.total(ledger.income)
				if err != nil {
					return fmt.Errorf("failed to total income for %s: %w", period.name, err)
				}
				expenseTotal, err := period.total(ledger.expenses)
				if err != nil {
					return fmt.Errorf("failed to total expenses for %s: %w", period.name, err)
				}

				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					period.name,
					formatAmount(incomeTotal),
					formatAmount(expenseTotal),
					cli.AmountStyle.Render(formatAmount(incomeTotal-expenseTotal)))
			}

			return nil
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the ledger database",
		Long:  `Create the database file and its tables. Safe to run repeatedly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.close()

			// openLedger already attempted the bootstrap; run it again so
			// init can report an explicit result.
			if !ledger.store.CreateSchema(ctx) {
				return fmt.Errorf("schema creation failed, see log output")
			}

			fmt.Println(cli.SuccessStyle.Render("Ledger database is ready"))
			return nil
		},
	}
}

// firstOfMonth returns midnight on the first day of t's month.
func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
