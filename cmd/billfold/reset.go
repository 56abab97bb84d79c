package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/apetros/billfold/internal/cli"
)

func resetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all ledger data",
		Long: `Delete every transaction and category from both the income and
expense spaces. The database file itself is kept. This cannot be undone,
so the command refuses to run without --force.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !force {
				return fmt.Errorf("refusing to delete all data without --force")
			}

			ctx := cmd.Context()

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.close()

			// Transactions first so category deletion never races a
			// cascade against rows we are about to remove anyway.
			if err := ledger.income.RemoveAll(ctx); err != nil {
				return fmt.Errorf("failed to delete income transactions: %w", err)
			}
			if err := ledger.expenses.RemoveAll(ctx); err != nil {
				return fmt.Errorf("failed to delete expense transactions: %w", err)
			}
			if err := ledger.incomeCategories.RemoveAll(ctx); err != nil {
				return fmt.Errorf("failed to delete income categories: %w", err)
			}
			if err := ledger.expenseCategories.RemoveAll(ctx); err != nil {
				return fmt.Errorf("failed to delete expense categories: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render("Ledger wiped"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "confirm deleting all data")

	return cmd
}
