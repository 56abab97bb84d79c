package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/apetros/billfold/internal/cli"
	"github.com/apetros/billfold/internal/model"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"transaction", "tx"},
		Short:   "Manage income and expense transactions",
		Long:    `List, add, update, and delete transactions in either ledger space.`,
	}

	cmd.PersistentFlags().Bool("income", false, "work on the income space (default: expenses)")

	cmd.AddCommand(listTransactionsCmd())
	cmd.AddCommand(addTransactionCmd())
	cmd.AddCommand(updateTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())

	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		limit int
		since string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			income, _ := cmd.Flags().GetBool("income")

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.close()

			svc := ledger.transactions(income)

			var transactions []model.Transaction
			switch {
			case since != "":
				sinceDate, parseErr := parseDate(since)
				if parseErr != nil {
					return parseErr
				}
				transactions, err = svc.LatestSince(ctx, sinceDate)
			case limit > 0:
				transactions, err = svc.Latest(ctx, limit)
			default:
				transactions, err = svc.AllDescOrder(ctx)
			}
			if err != nil {
				return fmt.Errorf("failed to list %s transactions: %w", spaceName(income), err)
			}

			if len(transactions) == 0 {
				fmt.Println(cli.InfoStyle.Render(
					fmt.Sprintf("No %s transactions found.", spaceName(income))))
				return nil
			}

			printTransactions(transactions)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the n most recent transactions")
	cmd.Flags().StringVar(&since, "since", "", "show transactions dated on or after this date (YYYY-MM-DD)")
	return cmd
}

func printTransactions(transactions []model.Transaction) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		cli.HeaderStyle.Render("ID"),
		cli.HeaderStyle.Render("Date"),
		cli.HeaderStyle.Render("Name"),
		cli.HeaderStyle.Render("Category"),
		cli.HeaderStyle.Render("Amount"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
		strings.Repeat("-", 4),
		strings.Repeat("-", 10),
		strings.Repeat("-", 20),
		strings.Repeat("-", 15),
		strings.Repeat("-", 10))

	for _, txn := range transactions {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			txn.ID,
			txn.Date.Format(model.DateLayout),
			txn.Name,
			txn.Category.Name,
			formatAmount(txn.Amount))
	}
}

func addTransactionCmd() *cobra.Command {
	var (
		description string
		date        string
		amount      string
		category    string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Record a new transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			income, _ := cmd.Flags().GetBool("income")

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.close()

			minor, err := parseAmount(amount)
			if err != nil {
				return err
			}

			txnDate := today()
			if date != "" {
				if txnDate, err = parseDate(date); err != nil {
					return err
				}
			}

			cat, err := ledger.categories(income).Get(ctx, category)
			if err != nil {
				return fmt.Errorf("failed to look up category %q: %w", category, err)
			}

			txn := model.NewTransaction(args[0], description, txnDate, minor, *cat)
			id, err := ledger.transactions(income).Add(ctx, txn)
			if err != nil {
				return fmt.Errorf("failed to add transaction: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("Recorded %s %q: %s under %q (id %d)",
				spaceName(income), txn.Name, formatAmount(txn.Amount), cat.Name, id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "transaction description")
	cmd.Flags().StringVar(&date, "date", "", "transaction date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount in major units, e.g. 12.34")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func updateTransactionCmd() *cobra.Command {
	var (
		name        string
		description string
		date        string
		amount      string
		category    string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			income, _ := cmd.Flags().GetBool("income")

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.close()

			svc := ledger.transactions(income)
			current, err := svc.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to look up transaction %d: %w", id, err)
			}

			updated := *current
			if cmd.Flags().Changed("name") {
				updated.Name = name
			}
			if cmd.Flags().Changed("description") {
				updated.Description = description
			}
			if cmd.Flags().Changed("date") {
				if updated.Date, err = parseDate(date); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("amount") {
				if updated.Amount, err = parseAmount(amount); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("category") {
				cat, catErr := ledger.categories(income).Get(ctx, category)
				if catErr != nil {
					return fmt.Errorf("failed to look up category %q: %w", category, catErr)
				}
				updated.Category = *cat
			}

			if err := svc.Update(ctx, current, &updated); err != nil {
				return fmt.Errorf("failed to update transaction: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Updated %s transaction %d", spaceName(income), id)))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "new transaction name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVar(&date, "date", "", "new date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "new amount in major units")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category name")
	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			income, _ := cmd.Flags().GetBool("income")

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.close()

			svc := ledger.transactions(income)
			txn, err := svc.Get(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to look up transaction %d: %w", id, err)
			}

			if err := svc.Remove(ctx, txn); err != nil {
				return fmt.Errorf("failed to delete transaction: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Deleted %s transaction %d (%s, %s)",
					spaceName(income), id, txn.Name, formatAmount(txn.Amount))))
			return nil
		},
	}
}
