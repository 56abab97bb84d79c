package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/apetros/billfold/internal/cli"
	"github.com/apetros/billfold/internal/model"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"category", "cat"},
		Short:   "Manage income and expense categories",
		Long:    `List, add, update, and delete the categories transactions are recorded under.`,
	}

	cmd.PersistentFlags().Bool("income", false, "work on the income category space (default: expenses)")

	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func listCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			income, _ := cmd.Flags().GetBool("income")

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.close()

			categories, err := ledger.categories(income).AllAscOrder(ctx)
			if err != nil {
				return fmt.Errorf("failed to list %s categories: %w", spaceName(income), err)
			}

			if len(categories) == 0 {
				fmt.Println(cli.InfoStyle.Render(
					fmt.Sprintf("No %s categories yet. Use 'billfold categories add' to create one.", spaceName(income))))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()

			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.HeaderStyle.Render("ID"),
				cli.HeaderStyle.Render("Name"),
				cli.HeaderStyle.Render("Description"))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				strings.Repeat("-", 4),
				strings.Repeat("-", 20),
				strings.Repeat("-", 40))

			for _, cat := range categories {
				desc := cat.Description
				if desc == "" {
					desc = cli.SubtleStyle.Render("(no description)")
				}
				fmt.Fprintf(w, "%d\t%s\t%s\n", cat.ID, cat.Name, desc)
			}

			return nil
		},
	}
}

func addCategoryCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			income, _ := cmd.Flags().GetBool("income")

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.close()

			category := model.NewCategory(args[0], description)
			id, err := ledger.categories(income).Add(ctx, category)
			if err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Added %s category %q (id %d)", spaceName(income), category.Name, id)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "category description")
	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		newName     string
		description string
	)

	cmd := &cobra.Command{
		Use:   "update <name>",
		Short: "Rename a category or change its description",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			income, _ := cmd.Flags().GetBool("income")

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.close()

			svc := ledger.categories(income)
			current, err := svc.Get(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to look up category %q: %w", args[0], err)
			}

			updated := *current
			if cmd.Flags().Changed("name") {
				updated.Name = newName
			}
			if cmd.Flags().Changed("description") {
				updated.Description = description
			}

			if err := svc.Update(ctx, current, &updated); err != nil {
				return fmt.Errorf("failed to update category: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Updated %s category %q", spaceName(income), current.Name)))
			return nil
		},
	}

	cmd.Flags().StringVar(&newName, "name", "", "new category name")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new category description")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category and all its transactions",
		Long: `Delete a category by name. Every transaction recorded under the category
is removed with it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			income, _ := cmd.Flags().GetBool("income")

			ledger, err := openLedger(ctx)
			if err != nil {
				return err
			}
			defer ledger.close()

			if err := ledger.categories(income).RemoveByName(ctx, args[0]); err != nil {
				return fmt.Errorf("failed to delete category: %w", err)
			}

			fmt.Println(cli.SuccessStyle.Render(
				fmt.Sprintf("Deleted %s category %q", spaceName(income), args[0])))
			return nil
		},
	}
}
