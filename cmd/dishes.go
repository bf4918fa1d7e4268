package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/yeremiapane/menu-admin/models"
	"github.com/yeremiapane/menu-admin/services"
	"github.com/yeremiapane/menu-admin/utils"
)

func newDishesCmd(a *app) *cobra.Command {
	dishesCmd := &cobra.Command{
		Use:   "dishes",
		Short: "Inspect the dish catalog",
	}

	var grouped bool
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Print every dish in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dishes, err := a.client.ListDishes(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !grouped {
				return printDishes(out, dishes)
			}
			for i, g := range services.GroupByCategory(dishes) {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "== %s (%d)\n", categoryLabel(g.Category), len(g.Dishes))
				if err := printDishes(out, g.Dishes); err != nil {
					return err
				}
			}
			return nil
		},
	}
	listCmd.Flags().BoolVar(&grouped, "grouped", false, "group dishes by category")

	dishesCmd.AddCommand(listCmd)
	return dishesCmd
}

func newTodayCmd(a *app) *cobra.Command {
	todayCmd := &cobra.Command{
		Use:   "today",
		Short: "Inspect today's menu",
	}
	todayCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the dishes on today's menu",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dishes, err := a.client.ListTodayDishes(cmd.Context())
			if err != nil {
				return err
			}
			return printDishes(cmd.OutOrStdout(), dishes)
		},
	})
	return todayCmd
}

func printDishes(out io.Writer, dishes []models.Dish) error {
	if len(dishes) == 0 {
		_, err := fmt.Fprintln(out, "Không có món ăn để hiển thị")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tPRICE")
	for _, d := range dishes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.ID, d.Name, categoryLabel(d.Category), utils.FormatVND(float64(d.Price)))
	}
	return tw.Flush()
}

func categoryLabel(c string) string {
	if c == "" {
		return "-"
	}
	return c
}
