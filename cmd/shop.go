package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/pagequiz/internal/player"
	"github.com/abhisek/pagequiz/internal/shop"
)

var shopCmd = &cobra.Command{
	Use:   "shop",
	Short: "Manage store items",
}

var shopListCmd = &cobra.Command{
	Use:   "list",
	Short: "List store items by sort order",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		items, err := st.ListItems(cmd.Context())
		if err != nil {
			return fmt.Errorf("list items: %w", err)
		}
		if len(items) == 0 {
			fmt.Println("The store is empty. Run `pagequiz config seed` to add the starter items.")
			return nil
		}

		fmt.Printf("%5s  %-32s  %-8s  %6s  %s\n", "Order", "ID", "Type", "Price", "Name")
		fmt.Println(strings.Repeat("─", 90))
		for _, it := range items {
			fmt.Printf("%5d  %-32s  %-8s  %6d  %s\n", it.SortOrder, it.ID, it.Type, it.Price, it.Name)
		}
		fmt.Printf("\n%d items\n", len(items))
		return nil
	},
}

var shopAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Add or replace a store item",
	Long: "Add or replace a store item. Page items are named page_<n> and " +
		"reciter items reciter_<edition>.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		it := shop.Item{ID: args[0]}
		it.Name, _ = cmd.Flags().GetString("name")
		it.Description, _ = cmd.Flags().GetString("description")
		it.Price, _ = cmd.Flags().GetInt("price")
		it.Value, _ = cmd.Flags().GetString("value")
		it.SortOrder, _ = cmd.Flags().GetInt("sort")
		typ, _ := cmd.Flags().GetString("type")
		it.Type = shop.ItemType(typ)

		if it.Value == "" {
			switch it.Type {
			case shop.TypePage:
				it.Value = strings.TrimPrefix(it.ID, player.PageItemPrefix)
			case shop.TypeReciter:
				it.Value = strings.TrimPrefix(it.ID, player.ReciterItemPrefix)
			}
		}

		st, _, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.UpsertItem(cmd.Context(), it); err != nil {
			return fmt.Errorf("save item: %w", err)
		}
		fmt.Printf("Saved %s (%s, %d diamonds)\n", it.ID, it.Type, it.Price)
		return nil
	},
}

var shopDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a store item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteItem(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete item: %w", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	shopAddCmd.Flags().String("name", "", "Display name (required)")
	shopAddCmd.Flags().String("description", "", "Description")
	shopAddCmd.Flags().Int("price", 0, "Price in diamonds")
	shopAddCmd.Flags().String("type", string(shop.TypeCosmetic), "Item type: page, reciter or cosmetic")
	shopAddCmd.Flags().String("value", "", "Page number or reciter edition (derived from the id when empty)")
	shopAddCmd.Flags().Int("sort", 0, "Sort order")
	_ = shopAddCmd.MarkFlagRequired("name")

	shopCmd.AddCommand(shopListCmd)
	shopCmd.AddCommand(shopAddCmd)
	shopCmd.AddCommand(shopDeleteCmd)
}
