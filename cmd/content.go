package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/abhisek/pagequiz/internal/content"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "Manage the offline page cache",
}

var contentFetchCmd = &cobra.Command{
	Use:   "fetch <page>...",
	Short: "Download pages into the cache for offline play",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pages := make([]int, 0, len(args))
		for _, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil || !content.ValidPage(n) {
				return fmt.Errorf("%w: %q", content.ErrInvalidPage, a)
			}
			pages = append(pages, n)
		}

		st, cfg, log, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		src := content.NewCachedSource(content.NewClient(cfg.ContentURL, cfg.HTTPTimeout), st, log)
		ayahs, err := content.FetchPages(cmd.Context(), src, pages)
		if err != nil {
			return err
		}
		fmt.Printf("Cached %d pages (%d ayahs)\n", len(pages), len(ayahs))
		return nil
	},
}

var contentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cached pages",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		pages, err := st.CachedPages(cmd.Context())
		if err != nil {
			return fmt.Errorf("list cached pages: %w", err)
		}
		if len(pages) == 0 {
			fmt.Println("No cached pages.")
			return nil
		}
		fmt.Println(joinInts(pages))
		fmt.Printf("\n%d pages\n", len(pages))
		return nil
	},
}

var contentPurgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every cached page",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, _, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		n, err := st.PurgePageCache(cmd.Context())
		if err != nil {
			return fmt.Errorf("purge cache: %w", err)
		}
		fmt.Printf("Removed %d cached pages\n", n)
		return nil
	},
}

func init() {
	contentCmd.AddCommand(contentFetchCmd)
	contentCmd.AddCommand(contentListCmd)
	contentCmd.AddCommand(contentPurgeCmd)
}
