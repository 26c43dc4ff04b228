package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/abhisek/pagequiz/internal/progression"
	"github.com/abhisek/pagequiz/internal/store"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage progression, question catalog and store configuration",
}

var configSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Write the default levels, question catalog and starter store",
	RunE: func(cmd *cobra.Command, args []string) error {
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		st, _, log, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Seed(cmd.Context(), overwrite); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		log.Info().Bool("overwrite", overwrite).Msg("configuration seeded")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		st, _, log, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		engine := progression.NewEngine(st, log)
		if err := engine.Initialize(ctx); err != nil {
			return fmt.Errorf("load progression config: %w", err)
		}
		catalog, err := st.FetchQuestionCatalog(ctx)
		if err != nil {
			return fmt.Errorf("load question catalog: %w", err)
		}

		fmt.Printf("Progression: %s, %d levels\n", engine.Origin(), len(engine.Levels()))
		fmt.Println("\nQuestion catalog:")
		fmt.Printf("  %-24s  %-36s  %s\n", "ID", "Name", "Level")
		fmt.Println("  " + strings.Repeat("─", 70))
		for _, e := range catalog {
			fmt.Printf("  %-24s  %-36s  %d\n", e.Kind.ID(), e.Kind.DisplayName(), e.LevelRequired)
		}
		return nil
	},
}

var configImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Validate and import a configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		f, err := store.ParseConfigFile(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		st, _, log, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.ImportConfig(cmd.Context(), f); err != nil {
			return fmt.Errorf("import: %w", err)
		}
		log.Info().
			Int("levels", len(f.Levels)).
			Int("question_rewards", len(f.QuestionRewards)).
			Int("catalog", len(f.Catalog)).
			Int("items", len(f.Items)).
			Msg("configuration imported")
		return nil
	},
}

var configExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Print the stored configuration as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")

		st, _, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		f, err := st.ExportConfig(cmd.Context())
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		data, err := sonic.ConfigStd.MarshalIndent(f, "", "  ")
		if err != nil {
			return fmt.Errorf("encode config: %w", err)
		}
		data = append(data, '\n')

		if out == "" || out == "-" {
			_, err = os.Stdout.Write(data)
			return err
		}
		return os.WriteFile(out, data, 0o644)
	},
}

func init() {
	configSeedCmd.Flags().Bool("overwrite", false, "Replace sections that already hold data")
	configExportCmd.Flags().StringP("output", "o", "", "Write to this file instead of stdout")

	configCmd.AddCommand(configSeedCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configImportCmd)
	configCmd.AddCommand(configExportCmd)
}
