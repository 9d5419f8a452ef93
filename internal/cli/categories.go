package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// NewCategoriesCommand creates the categories command
func NewCategoriesCommand() *cobra.Command {
	var single string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List the category table in effect",
		Long: `Print every category and the extensions it claims, including any
custom categories from the configuration file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			registry := buildRegistry(cfg)

			if single != "" {
				exts := registry.Extensions(single)
				if len(exts) == 0 {
					return fmt.Errorf("unknown category: %s", single)
				}
				fmt.Println(strings.Join(exts, " "))
				return nil
			}

			for _, name := range registry.Categories() {
				fmt.Printf("%-14s %s\n", name, strings.Join(registry.Extensions(name), " "))
			}
			fmt.Printf("%-14s (everything else)\n", "Others")

			return nil
		},
	}

	cmd.Flags().StringVarP(&single, "category", "c", "", "show only this category's extensions")

	return cmd
}
