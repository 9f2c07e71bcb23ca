package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/hugelabz/internal/service"
)

var generateCount int

var serialsCmd = &cobra.Command{
	Use:   "serials",
	Short: "Serial number utilities",
}

var serialsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Print random HL- serial codes, one per line",
	RunE: func(cmd *cobra.Command, args []string) error {
		if generateCount < 1 {
			return fmt.Errorf("-n must be at least 1")
		}
		seen := make(map[string]struct{}, generateCount)
		for len(seen) < generateCount {
			code, err := service.GenerateCode()
			if err != nil {
				return err
			}
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			fmt.Fprintln(cmd.OutOrStdout(), code)
		}
		return nil
	},
}

func init() {
	serialsGenerateCmd.Flags().IntVarP(&generateCount, "count", "n", 1, "number of codes")
	serialsCmd.AddCommand(serialsGenerateCmd)
	rootCmd.AddCommand(serialsCmd)
}
