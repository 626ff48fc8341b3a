package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the result cache",
	}

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Print cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			return c.app.CacheStats(asJSON)
		},
	}
	statsCmd.Flags().Bool("json", false, "Print the statistics as JSON")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached result",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return c.app.CacheClear()
		},
	}

	cmd.AddCommand(statsCmd, clearCmd)
	return cmd
}

func (c *CLI) newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print verification accuracy trends",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			window, _ := cmd.Flags().GetInt("window")
			asJSON, _ := cmd.Flags().GetBool("json")
			return c.app.History(window, asJSON)
		},
	}
	cmd.Flags().IntP("window", "w", 10, "Number of recent verifications to average")
	cmd.Flags().Bool("json", false, "Print the trends as JSON")
	return cmd
}
