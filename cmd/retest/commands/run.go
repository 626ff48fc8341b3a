package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/retest/internal/app"
)

// selectionFlags registers the flags shared by commands that compute a plan.
func selectionFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("full", "f", false, "Run every test and bypass change detection")
	cmd.Flags().StringP("base", "b", "", "Base ref to diff against (defaults to git.baseRef)")
	cmd.Flags().Bool("no-working-tree", false, "Ignore uncommitted changes")
	cmd.Flags().Bool("json", false, "Print the report as JSON")
}

func verifyFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("sample-rate", 0, "Fraction of each test category to verify (defaults to verify.sampleRate)")
	cmd.Flags().Uint64("seed", 0, "Seed for verification sampling (defaults to verify.seed, else random)")
}

func runOptions(cmd *cobra.Command) app.RunOptions {
	var opts app.RunOptions
	opts.Full, _ = cmd.Flags().GetBool("full")
	opts.BaseRef, _ = cmd.Flags().GetString("base")
	opts.NoWorkingTree, _ = cmd.Flags().GetBool("no-working-tree")
	opts.JSON, _ = cmd.Flags().GetBool("json")
	if cmd.Flags().Lookup("verify") != nil {
		opts.Verify, _ = cmd.Flags().GetBool("verify")
	}
	if cmd.Flags().Lookup("sample-rate") != nil {
		opts.SampleRate, _ = cmd.Flags().GetFloat64("sample-rate")
		opts.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	return opts
}

func (c *CLI) newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the tests affected by changes since the base ref",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Run(cmd.Context(), runOptions(cmd))
		},
	}
	selectionFlags(cmd)
	verifyFlags(cmd)
	cmd.Flags().Bool("verify", false, "Audit the selection against a sampled full run")
	return cmd
}

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the execution plan without running tests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Plan(cmd.Context(), runOptions(cmd))
		},
	}
	selectionFlags(cmd)
	return cmd
}

func (c *CLI) newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Run affected tests and audit the selection against a sampled full run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Verify(cmd.Context(), runOptions(cmd))
		},
	}
	selectionFlags(cmd)
	verifyFlags(cmd)
	return cmd
}

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run affected tests whenever files change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Watch(cmd.Context(), runOptions(cmd))
		},
	}
	cmd.Flags().StringP("base", "b", "", "Base ref to diff against (defaults to git.baseRef)")
	cmd.Flags().Bool("json", false, "Print reports as JSON")
	return cmd
}
