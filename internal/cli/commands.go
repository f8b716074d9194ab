package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	bc "github.com/egobogo/boardsync/internal/board"
	"github.com/egobogo/boardsync/internal/syncer"
)

func newSyncCommand() *cobra.Command {
	var (
		from, to, defaultType string
		dryRun                bool
	)
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Create cards on --to for completed cards on --from",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if from == to {
				return fmt.Errorf("--from and --to must differ (both %q)", from)
			}
			env := envFrom(cmd)
			source, err := bc.Open(cmd.Context(), from, env)
			if err != nil {
				return err
			}
			dest, err := bc.Open(cmd.Context(), to, env)
			if err != nil {
				return err
			}
			res, err := syncer.Run(cmd.Context(), source, dest, syncer.Options{
				DryRun:      dryRun,
				DefaultType: defaultType,
				Logger:      env.Logger,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if dryRun {
				for _, c := range res.Pending {
					fmt.Fprintf(out, "would create %s (%s)\n", c.Identifier, c.Name)
				}
				return nil
			}
			for _, c := range res.Created {
				fmt.Fprintf(out, "created %s as %s\n", c.Identifier, c.ID)
			}
			fmt.Fprintf(out, "%d completed, %d skipped, %d created\n", res.Completed, res.Skipped, len(res.Created))
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "board to read completed cards from")
	cmd.Flags().StringVar(&to, "to", "", "board to create cards on")
	cmd.Flags().StringVar(&defaultType, "type", "", "card type for cards the source cannot describe")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report without creating cards")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newCompletedCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "completed <service>",
		Short:             "Print the external ids of completed cards",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: serviceCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := bc.Open(cmd.Context(), args[0], envFrom(cmd))
			if err != nil {
				return err
			}
			ids, err := adapter.FindCompletedCardIDs(cmd.Context())
			if err != nil {
				return err
			}
			for _, id := range ids {
				if id == bc.NoExternalID {
					id = "-"
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
			}
			return nil
		},
	}
}

func newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "clear <service>",
		Short:             "Delete every card on the board (destructive)",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: serviceCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			adapter, err := bc.Open(cmd.Context(), args[0], envFrom(cmd))
			if err != nil {
				return err
			}
			clearer, ok := adapter.(bc.Clearer)
			if !ok {
				return fmt.Errorf("board adapter %q cannot clear its board", args[0])
			}
			return clearer.ClearBoard(cmd.Context())
		},
	}
}
