package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"remove"},
		Short:   "Delete a logged call",
		Long: `Delete a logged call by id. Ids are shown by "spokewith show".

Example:
  spokewith delete 42`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(cmd.Context(), rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runDelete(ctx context.Context, opts *RootOptions, arg string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	row, err := st.Delete(ctx, id)
	if err != nil {
		return wrapStoreError("failed to delete call", err)
	}
	return opts.formatter(cmd).Success(callResult{Verb: "Deleted", Row: row})
}
