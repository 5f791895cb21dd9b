package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/spokewith/internal/call"
)

// LogOptions holds flags for the log command.
type LogOptions struct {
	*RootOptions
	With    string
	At      string
	Minutes int
	Tags    []string
}

// NewLogCommand creates the log command.
func NewLogCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LogOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "log <text>...",
		Aliases: []string{"add"},
		Short:   "Log a call",
		Long: `Log a call. The words of the command line become the call text.

Examples:
  spokewith log caught up about the move --with Mum
  spokewith log standup --with team --at 2024-03-01 --minutes 15 --tag work`,
		Args:          minimumArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLog(cmd.Context(), opts, strings.Join(args, " "), cmd)
		},
	}

	cmd.Flags().StringVar(&opts.With, "with", "", "who the call was with")
	cmd.Flags().StringVar(&opts.At, "at", "", "date of the call (YYYY-MM-DD, default today)")
	cmd.Flags().IntVar(&opts.Minutes, "minutes", 0, "length of the call in minutes")
	cmd.Flags().StringArrayVar(&opts.Tags, "tag", nil, "tag the call (repeatable)")

	return cmd
}

func runLog(ctx context.Context, opts *LogOptions, text string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	at := opts.At
	if at == "" {
		at = opts.now().Format(call.DateLayout)
	} else if err := parseDate("at", at); err != nil {
		return err
	}

	c := call.Call{
		With:    opts.With,
		At:      at,
		Text:    text,
		Minutes: opts.Minutes,
		Tags:    opts.Tags,
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	row, err := st.Create(ctx, c)
	if err != nil {
		return wrapStoreError("failed to log call", err)
	}
	return opts.formatter(cmd).Success(callResult{Verb: "Logged", Row: row})
}
