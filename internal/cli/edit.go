package cli

import (
	"context"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/spokewith/internal/call"
	"github.com/roach88/spokewith/internal/store"
)

// EditOptions holds flags for the edit command.
type EditOptions struct {
	*RootOptions
	Text    string
	With    string
	At      string
	Minutes int
	Tags    []string
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EditOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a logged call",
		Long: `Change fields of a logged call. Only the flags given are changed;
an empty --with or --minutes 0 clears that field, and --tag replaces the
whole tag list.

Examples:
  spokewith edit 42 --text "talked about the garden"
  spokewith edit 42 --with Dad --minutes 20
  spokewith edit 42 --tag family --tag weekly`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEdit(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Text, "text", "", "new call text")
	cmd.Flags().StringVar(&opts.With, "with", "", "who the call was with")
	cmd.Flags().StringVar(&opts.At, "at", "", "date of the call (YYYY-MM-DD)")
	cmd.Flags().IntVar(&opts.Minutes, "minutes", 0, "length of the call in minutes")
	cmd.Flags().StringArrayVar(&opts.Tags, "tag", nil, "replace the call's tags (repeatable)")

	return cmd
}

func runEdit(ctx context.Context, opts *EditOptions, arg string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	id, err := parseID(arg)
	if err != nil {
		return err
	}

	changes, err := opts.changes(cmd)
	if err != nil {
		return err
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	current, err := st.Get(ctx, id)
	if err != nil {
		return wrapStoreError("failed to load call", err)
	}

	fields, err := store.ToFields(*current.Data)
	if err != nil {
		return wrapStoreError("failed to load call", err)
	}
	f := opts.formatter(cmd)
	for _, key := range slices.Sorted(maps.Keys(changes)) {
		value := changes[key]
		if value == nil {
			f.VerboseLog("edit call %d: clear %s", id, key)
			delete(fields, key)
			continue
		}
		f.VerboseLog("edit call %d: set %s", id, key)
		fields[key] = value
	}

	patched, err := store.FromFields[call.Call](fields)
	if err != nil {
		return wrapStoreError("failed to edit call", err)
	}

	row, err := st.Update(ctx, id, patched)
	if err != nil {
		return wrapStoreError("failed to edit call", err)
	}
	return f.Success(callResult{Verb: "Updated", Row: row})
}

// changes collects the fields named by the flags that were set. A nil value
// removes the field.
func (o *EditOptions) changes(cmd *cobra.Command) (map[string]any, error) {
	flags := cmd.Flags()
	changes := make(map[string]any)

	if flags.Changed("text") {
		changes["text"] = o.Text
	}
	if flags.Changed("with") {
		changes["with"] = clearIfZero(o.With)
	}
	if flags.Changed("at") {
		if err := parseDate("at", o.At); err != nil {
			return nil, err
		}
		changes["at"] = o.At
	}
	if flags.Changed("minutes") {
		if o.Minutes == 0 {
			changes["minutes"] = nil
		} else {
			changes["minutes"] = o.Minutes
		}
	}
	if flags.Changed("tag") {
		tags := make([]any, 0, len(o.Tags))
		for _, tag := range o.Tags {
			tags = append(tags, tag)
		}
		changes["tags"] = tags
	}

	if len(changes) == 0 {
		return nil, NewExitError(ExitCommandError,
			"nothing to change: give at least one of --text, --with, --at, --minutes, --tag")
	}
	return changes, nil
}

func clearIfZero(s string) any {
	if s == "" {
		return nil
	}
	return s
}
