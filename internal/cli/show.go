package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/spokewith/internal/call"
	"github.com/roach88/spokewith/internal/query"
	"github.com/roach88/spokewith/internal/querysql"
	"github.com/roach88/spokewith/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	With   string
	Since  string
	Until  string
	Tag    string
	Newest bool
	Limit  int
	Offset int
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:     "show",
		Aliases: []string{"list"},
		Short:   "List logged calls",
		Long: `List logged calls, oldest first.

Filters combine: every given filter must match. Dates are inclusive.

Examples:
  spokewith show
  spokewith show --with Mum --since 2024-01-01
  spokewith show --tag work --newest --limit 5
  spokewith show --format json`,
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.With, "with", "", "only calls with this person (case-insensitive)")
	cmd.Flags().StringVar(&opts.Since, "since", "", "only calls on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Until, "until", "", "only calls on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.Tag, "tag", "", "only calls carrying this tag")
	cmd.Flags().BoolVar(&opts.Newest, "newest", false, "list newest calls first")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "show at most this many calls")
	cmd.Flags().IntVar(&opts.Offset, "offset", 0, "skip this many calls")

	return cmd
}

func runShow(ctx context.Context, opts *ShowOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}

	spec, err := opts.querySpec(cmd)
	if err != nil {
		return err
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	f := opts.formatter(cmd)
	pages := st.Read(spec)
	if opts.Format == "json" {
		rows := make([]store.Row[call.Call], 0)
		for n := 1; pages.Next(ctx); n++ {
			f.VerboseLog("read page %d: %d calls", n, len(pages.Page()))
			rows = append(rows, pages.Page()...)
		}
		if err := pages.Err(); err != nil {
			return wrapStoreError("failed to read calls", err)
		}
		return f.Success(rows)
	}

	return writeCallTable(ctx, f, pages)
}

// querySpec builds the read query from the filter flags. User text only
// reaches SQL as quoted literals.
func (o *ShowOptions) querySpec(cmd *cobra.Command) (*query.Spec, error) {
	var conds []string

	if o.With != "" {
		conds = append(conds, querysql.Field("with")+" = "+querysql.Quote(o.With)+" COLLATE NOCASE")
	}
	if o.Since != "" {
		if err := parseDate("since", o.Since); err != nil {
			return nil, err
		}
		conds = append(conds, querysql.Field("at")+" >= "+querysql.Quote(o.Since))
	}
	if o.Until != "" {
		if err := parseDate("until", o.Until); err != nil {
			return nil, err
		}
		conds = append(conds, querysql.Field("at")+" <= "+querysql.Quote(o.Until))
	}
	if o.Tag != "" {
		conds = append(conds, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM json_each(data, '$.tags') WHERE value = %s)", querysql.Quote(o.Tag)))
	}

	spec := &query.Spec{
		Where:   strings.Join(conds, " AND "),
		OrderBy: querysql.Field("at"),
	}
	if o.Newest {
		spec.OrderBy = querysql.Field("at") + " DESC, id DESC"
	}

	if cmd.Flags().Changed("limit") {
		if o.Limit < 0 {
			return nil, NewExitError(ExitCommandError, "--limit must not be negative")
		}
		spec.Limit = query.Int(o.Limit)
	}
	if cmd.Flags().Changed("offset") {
		if o.Offset < 0 {
			return nil, NewExitError(ExitCommandError, "--offset must not be negative")
		}
		spec.Offset = query.Int(o.Offset)
	}
	return spec, nil
}

// writeCallTable renders pages as an aligned table.
func writeCallTable(ctx context.Context, f *OutputFormatter, pages *store.Pages[call.Call]) error {
	w := f.Writer
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	count := 0
	for n := 1; pages.Next(ctx); n++ {
		f.VerboseLog("read page %d: %d calls", n, len(pages.Page()))
		for _, row := range pages.Page() {
			if count == 0 {
				fmt.Fprintln(tw, "ID\tDATE\tWITH\tMIN\tTAGS\tTEXT")
			}
			c := row.Data
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
				row.ID,
				orDash(c.At),
				orDash(c.With),
				minutes(c.Minutes),
				orDash(strings.Join(c.Tags, ",")),
				oneLine(c.Text))
			count++
		}
	}
	if err := pages.Err(); err != nil {
		tw.Flush()
		return wrapStoreError("failed to read calls", err)
	}

	if count == 0 {
		_, err := fmt.Fprintln(w, "No calls found.")
		return err
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func minutes(n int) string {
	if n == 0 {
		return "-"
	}
	return strconv.Itoa(n)
}

// oneLine keeps multi-line call text on a single table row.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
