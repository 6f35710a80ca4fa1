package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/pointsx/internal/ledger"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	ByName   bool
	Sender   string
	Receiver string
	Token    string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show ledger entries in sequence order",
		Long: `Show recorded transfers, oldest first, optionally filtered by sender,
receiver or token.

Examples:
  pointsx history
  pointsx history --receiver 2 --token 1
  pointsx history --by-name --sender Alice --limit 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.ByName, "by-name", false, "treat filter references as names")
	cmd.Flags().StringVar(&opts.Sender, "sender", "", "only entries from this sender")
	cmd.Flags().StringVar(&opts.Receiver, "receiver", "", "only entries to this receiver")
	cmd.Flags().StringVar(&opts.Token, "token", "", "only entries of this token")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum entries to show (0 = all)")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if opts.Limit < 0 {
		return ledger.InvalidInput("invalid limit %d", opts.Limit)
	}
	flags := cmd.Flags()

	return opts.withLedger(cmd, func(ctx context.Context, eng *ledger.Engine, f *OutputFormatter) error {
		filter := ledger.HistoryFilter{Limit: opts.Limit}
		resolver := eng.Resolver()

		if flags.Changed("sender") {
			ref, err := strictUserRef(opts.Sender, opts.ByName)
			if err != nil {
				return err
			}
			id, err := resolver.User(ctx, ref)
			if err != nil {
				return err
			}
			filter.Sender = &id
		}
		if flags.Changed("receiver") {
			ref, err := strictUserRef(opts.Receiver, opts.ByName)
			if err != nil {
				return err
			}
			id, err := resolver.User(ctx, ref)
			if err != nil {
				return err
			}
			filter.Receiver = &id
		}
		if flags.Changed("token") {
			ref, err := strictTokenRef(opts.Token, opts.ByName)
			if err != nil {
				return err
			}
			id, err := resolver.Token(ctx, ref)
			if err != nil {
				return err
			}
			filter.Token = &id
		}

		recs, err := eng.History(ctx, filter)
		if err != nil {
			return err
		}
		if f.JSON() {
			return f.Success(recs)
		}
		rows := make([][]string, len(recs))
		for i, r := range recs {
			rows[i] = []string{
				formatInt(r.Seq),
				formatInt(int64(r.Sender)),
				formatInt(int64(r.Receiver)),
				formatInt(int64(r.Token)),
				formatInt(r.Amount),
				r.Ref,
			}
		}
		return f.Table([]string{"SEQ", "SENDER", "RECEIVER", "TOKEN", "AMOUNT", "REF"}, rows)
	})
}
