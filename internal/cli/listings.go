package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/pointsx/internal/ledger"
)

// ListOptions holds flags shared by the aggregate listing commands.
type ListOptions struct {
	*RootOptions
	ByName  bool
	Asc     bool
	Desc    bool
	OrderBy string
	Group   bool
}

func addListFlags(cmd *cobra.Command, opts *ListOptions, keys string, group bool) {
	cmd.Flags().BoolVar(&opts.ByName, "by-name", false, "treat references as names")
	cmd.Flags().BoolVar(&opts.Asc, "asc", false, "sort ascending")
	cmd.Flags().BoolVar(&opts.Desc, "desc", false, "sort descending")
	cmd.Flags().StringVar(&opts.OrderBy, "order-by", "", "sort key ("+keys+")")
	cmd.MarkFlagsMutuallyExclusive("asc", "desc")
	if group {
		cmd.Flags().BoolVar(&opts.Group, "group", false, "nest rows under their grouping key")
	}
}

// order returns the requested direction, falling back to the config default.
func (o *ListOptions) order() ledger.Order {
	switch {
	case o.Asc:
		return ledger.OrderAsc
	case o.Desc:
		return ledger.OrderDesc
	default:
		return o.Config.Order()
	}
}

// NewListUserTokensCommand creates the ls-user-tokens command.
func NewListUserTokensCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ls-user-tokens <receiver> <token>",
		Short: "List per-sender totals of one token received by one user",
		Long: `List, for a receiver and token, every sender's summed total.

Rows sort by sender id unless --order-by amount is given; ties break on
sender id ascending.

Examples:
  pointsx ls-user-tokens 2 1
  pointsx ls-user-tokens --by-name --order-by amount --asc Bob Gold`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			by, err := ledger.ParseUserTokenOrderBy(opts.OrderBy)
			if err != nil {
				return err
			}
			receiver, err := strictUserRef(args[0], opts.ByName)
			if err != nil {
				return err
			}
			token, err := strictTokenRef(args[1], opts.ByName)
			if err != nil {
				return err
			}
			return opts.withLedger(cmd, func(ctx context.Context, eng *ledger.Engine, f *OutputFormatter) error {
				rows, err := eng.ListUserToken(ctx, receiver, token, opts.order(), by)
				if err != nil {
					return err
				}
				if f.JSON() {
					return f.Success(rows)
				}
				return f.Table([]string{"SENDER_ID", "SENDER", "AMOUNT"}, senderRows(rows))
			})
		},
	}
	addListFlags(cmd, opts, "sender|amount", false)

	return cmd
}

// NewListTokensCommand creates the ls-tokens command.
func NewListTokensCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ls-tokens <receiver>",
		Short: "List per-(token, sender) totals received by one user",
		Long: `List, for a receiver, the summed total of every (token, sender) pair.

Rows sort by token id unless --order-by selects sender or amount.

Examples:
  pointsx ls-tokens 2
  pointsx ls-tokens --group 2`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			by, err := ledger.ParseTokensOrderBy(opts.OrderBy)
			if err != nil {
				return err
			}
			receiver, err := strictUserRef(args[0], opts.ByName)
			if err != nil {
				return err
			}
			return opts.withLedger(cmd, func(ctx context.Context, eng *ledger.Engine, f *OutputFormatter) error {
				rows, err := eng.ListTokensByUser(ctx, receiver, opts.order(), by)
				if err != nil {
					return err
				}
				if opts.Group {
					return writeTokenGroups(f, ledger.GroupByToken(rows))
				}
				if f.JSON() {
					return f.Success(rows)
				}
				table := make([][]string, len(rows))
				for i, r := range rows {
					table[i] = []string{
						formatInt(int64(r.Token.ID)), r.Token.Name,
						formatInt(int64(r.Sender.ID)), r.Sender.Name,
						formatInt(r.Amount),
					}
				}
				return f.Table([]string{"TOKEN_ID", "TOKEN", "SENDER_ID", "SENDER", "AMOUNT"}, table)
			})
		},
	}
	addListFlags(cmd, opts, "token|sender|amount", true)

	return cmd
}

// NewListUsersCommand creates the ls-users command.
func NewListUsersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ls-users <token>",
		Short: "List per-(receiver, sender) totals of one token",
		Long: `List, for a token, the summed total of every (receiver, sender) pair.

Rows sort by receiver id unless --order-by selects sender or amount.

Examples:
  pointsx ls-users 1
  pointsx ls-users --by-name --order-by amount Gold`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			by, err := ledger.ParseUsersOrderBy(opts.OrderBy)
			if err != nil {
				return err
			}
			token, err := strictTokenRef(args[0], opts.ByName)
			if err != nil {
				return err
			}
			return opts.withLedger(cmd, func(ctx context.Context, eng *ledger.Engine, f *OutputFormatter) error {
				rows, err := eng.ListUsersByToken(ctx, token, opts.order(), by)
				if err != nil {
					return err
				}
				if opts.Group {
					return writeReceiverGroups(f, ledger.GroupByReceiver(rows))
				}
				if f.JSON() {
					return f.Success(rows)
				}
				table := make([][]string, len(rows))
				for i, r := range rows {
					table[i] = []string{
						formatInt(int64(r.Receiver.ID)), r.Receiver.Name,
						formatInt(int64(r.Sender.ID)), r.Sender.Name,
						formatInt(r.Amount),
					}
				}
				return f.Table([]string{"RECEIVER_ID", "RECEIVER", "SENDER_ID", "SENDER", "AMOUNT"}, table)
			})
		},
	}
	addListFlags(cmd, opts, "receiver|sender|amount", true)

	return cmd
}

func senderRows(rows []ledger.SenderBalance) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{formatInt(int64(r.Sender.ID)), r.Sender.Name, formatInt(r.Amount)}
	}
	return out
}

// writeTokenGroups prints each token as a heading over its sender table.
func writeTokenGroups(f *OutputFormatter, groups []ledger.TokenGroup) error {
	if f.JSON() {
		return f.Success(groups)
	}
	for i, g := range groups {
		if i > 0 {
			f.Println()
		}
		f.Println(formatInt(int64(g.Token.ID)), g.Token.Name)
		if err := f.Table([]string{"  SENDER_ID", "SENDER", "AMOUNT"}, indent(senderRows(g.Senders))); err != nil {
			return err
		}
	}
	return nil
}

// writeReceiverGroups prints each receiver as a heading over its sender table.
func writeReceiverGroups(f *OutputFormatter, groups []ledger.ReceiverGroup) error {
	if f.JSON() {
		return f.Success(groups)
	}
	for i, g := range groups {
		if i > 0 {
			f.Println()
		}
		f.Println(formatInt(int64(g.Receiver.ID)), g.Receiver.Name)
		if err := f.Table([]string{"  SENDER_ID", "SENDER", "AMOUNT"}, indent(senderRows(g.Senders))); err != nil {
			return err
		}
	}
	return nil
}

func indent(rows [][]string) [][]string {
	for _, r := range rows {
		r[0] = "  " + r[0]
	}
	return rows
}
