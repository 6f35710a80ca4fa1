package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/pointsx/internal/ledger"
)

// TransferOptions holds flags for the tr and balance commands.
type TransferOptions struct {
	*RootOptions
	ByName bool
}

// BalanceView is the balance command's JSON payload.
type BalanceView struct {
	Total   int64 `json:"total"`
	Present bool  `json:"present"`
}

// NewTransferCommand creates the tr command.
func NewTransferCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tr <sender> <receiver> <token> <amount>",
		Short: "Record a transfer and print the triple's new total",
		Long: `Record a transfer of amount (which may be negative) from sender to
receiver and print the new total of the (sender, receiver, token) triple.

References are numeric ids unless --by-name is given, in which case they are
names and unknown names are created. Flags go before the arguments so
negative amounts are read as arguments.

Examples:
  pointsx tr 1 2 1 100
  pointsx tr 1 2 1 -30
  pointsx tr --by-name Alice Bob Gold 100`,
		Args:          cobra.ExactArgs(4),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransfer(opts, args, cmd)
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().BoolVar(&opts.ByName, "by-name", false, "treat references as names, creating unknown ones")

	return cmd
}

func runTransfer(opts *TransferOptions, args []string, cmd *cobra.Command) error {
	sender, err := creatingUserRef(args[0], opts.ByName)
	if err != nil {
		return err
	}
	receiver, err := creatingUserRef(args[1], opts.ByName)
	if err != nil {
		return err
	}
	token, err := creatingTokenRef(args[2], opts.ByName)
	if err != nil {
		return err
	}
	amount, err := strconv.ParseInt(args[3], 10, 64)
	if err != nil {
		return ledger.InvalidInput("invalid amount %q", args[3])
	}

	return opts.withLedger(cmd, func(ctx context.Context, eng *ledger.Engine, f *OutputFormatter) error {
		res, err := eng.Transfer(ctx, sender, receiver, token, amount)
		if err != nil {
			return err
		}
		f.VerboseLog("ref %s seq %d previous %d", res.Record.Ref, res.Record.Seq, res.Previous)
		if f.JSON() {
			return f.Success(res)
		}
		return f.Success(res.NewTotal)
	})
}

// NewBalanceCommand creates the balance command.
func NewBalanceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TransferOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "balance <sender> <receiver> <token>",
		Short: "Print a triple's current total",
		Long: `Print the summed history of a (sender, receiver, token) triple.

A triple that has never been transferred prints "no balance", which is
distinct from a total of 0.`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			sender, err := strictUserRef(args[0], opts.ByName)
			if err != nil {
				return err
			}
			receiver, err := strictUserRef(args[1], opts.ByName)
			if err != nil {
				return err
			}
			token, err := strictTokenRef(args[2], opts.ByName)
			if err != nil {
				return err
			}
			return opts.withLedger(cmd, func(ctx context.Context, eng *ledger.Engine, f *OutputFormatter) error {
				total, ok, err := eng.CurrentTotal(ctx, sender, receiver, token)
				if err != nil {
					return err
				}
				if f.JSON() {
					return f.Success(BalanceView{Total: total, Present: ok})
				}
				if !ok {
					return f.Success("no balance")
				}
				return f.Success(total)
			})
		},
	}
	cmd.Flags().BoolVar(&opts.ByName, "by-name", false, "treat references as names")

	return cmd
}
