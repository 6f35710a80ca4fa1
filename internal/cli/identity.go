package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/pointsx/internal/ledger"
)

// NewCreateUserCommand creates the create-user command.
func NewCreateUserCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "create-user <name>",
		Short: "Create a user and print its id",
		Long: `Create a user. Names are trimmed and NFC-normalized; they need not be
unique unless unique_names is set in the config.

Example:
  pointsx create-user Alice`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withLedger(cmd, func(ctx context.Context, eng *ledger.Engine, f *OutputFormatter) error {
				u, err := eng.CreateUser(ctx, args[0])
				if err != nil {
					return err
				}
				if f.JSON() {
					return f.Success(u)
				}
				return f.Success(u.ID)
			})
		},
	}
}

// NewUserListCommand creates the user-list command.
func NewUserListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "user-list [name]",
		Short: "List users, optionally only those with a name",
		Example: `  pointsx user-list
  pointsx user-list Alice`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withLedger(cmd, func(ctx context.Context, eng *ledger.Engine, f *OutputFormatter) error {
				users, err := eng.QueryUsers(ctx, optionalArg(args))
				if err != nil {
					return err
				}
				if f.JSON() {
					return f.Success(users)
				}
				rows := make([][]string, len(users))
				for i, u := range users {
					rows[i] = []string{formatInt(int64(u.ID)), u.Name}
				}
				return f.Table([]string{"ID", "NAME"}, rows)
			})
		},
	}
}

// NewCreateTokenCommand creates the create-token command.
func NewCreateTokenCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "create-token <name>",
		Short:         "Create a token type and print its id",
		Example:       "  pointsx create-token Gold",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withLedger(cmd, func(ctx context.Context, eng *ledger.Engine, f *OutputFormatter) error {
				t, err := eng.CreateToken(ctx, args[0])
				if err != nil {
					return err
				}
				if f.JSON() {
					return f.Success(t)
				}
				return f.Success(t.ID)
			})
		},
	}
}

// NewTokenListCommand creates the token-list command.
func NewTokenListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "token-list [name]",
		Short:         "List token types, optionally only those with a name",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withLedger(cmd, func(ctx context.Context, eng *ledger.Engine, f *OutputFormatter) error {
				tokens, err := eng.QueryTokens(ctx, optionalArg(args))
				if err != nil {
					return err
				}
				if f.JSON() {
					return f.Success(tokens)
				}
				rows := make([][]string, len(tokens))
				for i, t := range tokens {
					rows[i] = []string{formatInt(int64(t.ID)), t.Name}
				}
				return f.Table([]string{"ID", "NAME"}, rows)
			})
		},
	}
}

func optionalArg(args []string) *string {
	if len(args) == 0 {
		return nil
	}
	return &args[0]
}
