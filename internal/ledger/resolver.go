package ledger

import (
	"context"
	"log/slog"
)

// Resolver turns user and token references into canonical ids.
//
// By-id references are passed through unchecked; a dangling id surfaces
// later as an empty listing or a storage failure on append.
// By-name lookups pick the match with the highest id when several users or
// tokens share a name.
type Resolver struct {
	store  Persistence
	logger *slog.Logger
}

// NewResolver creates a resolver over p. A nil logger uses slog.Default().
func NewResolver(p Persistence, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{store: p, logger: logger}
}

// User resolves ref to a user id. UserByNameOrCreate may create a user.
func (r *Resolver) User(ctx context.Context, ref UserRef) (UserID, error) {
	switch ref := ref.(type) {
	case UserByID:
		return UserID(ref), nil
	case UserByName:
		u, found, err := r.findUser(ctx, string(ref))
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, NotFound("user %q not found", string(ref))
		}
		return u.ID, nil
	case UserByNameOrCreate:
		u, found, err := r.findUser(ctx, string(ref))
		if err != nil {
			return 0, err
		}
		if found {
			return u.ID, nil
		}
		// Not safe against a concurrent create of the same name; a
		// unique-name constraint in the backend turns the loser into a
		// storage failure, which is returned as is.
		name, _ := NormalizeName(string(ref))
		created, err := r.store.CreateUser(ctx, name)
		if err != nil {
			return 0, StorageFailure("create user", err)
		}
		r.logger.Info("user created", "id", created.ID, "name", created.Name)
		return created.ID, nil
	case nil:
		return 0, InvalidInput("missing user reference")
	default:
		return 0, InvalidInput("unsupported user reference %T", ref)
	}
}

// Token resolves ref to a token id. TokenByNameOrCreate may create a token.
func (r *Resolver) Token(ctx context.Context, ref TokenRef) (TokenID, error) {
	switch ref := ref.(type) {
	case TokenByID:
		return TokenID(ref), nil
	case TokenByName:
		t, found, err := r.findToken(ctx, string(ref))
		if err != nil {
			return 0, err
		}
		if !found {
			return 0, NotFound("token %q not found", string(ref))
		}
		return t.ID, nil
	case TokenByNameOrCreate:
		t, found, err := r.findToken(ctx, string(ref))
		if err != nil {
			return 0, err
		}
		if found {
			return t.ID, nil
		}
		name, _ := NormalizeName(string(ref))
		created, err := r.store.CreateToken(ctx, name)
		if err != nil {
			return 0, StorageFailure("create token", err)
		}
		r.logger.Info("token created", "id", created.ID, "name", created.Name)
		return created.ID, nil
	case nil:
		return 0, InvalidInput("missing token reference")
	default:
		return 0, InvalidInput("unsupported token reference %T", ref)
	}
}

// findUser looks up the newest user named name.
func (r *Resolver) findUser(ctx context.Context, name string) (User, bool, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return User{}, false, err
	}
	users, err := r.store.QueryUsers(ctx, &n)
	if err != nil {
		return User{}, false, StorageFailure("query users", err)
	}
	if len(users) == 0 {
		return User{}, false, nil
	}
	newest := users[0]
	for _, u := range users[1:] {
		if u.ID > newest.ID {
			newest = u
		}
	}
	return newest, true, nil
}

// findToken looks up the newest token named name.
func (r *Resolver) findToken(ctx context.Context, name string) (Token, bool, error) {
	n, err := NormalizeName(name)
	if err != nil {
		return Token{}, false, err
	}
	tokens, err := r.store.QueryTokens(ctx, &n)
	if err != nil {
		return Token{}, false, StorageFailure("query tokens", err)
	}
	if len(tokens) == 0 {
		return Token{}, false, nil
	}
	newest := tokens[0]
	for _, t := range tokens[1:] {
		if t.ID > newest.ID {
			newest = t
		}
	}
	return newest, true, nil
}
