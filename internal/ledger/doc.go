// Package ledger implements the pointsx transaction ledger engine.
//
// The ledger is an append-only history of transfers between users, each
// transfer moving a signed quantity of one token. Balances are never stored;
// they are derived by summing the history for a (sender, receiver, token)
// triple.
//
// COMPONENTS:
//
// Identity Resolver:
// Turns a UserRef or TokenRef (by id, by name, by name-or-create) into a
// canonical id. Read paths accept only strict references, enforced by the
// StrictUserRef and StrictTokenRef interfaces.
//
// Transaction Engine:
// Engine.Transfer resolves the three references, reads the previous total,
// appends one record and returns previous + amount. The result is never a
// re-query of the post-append total.
//
// Aggregate Query Engine:
// Engine.ListUserToken, Engine.ListTokensByUser and Engine.ListUsersByToken
// project the history grouped by sender, token or receiver with a
// caller-selected sort key and direction.
//
// CONCURRENCY:
//
// The engine holds no locks. The Persistence backend is the only
// serialization point; each of its calls is atomic on its own.
package ledger
