// Package store provides SQLite-backed durable storage for the pointsx ledger.
//
// Store implements ledger.Persistence over three tables:
//   - users, tokens: write-once identity rows, AUTOINCREMENT ids
//   - transaction_history: the append-only ledger, ordered by seq
//
// Balances are never stored. CurrentTotal reads the user_balance view and
// the aggregate listings sum transaction_history directly (see querysql),
// so both always agree with the history.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: A record can only reference existing users/tokens
//
// Every method is a single statement, so each is atomic on its own. The
// store takes no locks across calls; sequencing of a transfer's read and
// append is the engine's concern.
package store
