// Package harness runs YAML ledger scenarios against the transaction engine.
//
// # Scenario Format
//
//	name: alice_pays_bob
//	description: "What this scenario validates"
//	ref_prefix: tx
//	setup:
//	  - invoke: create_user
//	    args: { name: Alice }
//	flow:
//	  - invoke: transfer
//	    args: { sender: Alice, receiver: Bob, token: Gold, amount: 100 }
//	    expect:
//	      case: ok
//	      result: { new_total: 100 }
//	  - invoke: list_user_token
//	    args: { receiver: Bob, token: Gold, order_by: amount }
//	    expect:
//	      rows: ["Alice:100"]
//	assertions:
//	  - type: balance
//	    args: { sender: Alice, receiver: Bob, token: Gold }
//	    expect: { total: 100 }
//
// User and token arguments are ids when given as integers and names when
// given as strings. Transfers create unknown names unless strict is set.
//
// # Operations
//
//   - create_user, create_token: args name; result id
//   - transfer: args sender, receiver, token, amount, strict; result
//     new_total, previous, had_previous, seq, ref
//   - balance: args sender, receiver, token; result total, present
//   - list_user_token: args receiver, token, order, order_by; rows
//   - list_tokens: args receiver, order, order_by; rows
//   - list_users: args token, order, order_by; rows
//   - history: args sender, receiver, token (ids), limit; rows
//
// A step's case is "ok" or the ledger error code it failed with
// (NOT_FOUND, STORAGE_FAILURE, INVALID_INPUT).
//
// # Assertion Types
//
//   - balance: the triple in args has the expected total (or present: false)
//   - history_count: the ledger holds count entries matching args
//   - trace_count: op was invoked exactly count times
//   - trace_order: ops were invoked in this relative order
//
// # Deterministic Testing
//
// Every run uses a fresh backend and sequential transfer refs
// (ref_prefix-000001, ...), so traces are identical across runs and can be
// compared against golden files with RunWithGolden.
package harness
