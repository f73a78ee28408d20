// Package ledger implements an in-memory payments ledger engine: it
// ingests a stream of deposit/withdrawal/dispute/resolve/chargeback
// transaction records and maintains the authoritative per-client account
// state (available, held, total, locked).
//
// Two engine variants share identical transition semantics:
//   - Engine is the synchronous variant: any number of goroutines may call
//     Process concurrently; ingestion reads one buffered stream at a time.
//   - AsyncEngine decouples CSV parsing from ledger mutation with a
//     producer/consumer goroutine pipeline, trading a small per-record
//     channel cost for parse/update overlap on multicore hosts.
//
// Both variants are backed by the shardmap package's key-partitioned
// concurrent map, which lets many producers mutate distinct accounts with
// minimal contention while keeping each account's own mutations strictly
// serialized.
package ledger
