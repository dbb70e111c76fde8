// Package fanout delivers one notification to many chats.
//
// Fan-out is used when the same text must reach several chat ids with
// bounded concurrency and optional send pacing. Delivery is best-effort
// and single-shot: each chat gets exactly one attempt, and failures are
// returned per chat rather than retried, so flood-control signals from
// the client surface to the caller intact.
package fanout
