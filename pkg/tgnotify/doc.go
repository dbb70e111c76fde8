// Package tgnotify is a small push-notification client for the Telegram
// Bot API:
//   - Text messages, photos and documents to one configured chat
//   - Per-call chat override, no rewriting of the configured identifier
//   - Typed errors callers can branch on (chat gone, bot blocked, flood control)
//
// Design goals:
//   - Thin: one transport call per send, no retries, no background work
//   - Loud failures: every Telegram error class maps to a distinct type,
//     nothing is swallowed or logged on the caller's behalf
//   - Safe lifecycle: Close is idempotent and a closed client rejects sends
//     before touching the network
package tgnotify
