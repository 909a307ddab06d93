// Package transport abstracts the peer-to-peer channel the sync protocol
// runs over: file delivery, best-effort messaging and a durable last-value
// fallback, plus the inbound events the core subscribes to.
//
// The reference implementation in this package speaks HTTP between the edge
// peer and the primary store. Production hosts are free to supply their own
// Transport over whatever the platform provides.
package transport

//go:generate mockgen -source=transport.go -destination=../mock/transport_mock.go -package=mock

import "context"

// Transport is the sending peer's view of the channel.
type Transport interface {
	// IsActivated reports whether the transport session is usable at all.
	IsActivated() bool

	// OutstandingTransferIDs returns the recording identifiers currently
	// queued or in flight at the transport layer itself.
	OutstandingTransferIDs() map[string]struct{}

	// SendFile delivers the file at path together with its transfer
	// metadata. An error means delivery was not started; the caller keeps
	// the recording pending for a later attempt.
	SendFile(ctx context.Context, path string, metadata map[string]any) error

	// SendMessage delivers a control message best-effort. May fail when the
	// peer is unreachable.
	SendMessage(ctx context.Context, payload map[string]any) error

	// SendDurable delivers a control message through the durable last-value
	// channel: guaranteed to eventually reach the peer once connectivity is
	// restored, with later messages for the same recording superseding
	// earlier ones.
	SendDurable(ctx context.Context, payload map[string]any) error
}

// Outbound is the subset of the channel the receiving peer needs to answer
// the sender.
type Outbound interface {
	// IsReachable reports whether the sending peer is reachable right now,
	// steering the choice between the live and the durable channel.
	IsReachable() bool

	SendMessage(ctx context.Context, payload map[string]any) error
	SendDurable(ctx context.Context, payload map[string]any) error
}

// Events are the inbound callbacks a peer subscribes to. Nil fields are
// simply not invoked.
type Events struct {
	// SessionActivated fires when the transport session becomes usable,
	// e.g. at process start or re-activation.
	SessionActivated func()

	// ReachabilityChanged fires on every reachability transition. Consumers
	// that only care about the false-to-true edge filter themselves.
	ReachabilityChanged func(reachable bool)

	// MessageReceived fires for every incoming control message payload.
	MessageReceived func(payload map[string]any)

	// FileReceived fires when an incoming file has landed in a temporary
	// location, together with the file name the sender supplied and the
	// transfer metadata (possibly absent keys for legacy senders). The spool
	// path carries no identity of its own, so fileName is the only way to
	// recover a recording id when metadata is missing.
	FileReceived func(path, fileName string, metadata map[string]any)
}
