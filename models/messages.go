package models

import "time"

// MessageKind discriminates the control messages exchanged between peers.
// The string values are part of the wire contract and must match verbatim
// on both ends.
type MessageKind string

const (
	// MessageSyncConfirmation acknowledges a verified receipt: the receiving
	// peer computed the same checksum the sender expected.
	MessageSyncConfirmation MessageKind = "syncConfirmation"

	// MessageSyncFailure reports that the received bytes did not match the
	// expected checksum, or that the digest could not be computed at all.
	MessageSyncFailure MessageKind = "syncFailure"

	// MessageSyncTombstone tells the receiving peer that a recording was
	// dropped on the sender because its source file went missing and it can
	// never be verified.
	MessageSyncTombstone MessageKind = "syncTombstone"
)

// DefaultFailureMessage is substituted when a syncFailure arrives without an
// errorMessage field.
const DefaultFailureMessage = "Unknown error"

// ControlMessage is the decoded form of a peer control message. Checksum is
// populated for confirmations, ErrorMessage for failures.
type ControlMessage struct {
	Kind         MessageKind
	RecordingID  string
	Checksum     string
	ErrorMessage string
}

// TransferMetadata travels attached to the recording payload itself (not as
// a separate message) and carries everything the receiving peer needs to
// verify the transfer.
type TransferMetadata struct {
	RecordingID string
	Checksum    string
	Timestamp   time.Time
}
