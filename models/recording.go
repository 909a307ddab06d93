package models

import "time"

// Origin identifies the peer that created a recording. The tag is embedded
// in the recording identifier for debugging and attribution; uniqueness of
// identifiers never depends on it.
type Origin string

const (
	// OriginWatch marks recordings captured on the watch peer.
	OriginWatch Origin = "watch"

	// OriginPhone marks recordings captured on the phone peer.
	OriginPhone Origin = "iphone"

	// OriginUnknown is returned for legacy or malformed identifiers whose
	// origin tag cannot be parsed.
	OriginUnknown Origin = "unknown"
)

// SyncStatus is the delivery status of a single recording as tracked on the
// sending peer.
type SyncStatus int

const (
	// SyncPending means the recording exists locally and has never been
	// attempted-and-confirmed. Unknown identifiers default to this status.
	SyncPending SyncStatus = iota

	// SyncInFlight means a transfer has been initiated and the sender is
	// waiting for the receiving peer to confirm the expected checksum.
	SyncInFlight

	// SyncSynced means the receiving peer confirmed receipt with a checksum
	// equal to the one computed before send.
	SyncSynced
)

// String returns a human-readable status label for logging.
func (s SyncStatus) String() string {
	switch s {
	case SyncInFlight:
		return "in_flight"
	case SyncSynced:
		return "synced"
	default:
		return "pending"
	}
}

// SyncState couples a status with the checksum the sender expects the
// receiving peer to confirm. ExpectedChecksum is set only while the
// recording is in flight.
type SyncState struct {
	Status           SyncStatus
	ExpectedChecksum string
}

// ConfirmStatus classifies the outcome of feeding a received confirmation
// into the state machine.
type ConfirmStatus int

const (
	// ConfirmAccepted: the checksum matched and the recording is now synced.
	ConfirmAccepted ConfirmStatus = iota

	// ConfirmMismatch: the checksum differed from the expected one. State is
	// left untouched so a later, correct confirmation can still succeed.
	ConfirmMismatch

	// ConfirmUnknown: the identifier is not currently in flight. Either it
	// was never sent, or the confirmation was already consumed.
	ConfirmUnknown
)

// ConfirmResult reports what the state machine did with a confirmation.
// Expected and Received are populated on mismatch for logging.
type ConfirmResult struct {
	Status   ConfirmStatus
	Expected string
	Received string
}

// SyncDecision is the verdict of the state machine on whether a pending
// recording should be (re)sent right now.
type SyncDecision int

const (
	// DecisionShouldSync: compute a fresh checksum and start a transfer.
	DecisionShouldSync SyncDecision = iota

	// DecisionAlreadyInFlight: a transfer is outstanding, either in local
	// state or in the transport's own queue. Skip.
	DecisionAlreadyInFlight

	// DecisionAlreadySynced: the receiving peer already confirmed. Skip.
	DecisionAlreadySynced

	// DecisionFileMissing: the source file no longer exists. The recording
	// can never be verified and must be dropped from pending tracking.
	DecisionFileMissing
)

// Recording is a single immutable audio artifact tracked by the sync
// protocol. On the sending peer Checksum is empty until a transfer is
// prepared; on the receiving peer it holds the verified digest.
type Recording struct {
	ID        string    `json:"recording_id"`
	Origin    Origin    `json:"origin"`
	FileName  string    `json:"file_name"`
	Checksum  string    `json:"checksum,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
