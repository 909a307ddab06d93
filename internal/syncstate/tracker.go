// Package syncstate holds the authoritative per-recording delivery state on
// the sending peer.
//
// The Tracker is the single serialization point of the protocol: every
// operation takes one mutex, stays short, and never performs I/O while
// holding it. Persistence of the in-flight checksum map is the caller's
// concern, via Snapshot and Restore.
package syncstate

import (
	"sync"

	"github.com/voicememo/recsync/internal/checksum"
	"github.com/voicememo/recsync/models"
)

// Tracker records the delivery state of every recording the sending peer
// knows about. The zero value is not usable; construct with NewTracker.
type Tracker struct {
	mu       sync.Mutex
	inFlight map[string]string // recording id -> expected checksum
	synced   map[string]struct{}
}

// NewTracker returns an empty Tracker. Unknown identifiers report
// models.SyncPending.
func NewTracker() *Tracker {
	return &Tracker{
		inFlight: make(map[string]string),
		synced:   make(map[string]struct{}),
	}
}

// StateOf returns the current state of id. ExpectedChecksum is populated
// only while the recording is in flight.
func (t *Tracker) StateOf(id string) models.SyncState {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.synced[id]; ok {
		return models.SyncState{Status: models.SyncSynced}
	}
	if sum, ok := t.inFlight[id]; ok {
		return models.SyncState{Status: models.SyncInFlight, ExpectedChecksum: sum}
	}
	return models.SyncState{Status: models.SyncPending}
}

// IsInFlight reports whether a transfer is outstanding for id.
func (t *Tracker) IsInFlight(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.inFlight[id]
	return ok
}

// InFlightIDs returns the identifiers of all outstanding transfers.
func (t *Tracker) InFlightIDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := make([]string, 0, len(t.inFlight))
	for id := range t.inFlight {
		ids = append(ids, id)
	}
	return ids
}

// MarkInFlight unconditionally sets id to in-flight with the given expected
// checksum, overwriting any prior value. Used for first attempts and
// retries alike; retries must pass a freshly computed checksum.
func (t *Tracker) MarkInFlight(id, expectedChecksum string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.synced, id)
	t.inFlight[id] = expectedChecksum
}

// Confirm feeds a received confirmation into the state machine.
//
// Only identifiers currently in flight can be confirmed. On a matching
// checksum (case-insensitive) the recording transitions to synced and its
// in-flight entry is cleared. On mismatch the state is left untouched, so a
// later correct confirmation can still succeed. Identifiers not in flight —
// never sent, or already consumed — return ConfirmUnknown with no side
// effects.
func (t *Tracker) Confirm(id, receivedChecksum string) models.ConfirmResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	expected, ok := t.inFlight[id]
	if !ok {
		return models.ConfirmResult{Status: models.ConfirmUnknown, Received: receivedChecksum}
	}

	if !checksum.Equal(expected, receivedChecksum) {
		return models.ConfirmResult{
			Status:   models.ConfirmMismatch,
			Expected: expected,
			Received: receivedChecksum,
		}
	}

	delete(t.inFlight, id)
	t.synced[id] = struct{}{}
	return models.ConfirmResult{Status: models.ConfirmAccepted, Expected: expected, Received: receivedChecksum}
}

// Fail returns an in-flight recording to pending and reports whether it did
// so. Calling Fail on a pending, synced or unknown identifier is a no-op.
func (t *Tracker) Fail(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.inFlight[id]; !ok {
		return false
	}
	delete(t.inFlight, id)
	return true
}

// Decide resolves whether a pending recording should be sent right now.
// Precedence, highest first: missing file, already synced, already in
// flight (known either from the transport's outstanding queue or from local
// state), otherwise send.
func (t *Tracker) Decide(id string, fileExists, queuedInTransport bool) models.SyncDecision {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !fileExists {
		return models.DecisionFileMissing
	}
	if _, ok := t.synced[id]; ok {
		return models.DecisionAlreadySynced
	}
	if _, ok := t.inFlight[id]; ok || queuedInTransport {
		return models.DecisionAlreadyInFlight
	}
	return models.DecisionShouldSync
}

// Snapshot returns a copy of the in-flight checksum map for persistence.
func (t *Tracker) Snapshot() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := make(map[string]string, len(t.inFlight))
	for id, sum := range t.inFlight {
		snap[id] = sum
	}
	return snap
}

// Restore seeds in-flight state from a persisted snapshot, typically once
// at process start, so confirmations arriving after a relaunch can still be
// validated. The synced set is unaffected.
func (t *Tracker) Restore(snapshot map[string]string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, sum := range snapshot {
		t.inFlight[id] = sum
	}
}

// Reset clears all state. Test and debug utility.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.inFlight = make(map[string]string)
	t.synced = make(map[string]struct{})
}
