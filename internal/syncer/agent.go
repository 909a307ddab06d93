// Package syncer decides when to (re)attempt delivery of pending
// recordings.
//
// The agent never polls while idle. Event triggers (session activation,
// reachability edges, foregrounding) funnel through a debounced
// ScheduleSync; a long-interval fallback timer runs only while work is
// pending and re-drives the pass directly when event triggers fail to fire.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/voicememo/recsync/internal/checksum"
	"github.com/voicememo/recsync/internal/identity"
	"github.com/voicememo/recsync/internal/logger"
	"github.com/voicememo/recsync/internal/metrics"
	"github.com/voicememo/recsync/internal/protocol"
	"github.com/voicememo/recsync/internal/store"
	"github.com/voicememo/recsync/internal/syncstate"
	"github.com/voicememo/recsync/internal/transport"
	"github.com/voicememo/recsync/models"
)

const (
	// DefaultDebounceWindow coalesces bursts of triggers into one pass.
	DefaultDebounceWindow = 500 * time.Millisecond

	// DefaultFallbackInterval re-attempts sync when no event trigger fires.
	DefaultFallbackInterval = 5 * time.Minute
)

// Options tune the agent's scheduling. Zero values select the defaults.
type Options struct {
	DebounceWindow   time.Duration
	FallbackInterval time.Duration
}

// Agent owns the sending side of the sync protocol. Construct with New,
// wire the trigger methods to transport events, and Close on shutdown.
type Agent struct {
	tracker   *syncstate.Tracker
	catalog   store.Catalog
	checksums store.ChecksumStore
	transport transport.Transport
	metrics   *metrics.Metrics
	logger    *logger.Logger

	debounceWindow   time.Duration
	fallbackInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// passMu serializes synchronization passes so a fallback firing cannot
	// overlap a debounced pass.
	passMu sync.Mutex

	// persistMu makes snapshot-and-save atomic. Passes and incoming-message
	// handling run on different goroutines; without the lock a stale
	// snapshot could be written after a fresher one.
	persistMu sync.Mutex

	// mu guards the scheduling flags below. Only ever held briefly; never
	// across a pass.
	mu            sync.Mutex
	syncScheduled bool
	fallbackStop  context.CancelFunc
	lastReachable bool
	closed        bool
}

// New builds an Agent and re-seeds in-flight state from the checksum store,
// so confirmations arriving after a relaunch still validate. A load failure
// is logged and tolerated: the affected recordings are simply pending again.
func New(
	tracker *syncstate.Tracker,
	catalog store.Catalog,
	checksums store.ChecksumStore,
	tr transport.Transport,
	m *metrics.Metrics,
	log *logger.Logger,
	opts Options,
) *Agent {
	if opts.DebounceWindow <= 0 {
		opts.DebounceWindow = DefaultDebounceWindow
	}
	if opts.FallbackInterval <= 0 {
		opts.FallbackInterval = DefaultFallbackInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	a := &Agent{
		tracker:          tracker,
		catalog:          catalog,
		checksums:        checksums,
		transport:        tr,
		metrics:          m,
		logger:           log,
		debounceWindow:   opts.DebounceWindow,
		fallbackInterval: opts.FallbackInterval,
		ctx:              ctx,
		cancel:           cancel,
	}

	persisted, err := checksums.Load()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load persisted checksums, starting clean")
	} else if len(persisted) > 0 {
		tracker.Restore(persisted)
		log.Info().Int("count", len(persisted)).Msg("restored in-flight checksums")
	}

	return a
}

// Close cancels all scheduled work and waits for in-progress goroutines.
// After Close no timer fires and no pass starts.
func (a *Agent) Close() {
	a.mu.Lock()
	a.closed = true
	if a.fallbackStop != nil {
		a.fallbackStop()
		a.fallbackStop = nil
	}
	a.mu.Unlock()

	a.cancel()
	a.wg.Wait()
}

// SessionActivated is the trigger for transport session start or
// re-activation.
func (a *Agent) SessionActivated() {
	a.ScheduleSync()
}

// ReachabilityChanged receives every reachability transition and triggers
// only on the false-to-true edge.
func (a *Agent) ReachabilityChanged(reachable bool) {
	a.mu.Lock()
	edge := reachable && !a.lastReachable
	a.lastReachable = reachable
	a.mu.Unlock()

	if edge {
		a.ScheduleSync()
	}
}

// EnteredForeground is the trigger for the host application coming to the
// foreground.
func (a *Agent) EnteredForeground() {
	a.ScheduleSync()
}

// ScheduleSync requests a synchronization pass. Calls arriving while the
// debounce window is already armed are no-ops, so any burst of triggers
// results in exactly one pass.
func (a *Agent) ScheduleSync() {
	a.mu.Lock()
	if a.closed || a.syncScheduled {
		a.mu.Unlock()
		return
	}
	a.syncScheduled = true
	a.wg.Add(1)
	a.mu.Unlock()

	go func() {
		defer a.wg.Done()

		select {
		case <-a.ctx.Done():
			a.mu.Lock()
			a.syncScheduled = false
			a.mu.Unlock()
			return
		case <-time.After(a.debounceWindow):
		}

		a.mu.Lock()
		a.syncScheduled = false
		a.mu.Unlock()

		a.runPass(a.ctx)
	}()
}

// runPass executes one synchronization pass over all pending recordings and
// then re-evaluates whether the fallback timer should run. Digest
// computation and transport handoff happen outside the state machine lock.
func (a *Agent) runPass(ctx context.Context) {
	a.passMu.Lock()
	defer a.passMu.Unlock()

	if ctx.Err() != nil {
		return
	}
	a.metrics.SyncPasses.Inc()

	pending, err := a.catalog.PendingIDs(ctx)
	if err != nil {
		a.logger.Err(err).Msg("failed to list pending recordings, skipping pass")
		return
	}

	queued := a.transport.OutstandingTransferIDs()

	for _, id := range pending {
		if ctx.Err() != nil {
			return
		}

		_, inQueue := queued[id]
		decision := a.tracker.Decide(id, a.catalog.FileExists(id), inQueue)

		switch decision {
		case models.DecisionShouldSync:
			a.startTransfer(ctx, id)
		case models.DecisionFileMissing:
			a.dropMissing(ctx, id)
		default:
			// already in flight or already synced: nothing to do
		}
	}

	a.updatePendingGauge(ctx)
	a.evaluateFallback(ctx)
}

// startTransfer computes a fresh digest, transitions the recording to
// in-flight and hands the file to the transport. A transport refusal rolls
// the recording back to pending for the next trigger.
func (a *Agent) startTransfer(ctx context.Context, id string) {
	path := a.catalog.PathFor(id)

	digest, err := checksum.DigestFile(path)
	if err != nil {
		// unreadable right now: treated like a transient failure, the
		// recording stays pending and is retried on a later trigger
		a.logger.Warn().Err(err).Str("recording_id", id).Msg("cannot digest recording, will retry")
		return
	}

	a.tracker.MarkInFlight(id, digest)
	a.persistChecksums()

	meta := protocol.EncodeTransferMetadata(models.TransferMetadata{
		RecordingID: id,
		Checksum:    digest,
		Timestamp:   time.Now(),
	})

	if err = a.transport.SendFile(ctx, path, meta); err != nil {
		a.logger.Warn().Err(err).Str("recording_id", id).Msg("transport rejected transfer, returning to pending")
		if a.tracker.Fail(id) {
			a.persistChecksums()
		}
		return
	}

	a.metrics.TransfersStarted.Inc()
	a.logger.Info().
		Str("recording_id", id).
		Str("checksum", digest).
		Msg("transfer started")
}

// dropMissing removes a recording whose source file is gone for good. It
// can never be verified, so it is dropped from pending tracking without
// ever reaching synced, and a tombstone is sent over the durable channel so
// the receiving peer can reconcile its record.
func (a *Agent) dropMissing(ctx context.Context, id string) {
	a.logger.Warn().Str("recording_id", id).Msg("source file missing, dropping recording from pending")

	if a.tracker.Fail(id) {
		a.persistChecksums()
	}
	if err := a.catalog.RemoveFromPending(ctx, id); err != nil {
		a.logger.Err(err).Str("recording_id", id).Msg("failed to drop recording from pending")
		return
	}

	a.metrics.Tombstones.Inc()
	if err := a.transport.SendDurable(ctx, protocol.EncodeTombstone(id)); err != nil {
		a.logger.Warn().Err(err).Str("recording_id", id).Msg("failed to send tombstone")
	}
}

// HandleIncomingMessage feeds a control message from the receiving peer
// into the state machine. Malformed payloads and malformed identifiers are
// logged and dropped; this path never panics on peer input.
func (a *Agent) HandleIncomingMessage(payload map[string]any) {
	msg, err := protocol.DecodeMessage(payload)
	if err != nil {
		a.logger.Warn().Err(err).Msg("dropping undecodable control message")
		return
	}
	if !identity.IsValid(msg.RecordingID) {
		a.logger.Warn().Str("recording_id", msg.RecordingID).Msg("dropping control message with malformed id")
		return
	}

	switch msg.Kind {
	case models.MessageSyncConfirmation:
		a.handleConfirmation(msg)
	case models.MessageSyncFailure:
		a.handleFailure(msg)
	default:
		a.logger.Debug().
			Str("message_type", string(msg.Kind)).
			Str("recording_id", msg.RecordingID).
			Msg("ignoring control message kind")
	}

	a.updatePendingGauge(a.ctx)
	a.evaluateFallback(a.ctx)
}

func (a *Agent) handleConfirmation(msg models.ControlMessage) {
	res := a.tracker.Confirm(msg.RecordingID, msg.Checksum)

	switch res.Status {
	case models.ConfirmAccepted:
		a.persistChecksums()
		if err := a.catalog.RemoveFromPending(a.ctx, msg.RecordingID); err != nil {
			a.logger.Err(err).Str("recording_id", msg.RecordingID).Msg("synced but failed to leave pending set")
		}
		a.metrics.Confirmations.Inc()
		a.logger.Info().Str("recording_id", msg.RecordingID).Msg("recording synced")

	case models.ConfirmMismatch:
		// state stays in flight with the same expected digest; a correct
		// confirmation can still arrive
		a.metrics.ChecksumMismatches.Inc()
		a.logger.Warn().
			Str("recording_id", msg.RecordingID).
			Str("expected", res.Expected).
			Str("received", res.Received).
			Msg("confirmation checksum mismatch")

	case models.ConfirmUnknown:
		a.logger.Debug().Str("recording_id", msg.RecordingID).Msg("confirmation for unknown or consumed transfer")
	}
}

func (a *Agent) handleFailure(msg models.ControlMessage) {
	a.metrics.SyncFailures.Inc()
	a.logger.Warn().
		Str("recording_id", msg.RecordingID).
		Str("error", msg.ErrorMessage).
		Msg("peer reported sync failure")

	if a.tracker.Fail(msg.RecordingID) {
		a.persistChecksums()
	}
}

// evaluateFallback starts the fallback timer when work is pending and it is
// not running, and stops it when nothing is pending. Idempotent either way.
func (a *Agent) evaluateFallback(ctx context.Context) {
	pending := a.hasPending(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	switch {
	case pending && a.fallbackStop == nil:
		loopCtx, stop := context.WithCancel(a.ctx)
		a.fallbackStop = stop
		a.wg.Add(1)
		go a.fallbackLoop(loopCtx)
		a.logger.Debug().Dur("interval", a.fallbackInterval).Msg("fallback timer started")

	case !pending && a.fallbackStop != nil:
		a.fallbackStop()
		a.fallbackStop = nil
		a.logger.Debug().Msg("fallback timer stopped")
	}
}

// fallbackLoop fires the pass directly on each tick, bypassing the debounce
// gate: the interval itself is the rate limit. Finding no pending work it
// cancels itself.
func (a *Agent) fallbackLoop(ctx context.Context) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.fallbackInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.runPass(ctx)
			if !a.hasPending(ctx) {
				a.stopFallback()
				return
			}
		}
	}
}

func (a *Agent) stopFallback() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fallbackStop != nil {
		a.fallbackStop()
		a.fallbackStop = nil
	}
}

// fallbackRunning reports whether the fallback timer is armed. Exposed for
// tests.
func (a *Agent) fallbackRunning() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fallbackStop != nil
}

// hasPending treats a catalog error as "assume pending" so the fallback
// timer keeps retrying through transient storage trouble.
func (a *Agent) hasPending(ctx context.Context) bool {
	ids, err := a.catalog.PendingIDs(ctx)
	if err != nil {
		if ctx.Err() == nil {
			a.logger.Warn().Err(err).Msg("cannot count pending recordings, assuming some remain")
		}
		return true
	}
	return len(ids) > 0
}

func (a *Agent) updatePendingGauge(ctx context.Context) {
	ids, err := a.catalog.PendingIDs(ctx)
	if err != nil {
		return
	}
	a.metrics.PendingRecordings.Set(float64(len(ids)))
}

// persistChecksums writes the current in-flight snapshot. Called after
// every in-flight mutation, from both the pass goroutine and the transport's
// message callback; persistMu keeps the snapshot and the write together so
// the store always ends up holding the newest state.
func (a *Agent) persistChecksums() {
	a.persistMu.Lock()
	defer a.persistMu.Unlock()

	if err := a.checksums.Save(a.tracker.Snapshot()); err != nil {
		a.logger.Err(err).Msg("failed to persist in-flight checksums")
	}
}
