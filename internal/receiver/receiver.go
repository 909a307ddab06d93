// Package receiver implements the receiving peer's side of the sync
// protocol: verify an incoming recording against its expected checksum,
// register it, and answer with a confirmation or failure.
package receiver

import (
	"context"
	"fmt"

	"github.com/voicememo/recsync/internal/checksum"
	"github.com/voicememo/recsync/internal/identity"
	"github.com/voicememo/recsync/internal/logger"
	"github.com/voicememo/recsync/internal/metrics"
	"github.com/voicememo/recsync/internal/protocol"
	"github.com/voicememo/recsync/internal/store"
	"github.com/voicememo/recsync/internal/transport"
	"github.com/voicememo/recsync/models"
)

// Protocol verifies incoming recordings and answers the sending peer.
type Protocol struct {
	storage   store.FileStorage
	registrar store.Registrar
	outbound  transport.Outbound
	metrics   *metrics.Metrics
	logger    *logger.Logger
}

// New wires the verification protocol to the receiving peer's storage,
// catalog and return channel.
func New(
	storage store.FileStorage,
	registrar store.Registrar,
	outbound transport.Outbound,
	m *metrics.Metrics,
	log *logger.Logger,
) *Protocol {
	return &Protocol{
		storage:   storage,
		registrar: registrar,
		outbound:  outbound,
		metrics:   m,
		logger:    log,
	}
}

// HandleIncomingFile processes a received recording sitting at srcPath.
// fileName is the name the sender gave the file; the transport spools
// uploads under throwaway names, so srcPath itself carries no identity.
//
// With well-formed transfer metadata the file is moved to permanent
// storage, digested and compared against the expected checksum: a match
// registers the recording and confirms it, anything else deletes the copy
// and reports a failure. Metadata without the expected keys takes the
// legacy path: the file is stored unverified under an identifier recovered
// from fileName and no message is sent.
//
// The method never halts the host: every outcome is logged and the file
// either ends up stored or removed.
func (p *Protocol) HandleIncomingFile(ctx context.Context, srcPath, fileName string, metadata map[string]any) {
	meta, err := protocol.DecodeTransferMetadata(metadata)
	if err != nil {
		p.acceptLegacy(ctx, srcPath, fileName)
		return
	}

	if !identity.IsValid(meta.RecordingID) {
		p.logger.Warn().Str("recording_id", meta.RecordingID).Msg("rejecting transfer with malformed recording id")
		p.discard(srcPath)
		return
	}

	log := p.logger.Logger.With().Str("recording_id", meta.RecordingID).Logger()

	dest, err := p.storage.Store(srcPath, meta.RecordingID)
	if err != nil {
		log.Err(err).Msg("failed to store incoming recording")
		p.sendFailure(ctx, meta.RecordingID, fmt.Sprintf("store failed: %v", err))
		return
	}

	got, err := checksum.DigestFile(dest)
	if err != nil {
		log.Err(err).Msg("failed to digest incoming recording")
		p.discard(dest)
		p.sendFailure(ctx, meta.RecordingID, fmt.Sprintf("digest failed: %v", err))
		return
	}

	if !checksum.Equal(got, meta.Checksum) {
		p.metrics.ChecksumMismatches.Inc()
		log.Warn().
			Str("expected", meta.Checksum).
			Str("received", got).
			Msg("checksum mismatch, discarding corrupted copy")
		p.discard(dest)
		p.sendFailure(ctx, meta.RecordingID,
			fmt.Sprintf("checksum mismatch: expected %s, got %s", meta.Checksum, got))
		return
	}

	rec := models.Recording{
		ID:        meta.RecordingID,
		Origin:    identity.OriginOf(meta.RecordingID),
		FileName:  meta.RecordingID + ".m4a",
		Checksum:  got,
		CreatedAt: meta.Timestamp,
	}
	if err = p.registrar.Register(ctx, rec); err != nil {
		log.Err(err).Msg("failed to register verified recording")
		p.discard(dest)
		p.sendFailure(ctx, meta.RecordingID, fmt.Sprintf("register failed: %v", err))
		return
	}

	p.metrics.Confirmations.Inc()
	log.Info().Str("checksum", got).Msg("recording verified and registered")
	p.sendControl(ctx, protocol.EncodeConfirmation(meta.RecordingID, got))
}

// HandleIncomingMessage processes control messages addressed to the
// receiving peer. Today that is only the sender's tombstone for a recording
// whose source file went missing; everything else is logged and dropped.
func (p *Protocol) HandleIncomingMessage(ctx context.Context, payload map[string]any) {
	msg, err := protocol.DecodeMessage(payload)
	if err != nil {
		p.logger.Warn().Err(err).Msg("dropping undecodable control message")
		return
	}
	if !identity.IsValid(msg.RecordingID) {
		p.logger.Warn().Str("recording_id", msg.RecordingID).Msg("dropping control message with malformed id")
		return
	}

	switch msg.Kind {
	case models.MessageSyncTombstone:
		// unknown ids are a no-op in the registrar
		if err = p.registrar.Remove(ctx, msg.RecordingID); err != nil {
			p.logger.Err(err).Str("recording_id", msg.RecordingID).Msg("failed to reconcile tombstone")
			return
		}
		p.logger.Info().Str("recording_id", msg.RecordingID).Msg("reconciled sender tombstone")
	default:
		p.logger.Debug().
			Str("message_type", string(msg.Kind)).
			Str("recording_id", msg.RecordingID).
			Msg("ignoring control message kind")
	}
}

// acceptLegacy is the explicit exception path for senders that attach no
// transfer metadata: the file is stored unverified under an identifier
// recovered from the sender-supplied name, and no confirmation is emitted.
func (p *Protocol) acceptLegacy(ctx context.Context, srcPath, fileName string) {
	if fileName == "" {
		// direct callers may hand over the file in place
		fileName = srcPath
	}
	id := identity.ExtractID(fileName)
	p.logger.Warn().
		Str("path", srcPath).
		Str("recording_id", id).
		Msg("no transfer metadata, accepting recording unverified")

	dest, err := p.storage.Store(srcPath, id)
	if err != nil {
		p.logger.Err(err).Str("recording_id", id).Msg("failed to store legacy recording")
		return
	}

	rec := models.Recording{
		ID:       id,
		Origin:   identity.OriginOf(id),
		FileName: id + ".m4a",
	}
	if err = p.registrar.Register(ctx, rec); err != nil {
		p.logger.Err(err).Str("recording_id", id).Msg("failed to register legacy recording")
		p.discard(dest)
	}
}

func (p *Protocol) sendFailure(ctx context.Context, id, reason string) {
	p.metrics.SyncFailures.Inc()
	p.sendControl(ctx, protocol.EncodeFailure(id, reason))
}

// sendControl prefers the low-latency channel while the sender is
// reachable and falls back to the durable last-value channel otherwise.
// Either way the message eventually reaches the sender once connectivity
// is restored.
func (p *Protocol) sendControl(ctx context.Context, payload map[string]any) {
	if p.outbound.IsReachable() {
		if err := p.outbound.SendMessage(ctx, payload); err == nil {
			return
		}
	}
	if err := p.outbound.SendDurable(ctx, payload); err != nil {
		p.logger.Err(err).Msg("failed to queue control message on durable channel")
	}
}

func (p *Protocol) discard(path string) {
	if err := p.storage.Remove(path); err != nil {
		p.logger.Err(err).Str("path", path).Msg("failed to remove discarded recording copy")
	}
}
