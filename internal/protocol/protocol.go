// Package protocol encodes and decodes the control-message vocabulary and
// the file-transfer metadata exchanged between peers.
//
// The wire format is an untyped string-keyed map, mirroring the platform
// messaging dictionaries both peers natively speak. The key names defined
// here are the bit-exact contract between peers and must never change.
package protocol

import (
	"errors"
	"fmt"
	"time"

	"github.com/voicememo/recsync/models"
)

// Wire keys. Shared verbatim by both peers.
const (
	KeyMessageType  = "messageType"
	KeyRecordingID  = "recordingId"
	KeyChecksum     = "checksum"
	KeyErrorMessage = "errorMessage"

	KeyType      = "type"
	KeyTimestamp = "timestamp"

	// TransferTypeAudioRecording tags file-transfer metadata as a recording
	// payload.
	TransferTypeAudioRecording = "audioRecording"
)

// Decode failure reasons. Each structurally invalid input maps to exactly
// one of these so dropped messages stay observable in logs.
var (
	ErrMissingMessageType = errors.New("missing messageType")
	ErrMissingRecordingID = errors.New("missing recordingId")
	ErrMissingChecksum    = errors.New("missing checksum")
	ErrUnknownMessageType = errors.New("unknown messageType")

	ErrNotTransferMetadata = errors.New("payload is not recording transfer metadata")
)

// EncodeConfirmation builds the wire form of a syncConfirmation.
func EncodeConfirmation(recordingID, checksum string) map[string]any {
	return map[string]any{
		KeyMessageType: string(models.MessageSyncConfirmation),
		KeyRecordingID: recordingID,
		KeyChecksum:    checksum,
	}
}

// EncodeFailure builds the wire form of a syncFailure.
func EncodeFailure(recordingID, errorMessage string) map[string]any {
	return map[string]any{
		KeyMessageType:  string(models.MessageSyncFailure),
		KeyRecordingID:  recordingID,
		KeyErrorMessage: errorMessage,
	}
}

// EncodeTombstone builds the wire form of a syncTombstone.
func EncodeTombstone(recordingID string) map[string]any {
	return map[string]any{
		KeyMessageType: string(models.MessageSyncTombstone),
		KeyRecordingID: recordingID,
	}
}

// DecodeMessage parses an incoming control message. It is total and
// side-effect-free: any structurally invalid payload yields a zero message
// and one of the tagged decode errors, never a panic.
//
// A syncFailure without an errorMessage decodes with
// models.DefaultFailureMessage substituted.
func DecodeMessage(payload map[string]any) (models.ControlMessage, error) {
	kind, ok := stringValue(payload, KeyMessageType)
	if !ok {
		return models.ControlMessage{}, ErrMissingMessageType
	}

	recordingID, ok := stringValue(payload, KeyRecordingID)
	if !ok {
		return models.ControlMessage{}, ErrMissingRecordingID
	}

	switch models.MessageKind(kind) {
	case models.MessageSyncConfirmation:
		sum, ok := stringValue(payload, KeyChecksum)
		if !ok {
			return models.ControlMessage{}, ErrMissingChecksum
		}
		return models.ControlMessage{
			Kind:        models.MessageSyncConfirmation,
			RecordingID: recordingID,
			Checksum:    sum,
		}, nil

	case models.MessageSyncFailure:
		errMsg, ok := stringValue(payload, KeyErrorMessage)
		if !ok {
			errMsg = models.DefaultFailureMessage
		}
		return models.ControlMessage{
			Kind:         models.MessageSyncFailure,
			RecordingID:  recordingID,
			ErrorMessage: errMsg,
		}, nil

	case models.MessageSyncTombstone:
		return models.ControlMessage{
			Kind:        models.MessageSyncTombstone,
			RecordingID: recordingID,
		}, nil

	default:
		return models.ControlMessage{}, fmt.Errorf("%w: %q", ErrUnknownMessageType, kind)
	}
}

// EncodeTransferMetadata builds the metadata dictionary attached to a
// recording payload. The timestamp travels as RFC 3339 text.
func EncodeTransferMetadata(meta models.TransferMetadata) map[string]any {
	return map[string]any{
		KeyType:        TransferTypeAudioRecording,
		KeyTimestamp:   meta.Timestamp.UTC().Format(time.RFC3339Nano),
		KeyRecordingID: meta.RecordingID,
		KeyChecksum:    meta.Checksum,
	}
}

// DecodeTransferMetadata parses transfer metadata received alongside a file.
// Payloads without the audioRecording tag, or missing the identifier or
// checksum, return ErrNotTransferMetadata: the receiver then accepts the
// file unverified on its legacy path. A missing or unparsable timestamp is
// tolerated and decodes as the zero time.
func DecodeTransferMetadata(payload map[string]any) (models.TransferMetadata, error) {
	if typ, ok := stringValue(payload, KeyType); !ok || typ != TransferTypeAudioRecording {
		return models.TransferMetadata{}, ErrNotTransferMetadata
	}

	recordingID, ok := stringValue(payload, KeyRecordingID)
	if !ok {
		return models.TransferMetadata{}, ErrNotTransferMetadata
	}
	sum, ok := stringValue(payload, KeyChecksum)
	if !ok {
		return models.TransferMetadata{}, ErrNotTransferMetadata
	}

	meta := models.TransferMetadata{RecordingID: recordingID, Checksum: sum}
	if raw, ok := stringValue(payload, KeyTimestamp); ok {
		if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			meta.Timestamp = ts
		}
	}

	return meta, nil
}

// stringValue extracts a non-empty string for key. Non-string and empty
// values count as absent.
func stringValue(payload map[string]any, key string) (string, bool) {
	raw, ok := payload[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}
