// Package identity generates and parses recording identifiers.
//
// Identifiers have the form "{origin}_{uuid}" where origin names the device
// that created the recording and the uuid carries 122 bits of randomness.
// Peers never coordinate on identifier allocation; collision probability is
// treated as negligible against hardware failure rates.
package identity

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/voicememo/recsync/models"
)

// idPattern matches a well-formed recording identifier. Hex digits are
// lowercase only; uppercase variants are rejected at trust boundaries.
var idPattern = regexp.MustCompile(`^(watch|iphone)_[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

// recordingExtensions lists the file extensions a recording file may carry.
// ExtractID strips these and nothing else.
var recordingExtensions = []string{".m4a", ".wav", ".caf"}

// New produces a fresh identifier for a recording created by origin.
// uuid.NewString yields a lowercase random (version 4) UUID, so the result
// always satisfies IsValid.
func New(origin models.Origin) string {
	return string(origin) + "_" + uuid.NewString()
}

// ExtractID recovers a recording identifier from a file name or path by
// dropping the directory prefix and a known recording extension. It is a
// pure string operation: when no known extension matches, the input is
// returned unchanged.
func ExtractID(nameOrPath string) string {
	base := filepath.Base(nameOrPath)
	for _, ext := range recordingExtensions {
		if strings.HasSuffix(base, ext) {
			return strings.TrimSuffix(base, ext)
		}
	}
	return nameOrPath
}

// OriginOf parses the origin tag from an identifier. Legacy or malformed
// identifiers yield models.OriginUnknown; the function never fails.
func OriginOf(id string) models.Origin {
	tag, _, found := strings.Cut(id, "_")
	if !found {
		return models.OriginUnknown
	}
	switch models.Origin(tag) {
	case models.OriginWatch:
		return models.OriginWatch
	case models.OriginPhone:
		return models.OriginPhone
	default:
		return models.OriginUnknown
	}
}

// IsValid reports whether id is a syntactically well-formed recording
// identifier. Used defensively wherever identifiers cross a trust boundary,
// e.g. when parsing incoming control messages.
func IsValid(id string) bool {
	return idPattern.MatchString(id)
}
