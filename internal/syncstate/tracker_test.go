package syncstate

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voicememo/recsync/models"
)

const (
	testID = "watch_1c0a8f3e-9b2d-4f71-8e5a-6d4c2b1a0f9e"
	sumA   = "aaaa0000aaaa0000aaaa0000aaaa0000aaaa0000aaaa0000aaaa0000aaaa0000"
	sumB   = "bbbb1111bbbb1111bbbb1111bbbb1111bbbb1111bbbb1111bbbb1111bbbb1111"
)

// ── StateOf / MarkInFlight ───────────────────────────────────────────────────

func TestTracker_UnknownIDIsPending(t *testing.T) {
	tr := NewTracker()

	st := tr.StateOf(testID)
	assert.Equal(t, models.SyncPending, st.Status)
	assert.Empty(t, st.ExpectedChecksum)
	assert.False(t, tr.IsInFlight(testID))
}

func TestTracker_MarkInFlight(t *testing.T) {
	tr := NewTracker()

	tr.MarkInFlight(testID, sumA)

	st := tr.StateOf(testID)
	assert.Equal(t, models.SyncInFlight, st.Status)
	assert.Equal(t, sumA, st.ExpectedChecksum)
	assert.True(t, tr.IsInFlight(testID))
	assert.ElementsMatch(t, []string{testID}, tr.InFlightIDs())
}

func TestTracker_MarkInFlightOverwritesChecksum(t *testing.T) {
	tr := NewTracker()

	tr.MarkInFlight(testID, sumA)
	// повторная попытка — новый digest заменяет старый
	tr.MarkInFlight(testID, sumB)

	assert.Equal(t, sumB, tr.StateOf(testID).ExpectedChecksum)
}

// ── Confirm ──────────────────────────────────────────────────────────────────

func TestTracker_ConfirmMatching(t *testing.T) {
	tr := NewTracker()
	tr.MarkInFlight(testID, sumA)

	res := tr.Confirm(testID, sumA)

	assert.Equal(t, models.ConfirmAccepted, res.Status)
	assert.Equal(t, models.SyncSynced, tr.StateOf(testID).Status)
	assert.Empty(t, tr.InFlightIDs())
}

func TestTracker_ConfirmCaseInsensitive(t *testing.T) {
	tr := NewTracker()
	tr.MarkInFlight(testID, sumA)

	res := tr.Confirm(testID, strings.ToUpper(sumA))
	assert.Equal(t, models.ConfirmAccepted, res.Status)
}

func TestTracker_ConfirmMismatchLeavesStateUntouched(t *testing.T) {
	tr := NewTracker()
	tr.MarkInFlight(testID, sumA)

	res := tr.Confirm(testID, sumB)

	require.Equal(t, models.ConfirmMismatch, res.Status)
	assert.Equal(t, sumA, res.Expected)
	assert.Equal(t, sumB, res.Received)

	// состояние не изменилось — правильное подтверждение всё ещё возможно
	st := tr.StateOf(testID)
	assert.Equal(t, models.SyncInFlight, st.Status)
	assert.Equal(t, sumA, st.ExpectedChecksum)

	assert.Equal(t, models.ConfirmAccepted, tr.Confirm(testID, sumA).Status)
}

func TestTracker_ConfirmUnknownID(t *testing.T) {
	tr := NewTracker()

	res := tr.Confirm(testID, sumA)
	assert.Equal(t, models.ConfirmUnknown, res.Status)
	assert.Equal(t, models.SyncPending, tr.StateOf(testID).Status)
}

func TestTracker_SecondConfirmIsConsumed(t *testing.T) {
	tr := NewTracker()
	tr.MarkInFlight(testID, sumA)

	require.Equal(t, models.ConfirmAccepted, tr.Confirm(testID, sumA).Status)
	// повторное подтверждение уже поглощено, состояние остаётся synced
	assert.Equal(t, models.ConfirmUnknown, tr.Confirm(testID, sumA).Status)
	assert.Equal(t, models.SyncSynced, tr.StateOf(testID).Status)
}

// ── Fail ─────────────────────────────────────────────────────────────────────

func TestTracker_FailThenRetryRoundTrip(t *testing.T) {
	tr := NewTracker()

	tr.MarkInFlight(testID, sumA)
	assert.True(t, tr.Fail(testID))
	assert.Equal(t, models.SyncPending, tr.StateOf(testID).Status)

	tr.MarkInFlight(testID, sumB)
	assert.Equal(t, models.ConfirmAccepted, tr.Confirm(testID, sumB).Status)
	assert.Equal(t, models.SyncSynced, tr.StateOf(testID).Status)
}

func TestTracker_FailIsIdempotent(t *testing.T) {
	tr := NewTracker()

	assert.False(t, tr.Fail(testID), "fail неизвестного id — no-op")

	tr.MarkInFlight(testID, sumA)
	tr.Confirm(testID, sumA)
	assert.False(t, tr.Fail(testID), "fail после synced — no-op")
	assert.Equal(t, models.SyncSynced, tr.StateOf(testID).Status)
}

// ── Decide ───────────────────────────────────────────────────────────────────

func TestTracker_DecidePrecedence(t *testing.T) {
	tests := []struct {
		name       string
		prepare    func(tr *Tracker)
		fileExists bool
		queued     bool
		want       models.SyncDecision
	}{
		{"pending with file", func(*Tracker) {}, true, false, models.DecisionShouldSync},
		{"queued in transport", func(*Tracker) {}, true, true, models.DecisionAlreadyInFlight},
		{
			"in flight locally",
			func(tr *Tracker) { tr.MarkInFlight(testID, sumA) },
			true, false, models.DecisionAlreadyInFlight,
		},
		{
			"already synced",
			func(tr *Tracker) { tr.MarkInFlight(testID, sumA); tr.Confirm(testID, sumA) },
			true, false, models.DecisionAlreadySynced,
		},
		{
			"synced beats queued",
			func(tr *Tracker) { tr.MarkInFlight(testID, sumA); tr.Confirm(testID, sumA) },
			true, true, models.DecisionAlreadySynced,
		},
		// файл отсутствует — приоритет выше всех остальных состояний
		{"file missing pending", func(*Tracker) {}, false, false, models.DecisionFileMissing},
		{
			"file missing in flight",
			func(tr *Tracker) { tr.MarkInFlight(testID, sumA) },
			false, true, models.DecisionFileMissing,
		},
		{
			"file missing synced",
			func(tr *Tracker) { tr.MarkInFlight(testID, sumA); tr.Confirm(testID, sumA) },
			false, true, models.DecisionFileMissing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTracker()
			tt.prepare(tr)
			assert.Equal(t, tt.want, tr.Decide(testID, tt.fileExists, tt.queued))
		})
	}
}

// ── Snapshot / Restore / Reset ───────────────────────────────────────────────

func TestTracker_SnapshotContainsOnlyInFlight(t *testing.T) {
	tr := NewTracker()
	tr.MarkInFlight("watch_aaaaaaaa-0000-4000-8000-000000000001", sumA)
	tr.MarkInFlight("watch_aaaaaaaa-0000-4000-8000-000000000002", sumB)
	tr.Confirm("watch_aaaaaaaa-0000-4000-8000-000000000002", sumB)

	snap := tr.Snapshot()
	assert.Equal(t, map[string]string{
		"watch_aaaaaaaa-0000-4000-8000-000000000001": sumA,
	}, snap)

	// snapshot — копия, мутация не влияет на трекер
	snap["watch_aaaaaaaa-0000-4000-8000-000000000003"] = sumA
	assert.Len(t, tr.InFlightIDs(), 1)
}

func TestTracker_RestoreSeedsInFlight(t *testing.T) {
	tr := NewTracker()
	tr.Restore(map[string]string{testID: sumA})

	assert.True(t, tr.IsInFlight(testID))
	// подтверждение после "перезапуска" всё ещё валидируется
	assert.Equal(t, models.ConfirmAccepted, tr.Confirm(testID, sumA).Status)
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker()
	tr.MarkInFlight(testID, sumA)
	tr.Reset()

	assert.Empty(t, tr.InFlightIDs())
	assert.Equal(t, models.SyncPending, tr.StateOf(testID).Status)
}

// ── конкурентность ───────────────────────────────────────────────────────────

func TestTracker_ConcurrentMarkAndConfirm(t *testing.T) {
	const n = 100

	tr := NewTracker()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("watch_aaaaaaaa-0000-4000-8000-%012d", i)
			sum := fmt.Sprintf("%064d", i)
			tr.MarkInFlight(id, sum)
			res := tr.Confirm(id, sum)
			assert.Equal(t, models.ConfirmAccepted, res.Status)
		}(i)
	}
	wg.Wait()

	// все 100 записей дошли до synced, потерянных обновлений нет
	assert.Empty(t, tr.InFlightIDs())
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("watch_aaaaaaaa-0000-4000-8000-%012d", i)
		assert.Equal(t, models.SyncSynced, tr.StateOf(id).Status)
	}
}

func TestTracker_StaleConfirmationAfterRetryIsMismatch(t *testing.T) {
	tr := NewTracker()

	tr.MarkInFlight(testID, sumA)
	// новая попытка с новым digest до прихода старого подтверждения
	tr.MarkInFlight(testID, sumB)

	res := tr.Confirm(testID, sumA)
	assert.Equal(t, models.ConfirmMismatch, res.Status)
	assert.Equal(t, sumB, tr.StateOf(testID).ExpectedChecksum)
}
