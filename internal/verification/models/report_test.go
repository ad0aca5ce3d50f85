package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "memento/pkg/domain-errors"
)

func TestCanSetStatus(t *testing.T) {
	cases := []struct {
		name string
		from ReportStatus
		to   ReportStatus
		code dErrors.Code
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, ""},
		{"pending to rejected", StatusPending, StatusRejected, ""},
		{"confirmed to canceled", StatusConfirmed, StatusCanceled, ""},
		{"final is locked", StatusFinalConfirmed, StatusRejected, dErrors.CodeReportAlreadyFinal},
		{"back to pending", StatusConfirmed, StatusPending, dErrors.CodeValidation},
		{"operator cannot finalize", StatusConfirmed, StatusFinalConfirmed, dErrors.CodeValidation},
		{"operator cannot cancel as owner", StatusPending, StatusCanceledByOwner, dErrors.CodeValidation},
		{"rejected is closed", StatusRejected, StatusCanceled, dErrors.CodeConflict},
		{"confirmed cannot be confirmed again", StatusConfirmed, StatusConfirmed, dErrors.CodeConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := (&Report{Status: tc.from}).CanSetStatus(tc.to)
			if tc.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func TestApplyStatusKeepsResolutionTime(t *testing.T) {
	confirmedAt := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &Report{Status: StatusPending}

	r.ApplyStatus(StatusConfirmed, "", confirmedAt)
	require.NotNil(t, r.ResolvedAt)
	assert.Equal(t, confirmedAt, *r.ResolvedAt)

	r.ApplyStatus(StatusCanceled, "[admin] duplicate", confirmedAt.Add(time.Hour))
	assert.Equal(t, confirmedAt, *r.ResolvedAt)
	assert.Equal(t, "[admin] duplicate", r.AdminNote)
}

func TestAppendNote(t *testing.T) {
	assert.Equal(t, "a", AppendNote("", "a"))
	assert.Equal(t, "a\nb", AppendNote("a", "b"))
	assert.Equal(t, "a", AppendNote("a", ""))
}

func TestParseDecision(t *testing.T) {
	d, err := ParseDecision("")
	require.NoError(t, err)
	assert.Equal(t, DecisionConfirm, d)

	d, err = ParseDecision(" reject ")
	require.NoError(t, err)
	assert.Equal(t, AttestationRejected, d.AttestationStatus())

	_, err = ParseDecision("abstain")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
