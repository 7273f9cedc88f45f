package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/duty-tracker/internal/models"
)

func TestPrometheus_ObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec := New(reg)

	rec.ObserveOperation("assign_duty", time.Now(), nil)
	rec.ObserveOperation("assign_duty", time.Now(), models.NewEntityError("member", "bob", models.ErrNotAMember))
	rec.ObserveOperation("assign_duty", time.Now(), nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(rec.operations.WithLabelValues("assign_duty", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.operations.WithLabelValues("assign_duty", "invalid_input")))

	count, err := testutil.GatherAndCount(reg, "duty_tracker_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, "ok", Outcome(nil))
	assert.Equal(t, "not_found", Outcome(models.ErrProjectNotFound))
	assert.Equal(t, "duplicate", Outcome(models.ErrDuplicateDutyID))
	assert.Equal(t, "unauthorized", Outcome(models.ErrNotLeader))
	assert.Equal(t, "already_in_state", Outcome(models.ErrAlreadyMember))
	assert.Equal(t, "error", Outcome(errors.New("disk full")))
}

func TestNop(t *testing.T) {
	var rec Recorder = Nop{}
	rec.ObserveOperation("create_project", time.Now(), nil)
}
