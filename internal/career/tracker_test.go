package career

import (
	"fmt"
	"testing"
	"time"

	"careerfit/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrackerStaleResult(t *testing.T) {
	tr := NewTracker(time.Minute)

	first := tr.Begin("s1", "courses")
	second := tr.Begin("s1", "courses")
	other := tr.Begin("s2", "courses")

	err := tr.Check(first)
	require.Error(t, err)
	assert.True(t, errors.IsStaleResult(err))

	assert.NoError(t, tr.Check(second))
	assert.NoError(t, tr.Check(other), "sessions are independent")
	assert.Greater(t, second.Seq, first.Seq)
}

func TestTrackerOperationsDoNotSupersedeEachOther(t *testing.T) {
	tr := NewTracker(time.Minute)

	courses := tr.Begin("s1", "courses")
	path := tr.Begin("s1", "learning-path")

	assert.NoError(t, tr.Check(courses))
	assert.NoError(t, tr.Check(path))
	assert.Equal(t, 2, tr.Sessions())
}

func TestTrackerPrunesIdleSessions(t *testing.T) {
	tr := NewTracker(time.Minute)
	now := time.Unix(1_700_000_000, 0)
	tr.now = func() time.Time { return now }

	old := tr.Begin("idle", "match")
	now = now.Add(2 * time.Minute)
	tr.Begin("active", "match")

	assert.Equal(t, 1, tr.Sessions())
	assert.NoError(t, tr.Check(old), "forgotten sessions are not stale")
}

func TestTrackerCapsSessions(t *testing.T) {
	tr := NewTracker(time.Hour)
	tr.max = 3
	now := time.Unix(1_700_000_000, 0)
	tr.now = func() time.Time { return now }

	for i := range 5 {
		now = now.Add(time.Second)
		tr.Begin(fmt.Sprintf("s%d", i), "courses")
	}
	assert.Equal(t, 3, tr.Sessions())

	latest := tr.Begin("s4", "courses")
	assert.NoError(t, tr.Check(latest))
	assert.Equal(t, 3, tr.Sessions(), "existing pairs do not evict")
}
