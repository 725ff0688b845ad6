package history

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RecordAndRecent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "wittygo.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Record(EventClockTrust, map[string]string{"verdict": "trusted"}))
	require.NoError(t, s.Record(EventReason, map[string]string{"reason": "button_click"}))

	events, err := s.Recent(10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, EventReason, events[0].Kind)
	assert.Equal(t, EventClockTrust, events[1].Kind)
}

func TestStore_RecentRespectsLimit(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "wittygo.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	defer s.Close()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(EventAlarm, map[string]int{"i": i}))
	}

	events, err := s.Recent(2)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}
