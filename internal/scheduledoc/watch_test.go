package scheduledoc

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchFile_ReloadsOnWrite(t *testing.T) {
	path := writeDoc(t, `
schedule:
  - name: s
    start: "00:00"
    stop: "01:00"
`)

	reloaded := make(chan *Document, 1)
	w, err := WatchFile(path, "", time.UTC, nil, func(doc *Document) {
		reloaded <- doc
	})
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte(`
schedule:
  - name: s2
    start: "00:00"
    stop: "02:00"
`), 0o644))

	select {
	case doc := <-reloaded:
		now := time.Date(2024, 1, 1, 1, 30, 0, 0, time.UTC)
		assert.True(t, doc.Config.Active(now))
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
