package telemetry

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type recordingPublisher struct {
	mu      sync.Mutex
	samples []Sample
	closed  bool
}

func (r *recordingPublisher) Publish(s Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, s)
}

func (r *recordingPublisher) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func (r *recordingPublisher) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.samples)
}

func TestMulti_FansOutToEveryPublisher(t *testing.T) {
	a, b := &recordingPublisher{}, &recordingPublisher{}
	m := NewMulti(a, b)

	m.Publish(Sample{Time: time.Now(), VoltageIn: 5.1})

	assert.Equal(t, 1, a.count())
	assert.Equal(t, 1, b.count())
}

func TestMulti_CloseClosesEveryPublisher(t *testing.T) {
	a, b := &recordingPublisher{}, &recordingPublisher{}
	m := NewMulti(a, b)

	require := assert.New(t)
	require.NoError(m.Close())
	require.True(a.closed)
	require.True(b.closed)
}

func TestSink_DropsWhenQueueFull(t *testing.T) {
	block := make(chan struct{})
	released := make(chan struct{})
	s := newSink("test", nil, func(Sample) {
		<-block
		select {
		case <-released:
		default:
			close(released)
		}
	})
	defer func() {
		close(block)
		s.closeQueue()
	}()

	for i := 0; i < queueDepth+5; i++ {
		s.Publish(Sample{})
	}
	// Must not deadlock or panic; excess sends are dropped silently from
	// the caller's perspective once the queue and the one in-flight
	// handler slot are full.
}
