package gpioline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_ImplementsLines(t *testing.T) {
	var _ Lines = NewMock()
}

func TestMock_SetSysUp(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.SetSysUp(true))
	assert.True(t, m.SysUp())
}

func TestMock_ReadChargeStatus(t *testing.T) {
	m := NewMock()
	m.SetChargeStatus(true, false)
	charging, standby, err := m.ReadChargeStatus()
	require.NoError(t, err)
	assert.True(t, charging)
	assert.False(t, standby)
}

func TestMock_WatchHaltFiresOnFallingEdge(t *testing.T) {
	m := NewMock()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	go func() {
		_ = m.WatchHalt(ctx, func() { fired <- struct{}{} })
	}()

	time.Sleep(5 * time.Millisecond)
	m.PullHaltLow()

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("onFalling was never invoked")
	}
}

func TestMock_CloseMarksClosed(t *testing.T) {
	m := NewMock()
	require.NoError(t, m.Close())
	assert.True(t, m.Closed())
}

func TestRPIOLines_PinNumbersMatchHAT(t *testing.T) {
	l := NewRPIOLines()
	assert.EqualValues(t, HaltPin, l.halt)
	assert.EqualValues(t, SysUpPin, l.sysUp)
	assert.EqualValues(t, ChrgPin, l.chrg)
	assert.EqualValues(t, StdbyPin, l.stdby)
}
