package roddriver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-rod/rod"
	"github.com/stretchr/testify/assert"
)

func TestBound_AppliesElementTimeout(t *testing.T) {
	e := &element{el: &rod.Element{}, timeout: 10 * time.Millisecond}

	_, ctx, cancel := e.bound(context.Background())
	defer cancel()
	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(10*time.Millisecond), deadline, time.Second)

	<-ctx.Done()
	assert.ErrorIs(t, settle(ctx, errors.New("cdp: context canceled")), context.DeadlineExceeded)
}

func TestBound_ZeroTimeoutKeepsContext(t *testing.T) {
	e := &element{el: &rod.Element{}}

	_, ctx, cancel := e.bound(context.Background())
	defer cancel()
	_, ok := ctx.Deadline()
	assert.False(t, ok)
}

func TestSettle_KeepsDriverErrorWhileContextLive(t *testing.T) {
	boom := errors.New("boom")
	assert.Same(t, boom, settle(context.Background(), boom))
	assert.NoError(t, settle(context.Background(), nil))
}
