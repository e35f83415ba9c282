package auction

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Additional-Code/gridlock/internal/config"
	auctionsvc "github.com/Additional-Code/gridlock/internal/service/auction"
)

type fakeTransitioner struct {
	mu    sync.Mutex
	calls []time.Time
	res   auctionsvc.SweepResult
	err   error
}

func (f *fakeTransitioner) Sweep(_ context.Context, now time.Time) (auctionsvc.SweepResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, now)
	return f.res, f.err
}

func (f *fakeTransitioner) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestRunOnce_LogsAppliedTransitions(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	fake := &fakeTransitioner{res: auctionsvc.SweepResult{Activated: 2, Ended: 1}}
	s := NewSweeper(fake, config.Config{Auction: config.Auction{SweepInterval: time.Minute}}, zap.New(core))
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	res, err := s.RunOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, res.Activated)
	require.Equal(t, []time.Time{fixed}, fake.calls)
	require.Equal(t, 1, logs.FilterMessage("auction sweep applied").Len())
}

func TestRunOnce_ReturnsErrors(t *testing.T) {
	fake := &fakeTransitioner{err: errors.New("db down")}
	s := NewSweeper(fake, config.Config{Auction: config.Auction{SweepInterval: time.Minute}}, zap.NewNop())

	_, err := s.RunOnce(context.Background())
	require.Error(t, err)
}

func TestStartStop_SweepsImmediatelyAndOnTick(t *testing.T) {
	fake := &fakeTransitioner{}
	s := NewSweeper(fake, config.Config{Auction: config.Auction{SweepInterval: 10 * time.Millisecond}}, zap.NewNop())

	s.Start()
	require.Eventually(t, func() bool { return fake.count() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := fake.count()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, after, fake.count())
}
