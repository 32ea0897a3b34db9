package remote

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"relayctl/internal/command"
	"relayctl/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSpawner struct {
	mock.Mock
}

func (m *mockSpawner) Spawn(ctx context.Context, inv Invocation) (Process, error) {
	args := m.Called(ctx, inv)
	if p := args.Get(0); p != nil {
		return p.(Process), args.Error(1)
	}
	return nil, args.Error(1)
}

type fakeProcess struct {
	err     error
	release chan struct{}
	onWait  func()
}

func (p *fakeProcess) Wait() error {
	if p.onWait != nil {
		p.onWait()
	}
	if p.release != nil {
		<-p.release
	}
	return p.err
}

func scripts(addresses ...string) []command.Script {
	out := make([]command.Script, len(addresses))
	for i, a := range addresses {
		out[i] = command.Script{Address: a, Steps: []command.Command{command.New("true")}}
	}
	return out
}

func TestNewExecutor_DefaultsToOARSH(t *testing.T) {
	e := NewExecutor(&mockSpawner{}, "", "", false)
	assert.Equal(t, config.ProtocolOARSH, e.Protocol())
}

func TestLaunch_SpawnsOneSessionPerHostInOrder(t *testing.T) {
	spawner := &mockSpawner{}
	var order []string
	spawner.On("Spawn", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			order = append(order, args.Get(1).(Invocation).Address)
		}).
		Return(&fakeProcess{}, nil)

	e := NewExecutor(spawner, config.ProtocolSSH, "", false)
	batch := e.Launch(context.Background(), scripts("h1", "h2", "h3"))
	require.NoError(t, batch.Wait())

	assert.Equal(t, []string{"h1", "h2", "h3"}, order)
	spawner.AssertNumberOfCalls(t, "Spawn", 3)
}

func TestLaunch_InvocationCarriesScriptAndJobID(t *testing.T) {
	spawner := &mockSpawner{}
	s := command.Script{Address: "h1", Steps: []command.Command{command.ChangeDir("/srv"), command.New("echo", "hi")}}
	expected := Invocation{Protocol: config.ProtocolOARSH, Address: "h1", Script: "cd /srv\necho hi\n", JobID: "4242"}
	spawner.On("Spawn", mock.Anything, expected).Return(&fakeProcess{}, nil).Once()

	e := NewExecutor(spawner, config.ProtocolOARSH, "4242", false)
	require.NoError(t, e.Launch(context.Background(), []command.Script{s}).Wait())

	spawner.AssertExpectations(t)
}

func TestLaunch_DoesNotWaitForSessions(t *testing.T) {
	spawner := &mockSpawner{}
	release := make(chan struct{})
	spawner.On("Spawn", mock.Anything, mock.Anything).Return(&fakeProcess{release: release}, nil)

	e := NewExecutor(spawner, config.ProtocolSSH, "", false)
	batch := e.Launch(context.Background(), scripts("h1", "h2"))

	done := make(chan error, 1)
	go func() { done <- batch.Wait() }()

	select {
	case <-done:
		t.Fatal("Wait returned before sessions exited")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-done)
}

func TestLaunch_FailuresAreCollectedPerHost(t *testing.T) {
	spawner := &mockSpawner{}
	spawner.On("Spawn", mock.Anything, mock.MatchedBy(func(inv Invocation) bool { return inv.Address == "bad-spawn" })).
		Return(nil, errors.New("exec: not found"))
	spawner.On("Spawn", mock.Anything, mock.MatchedBy(func(inv Invocation) bool { return inv.Address == "bad-exit" })).
		Return(&fakeProcess{err: errors.New("exit status 255")}, nil)
	spawner.On("Spawn", mock.Anything, mock.MatchedBy(func(inv Invocation) bool { return inv.Address == "good" })).
		Return(&fakeProcess{}, nil)

	e := NewExecutor(spawner, config.ProtocolSSH, "", false)
	err := e.Launch(context.Background(), scripts("bad-spawn", "good", "bad-exit")).Wait()
	require.Error(t, err)

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Contains(t, err.Error(), "bad-spawn")
	assert.Contains(t, err.Error(), "bad-exit")
	assert.NotContains(t, err.Error(), "on good")
	spawner.AssertNumberOfCalls(t, "Spawn", 3)
}

func TestRun_SequentialByDefault(t *testing.T) {
	spawner := &mockSpawner{}
	var running, peak int32
	var mu sync.Mutex
	var order []string
	spawner.On("Spawn", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			mu.Lock()
			order = append(order, args.Get(1).(Invocation).Address)
			mu.Unlock()
		}).
		Return(&fakeProcess{onWait: func() {
			n := atomic.AddInt32(&running, 1)
			for {
				p := atomic.LoadInt32(&peak)
				if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&running, -1)
		}}, nil)

	e := NewExecutor(spawner, config.ProtocolSSH, "", false)
	require.NoError(t, e.Run(context.Background(), scripts("h1", "h2", "h3"), 0))

	assert.Equal(t, []string{"h1", "h2", "h3"}, order)
	assert.Equal(t, int32(1), atomic.LoadInt32(&peak))
}

func TestRun_ParallelJoinsAllHosts(t *testing.T) {
	spawner := &mockSpawner{}
	spawner.On("Spawn", mock.Anything, mock.MatchedBy(func(inv Invocation) bool { return inv.Address == "h2" })).
		Return(&fakeProcess{err: errors.New("boom")}, nil)
	spawner.On("Spawn", mock.Anything, mock.Anything).Return(&fakeProcess{}, nil)

	e := NewExecutor(spawner, config.ProtocolSSH, "", false)
	err := e.Run(context.Background(), scripts("h1", "h2", "h3", "h4"), 3)

	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	assert.Equal(t, "h2", execErr.Address)
	spawner.AssertNumberOfCalls(t, "Spawn", 4)
}
