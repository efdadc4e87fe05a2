package coord

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/gameconsole/internal/backend"
	"github.com/abelbrown/gameconsole/internal/ui/panel"
)

// mockProgram collects sent messages.
type mockProgram struct {
	mu   sync.Mutex
	msgs []tea.Msg
}

func (m *mockProgram) Send(msg tea.Msg) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
}

func (m *mockProgram) updates() []panel.TextUpdated {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []panel.TextUpdated
	for _, msg := range m.msgs {
		if u, ok := msg.(panel.TextUpdated); ok {
			out = append(out, u)
		}
	}
	return out
}

type mockFetcher struct {
	texts map[string]string
}

func (m *mockFetcher) FetchText(ctx context.Context, url string) (string, error) {
	return m.texts[url], nil
}

func TestCoordinatorRoutesStreams(t *testing.T) {
	f := &mockFetcher{texts: map[string]string{
		"http://b/out":         "world",
		"http://b/command_out": "> look",
	}}
	c := NewCoordinator(f, []Stream{
		{Name: "out", URL: "http://b/out"},
		{Name: "command_out", URL: "http://b/command_out"},
	}, 5*time.Millisecond)

	prog := &mockProgram{}
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx, prog)
	time.Sleep(30 * time.Millisecond)
	cancel()
	c.Wait()

	seen := map[string]string{}
	for _, u := range prog.updates() {
		seen[u.Stream] = u.Text
	}
	if seen["out"] != "world" {
		t.Errorf("out = %q", seen["out"])
	}
	if seen["command_out"] != "> look" {
		t.Errorf("command_out = %q", seen["command_out"])
	}
}

func TestCoordinatorStopsOnCancel(t *testing.T) {
	f := &mockFetcher{texts: map[string]string{}}
	c := NewCoordinator(f, []Stream{{Name: "out", URL: "u"}}, time.Millisecond)

	prog := &mockProgram{}
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx, prog)
	time.Sleep(10 * time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait did not return after cancel")
	}

	n := len(prog.updates())
	time.Sleep(20 * time.Millisecond)
	if len(prog.updates()) != n {
		t.Error("updates kept arriving after Wait returned")
	}
}

func TestCoordinatorHandlesNilProgram(t *testing.T) {
	f := &mockFetcher{texts: map[string]string{"u": "x"}}
	c := NewCoordinator(f, []Stream{{Name: "out", URL: "u"}}, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx, nil)
	time.Sleep(10 * time.Millisecond)
	cancel()
	c.Wait()
}

func TestCoordinatorWaitWithoutStart(t *testing.T) {
	c := NewCoordinator(&mockFetcher{}, nil, time.Second)
	c.Wait() // must not block
}

func TestCoordinatorStreamsImmutable(t *testing.T) {
	streams := []Stream{{Name: "out", URL: "u"}}
	c := NewCoordinator(&mockFetcher{}, streams, time.Second)
	streams[0].Name = "changed"
	if c.streams[0].Name != "out" {
		t.Error("coordinator shares the caller's slice")
	}
}

func TestServerErrorLeavesPanelUnchanged(t *testing.T) {
	const okResponses = 3
	const failedResponses = 3

	var (
		served      atomic.Int32
		failing     = make(chan struct{})
		failingOnce sync.Once
		sawFailures = make(chan struct{})
		failedOnce  sync.Once
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(served.Add(1))
		if n <= okResponses {
			fmt.Fprintf(w, `{"text":"before %d"}`, n)
			return
		}
		failingOnce.Do(func() { close(failing) })
		if n >= okResponses+failedResponses {
			failedOnce.Do(func() { close(sawFailures) })
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewCoordinator(backend.NewClient(server.Client()), []Stream{{Name: "out", URL: server.URL + "/out"}}, time.Millisecond)
	prog := &mockProgram{}
	ctx, cancel := context.WithCancel(context.Background())
	c.Start(ctx, prog)

	// The poller publishes before starting its next request, so every
	// successful response has been delivered once the first 500 is served.
	select {
	case <-failing:
	case <-time.After(5 * time.Second):
		t.Fatal("server never switched to errors")
	}
	atSwitch := len(prog.updates())

	select {
	case <-sawFailures:
	case <-time.After(5 * time.Second):
		t.Fatal("poller stopped after the first server error")
	}
	cancel()
	c.Wait()

	updates := prog.updates()
	if atSwitch != okResponses || len(updates) != okResponses {
		t.Errorf("updates: %d at switch, %d total, want %d (one per successful poll)", atSwitch, len(updates), okResponses)
	}

	// Replay everything into a panel: the 500s contributed nothing.
	p := panel.New("out")
	for _, u := range updates {
		p, _ = p.Update(u)
	}
	if want := fmt.Sprintf("before %d", okResponses); p.Text() != want {
		t.Errorf("panel text = %q, want %q", p.Text(), want)
	}
}
