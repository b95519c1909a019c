package relay

import (
	"context"
	"sync"
	"testing"
)

func TestRecorder_ConcurrentDeliver(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	const n = 20

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := rec.Deliver(context.Background(), &Envelope{MailFrom: "a@example.com"}); err != nil {
				t.Errorf("Deliver: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := len(rec.Envelopes()); got != n {
		t.Errorf("Envelopes(): got %d, want %d", got, n)
	}
}

func TestRecorder_EnvelopesReturnsCopy(t *testing.T) {
	t.Parallel()

	rec := &Recorder{}
	_ = rec.Deliver(context.Background(), &Envelope{MailFrom: "a@example.com"})

	envs := rec.Envelopes()
	envs[0] = nil

	if rec.Envelopes()[0] == nil {
		t.Error("modifying the returned slice changed the recorder")
	}
}
