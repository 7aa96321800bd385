package workerpool_test

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/orderdesk/backoffice/pkg/workerpool"
)

func TestPool_SubmitAndExecute(t *testing.T) {
	pool := workerpool.New(4)
	defer pool.Shutdown()

	const n = 100
	var count atomic.Int64

	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		err := pool.SubmitWait(func() {
			defer wg.Done()
			count.Add(1)
		})
		if err != nil {
			t.Fatalf("SubmitWait returned unexpected error: %v", err)
		}
	}

	wg.Wait()

	if got := count.Load(); got != n {
		t.Errorf("expected %d tasks to run, got %d", n, got)
	}
}

func TestPool_ErrPoolFull(t *testing.T) {
	// Size-1 pool whose only worker is blocked.
	pool := workerpool.New(1)
	defer pool.Shutdown()

	blocker := make(chan struct{})
	submitted := make(chan struct{})

	// Block the single worker.
	_ = pool.SubmitWait(func() {
		close(submitted)
		<-blocker
	})
	<-submitted

	// Fill the 2-slot queue (buffer is twice the worker count).
	_ = pool.Submit(func() {})
	_ = pool.Submit(func() {})

	// Now the queue is full.
	if err := pool.Submit(func() {}); err != workerpool.ErrPoolFull {
		t.Errorf("expected ErrPoolFull, got %v", err)
	}

	close(blocker)
}

func TestPool_SubmitAfterShutdown(t *testing.T) {
	pool := workerpool.New(2)
	pool.Shutdown()

	if err := pool.Submit(func() {}); err != workerpool.ErrPoolClosed {
		t.Errorf("expected ErrPoolClosed, got %v", err)
	}
	if err := pool.SubmitWait(func() {}); err != workerpool.ErrPoolClosed {
		t.Errorf("expected ErrPoolClosed from SubmitWait, got %v", err)
	}
}

func TestPool_ShutdownWaitsForInflight(t *testing.T) {
	pool := workerpool.New(2)

	var done atomic.Bool
	_ = pool.SubmitWait(func() {
		time.Sleep(50 * time.Millisecond)
		done.Store(true)
	})

	pool.Shutdown()

	if !done.Load() {
		t.Error("Shutdown returned before in-flight task finished")
	}
}

func TestPool_PanicDoesNotKillWorker(t *testing.T) {
	pool := workerpool.New(1)
	defer pool.Shutdown()

	_ = pool.SubmitWait(func() { panic("bad listener") })

	ran := make(chan struct{})
	_ = pool.SubmitWait(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("worker died after a panicking task")
	}
}
