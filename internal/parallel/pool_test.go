package parallel

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func counting(n int, counter *atomic.Int64) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = func() error {
			counter.Add(1)
			return nil
		}
	}
	return tasks
}

func TestWorkerPool_Create(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	if pool.Workers() != 4 {
		t.Errorf("Workers() = %d, want 4", pool.Workers())
	}
	if !pool.IsRunning() {
		t.Error("Pool should be running after creation")
	}
}

func TestWorkerPool_CreateDefaultWorkers(t *testing.T) {
	for _, n := range []int{0, -5} {
		pool := NewWorkerPool(n)
		if got, want := pool.Workers(), runtime.GOMAXPROCS(0); got != want {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d (GOMAXPROCS)", n, got, want)
		}
		pool.Close()
	}
}

func TestWorkerPool_Run(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	if err := pool.Run(counting(100, &counter)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if counter.Load() != 100 {
		t.Errorf("counter = %d, want 100", counter.Load())
	}
}

func TestWorkerPool_Run_Empty(t *testing.T) {
	pool := NewWorkerPool(2)
	defer pool.Close()

	if err := pool.Run(nil); err != nil {
		t.Errorf("Run(nil) = %v, want nil", err)
	}
}

func TestWorkerPool_Run_Errors(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	errA := errors.New("a")
	errB := errors.New("b")
	var ran atomic.Int64
	tasks := []Task{
		func() error { ran.Add(1); return nil },
		func() error { ran.Add(1); return errA },
		func() error { ran.Add(1); return nil },
		func() error { ran.Add(1); return errB },
	}

	err := pool.Run(tasks)
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Run error = %v, want both task errors", err)
	}
	if ran.Load() != 4 {
		t.Errorf("ran %d tasks, want 4 (errors must not cancel siblings)", ran.Load())
	}
}

func TestWorkerPool_CloseIdempotent(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Close()
	pool.Close()

	if pool.IsRunning() {
		t.Error("Pool should not be running after Close")
	}
}

func TestWorkerPool_RunAfterClose(t *testing.T) {
	pool := NewWorkerPool(4)
	pool.Close()

	var counter atomic.Int64
	if err := pool.Run(counting(10, &counter)); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if counter.Load() != 10 {
		t.Errorf("counter = %d, want 10 (closed pool runs inline)", counter.Load())
	}
}

func TestWorkerPool_Concurrent(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	var counter atomic.Int64
	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := pool.Run(counting(50, &counter)); err != nil {
				t.Errorf("Run failed: %v", err)
			}
		}()
	}
	wg.Wait()

	if counter.Load() != 500 {
		t.Errorf("counter = %d, want 500", counter.Load())
	}
}

func TestWorkerPool_WorkStealing(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	// Every tenth task is slow; the rest are stolen around it.
	var slow, fast atomic.Int64
	tasks := make([]Task, 100)
	for i := range tasks {
		if i%10 == 0 {
			tasks[i] = func() error {
				time.Sleep(5 * time.Millisecond)
				slow.Add(1)
				return nil
			}
		} else {
			tasks[i] = func() error {
				fast.Add(1)
				return nil
			}
		}
	}

	if err := pool.Run(tasks); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if slow.Load() != 10 || fast.Load() != 90 {
		t.Errorf("slow=%d fast=%d, want 10 and 90", slow.Load(), fast.Load())
	}
}

func TestWorkerPool_NoGoroutineLeak(t *testing.T) {
	runtime.GC()
	time.Sleep(50 * time.Millisecond)
	baseline := runtime.NumGoroutine()

	for range 5 {
		pool := NewWorkerPool(4)
		var counter atomic.Int64
		_ = pool.Run(counting(100, &counter))
		pool.Close()
	}

	runtime.GC()
	time.Sleep(100 * time.Millisecond)
	if final := runtime.NumGoroutine(); final > baseline+2 {
		t.Errorf("goroutine count: baseline=%d, final=%d (leak detected)", baseline, final)
	}
}

func BenchmarkWorkerPool_Run(b *testing.B) {
	pool := NewWorkerPool(0)
	defer pool.Close()

	var counter atomic.Int64
	tasks := counting(64, &counter)
	for b.Loop() {
		_ = pool.Run(tasks)
	}
}
