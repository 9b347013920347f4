package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func jobs(n int) []Job {
	js := make([]Job, n)
	for i := range js {
		js[i] = Job{Index: i, Name: fmt.Sprintf("doc-%d", i)}
	}
	return js
}

func TestRun_PreservesOrder(t *testing.T) {
	js := jobs(20)
	results := Run(context.Background(), js, 4, func(_ context.Context, j Job) (string, error) {
		// Later jobs finish first.
		time.Sleep(time.Duration(len(js)-j.Index) * time.Millisecond)
		return j.Name, nil
	})

	if len(results) != len(js) {
		t.Fatalf("got %d results, want %d", len(results), len(js))
	}
	for i, r := range results {
		if r.Job.Index != i || r.Output != js[i].Name {
			t.Errorf("result %d out of order: %+v", i, r)
		}
		if r.Err != nil {
			t.Errorf("unexpected error: %v", r.Err)
		}
	}
}

func TestRun_RespectsLimit(t *testing.T) {
	var inFlight, peak int32
	Run(context.Background(), jobs(30), 3, func(context.Context, Job) (string, error) {
		n := atomic.AddInt32(&inFlight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)
		return "", nil
	})

	if peak > 3 {
		t.Errorf("peak concurrency %d exceeds limit 3", peak)
	}
}

func TestRun_ErrorsDoNotStopOthers(t *testing.T) {
	boom := errors.New("boom")
	results := Run(context.Background(), jobs(5), 2, func(_ context.Context, j Job) (string, error) {
		if j.Index == 1 {
			return "", boom
		}
		return "ok", nil
	})

	failed := Failed(results)
	if len(failed) != 1 || !errors.Is(failed[0].Err, boom) || failed[0].Job.Index != 1 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
	for _, r := range results {
		if r.Job.Index != 1 && r.Output != "ok" {
			t.Errorf("job %d did not run", r.Job.Index)
		}
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int32
	results := Run(ctx, jobs(4), 2, func(context.Context, Job) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "", nil
	})

	if calls != 0 {
		t.Errorf("fn called %d times after cancellation", calls)
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("job %d: expected context.Canceled, got %v", r.Job.Index, r.Err)
		}
	}
}

func TestRun_DefaultWorkers(t *testing.T) {
	results := Run(context.Background(), jobs(3), 0, func(_ context.Context, j Job) (string, error) {
		return j.Name, nil
	})
	if len(Failed(results)) != 0 {
		t.Error("unexpected failures")
	}
	if DefaultWorkers() < 1 {
		t.Error("DefaultWorkers must be positive")
	}
}
