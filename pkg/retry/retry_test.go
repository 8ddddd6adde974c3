package retry

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func fastPolicy(attempts int) Policy {
	return DefaultPolicy().With(Attempts(attempts), Delay(time.Millisecond), MaxDelay(2*time.Millisecond), NoJitter())
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	res := Do(context.Background(), fastPolicy(3), func(ctx context.Context) Result[string] {
		calls++
		return Success(http.StatusOK, "ok")
	})

	if !res.OK {
		t.Fatalf("expected OK result, got %+v", res)
	}
	if res.Data != "ok" {
		t.Errorf("Data = %q, want %q", res.Data, "ok")
	}
	if calls != 1 || res.Attempts != 1 {
		t.Errorf("calls = %d, attempts = %d, want 1", calls, res.Attempts)
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	res := Do(context.Background(), fastPolicy(5), func(ctx context.Context) Result[int] {
		calls++
		if calls < 3 {
			return Failure[int](http.StatusServiceUnavailable, "busy")
		}
		return Success(http.StatusOK, 42)
	})

	if !res.OK || res.Data != 42 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", res.Attempts)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	res := Do(context.Background(), fastPolicy(3), func(ctx context.Context) Result[int] {
		calls++
		return Failure[int](http.StatusBadGateway, "Failed to fetch flashcard sets")
	})

	if res.OK {
		t.Fatal("expected failure")
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if res.Status != http.StatusBadGateway {
		t.Errorf("Status = %d, want %d", res.Status, http.StatusBadGateway)
	}
	if res.Error != "Failed to fetch flashcard sets" {
		t.Errorf("Error = %q", res.Error)
	}
	if res.Aborted() {
		t.Error("exhausted result must not report Aborted")
	}
}

func TestDo_RetryIfStopsEarly(t *testing.T) {
	calls := 0
	p := fastPolicy(5).With(RetryIf(Transient))
	res := Do(context.Background(), p, func(ctx context.Context) Result[int] {
		calls++
		return Failure[int](http.StatusUnauthorized, "unauthorized")
	})

	if res.OK {
		t.Fatal("expected failure")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	Do(context.Background(), Policy{}, func(ctx context.Context) Result[int] {
		calls++
		return Failure[int](500, "boom")
	})
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDo_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	res := Do(ctx, fastPolicy(3), func(ctx context.Context) Result[int] {
		calls++
		return Success(200, 1)
	})

	if calls != 0 {
		t.Errorf("calls = %d, want 0", calls)
	}
	if !res.Aborted() {
		t.Errorf("expected aborted result, got %+v", res)
	}
}

func TestDo_CancelDuringFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	res := Do(ctx, fastPolicy(5), func(ctx context.Context) Result[int] {
		calls++
		cancel()
		<-ctx.Done()
		return TransportFailure[int]("Failed to fetch flashcard sets", ctx.Err())
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if !res.Aborted() {
		t.Fatalf("expected aborted result, got %+v", res)
	}
	if !errors.Is(res.Err, context.Canceled) {
		t.Errorf("Err = %v, want context.Canceled", res.Err)
	}
	if res.Attempts != 1 {
		t.Errorf("Attempts = %d, want 1", res.Attempts)
	}
}

func TestDo_CancelDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := DefaultPolicy().With(Attempts(5), Delay(time.Hour), MaxDelay(time.Hour), NoJitter())

	calls := 0
	done := make(chan Result[int], 1)
	go func() {
		done <- Do(ctx, p, func(ctx context.Context) Result[int] {
			calls++
			return Failure[int](503, "busy")
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case res := <-done:
		if calls != 1 {
			t.Errorf("calls = %d, want 1", calls)
		}
		if !res.Aborted() {
			t.Errorf("expected aborted result, got %+v", res)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after cancellation")
	}
}

func TestTransient(t *testing.T) {
	tests := []struct {
		status int
		want   bool
	}{
		{0, true},
		{http.StatusRequestTimeout, true},
		{http.StatusTooManyRequests, true},
		{http.StatusInternalServerError, true},
		{http.StatusBadGateway, true},
		{http.StatusBadRequest, false},
		{http.StatusUnauthorized, false},
		{http.StatusNotFound, false},
	}

	for _, tt := range tests {
		if got := Transient(tt.status); got != tt.want {
			t.Errorf("Transient(%d) = %v, want %v", tt.status, got, tt.want)
		}
	}
}
