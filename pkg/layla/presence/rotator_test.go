package presence

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestRotatorStart(t *testing.T) {
	ctx := context.Background()

	t.Run("applies the first status immediately", func(t *testing.T) {
		var applied []string
		r := NewRotator(Config{Statuses: []string{"Genshin Impact"}}, func(_ context.Context, s string) error {
			applied = append(applied, s)
			return nil
		}, testLogger())

		if err := r.Start(ctx); err != nil {
			t.Fatalf("starting rotator: %v", err)
		}
		defer r.Stop()

		if len(applied) != 1 || applied[0] != "Genshin Impact" {
			t.Errorf("applied statuses = %v", applied)
		}
		if r.cron != nil {
			t.Error("a single status needs no cron schedule")
		}
	})

	t.Run("no statuses is a no-op", func(t *testing.T) {
		called := false
		r := NewRotator(Config{}, func(context.Context, string) error {
			called = true
			return nil
		}, testLogger())

		if err := r.Start(ctx); err != nil {
			t.Fatalf("starting rotator: %v", err)
		}
		if called {
			t.Error("setter must not be called without statuses")
		}
	})

	t.Run("schedules rotation for multiple statuses", func(t *testing.T) {
		r := NewRotator(Config{
			Statuses: []string{"one", "two"},
			Schedule: "0 * * * *",
		}, func(context.Context, string) error { return nil }, testLogger())

		if err := r.Start(ctx); err != nil {
			t.Fatalf("starting rotator: %v", err)
		}
		defer r.Stop()

		if r.cron == nil {
			t.Error("expected a cron schedule for multiple statuses")
		}
	})

	t.Run("invalid schedule is an error", func(t *testing.T) {
		r := NewRotator(Config{
			Statuses: []string{"one", "two"},
			Schedule: "not a cron expression",
		}, func(context.Context, string) error { return nil }, testLogger())

		if err := r.Start(ctx); err == nil {
			t.Fatal("expected error for invalid schedule")
		}
	})

	t.Run("setter failures do not stop the cycle", func(t *testing.T) {
		r := NewRotator(Config{Statuses: []string{"one", "two"}}, func(context.Context, string) error {
			return errors.New("gateway down")
		}, testLogger())

		if err := r.Start(ctx); err != nil {
			t.Fatalf("starting rotator: %v", err)
		}
	})

	t.Run("cycles in order", func(t *testing.T) {
		var applied []string
		r := NewRotator(Config{Statuses: []string{"one", "two", "three"}}, func(_ context.Context, s string) error {
			applied = append(applied, s)
			return nil
		}, testLogger())

		for i := 0; i < 4; i++ {
			r.apply(ctx)
		}
		want := []string{"one", "two", "three", "one"}
		for i := range want {
			if applied[i] != want[i] {
				t.Errorf("applied[%d] = %q, want %q", i, applied[i], want[i])
			}
		}
	})
}
