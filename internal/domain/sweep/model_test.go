package sweep

import (
	"errors"
	"testing"
	"time"
)

func TestRun_Finish(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	ok := &Run{StartedAt: start, Status: StatusRunning}
	ok.Finish(start.Add(1500*time.Millisecond), nil)
	if ok.Status != StatusCompleted || ok.DurationMs != 1500 || ok.CompletedAt == nil {
		t.Errorf("Finish(nil) = %+v", ok)
	}

	failed := &Run{StartedAt: start, Status: StatusRunning}
	failed.Finish(start.Add(time.Second), errors.New("db gone"))
	if failed.Status != StatusFailed || failed.ErrorMessage != "db gone" {
		t.Errorf("Finish(err) = %+v", failed)
	}
	if !failed.Status.IsTerminal() || StatusRunning.IsTerminal() {
		t.Error("IsTerminal() mismatch")
	}
}

func TestResult_Add(t *testing.T) {
	total := Result{Scanned: 2, Expired: 1, Skipped: 1}
	total.Add(Result{Scanned: 3, Expired: 2, Failed: 1})
	want := Result{Scanned: 5, Expired: 3, Skipped: 1, Failed: 1}
	if total != want {
		t.Errorf("Add() = %+v, want %+v", total, want)
	}
}
