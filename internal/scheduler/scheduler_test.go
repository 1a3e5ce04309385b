package scheduler

import (
	"context"
	"testing"

	"github.com/alphafinance/backend/pkg/logger"
)

func TestRegisterRejectsBadSpec(t *testing.T) {
	s := New(logger.New("debug", logger.NewTestHandler))

	err := s.Register(Job{
		Name: "bad",
		Spec: "not a cron expression",
		Run:  func(ctx context.Context) {},
	})
	if err == nil {
		t.Fatal("expected error for malformed spec")
	}
}

func TestRegisterAcceptsStandardSpec(t *testing.T) {
	s := New(logger.New("debug", logger.NewTestHandler))

	err := s.Register(Job{
		Name: "nightly",
		Spec: "0 0 * * *",
		Run:  func(ctx context.Context) {},
	})
	if err != nil {
		t.Fatalf("register error: %v", err)
	}

	s.Start()
	s.Stop()
}
