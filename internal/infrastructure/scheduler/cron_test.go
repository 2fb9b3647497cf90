package scheduler

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestAddRejectsInvalidSpec(t *testing.T) {
	s := New(logrus.New())
	if err := s.Add("bad", "not a spec", func(context.Context) error { return nil }); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestAddAcceptsDescriptor(t *testing.T) {
	s := New(logrus.New())
	if err := s.Add("notify", "@every 5m", func(context.Context) error { return nil }); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(s.cron.Entries()) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(s.cron.Entries()))
	}
}
