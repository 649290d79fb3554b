package util

import (
	"context"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := NewLimiter(1, 2)

	if !l.Allow(1) || !l.Allow(1) {
		t.Error("Expected the burst to be allowed")
	}
	if l.Allow(1) {
		t.Error("Expected the bucket to be drained")
	}
}

func TestLimiterWaitHonorsContext(t *testing.T) {
	l := NewLimiter(0.001, 1)
	l.Allow(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, 1); err == nil {
		t.Error("Expected Wait to fail when the context expires first")
	}
}

func TestLimiterWait(t *testing.T) {
	l := NewLimiter(1000, 1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	for i := 0; i < 3; i++ {
		if err := l.Wait(ctx, 1); err != nil {
			t.Fatalf("Wait failed: %v", err)
		}
	}
}
