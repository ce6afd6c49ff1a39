package ctxutil

import (
	"context"
	"testing"
	"time"
)

func TestValues(t *testing.T) {
	ctx := WithOp(WithSchoolID(WithRequestID(context.Background(), "req-1"), 7), "add_post")

	if id, ok := RequestID(ctx); !ok || id != "req-1" {
		t.Fatalf("request id: %q %v", id, ok)
	}
	if id, ok := SchoolID(ctx); !ok || id != 7 {
		t.Fatalf("school id: %d %v", id, ok)
	}
	if op, ok := Op(ctx); !ok || op != "add_post" {
		t.Fatalf("op: %q %v", op, ok)
	}
	if _, ok := RequestID(context.Background()); ok {
		t.Fatal("expected no request id on empty context")
	}
}

func TestDetachedSurvivesParentCancel(t *testing.T) {
	parent, cancel := context.WithCancel(WithRequestID(context.Background(), "r"))
	ctx, stop := Detached(parent, time.Minute)
	defer stop()
	cancel()

	if err := ctx.Err(); err != nil {
		t.Fatalf("detached context cancelled with parent: %v", err)
	}
	if id, _ := RequestID(ctx); id != "r" {
		t.Fatalf("values lost: %q", id)
	}
	if _, ok := ctx.Deadline(); !ok {
		t.Fatal("expected deadline")
	}
}

func TestWithTimeoutZero(t *testing.T) {
	ctx, cancel := WithTimeout(context.Background(), 0)
	defer cancel()
	if _, ok := ctx.Deadline(); ok {
		t.Fatal("zero duration must not set a deadline")
	}
}
