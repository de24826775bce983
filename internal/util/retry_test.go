package util

import (
	"context"
	"errors"
	"testing"
)

func TestRetryWithContext(t *testing.T) {
	tries := 0
	result, err := RetryWithContext(context.Background(), 3, func(ctx context.Context) (int, error) {
		tries++
		if tries < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("RetryWithContext failed: %v", err)
	}
	if result != 42 || tries != 3 {
		t.Fatalf("result = %d after %d tries, want 42 after 3", result, tries)
	}
}

func TestRetryErrWithContext(t *testing.T) {
	tries := 0
	err := RetryErrWithContext(context.Background(), 3, func(ctx context.Context) error {
		tries++
		if tries < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("RetryErrWithContext failed: %v", err)
	}
	if tries != 2 {
		t.Fatalf("got %d tries, want 2", tries)
	}
}

func TestRetryErrWithContextExhausted(t *testing.T) {
	wantErr := errors.New("persistent")
	tries := 0
	err := RetryErrWithContext(context.Background(), 3, func(ctx context.Context) error {
		tries++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("got %v, want the last error", err)
	}
	if tries != 3 {
		t.Fatalf("got %d tries, want 3", tries)
	}
}

func TestRetryErrWithContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tries := 0
	err := RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
		tries++
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if tries != 0 {
		t.Fatalf("canceled context must not run the function, got %d tries", tries)
	}
}
