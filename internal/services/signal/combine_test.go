package signal

import (
	"errors"
	"testing"
)

func TestCombineWeighted(t *testing.T) {
	got, err := Combine(80, 50, 100, 100, 0.6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 68 {
		t.Fatalf("expected round(0.6*80+0.4*50)=68, got %d", got)
	}
}

func TestCombineIncompleteData(t *testing.T) {
	if _, err := Combine(80, 50, 0, 100, 0.6); !errors.Is(err, ErrIncompleteData) {
		t.Fatalf("expected ErrIncompleteData for empty short horizon, got %v", err)
	}
	if _, err := Combine(80, 50, 100, 0, 0.6); !errors.Is(err, ErrIncompleteData) {
		t.Fatalf("expected ErrIncompleteData for empty long horizon, got %v", err)
	}
}

func TestCombineBounds(t *testing.T) {
	if got, _ := Combine(0, 0, 1, 1, 0.6); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got, _ := Combine(100, 100, 1, 1, 0.6); got != 100 {
		t.Fatalf("expected 100, got %d", got)
	}
}
