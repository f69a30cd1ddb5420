package session

import (
	"context"
	"fmt"
	"testing"

	"comps_backend/internal/feature/chat/domain/entity"
	"comps_backend/internal/feature/chat/usecase"
)

func TestMemoryConversationStore_RoundTrip(t *testing.T) {
	store := NewMemoryConversationStore()
	ctx := context.Background()

	turns, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != 0 {
		t.Fatalf("expected empty history, got %d turns", len(turns))
	}

	if err := store.Append(ctx, "s1", entity.ConversationTurn{User: "hello", Assistant: "hi"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	turns, err = store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if turns[0].User != "hello" || turns[0].Assistant != "hi" {
		t.Errorf("unexpected turn: %+v", turns[0])
	}
}

func TestMemoryConversationStore_TrimsToMaxHistoryTurns(t *testing.T) {
	store := NewMemoryConversationStore()
	ctx := context.Background()

	for i := 0; i < usecase.MaxHistoryTurns+3; i++ {
		turn := entity.ConversationTurn{User: fmt.Sprintf("q%d", i), Assistant: fmt.Sprintf("a%d", i)}
		if err := store.Append(ctx, "s1", turn); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	turns, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != usecase.MaxHistoryTurns {
		t.Fatalf("expected %d turns, got %d", usecase.MaxHistoryTurns, len(turns))
	}
	// 最古のターンが切り捨てられていること
	if turns[0].User != "q3" {
		t.Errorf("expected oldest kept turn q3, got %q", turns[0].User)
	}
	if turns[len(turns)-1].User != fmt.Sprintf("q%d", usecase.MaxHistoryTurns+2) {
		t.Errorf("unexpected newest turn: %q", turns[len(turns)-1].User)
	}
}

func TestMemoryConversationStore_SessionsAreIsolated(t *testing.T) {
	store := NewMemoryConversationStore()
	ctx := context.Background()

	if err := store.Append(ctx, "s1", entity.ConversationTurn{User: "one"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(ctx, "s2", entity.ConversationTurn{User: "two"}); err != nil {
		t.Fatal(err)
	}

	turns, _ := store.History(ctx, "s2")
	if len(turns) != 1 || turns[0].User != "two" {
		t.Errorf("unexpected history for s2: %+v", turns)
	}
}

func TestMemoryConversationStore_Clear(t *testing.T) {
	store := NewMemoryConversationStore()
	ctx := context.Background()

	if err := store.Append(ctx, "s1", entity.ConversationTurn{User: "hello"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(ctx, "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	turns, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(turns) != 0 {
		t.Errorf("expected empty history after clear, got %d turns", len(turns))
	}
}
