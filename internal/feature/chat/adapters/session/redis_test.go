package session

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/go-redis/redismock/v9"

	"comps_backend/internal/feature/chat/domain/entity"
)

func TestRedisConversationStore_HistoryEmptyOnMiss(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisConversationStore(rdb, "chat")

	mock.ExpectGet("chat:history:s1").RedisNil()

	turns, err := store.History(context.Background(), "s1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if turns == nil || len(turns) != 0 {
		t.Errorf("expected empty slice, got %v", turns)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

func TestRedisConversationStore_AppendStoresWithTTL(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisConversationStore(rdb, "chat")

	turn := entity.ConversationTurn{User: "hello", Assistant: "hi"}
	data, err := json.Marshal([]entity.ConversationTurn{turn})
	if err != nil {
		t.Fatal(err)
	}

	mock.ExpectGet("chat:history:s1").RedisNil()
	mock.ExpectSet("chat:history:s1", data, DefaultTTL).SetVal("OK")

	if err := store.Append(context.Background(), "s1", turn); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

func TestRedisConversationStore_AppendTrimsHistory(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisConversationStore(rdb, "chat")

	existing := make([]entity.ConversationTurn, 10)
	for i := range existing {
		existing[i] = entity.ConversationTurn{User: "old"}
	}
	existingData, err := json.Marshal(existing)
	if err != nil {
		t.Fatal(err)
	}

	trimmed := append(existing[1:], entity.ConversationTurn{User: "new"})
	trimmedData, err := json.Marshal(trimmed)
	if err != nil {
		t.Fatal(err)
	}

	mock.ExpectGet("chat:history:s1").SetVal(string(existingData))
	mock.ExpectSet("chat:history:s1", trimmedData, DefaultTTL).SetVal("OK")

	if err := store.Append(context.Background(), "s1", entity.ConversationTurn{User: "new"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}

func TestRedisConversationStore_HistoryCorruptedPayload(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisConversationStore(rdb, "chat")

	mock.ExpectGet("chat:history:s1").SetVal("not json")

	if _, err := store.History(context.Background(), "s1"); err == nil {
		t.Error("expected unmarshal error for corrupted payload")
	}
}

func TestRedisConversationStore_Clear(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisConversationStore(rdb, "chat")

	mock.ExpectDel("chat:history:s1").SetVal(1)

	if err := store.Clear(context.Background(), "s1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet redis expectations: %v", err)
	}
}
