package services

import (
	"testing"

	"loyaltyProject/models"
)

func TestChangeFeedPublish(t *testing.T) {
	feed := NewChangeFeed[models.Category]()

	var received []ChangeEvent[models.Category]
	unsubscribe := feed.Subscribe(func(e ChangeEvent[models.Category]) {
		received = append(received, e)
	})
	defer unsubscribe()

	// Публикуем вставку и удаление
	feed.Publish(ChangeEvent[models.Category]{
		Kind: ChangeInsert,
		Row:  models.Category{ID: 1, Name: "drinks"},
		Key:  1,
	})
	feed.Publish(ChangeEvent[models.Category]{Kind: ChangeDelete, Key: 1})

	if len(received) != 2 {
		t.Fatalf("received events: got %d want %d", len(received), 2)
	}
	if received[0].Kind != ChangeInsert || received[0].Row.Name != "drinks" {
		t.Errorf("first event: got %+v", received[0])
	}
	if received[1].Kind != ChangeDelete || received[1].Key != 1 {
		t.Errorf("second event: got %+v", received[1])
	}
}

func TestChangeFeedUnsubscribe(t *testing.T) {
	feed := NewChangeFeed[models.Category]()

	count := 0
	unsubscribe := feed.Subscribe(func(e ChangeEvent[models.Category]) {
		count++
	})

	feed.Publish(ChangeEvent[models.Category]{Kind: ChangeInsert, Key: 1})

	// После отписки события не доставляются
	unsubscribe()
	feed.Publish(ChangeEvent[models.Category]{Kind: ChangeInsert, Key: 2})

	if count != 1 {
		t.Errorf("events after unsubscribe: got %d want %d", count, 1)
	}
	if feed.Len() != 0 {
		t.Errorf("feed.Len: got %d want %d", feed.Len(), 0)
	}
}

func TestChangeFeedMultipleSubscribers(t *testing.T) {
	feed := NewChangeFeed[models.Category]()

	first, second := 0, 0
	unsubFirst := feed.Subscribe(func(e ChangeEvent[models.Category]) { first++ })
	defer unsubFirst()
	unsubSecond := feed.Subscribe(func(e ChangeEvent[models.Category]) { second++ })
	defer unsubSecond()

	feed.Publish(ChangeEvent[models.Category]{Kind: ChangeUpdate, Key: 5})

	// Событие доставляется каждому подписчику
	if first != 1 || second != 1 {
		t.Errorf("delivery: got first=%d second=%d want 1/1", first, second)
	}
	if feed.Len() != 2 {
		t.Errorf("feed.Len: got %d want %d", feed.Len(), 2)
	}
}
