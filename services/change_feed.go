package services

import (
	"sync"
)

// ChangeKind представляет вид изменения
type ChangeKind string

const (
	ChangeInsert ChangeKind = "INSERT"
	ChangeUpdate ChangeKind = "UPDATE"
	ChangeDelete ChangeKind = "DELETE"
)

// ChangeEvent представляет типизированное событие изменения строки.
// Для INSERT и UPDATE заполнено поле Row, для DELETE - только Key.
type ChangeEvent[T any] struct {
	Kind ChangeKind
	Row  T
	Key  uint
}

// ChangeFeed представляет внутрипроцессную ленту изменений одной сущности.
// Подписка возвращает функцию отписки - время жизни подписки задается явно
// вызывающей стороной, а не жизненным циклом представления.
type ChangeFeed[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(ChangeEvent[T])
}

// NewChangeFeed создает новую ленту изменений
func NewChangeFeed[T any]() *ChangeFeed[T] {
	return &ChangeFeed[T]{
		subs: make(map[int]func(ChangeEvent[T])),
	}
}

// Subscribe регистрирует обработчик событий и возвращает функцию отписки
func (f *ChangeFeed[T]) Subscribe(handler func(ChangeEvent[T])) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.nextID
	f.nextID++
	f.subs[id] = handler

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

// Publish доставляет событие всем подписчикам синхронно, в порядке регистрации не гарантируется
func (f *ChangeFeed[T]) Publish(event ChangeEvent[T]) {
	f.mu.Lock()
	handlers := make([]func(ChangeEvent[T]), 0, len(f.subs))
	for _, h := range f.subs {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()

	for _, h := range handlers {
		h(event)
	}
}

// Len возвращает число активных подписок
func (f *ChangeFeed[T]) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
