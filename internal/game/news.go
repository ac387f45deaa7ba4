package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// News feed bounds: once the log grows past newsCap only the last newsKeep survive.
const (
	newsCap  = 100
	newsKeep = 50
)

// NotificationKind classifies an outbound event.
type NotificationKind string

const (
	NotePurchase    NotificationKind = "purchase"
	NoteReset       NotificationKind = "reset"
	NoteAchievement NotificationKind = "achievement"
	NoteAnomaly     NotificationKind = "anomaly"
)

// Notification is one textual event of the outbound stream.
type Notification struct {
	ID      uuid.UUID        `json:"id"`
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
	At      time.Time        `json:"at"`
}

// NewsFeed is a bounded in-memory event log with fan-out to subscribers.
// Publishing never blocks: a subscriber whose buffer is full misses the event.
type NewsFeed struct {
	mu    sync.Mutex
	items []Notification
	subs  map[chan Notification]struct{}
}

func NewNewsFeed() *NewsFeed {
	return &NewsFeed{subs: make(map[chan Notification]struct{})}
}

// Publish appends a notification and forwards it to every subscriber.
func (f *NewsFeed) Publish(kind NotificationKind, msg string, at time.Time) Notification {
	n := Notification{ID: uuid.New(), Kind: kind, Message: msg, At: at}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = append(f.items, n)
	if len(f.items) > newsCap {
		f.items = append([]Notification(nil), f.items[len(f.items)-newsKeep:]...)
	}
	for ch := range f.subs {
		select {
		case ch <- n:
		default:
		}
	}
	return n
}

// Recent returns up to limit of the latest notifications, oldest first. limit <= 0 means all.
func (f *NewsFeed) Recent(limit int) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := f.items
	if limit > 0 && len(items) > limit {
		items = items[len(items)-limit:]
	}
	return append([]Notification(nil), items...)
}

// Subscribe registers a listener with the given buffer size.
// The returned cancel func unregisters and closes the channel.
func (f *NewsFeed) Subscribe(buffer int) (<-chan Notification, func()) {
	ch := make(chan Notification, buffer)
	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
}
