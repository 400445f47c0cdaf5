package bot

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// userQueues runs each user's updates one after another in arrival order.
// A drain goroutine exists only while a user has queued updates.
type userQueues struct {
	mu      sync.Mutex
	pending map[int64][]tgbotapi.Update
	wg      sync.WaitGroup
}

func newUserQueues() *userQueues {
	return &userQueues{pending: make(map[int64][]tgbotapi.Update)}
}

// push queues update for userID and returns without waiting for run
func (q *userQueues) push(userID int64, update tgbotapi.Update, run func(tgbotapi.Update)) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if queued, busy := q.pending[userID]; busy {
		q.pending[userID] = append(queued, update)
		return
	}
	q.pending[userID] = []tgbotapi.Update{update}
	q.wg.Add(1)
	go q.drain(userID, run)
}

func (q *userQueues) drain(userID int64, run func(tgbotapi.Update)) {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		queued := q.pending[userID]
		if len(queued) == 0 {
			delete(q.pending, userID)
			q.mu.Unlock()
			return
		}
		next := queued[0]
		q.pending[userID] = queued[1:]
		q.mu.Unlock()

		run(next)
	}
}

// wait blocks until every queued update has been handled
func (q *userQueues) wait() {
	q.wg.Wait()
}

func (q *userQueues) size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// senderID returns the user an update belongs to, or 0
func senderID(update tgbotapi.Update) int64 {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID
	}
	return 0
}
