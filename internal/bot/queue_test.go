package bot

import (
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
)

func TestUserQueues_KeepsArrivalOrder(t *testing.T) {
	queues := newUserQueues()

	var mu sync.Mutex
	var handled []int
	run := func(u tgbotapi.Update) {
		// the first update is the slowest; later ones must still wait for it
		if u.UpdateID == 0 {
			time.Sleep(20 * time.Millisecond)
		}
		mu.Lock()
		handled = append(handled, u.UpdateID)
		mu.Unlock()
	}

	for i := 0; i < 5; i++ {
		queues.push(1, tgbotapi.Update{UpdateID: i}, run)
	}
	queues.wait()

	assert.Equal(t, []int{0, 1, 2, 3, 4}, handled)
	assert.Zero(t, queues.size(), "idle queues are released")
}

func TestUserQueues_IndependentUsers(t *testing.T) {
	queues := newUserQueues()
	release := make(chan struct{})
	done := make(chan struct{})

	queues.push(1, tgbotapi.Update{}, func(tgbotapi.Update) { <-release })
	queues.push(2, tgbotapi.Update{}, func(tgbotapi.Update) { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("user 2 was blocked by user 1")
	}
	close(release)
	queues.wait()
}

func TestSenderID(t *testing.T) {
	assert.Equal(t, int64(5), senderID(textUpdate(5, "hi")))
	assert.Equal(t, int64(6), senderID(callbackUpdate(6, "x")))
	assert.Zero(t, senderID(tgbotapi.Update{}))
}
