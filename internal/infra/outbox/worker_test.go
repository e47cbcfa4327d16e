package outbox

import (
	"testing"
	"time"
)

func TestTopicFor(t *testing.T) {
	tests := []struct {
		name  string
		event string
		want  string
	}{
		{"booking event", "booking.reservation_requested", "booking.events.v1"},
		{"listing event", "listings.pricing_updated", "listings.events.v1"},
		{"no dot", "heartbeat", "heartbeat.events.v1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := topicFor(tt.event); got != tt.want {
				t.Fatalf("topicFor(%q) = %q, want %q", tt.event, got, tt.want)
			}
		})
	}
}

func TestNextRetryFollowsBackoffSchedule(t *testing.T) {
	w := &Worker{Backoff: []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}}

	before := time.Now()
	for attempts, want := range map[int]time.Duration{
		0: time.Second,
		1: 5 * time.Second,
		2: 30 * time.Second,
		9: 30 * time.Second, // saturates at the last step
	} {
		got := w.nextRetry(attempts)
		delay := got.Sub(before)
		if delay < want || delay > want+time.Second {
			t.Fatalf("attempt %d: delay %v, want about %v", attempts, delay, want)
		}
	}

	none := &Worker{}
	if d := none.nextRetry(3).Sub(before); d < 4*time.Second {
		t.Fatalf("default retry too aggressive: %v", d)
	}
}
