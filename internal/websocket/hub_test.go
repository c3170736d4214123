package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"jariyah/internal/models"
)

func receive(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatal("send channel closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for alert")
	}
	return nil
}

func TestHub_DeliversToEveryClientOfUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	a := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: "u1"}
	b := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: "u1"}
	other := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: "u2"}
	hub.Register <- a
	hub.Register <- b
	hub.Register <- other

	hub.Publish(models.ImpactAlert{UserID: "u1", TotalDonated: decimal.NewFromInt(60), Tier: "Supporter"})

	for _, c := range []*Client{a, b} {
		var got map[string]any
		if err := json.Unmarshal(receive(t, c.Send), &got); err != nil {
			t.Fatalf("alert is not json: %v", err)
		}
		if got["tier"] != "Supporter" {
			t.Errorf("alert = %v", got)
		}
		if _, ok := got["UserID"]; ok {
			t.Error("alert leaks the user id")
		}
	}
	select {
	case msg := <-other.Send:
		t.Errorf("u2 received %s", msg)
	default:
	}
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	hub := NewHub()
	go hub.Run(ctx)

	c := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: "u1"}
	hub.Register <- c
	hub.Unregister <- c
	// a second unregister from the read pump must not double close
	hub.Unregister <- c

	select {
	case _, ok := <-c.Send:
		if ok {
			t.Error("Send still open after unregister")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Send was not closed")
	}
}

func TestHub_StoppedHubRefusesClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub()
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: "u1"}
	if !hub.Join(c) {
		t.Fatal("Join() = false on a running hub")
	}
	cancel()
	<-stopped

	if _, ok := <-c.Send; ok {
		t.Error("Send still open after the hub stopped")
	}

	late := &Client{Hub: hub, Send: make(chan []byte, 1), UserID: "u2"}
	joined := make(chan bool, 1)
	go func() {
		ok := hub.Join(late)
		hub.Leave(c)
		joined <- ok
	}()
	select {
	case ok := <-joined:
		if ok {
			t.Error("Join() = true on a stopped hub")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Join or Leave blocked on a stopped hub")
	}
}

func TestHub_PublishDoesNotBlock(t *testing.T) {
	hub := NewHub()
	done := make(chan struct{})
	go func() {
		for i := 0; i < cap(hub.BroadcastAlert)+5; i++ {
			hub.Publish(models.ImpactAlert{UserID: "u1"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked with no hub running")
	}
}
