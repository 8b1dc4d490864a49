package live

import (
	"encoding/json"
	"testing"
	"time"

	"shoestore/models"
	"shoestore/mq"
)

func TestHubRegisterDeliverUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{
		Send:  make(chan []byte, 10),
		Topic: TopicOrders,
	}
	hub.register <- client

	hub.Deliver(mq.Event{Type: mq.OrderCreated, OrderID: "o1", Status: models.OrderPending, Total: 300})

	select {
	case got := <-client.Send:
		var payload map[string]any
		if err := json.Unmarshal(got, &payload); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if payload["orderId"] != "o1" || payload["label"] != "قيد الانتظار" || payload["color"] != "yellow" {
			t.Fatalf("unexpected payload %s", got)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("timeout waiting for message")
	}

	hub.unregister <- client

	deadline := time.Now().Add(time.Second)
	for hub.Clients(TopicOrders) != 0 {
		if time.Now().After(deadline) {
			t.Fatal("client still registered")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if _, ok := <-client.Send; ok {
		t.Fatal("send channel should be closed after unregister")
	}
}

func TestHubIgnoresOtherTopics(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := &Client{Send: make(chan []byte, 1), Topic: "elsewhere"}
	hub.register <- client
	hub.Deliver(mq.Event{Type: mq.OrderCreated, OrderID: "o2", Status: models.OrderPending})

	select {
	case got := <-client.Send:
		t.Fatalf("unexpected message %s", got)
	case <-time.After(100 * time.Millisecond):
	}
}
