// Command loadtest drives a running relay with N websocket clients that
// join one room and chat at a fixed rate, then reports how many frames
// came back.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

type envelope struct {
	Event string          `json:"event"`
	Body  json.RawMessage `json:"body,omitempty"`
}

func main() {
	addr := flag.String("addr", "localhost:3000", "relay host:port")
	room := flag.String("room", "loadtest", "room to join")
	conns := flag.Int("conns", 5, "concurrent connections")
	messages := flag.Int("messages", 10, "chat messages per connection")
	interval := flag.Duration("interval", 200*time.Millisecond, "delay between messages")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}

	var received atomic.Int64
	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < *conns; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			username := fmt.Sprintf("loadtest-%d", n)
			if err := runClient(u.String(), *room, username, *messages, *interval, &received); err != nil {
				log.Printf("client %d: %v", n, err)
			}
		}(i)
	}
	wg.Wait()

	log.Printf("%d connections, %d frames received in %s",
		*conns, received.Load(), time.Since(start).Round(time.Millisecond))
}

func runClient(endpoint, room, username string, messages int, interval time.Duration, received *atomic.Int64) error {
	conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var env envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			received.Add(1)
		}
	}()

	join := map[string]any{
		"event": "join",
		"body":  map[string]string{"username": username, "room": room},
	}
	if err := conn.WriteJSON(join); err != nil {
		return err
	}

	for i := 0; i < messages; i++ {
		msg := map[string]any{
			"event": "sendMessage",
			"body":  fmt.Sprintf("%s says hello %d", username, i),
		}
		if err := conn.WriteJSON(msg); err != nil {
			return err
		}
		time.Sleep(interval)
	}

	// Let stragglers arrive, then close politely.
	time.Sleep(500 * time.Millisecond)
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return nil
}
