// Command notifyclient connects to the notification websocket of one user,
// prints every achievement it receives and acknowledges it.
package main

import (
	"flag"
	"log"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Message struct {
	Type    string          `json:"type"`
	ID      *uuid.UUID      `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func main() {
	url := flag.String("url", "ws://localhost:8080/api/v1/notifications/5060715466/ws", "notification websocket url")
	initData := flag.String("init-data", "", "Telegram init data of the user")
	noAck := flag.Bool("no-ack", false, "print without acknowledging")
	flag.Parse()

	header := http.Header{}
	header.Add("Authorization", "Telegram "+*initData)

	conn, _, err := websocket.DefaultDialer.Dial(*url, header)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer conn.Close()

	for {
		_, p, err := conn.ReadMessage()
		if err != nil {
			log.Println("read error:", err)
			return
		}
		log.Printf("Received:\n%s\n", p)

		var msg Message
		if err := json.Unmarshal(p, &msg); err != nil {
			log.Println("json unmarshal error:", err)
			continue
		}
		if msg.Type != "achievement" || msg.ID == nil || *noAck {
			continue
		}

		ack, err := json.Marshal(Message{Type: "ack", ID: msg.ID})
		if err != nil {
			log.Println("json marshal error:", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, ack); err != nil {
			log.Println("write error:", err)
			return
		}
	}
}
