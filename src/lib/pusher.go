package lib

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/pusher/pusher-http-go/v5"
)

var pusherClient *pusher.Client

func GetPusherClient() *pusher.Client {
	if pusherClient != nil {
		return pusherClient
	}
	pusherClient = &pusher.Client{
		AppID:   os.Getenv("PUSHER_APP_ID"),
		Key:     os.Getenv("PUSHER_KEY"),
		Secret:  os.Getenv("PUSHER_SECRET"),
		Cluster: os.Getenv("PUSHER_CLUSTER"),
	}
	return pusherClient
}

func NewPusherClient(c *pusher.Client) *pusher.Client {
	pusherClient = c
	return pusherClient
}

// TripChannel names the realtime channel clients subscribe to for one
// trip's seat inventory.
func TripChannel(tripID uint) string {
	return fmt.Sprintf("trip-%d-seats", tripID)
}

// BroadcastSeatUpdate pushes one incremental seat-state change to a trip's
// channel. Failures are logged, not returned: the poll backstop covers
// missed events.
func BroadcastSeatUpdate(tripID uint, seatCode string, available bool, heldBy uint) {
	client := GetPusherClient()
	data := map[string]any{
		"trip_id":   tripID,
		"seat_code": seatCode,
		"available": available,
	}
	if heldBy > 0 {
		data["held_by"] = heldBy
	}
	if err := client.Trigger(TripChannel(tripID), "seat-update", data); err != nil {
		log.Printf("[pusher] Error broadcasting seat update for trip %d: %s\n", tripID, err.Error())
	}
	// Mirror on redis pub/sub for in-process subscribers.
	payload, _ := json.Marshal(data)
	rdb := GetRedisClient()
	if err := rdb.Publish(context.Background(), TripChannel(tripID), payload).Err(); err != nil {
		log.Printf("[redis] Error publishing seat update for trip %d: %s\n", tripID, err.Error())
	}
}
