package live

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"prakthub/db"
	"prakthub/middleware"
	"prakthub/models"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection topics a client may subscribe to. Each committed ledger write
// publishes its topic and every subscriber gets a fresh full snapshot;
// consumers diff against their previous snapshot themselves.
const (
	TopicReservations = "reservations"
	TopicFoodOrders   = "foodorders"
	TopicUsers        = "users"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; adjust for production if needed
		return true
	},
}

var (
	subscribers = make(map[string][]*websocket.Conn)
	mu          sync.Mutex
)

type snapshotMsg struct {
	Collection string      `json:"collection"`
	Items      interface{} `json:"items"`
}

func validTopic(topic string) bool {
	return topic == TopicReservations || topic == TopicFoodOrders || topic == TopicUsers
}

// HandleWS upgrades the connection, pushes the current snapshot, then holds
// the socket open until the client disconnects. A closed subscription is not
// restartable; clients reconnect to resubscribe.
func HandleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	topic := ps.ByName("collection")
	if !validTopic(topic) {
		http.Error(w, "unknown collection", http.StatusNotFound)
		return
	}

	// Browsers cannot set headers on WebSocket requests, so the token
	// travels as a query parameter. Guest tokens are accepted.
	claims, err := middleware.ValidateJWT(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	// The upgrader writes its own error response on failure.
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("live: upgrade failed: %v", err)
		return
	}

	if data, err := snapshot(topic); err == nil {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			return
		}
	}

	mu.Lock()
	subscribers[topic] = append(subscribers[topic], conn)
	mu.Unlock()
	log.Printf("live: %s subscribed to %s", claims.UserID, topic)

	for {
		// Keeps the connection alive until the client disconnects
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	mu.Lock()
	conns := subscribers[topic]
	newList := make([]*websocket.Conn, 0, len(conns))
	for _, c := range conns {
		if c != conn {
			newList = append(newList, c)
		}
	}
	subscribers[topic] = newList
	mu.Unlock()

	conn.Close()
}

// Publish pushes a fresh snapshot of the topic's collection to all
// subscribers. Ledger handlers call this after a committed write, never
// inside the transaction body.
func Publish(topic string) {
	mu.Lock()
	n := len(subscribers[topic])
	mu.Unlock()
	if n == 0 {
		return
	}

	data, err := snapshot(topic)
	if err != nil {
		log.Printf("live: snapshot %s failed: %v", topic, err)
		return
	}
	broadcast(topic, data)
}

func broadcast(topic string, val []byte) {
	mu.Lock()
	defer mu.Unlock()

	conns := subscribers[topic]
	newList := conns[:0]

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, val); err == nil {
			newList = append(newList, conn)
		} else {
			conn.Close()
		}
	}

	subscribers[topic] = newList
}

func snapshot(topic string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var items interface{}
	var err error
	switch topic {
	case TopicReservations:
		items, err = readAll[models.ReservationDay](ctx, db.ReservationsCollection, nil)
	case TopicFoodOrders:
		items, err = readAll[models.FoodOrder](ctx, db.FoodOrdersCollection,
			options.Find().SetSort(bson.M{"createdat": -1}))
	case TopicUsers:
		items, err = readAll[models.PublicUser](ctx, db.UserCollection, nil)
	}
	if err != nil {
		return nil, err
	}
	return json.Marshal(snapshotMsg{Collection: topic, Items: items})
}

func readAll[T any](ctx context.Context, coll *mongo.Collection, opts *options.FindOptions) ([]T, error) {
	var cur *mongo.Cursor
	var err error
	if opts != nil {
		cur, err = coll.Find(ctx, bson.M{}, opts)
	} else {
		cur, err = coll.Find(ctx, bson.M{})
	}
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []T{}
	for cur.Next(ctx) {
		var item T
		if err := cur.Decode(&item); err != nil {
			continue
		}
		items = append(items, item)
	}
	return items, cur.Err()
}
