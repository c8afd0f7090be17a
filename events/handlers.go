package events

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"prakthub/db"
	"prakthub/live"
	"prakthub/models"
	"prakthub/utils"
	"prakthub/xtxn"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type newEventPayload struct {
	CompanyName string `json:"companyName"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"` // RFC 3339, optional

	// Order specific
	Link               string `json:"link"`
	CreatorPhoneNumber string `json:"creatorPhoneNumber"`

	// Voting specific
	VotingOptions []struct {
		Name string `json:"name"`
		Link string `json:"link"`
	} `json:"votingOptions"`
}

func parseDeadline(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func ListFoodOrders(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cur, err := db.FoodOrdersCollection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdat": -1}))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	orders := []models.FoodOrder{}
	for cur.Next(ctx) {
		var o models.FoodOrder
		cur.Decode(&o)
		orders = append(orders, o)
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"foodOrders": orders})
}

func GetFoodOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var order models.FoodOrder
	if err := db.FoodOrdersCollection.FindOne(ctx, bson.M{"id": ps.ByName("id")}).Decode(&order); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"foodOrder": order})
}

// CreateFoodOrder opens a new order or voting event. Opening a vote closes
// every currently open vote in the same transaction, so the single-open-vote
// invariant holds at every committed state.
func CreateFoodOrder(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var p newEventPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if p.CompanyName == "" {
		http.Error(w, "missing companyName", http.StatusBadRequest)
		return
	}
	if p.Type != models.EventTypeOrder && p.Type != models.EventTypeVoting {
		http.Error(w, "type must be order or voting", http.StatusBadRequest)
		return
	}
	deadline, ok := parseDeadline(p.Deadline)
	if !ok {
		http.Error(w, "invalid deadline", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	event := models.FoodOrder{
		ID:          utils.GetUUID(),
		CreatorID:   userID,
		CompanyName: p.CompanyName,
		Type:        p.Type,
		IsOpen:      true,
		CreatedAt:   time.Now(),
		Deadline:    deadline,
		Description: p.Description,
		Orders:      []models.OrderItem{},
	}

	if p.Type == models.EventTypeVoting {
		opts := make([]models.VotingOption, 0, len(p.VotingOptions))
		for _, o := range p.VotingOptions {
			opts = append(opts, models.VotingOption{
				ID:        utils.GetUUID(),
				Name:      o.Name,
				Link:      o.Link,
				Votes:     []string{},
				AddedByID: userID,
			})
		}
		event.VotingOptions = opts
	} else {
		event.Link = p.Link
		event.CreatorPhoneNumber = p.CreatorPhoneNumber
	}

	err := xtxn.WithTxn(r.Context(), func(sessCtx mongo.SessionContext) error {
		if event.Type == models.EventTypeVoting {
			cur, err := db.FoodOrdersCollection.Find(sessCtx,
				bson.M{"type": models.EventTypeVoting, "isopen": true})
			if err != nil {
				return err
			}
			var open []models.FoodOrder
			if err := cur.All(sessCtx, &open); err != nil {
				return err
			}
			if ids := displacedVotes(event, open); len(ids) > 0 {
				_, err := db.FoodOrdersCollection.UpdateMany(sessCtx,
					bson.M{"id": bson.M{"$in": ids}},
					bson.M{"$set": bson.M{"isopen": false}})
				if err != nil {
					return err
				}
			}
		}
		_, err := db.FoodOrdersCollection.InsertOne(sessCtx, event)
		return err
	})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	live.Publish(live.TopicFoodOrders)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "foodOrder": event})
}

// EditFoodOrder updates event metadata. For voting events the option list is
// rebuilt with votes preserved for options whose name did not change.
func EditFoodOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("id")

	var p newEventPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	deadline, ok := parseDeadline(p.Deadline)
	if !ok {
		http.Error(w, "invalid deadline", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	isAdmin := utils.IsAdmin(r)

	var updated models.FoodOrder
	err := xtxn.WithTxn(r.Context(), func(sessCtx mongo.SessionContext) error {
		var event models.FoodOrder
		if err := db.FoodOrdersCollection.FindOne(sessCtx, bson.M{"id": eventID}).Decode(&event); err != nil {
			return err
		}
		if event.CreatorID != userID && !isAdmin {
			return ErrNotPermitted
		}

		if p.CompanyName != "" {
			event.CompanyName = p.CompanyName
		}
		event.Description = p.Description
		event.Deadline = deadline

		if event.Type == models.EventTypeVoting {
			edited := make([]models.VotingOption, 0, len(p.VotingOptions))
			for _, o := range p.VotingOptions {
				edited = append(edited, models.VotingOption{Name: o.Name, Link: o.Link})
			}
			event.VotingOptions = rebuildOptions(event, edited, userID)
		} else {
			if p.Link != "" {
				event.Link = p.Link
			}
			if p.CreatorPhoneNumber != "" {
				event.CreatorPhoneNumber = p.CreatorPhoneNumber
			}
		}

		updated = event
		_, err := db.FoodOrdersCollection.ReplaceOne(sessCtx, bson.M{"id": eventID}, event)
		return err
	})
	if !respondLedgerErr(w, err) {
		return
	}

	live.Publish(live.TopicFoodOrders)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "foodOrder": updated})
}

func DeleteFoodOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("id")
	userID := utils.GetUserIDFromRequest(r)
	isAdmin := utils.IsAdmin(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var event models.FoodOrder
	if err := db.FoodOrdersCollection.FindOne(ctx, bson.M{"id": eventID}).Decode(&event); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	if event.CreatorID != userID && !isAdmin {
		http.Error(w, "not permitted", http.StatusForbidden)
		return
	}

	if _, err := db.FoodOrdersCollection.DeleteOne(ctx, bson.M{"id": eventID}); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	live.Publish(live.TopicFoodOrders)
	w.WriteHeader(http.StatusNoContent)
}

// MyOrderDetails returns the acting user's most recent order link and phone
// number, used by clients to prefill the next order form.
func MyOrderDetails(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var latest models.FoodOrder
	err := db.FoodOrdersCollection.FindOne(ctx,
		bson.M{"creatorid": userID, "type": models.EventTypeOrder},
		options.FindOne().SetSort(bson.M{"createdat": -1}),
	).Decode(&latest)
	if err != nil {
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"details": nil})
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"details": map[string]string{
			"link":               latest.Link,
			"creatorPhoneNumber": latest.CreatorPhoneNumber,
		},
	})
}
