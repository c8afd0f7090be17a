package events

import (
	"encoding/json"
	"fmt"
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
)

// ToggleVote flips the acting user's vote on one option of an open voting
// event. Toggling twice in a row restores the original state.
func ToggleVote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("id")

	var body struct {
		OptionID string `json:"optionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OptionID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	var updated models.FoodOrder
	err := xtxn.WithTxn(r.Context(), func(sessCtx mongo.SessionContext) error {
		var event models.FoodOrder
		if err := db.FoodOrdersCollection.FindOne(sessCtx, bson.M{"id": eventID}).Decode(&event); err != nil {
			return err
		}
		if event.Type != models.EventTypeVoting {
			return ErrVotingClosed
		}

		event, err := toggleVote(event, body.OptionID, userID)
		if err != nil {
			return err
		}

		updated = event
		_, err = db.FoodOrdersCollection.UpdateOne(sessCtx,
			bson.M{"id": eventID}, bson.M{"$set": bson.M{"votingoptions": event.VotingOptions}})
		return err
	})
	if !respondLedgerErr(w, err) {
		return
	}

	live.Publish(live.TopicFoodOrders)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "foodOrder": updated})
}

// AddVotingOption appends an option to an open voting event. The full list
// is read and written back under the transaction, so concurrent appends
// never lose each other.
func AddVotingOption(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("id")

	var body struct {
		Name string `json:"name"`
		Link string `json:"link"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Name == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	var updated models.FoodOrder
	err := xtxn.WithTxn(r.Context(), func(sessCtx mongo.SessionContext) error {
		var event models.FoodOrder
		if err := db.FoodOrdersCollection.FindOne(sessCtx, bson.M{"id": eventID}).Decode(&event); err != nil {
			return err
		}
		if event.Type != models.EventTypeVoting {
			return ErrVotingClosed
		}

		event, err := appendOption(event, body.Name, body.Link, userID)
		if err != nil {
			return err
		}

		updated = event
		_, err = db.FoodOrdersCollection.UpdateOne(sessCtx,
			bson.M{"id": eventID}, bson.M{"$set": bson.M{"votingoptions": event.VotingOptions}})
		return err
	})
	if !respondLedgerErr(w, err) {
		return
	}

	live.Publish(live.TopicFoodOrders)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "foodOrder": updated})
}

// ToggleOrderState opens or closes an event. Reopening a voting event
// re-checks the single-open-vote invariant: it is rejected while any other
// voting event is open.
func ToggleOrderState(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("id")
	userID := utils.GetUserIDFromRequest(r)
	isAdmin := utils.IsAdmin(r)

	var newState bool
	err := xtxn.WithTxn(r.Context(), func(sessCtx mongo.SessionContext) error {
		var event models.FoodOrder
		if err := db.FoodOrdersCollection.FindOne(sessCtx, bson.M{"id": eventID}).Decode(&event); err != nil {
			return err
		}
		if event.CreatorID != userID && !isAdmin {
			return ErrNotPermitted
		}

		newState = !event.IsOpen
		if newState && event.Type == models.EventTypeVoting {
			count, err := db.FoodOrdersCollection.CountDocuments(sessCtx, bson.M{
				"type":   models.EventTypeVoting,
				"isopen": true,
				"id":     bson.M{"$ne": eventID},
			})
			if err != nil {
				return err
			}
			if reopenBlocked(event, newState, count) {
				return ErrAnotherVoteActive
			}
		}

		_, err := db.FoodOrdersCollection.UpdateOne(sessCtx,
			bson.M{"id": eventID}, bson.M{"$set": bson.M{"isopen": newState}})
		return err
	})
	if !respondLedgerErr(w, err) {
		return
	}

	live.Publish(live.TopicFoodOrders)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "isOpen": newState})
}

// CreateOrderFromVote closes the voting event and opens a new order seeded
// from the chosen option, atomically across both documents. The option is
// taken on trust: no re-check that it actually holds the most votes.
func CreateOrderFromVote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("id")

	var body struct {
		OptionID string `json:"optionId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.OptionID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)

	var created models.FoodOrder
	err := xtxn.WithTxn(r.Context(), func(sessCtx mongo.SessionContext) error {
		var event models.FoodOrder
		if err := db.FoodOrdersCollection.FindOne(sessCtx, bson.M{"id": eventID}).Decode(&event); err != nil {
			return err
		}
		if event.Type != models.EventTypeVoting {
			return ErrOptionNotFound
		}

		var winning *models.VotingOption
		for i := range event.VotingOptions {
			if event.VotingOptions[i].ID == body.OptionID {
				winning = &event.VotingOptions[i]
				break
			}
		}
		if winning == nil {
			return ErrOptionNotFound
		}

		if _, err := db.FoodOrdersCollection.UpdateOne(sessCtx,
			bson.M{"id": eventID}, bson.M{"$set": bson.M{"isopen": false}}); err != nil {
			return err
		}

		created = models.FoodOrder{
			ID:          utils.GetUUID(),
			CreatorID:   userID,
			CompanyName: winning.Name,
			Link:        winning.Link,
			Type:        models.EventTypeOrder,
			IsOpen:      true,
			CreatedAt:   time.Now(),
			Description: fmt.Sprintf("Utworzone z głosowania: %q", event.CompanyName),
			Orders:      []models.OrderItem{},
		}
		_, err := db.FoodOrdersCollection.InsertOne(sessCtx, created)
		return err
	})
	if !respondLedgerErr(w, err) {
		return
	}

	live.Publish(live.TopicFoodOrders)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "foodOrder": created})
}
