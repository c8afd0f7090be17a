package events

import (
	"encoding/json"
	"net/http"

	"prakthub/db"
	"prakthub/live"
	"prakthub/models"
	"prakthub/utils"
	"prakthub/xtxn"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AddOrderItem appends a line item to an open order. This is the one
// mutation guests may perform, and only with a guest name attached. The
// isOpen check runs inside the transaction so a concurrent close cannot
// slip an item into a closed order.
func AddOrderItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("id")

	var body struct {
		Name      string  `json:"name"`
		Details   string  `json:"details"`
		Price     float64 `json:"price"`
		GuestName string  `json:"guestName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if body.Name == "" || body.Price < 0 {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if utils.IsGuest(r) && body.GuestName == "" {
		http.Error(w, "guest orders need a guestName", http.StatusForbidden)
		return
	}

	var updated models.FoodOrder
	err := xtxn.WithTxn(r.Context(), func(sessCtx mongo.SessionContext) error {
		var event models.FoodOrder
		if err := db.FoodOrdersCollection.FindOne(sessCtx, bson.M{"id": eventID}).Decode(&event); err != nil {
			return err
		}

		item := models.OrderItem{Name: body.Name, Details: body.Details, Price: body.Price}
		event, err := appendItem(event, item, userID, body.GuestName)
		if err != nil {
			return err
		}

		updated = event
		_, err = db.FoodOrdersCollection.UpdateOne(sessCtx,
			bson.M{"id": eventID}, bson.M{"$set": bson.M{"orders": event.Orders}})
		return err
	})
	if !respondLedgerErr(w, err) {
		return
	}

	live.Publish(live.TopicFoodOrders)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "foodOrder": updated})
}

// RemoveOrderItem deletes a line item when the actor is the event creator,
// an admin, or the item's owner. Authorization is decided inside the
// transaction, against the state being written.
func RemoveOrderItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("id")
	itemID := ps.ByName("itemid")
	userID := utils.GetUserIDFromRequest(r)
	isAdmin := utils.IsAdmin(r)

	removed := false
	err := xtxn.WithTxn(r.Context(), func(sessCtx mongo.SessionContext) error {
		var event models.FoodOrder
		if err := db.FoodOrdersCollection.FindOne(sessCtx, bson.M{"id": eventID}).Decode(&event); err != nil {
			return err
		}

		event, removed = removeItem(event, itemID, userID, isAdmin)
		if !removed {
			// No write; report "not permitted" instead of silently succeeding.
			return nil
		}

		_, err := db.FoodOrdersCollection.UpdateOne(sessCtx,
			bson.M{"id": eventID}, bson.M{"$set": bson.M{"orders": event.Orders}})
		return err
	})
	if !respondLedgerErr(w, err) {
		return
	}

	if !removed {
		utils.RespondWithJSON(w, http.StatusForbidden, map[string]interface{}{"ok": false, "reason": "not-permitted"})
		return
	}

	live.Publish(live.TopicFoodOrders)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true})
}

// TogglePaidStatus flips one item's paid flag, or marks everything paid when
// itemId is "all".
func TogglePaidStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	eventID := ps.ByName("id")

	var body struct {
		ItemID string `json:"itemId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ItemID == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
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

		event = markPaid(event, body.ItemID)
		updated = event
		_, err := db.FoodOrdersCollection.UpdateOne(sessCtx,
			bson.M{"id": eventID}, bson.M{"$set": bson.M{"orders": event.Orders}})
		return err
	})
	if !respondLedgerErr(w, err) {
		return
	}

	live.Publish(live.TopicFoodOrders)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "foodOrder": updated})
}
