package reservations

import (
	"context"
	"encoding/json"
	"errors"
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

func ListReservations(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cur, err := db.ReservationsCollection.Find(ctx, bson.M{})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	days := []models.ReservationDay{}
	for cur.Next(ctx) {
		var d models.ReservationDay
		cur.Decode(&d)
		days = append(days, d)
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"reservations": days})
}

func GetReservation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var day models.ReservationDay
	err := db.ReservationsCollection.FindOne(ctx, bson.M{"date": date}).Decode(&day)
	if err == mongo.ErrNoDocuments {
		day = models.ReservationDay{Date: date, Office: []string{}, Online: []string{}}
	} else if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"reservation": day})
}

// ToggleReservation books or cancels the acting user's seat for a date. The
// read-modify-write runs inside a single transaction so two users racing for
// the last office seat never both land in the list.
func ToggleReservation(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")
	if _, err := time.Parse("2006-01-02", date); err != nil {
		http.Error(w, "invalid date", http.StatusBadRequest)
		return
	}

	var body struct {
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	if body.Kind != KindOffice && body.Kind != KindOnline {
		http.Error(w, "kind must be office or online", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var outcome string
	var updated models.ReservationDay

	err := xtxn.WithTxn(r.Context(), func(sessCtx mongo.SessionContext) error {
		var day models.ReservationDay
		err := db.ReservationsCollection.FindOne(sessCtx, bson.M{"date": date}).Decode(&day)
		if err == mongo.ErrNoDocuments {
			day = models.ReservationDay{Date: date, Office: []string{}, Online: []string{}}
		} else if err != nil {
			return err
		}

		day, outcome, err = applyToggle(day, userID, body.Kind)
		if err != nil {
			return err
		}

		updated = day
		_, err = db.ReservationsCollection.ReplaceOne(sessCtx,
			bson.M{"date": date}, day, options.Replace().SetUpsert(true))
		return err
	})

	if errors.Is(err, ErrOfficeFull) {
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": false, "reason": "office-full"})
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	live.Publish(live.TopicReservations)
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"ok":          true,
		"result":      outcome,
		"reservation": updated,
	})
}
