package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"prakthub/db"
	"prakthub/models"
	"prakthub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func listItems(ctx context.Context, filter bson.M) ([]models.PortfolioItem, error) {
	cur, err := db.PortfolioCollection.Find(ctx, filter,
		options.Find().SetSort(bson.M{"date": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	items := []models.PortfolioItem{}
	for cur.Next(ctx) {
		var item models.PortfolioItem
		cur.Decode(&item)
		items = append(items, item)
	}
	return items, cur.Err()
}

// ListMyPortfolio returns the acting user's items, drafts included.
func ListMyPortfolio(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items, err := listItems(ctx, bson.M{"userid": utils.GetUserIDFromRequest(r)})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"portfolio": items})
}

// ListUserPortfolio returns another user's visible items only.
func ListUserPortfolio(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	items, err := listItems(ctx, bson.M{"userid": ps.ByName("userid"), "isvisible": true})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"portfolio": items})
}

// UpsertPortfolioItem writes an item keyed by its ID, replace-or-create.
// The owner is always the acting user; nobody edits someone else's portfolio.
func UpsertPortfolioItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var item models.PortfolioItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}
	item.ID = ps.ByName("id")
	if item.ID == "" || item.Title == "" {
		http.Error(w, "missing fields", http.StatusBadRequest)
		return
	}
	if item.Type != models.PortfolioTypeStatus && item.Type != models.PortfolioTypeProject {
		http.Error(w, "type must be status or project", http.StatusBadRequest)
		return
	}
	item.UserID = utils.GetUserIDFromRequest(r)
	if item.Date.IsZero() {
		item.Date = time.Now()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.PortfolioCollection.ReplaceOne(ctx,
		bson.M{"id": item.ID}, item, options.Replace().SetUpsert(true))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "item": item})
}

func RemovePortfolioItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	res, err := db.PortfolioCollection.DeleteOne(ctx, bson.M{
		"id":     ps.ByName("id"),
		"userid": utils.GetUserIDFromRequest(r),
	})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	if res.DeletedCount == 0 {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ToggleItemVisibility(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var item models.PortfolioItem
	err := db.PortfolioCollection.FindOne(ctx, bson.M{
		"id":     ps.ByName("id"),
		"userid": utils.GetUserIDFromRequest(r),
	}).Decode(&item)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}

	res := db.PortfolioCollection.FindOneAndUpdate(ctx,
		bson.M{"id": item.ID},
		bson.M{"$set": bson.M{"isvisible": !item.IsVisible}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	if err := res.Decode(&item); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "item": item})
}

// GetWeeklyStatus returns the current week's status document, if any.
func GetWeeklyStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	now := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var item models.PortfolioItem
	err := db.PortfolioCollection.FindOne(ctx, bson.M{"id": statusID(userID, now)}).Decode(&item)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
			"week":   weekNumber(now),
			"status": nil,
		})
		return
	}
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"week":   weekNumber(now),
		"status": item,
	})
}

// UpdateWeeklyStatus upserts the weekly status at its derived document ID.
// Publishing makes it a visible portfolio item; a draft stays hidden.
func UpdateWeeklyStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Content string `json:"content"`
		Publish bool   `json:"publish"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Content == "" {
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	userID := utils.GetUserIDFromRequest(r)
	now := time.Now()
	week := weekNumber(now)

	item := models.PortfolioItem{
		ID:          statusID(userID, now),
		UserID:      userID,
		Type:        models.PortfolioTypeStatus,
		Title:       fmt.Sprintf("Status - Tydzień %d", week),
		Description: body.Content,
		Date:        now,
		WeekOf:      startOfWeek(now),
		IsVisible:   body.Publish,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := db.PortfolioCollection.ReplaceOne(ctx,
		bson.M{"id": item.ID}, item, options.Replace().SetUpsert(true))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "week": week, "item": item})
}
