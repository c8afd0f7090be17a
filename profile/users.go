package profile

import (
	"context"
	"net/http"
	"time"

	"prakthub/db"
	"prakthub/globals"
	"prakthub/models"
	"prakthub/rdx"
	"prakthub/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

var guestUser = models.PublicUser{
	UserID:   globals.GuestUserID,
	Username: globals.GuestUserID,
	Name:     globals.GuestDisplayName,
	Role:     []string{"user"},
}

// ListUsers is the directory used to render names next to reservation lists
// and vote tallies.
func ListUsers(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cur, err := db.UserCollection.Find(ctx, bson.M{})
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	users := []models.PublicUser{}
	for cur.Next(ctx) {
		var u models.PublicUser
		cur.Decode(&u)
		users = append(users, u)
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"users": users})
}

func GetUser(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := ps.ByName("userid")
	if userID == globals.GuestUserID {
		utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"user": guestUser})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var u models.PublicUser
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&u); err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"user": u})
}

// GetUserName resolves just the display name, the cheap lookup clients use
// when rendering reservation lists and vote tallies.
func GetUserName(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	name := GetUsername(ps.ByName("userid"))
	if name == "" {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"username": name})
}

// GetUsername resolves a display name, hitting the Redis cache before Mongo.
func GetUsername(userID string) string {
	if userID == globals.GuestUserID {
		return globals.GuestDisplayName
	}
	if name, err := rdx.RdxGet("users:" + userID); err == nil && name != "" {
		return name
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var u models.User
	if err := db.UserCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&u); err != nil {
		return ""
	}
	_ = rdx.RdxSetWithExpiry("users:"+userID, u.Username, 24*time.Hour)
	return u.Username
}
