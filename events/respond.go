package events

import (
	"errors"
	"net/http"

	"prakthub/utils"

	"go.mongodb.org/mongo-driver/mongo"
)

// respondLedgerErr maps a ledger error to its HTTP outcome. Business
// rejections come back as ok:false with a reason so clients can tell them
// apart from infrastructure failures. Returns true when the caller may
// proceed with the success response.
func respondLedgerErr(w http.ResponseWriter, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, mongo.ErrNoDocuments):
		utils.RespondWithError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ErrNotPermitted):
		utils.RespondWithJSON(w, http.StatusForbidden, utils.M{"ok": false, "reason": "not-permitted"})
	case errors.Is(err, ErrEventClosed):
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": false, "reason": "event-closed"})
	case errors.Is(err, ErrVotingClosed):
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": false, "reason": "voting-closed"})
	case errors.Is(err, ErrAnotherVoteActive):
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": false, "reason": "another-vote-active"})
	case errors.Is(err, ErrOptionNotFound):
		utils.RespondWithError(w, http.StatusNotFound, "option not found")
	default:
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
	}
	return false
}
