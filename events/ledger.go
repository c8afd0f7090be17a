package events

import (
	"errors"

	"prakthub/models"
	"prakthub/utils"
)

// Business-rule rejections. Each aborts the surrounding transaction with no
// write and maps to a user-readable outcome, never to a generic failure.
var (
	ErrEventClosed       = errors.New("event is closed")
	ErrVotingClosed      = errors.New("voting is closed")
	ErrAnotherVoteActive = errors.New("another vote is already active")
	ErrNotPermitted      = errors.New("not permitted")
	ErrOptionNotFound    = errors.New("voting option not found")
)

// appendItem adds a line item to an open order. Items always start unpaid;
// a guest name means the item carries no user ID.
func appendItem(order models.FoodOrder, item models.OrderItem, actorID, guestName string) (models.FoodOrder, error) {
	if !order.IsOpen {
		return order, ErrEventClosed
	}
	item.ID = utils.GetUUID()
	item.IsPaid = false
	if guestName != "" {
		item.UserID = ""
		item.GuestName = guestName
	} else {
		item.UserID = actorID
		item.GuestName = ""
	}
	order.Orders = append(order.Orders, item)
	return order, nil
}

// removeItem drops the identified line item when the actor is the event
// creator, an admin, or the item's owner. The bool reports whether anything
// was removed; a present item the actor may not touch is "not permitted",
// not an error.
func removeItem(order models.FoodOrder, itemID, actorID string, isAdmin bool) (models.FoodOrder, bool) {
	mayModerate := order.CreatorID == actorID || isAdmin

	kept := make([]models.OrderItem, 0, len(order.Orders))
	removed := false
	for _, item := range order.Orders {
		if item.ID == itemID && (mayModerate || (item.UserID != "" && item.UserID == actorID)) {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	order.Orders = kept
	return order, removed
}

// markPaid flips one item's paid flag, or with itemID == "all" sets every
// item paid unconditionally (a one-way bulk action, not a toggle).
func markPaid(order models.FoodOrder, itemID string) models.FoodOrder {
	updated := make([]models.OrderItem, len(order.Orders))
	for i, item := range order.Orders {
		if itemID == "all" {
			item.IsPaid = true
		} else if item.ID == itemID {
			item.IsPaid = !item.IsPaid
		}
		updated[i] = item
	}
	order.Orders = updated
	return order
}

// toggleVote flips the voter's membership on the named option and leaves
// every other option untouched. Nothing enforces single-choice: a voter may
// hold votes on several options at once.
func toggleVote(event models.FoodOrder, optionID, voterID string) (models.FoodOrder, error) {
	if !event.IsOpen {
		return event, ErrVotingClosed
	}

	found := false
	updated := make([]models.VotingOption, len(event.VotingOptions))
	for i, opt := range event.VotingOptions {
		if opt.ID == optionID {
			found = true
			if utils.Contains(opt.Votes, voterID) {
				votes := make([]string, 0, len(opt.Votes))
				for _, v := range opt.Votes {
					if v != voterID {
						votes = append(votes, v)
					}
				}
				opt.Votes = votes
			} else {
				opt.Votes = append(append([]string{}, opt.Votes...), voterID)
			}
		}
		updated[i] = opt
	}
	if !found {
		return event, ErrOptionNotFound
	}
	event.VotingOptions = updated
	return event, nil
}

// appendOption adds a fresh option with an empty voter list while the vote
// is open.
func appendOption(event models.FoodOrder, name, link, actorID string) (models.FoodOrder, error) {
	if !event.IsOpen {
		return event, ErrVotingClosed
	}
	event.VotingOptions = append(event.VotingOptions, models.VotingOption{
		ID:        utils.GetUUID(),
		Name:      name,
		Link:      link,
		Votes:     []string{},
		AddedByID: actorID,
	})
	return event, nil
}

// displacedVotes returns the IDs of events that must be closed before event
// opens: every other open voting event, so at most one vote is open at any
// committed state. Non-voting events displace nothing.
func displacedVotes(event models.FoodOrder, existing []models.FoodOrder) []string {
	if event.Type != models.EventTypeVoting {
		return nil
	}
	ids := []string{}
	for _, e := range existing {
		if e.Type == models.EventTypeVoting && e.IsOpen && e.ID != event.ID {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// reopenBlocked reports whether flipping the event to newState would
// violate the single-open-vote invariant, given how many other voting
// events are currently open. Closing is never blocked.
func reopenBlocked(event models.FoodOrder, newState bool, otherOpenVotes int64) bool {
	return newState && event.Type == models.EventTypeVoting && otherOpenVotes > 0
}

// rebuildOptions applies an edited option list to a voting event, carrying
// votes over for options whose name is unchanged.
func rebuildOptions(event models.FoodOrder, edited []models.VotingOption, actorID string) []models.VotingOption {
	out := make([]models.VotingOption, 0, len(edited))
	for _, opt := range edited {
		rebuilt := models.VotingOption{
			ID:        utils.GetUUID(),
			Name:      opt.Name,
			Link:      opt.Link,
			Votes:     []string{},
			AddedByID: actorID,
		}
		for _, existing := range event.VotingOptions {
			if existing.Name == opt.Name {
				rebuilt.ID = existing.ID
				rebuilt.Votes = existing.Votes
				rebuilt.AddedByID = existing.AddedByID
				break
			}
		}
		out = append(out, rebuilt)
	}
	return out
}
