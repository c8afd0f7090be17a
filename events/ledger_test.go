package events

import (
	"testing"

	"prakthub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openOrder(creatorID string, items ...models.OrderItem) models.FoodOrder {
	return models.FoodOrder{
		ID:        "ev1",
		CreatorID: creatorID,
		Type:      models.EventTypeOrder,
		IsOpen:    true,
		Orders:    items,
	}
}

func openVote(options ...models.VotingOption) models.FoodOrder {
	return models.FoodOrder{
		ID:            "ev1",
		CreatorID:     "creator",
		Type:          models.EventTypeVoting,
		IsOpen:        true,
		VotingOptions: options,
	}
}

func TestAppendItemUser(t *testing.T) {
	order := openOrder("creator")

	got, err := appendItem(order, models.OrderItem{Name: "Pizza", Price: 32.50}, "u1", "")
	require.NoError(t, err)
	require.Len(t, got.Orders, 1)

	item := got.Orders[0]
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, "u1", item.UserID)
	assert.Empty(t, item.GuestName)
	assert.False(t, item.IsPaid)
}

func TestAppendItemGuestCarriesNameNotID(t *testing.T) {
	order := openOrder("creator")

	got, err := appendItem(order, models.OrderItem{Name: "Kebab"}, "guest", "Marek")
	require.NoError(t, err)
	require.Len(t, got.Orders, 1)

	item := got.Orders[0]
	assert.Empty(t, item.UserID)
	assert.Equal(t, "Marek", item.GuestName)
}

func TestAppendItemClosedOrderRejected(t *testing.T) {
	order := openOrder("creator")
	order.IsOpen = false

	_, err := appendItem(order, models.OrderItem{Name: "Pizza"}, "u1", "")
	assert.ErrorIs(t, err, ErrEventClosed)
}

func TestAppendItemAlwaysStartsUnpaid(t *testing.T) {
	order := openOrder("creator")

	got, err := appendItem(order, models.OrderItem{Name: "Pizza", IsPaid: true}, "u1", "")
	require.NoError(t, err)
	assert.False(t, got.Orders[0].IsPaid)
}

func TestRemoveItemAuthorization(t *testing.T) {
	ownItem := models.OrderItem{ID: "i1", UserID: "owner", Name: "Pizza"}
	guestItem := models.OrderItem{ID: "i2", GuestName: "Marek", Name: "Kebab"}

	tests := []struct {
		name    string
		itemID  string
		actorID string
		isAdmin bool
		removed bool
	}{
		{"owner removes own item", "i1", "owner", false, true},
		{"creator removes any item", "i1", "creator", false, true},
		{"admin removes any item", "i1", "stranger", true, true},
		{"stranger may not remove", "i1", "stranger", false, false},
		{"creator removes guest item", "i2", "creator", false, true},
		{"guest item has no owner to match", "i2", "", false, false},
		{"missing item removes nothing", "nope", "creator", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			order := openOrder("creator", ownItem, guestItem)
			got, removed := removeItem(order, tc.itemID, tc.actorID, tc.isAdmin)
			assert.Equal(t, tc.removed, removed)
			if tc.removed {
				assert.Len(t, got.Orders, 1)
			} else {
				assert.Len(t, got.Orders, 2)
			}
		})
	}
}

func TestMarkPaidTogglesSingleItem(t *testing.T) {
	order := openOrder("creator",
		models.OrderItem{ID: "i1", IsPaid: false},
		models.OrderItem{ID: "i2", IsPaid: true},
	)

	got := markPaid(order, "i1")
	assert.True(t, got.Orders[0].IsPaid)
	assert.True(t, got.Orders[1].IsPaid)

	got = markPaid(got, "i1")
	assert.False(t, got.Orders[0].IsPaid)
}

func TestMarkPaidAllIsOneWayAndIdempotent(t *testing.T) {
	order := openOrder("creator",
		models.OrderItem{ID: "i1", IsPaid: false},
		models.OrderItem{ID: "i2", IsPaid: true},
		models.OrderItem{ID: "i3", IsPaid: false},
	)

	once := markPaid(order, "all")
	for _, item := range once.Orders {
		assert.True(t, item.IsPaid)
	}

	// "all" never flips back: applying it again is a no-op.
	twice := markPaid(once, "all")
	assert.Equal(t, once.Orders, twice.Orders)
}

func TestToggleVoteIsSelfInverse(t *testing.T) {
	event := openVote(models.VotingOption{ID: "o1", Name: "Sushi", Votes: []string{}})

	got, err := toggleVote(event, "o1", "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, got.VotingOptions[0].Votes)

	got, err = toggleVote(got, "o1", "u1")
	require.NoError(t, err)
	assert.Empty(t, got.VotingOptions[0].Votes)
}

func TestToggleVoteLeavesOtherOptionsAlone(t *testing.T) {
	event := openVote(
		models.VotingOption{ID: "o1", Name: "Sushi", Votes: []string{"u1"}},
		models.VotingOption{ID: "o2", Name: "Pizza", Votes: []string{"u2"}},
	)

	// Voting on a second option does not retract the first: multi-option
	// voting is allowed.
	got, err := toggleVote(event, "o2", "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, got.VotingOptions[0].Votes)
	assert.Equal(t, []string{"u2", "u1"}, got.VotingOptions[1].Votes)
}

func TestToggleVoteUnknownOption(t *testing.T) {
	event := openVote(models.VotingOption{ID: "o1", Name: "Sushi"})

	_, err := toggleVote(event, "nope", "u1")
	assert.ErrorIs(t, err, ErrOptionNotFound)
}

func TestToggleVoteClosedEvent(t *testing.T) {
	event := openVote(models.VotingOption{ID: "o1", Name: "Sushi"})
	event.IsOpen = false

	_, err := toggleVote(event, "o1", "u1")
	assert.ErrorIs(t, err, ErrVotingClosed)
}

func TestAppendOption(t *testing.T) {
	event := openVote()

	got, err := appendOption(event, "Ramen", "https://ramen.example", "u1")
	require.NoError(t, err)
	require.Len(t, got.VotingOptions, 1)

	opt := got.VotingOptions[0]
	assert.NotEmpty(t, opt.ID)
	assert.Equal(t, "Ramen", opt.Name)
	assert.Equal(t, "u1", opt.AddedByID)
	assert.Empty(t, opt.Votes)

	event.IsOpen = false
	_, err = appendOption(event, "Ramen", "", "u1")
	assert.ErrorIs(t, err, ErrVotingClosed)
}

func TestNewVoteDisplacesEveryOpenVote(t *testing.T) {
	existing := []models.FoodOrder{
		{ID: "v-open", Type: models.EventTypeVoting, IsOpen: true},
		{ID: "v-open2", Type: models.EventTypeVoting, IsOpen: true},
		{ID: "v-closed", Type: models.EventTypeVoting, IsOpen: false},
		{ID: "o-open", Type: models.EventTypeOrder, IsOpen: true},
	}

	newVote := models.FoodOrder{ID: "v-new", Type: models.EventTypeVoting, IsOpen: true}
	assert.Equal(t, []string{"v-open", "v-open2"}, displacedVotes(newVote, existing))

	// A plain order coexists with an open vote.
	newOrder := models.FoodOrder{ID: "o-new", Type: models.EventTypeOrder, IsOpen: true}
	assert.Empty(t, displacedVotes(newOrder, existing))

	// The event never displaces itself.
	self := models.FoodOrder{ID: "v-open", Type: models.EventTypeVoting, IsOpen: true}
	assert.Equal(t, []string{"v-open2"}, displacedVotes(self, existing))
}

func TestReopenBlockedOnlyWhenAnotherVoteOpen(t *testing.T) {
	vote := openVote()
	order := openOrder("creator")

	assert.True(t, reopenBlocked(vote, true, 1))
	assert.False(t, reopenBlocked(vote, true, 0))
	// Closing is always allowed, as is reopening a plain order.
	assert.False(t, reopenBlocked(vote, false, 3))
	assert.False(t, reopenBlocked(order, true, 3))
}

func TestRebuildOptionsPreservesVotesByName(t *testing.T) {
	event := openVote(
		models.VotingOption{ID: "o1", Name: "Sushi", Link: "old", Votes: []string{"u1", "u2"}, AddedByID: "u1"},
		models.VotingOption{ID: "o2", Name: "Pizza", Votes: []string{"u3"}, AddedByID: "u2"},
	)

	edited := []models.VotingOption{
		{Name: "Sushi", Link: "new"},
		{Name: "Ramen"},
	}

	got := rebuildOptions(event, edited, "editor")
	require.Len(t, got, 2)

	// Same name keeps its identity and accumulated votes.
	assert.Equal(t, "o1", got[0].ID)
	assert.Equal(t, []string{"u1", "u2"}, got[0].Votes)
	assert.Equal(t, "u1", got[0].AddedByID)
	assert.Equal(t, "new", got[0].Link)

	// A renamed option is a fresh one: new ID, no votes.
	assert.NotEqual(t, "o2", got[1].ID)
	assert.Empty(t, got[1].Votes)
	assert.Equal(t, "editor", got[1].AddedByID)
}
