package models

import "time"

const (
	EventTypeOrder  = "order"
	EventTypeVoting = "voting"
)

type OrderItem struct {
	ID        string  `json:"id" bson:"id"`
	UserID    string  `json:"userId,omitempty" bson:"userid,omitempty"` // empty for guest items
	GuestName string  `json:"guestName,omitempty" bson:"guestname,omitempty"`
	Name      string  `json:"name" bson:"name"`
	Details   string  `json:"details,omitempty" bson:"details,omitempty"`
	Price     float64 `json:"price" bson:"price"`
	IsPaid    bool    `json:"isPaid" bson:"ispaid"`
}

type VotingOption struct {
	ID        string   `json:"id" bson:"id"`
	Name      string   `json:"name" bson:"name"`
	Link      string   `json:"link,omitempty" bson:"link,omitempty"`
	Votes     []string `json:"votes" bson:"votes"` // user IDs
	AddedByID string   `json:"addedById" bson:"addedbyid"`
}

// FoodOrder is the tagged union event document: a group food order or a
// voting event. At most one voting event is open at any time.
type FoodOrder struct {
	ID          string    `json:"id" bson:"id"`
	CreatorID   string    `json:"creatorId" bson:"creatorid"`
	CompanyName string    `json:"companyName" bson:"companyname"` // also the voting title
	Type        string    `json:"type" bson:"type"`
	IsOpen      bool      `json:"isOpen" bson:"isopen"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdat"`
	Deadline    time.Time `json:"deadline,omitempty" bson:"deadline,omitempty"`
	Description string    `json:"description,omitempty" bson:"description,omitempty"`

	// Order specific
	Link               string      `json:"link,omitempty" bson:"link,omitempty"`
	CreatorPhoneNumber string      `json:"creatorPhoneNumber,omitempty" bson:"creatorphonenumber,omitempty"`
	Orders             []OrderItem `json:"orders" bson:"orders"`

	// Voting specific
	VotingOptions []VotingOption `json:"votingOptions,omitempty" bson:"votingoptions,omitempty"`
}
