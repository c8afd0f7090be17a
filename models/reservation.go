package models

// ReservationDay is one document per calendar date. Office seats are capped,
// online is unbounded. A user ID appears in at most one of the two lists.
type ReservationDay struct {
	Date   string   `json:"date" bson:"date"` // YYYY-MM-DD, also the document key
	Office []string `json:"office" bson:"office"`
	Online []string `json:"online" bson:"online"`
}
