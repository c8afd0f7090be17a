package models

import "time"

const (
	PortfolioTypeStatus  = "status"
	PortfolioTypeProject = "project"
)

type PortfolioItem struct {
	ID          string    `json:"id" bson:"id"`
	UserID      string    `json:"userId" bson:"userid"`
	Type        string    `json:"type" bson:"type"` // status or project
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Date        time.Time `json:"date" bson:"date"`
	IsVisible   bool      `json:"isVisible" bson:"isvisible"`

	// Status specific
	WeekOf time.Time `json:"weekOf,omitempty" bson:"weekof,omitempty"`

	// Project specific
	Link         string   `json:"link,omitempty" bson:"link,omitempty"`
	Technologies []string `json:"technologies,omitempty" bson:"technologies,omitempty"`
}
