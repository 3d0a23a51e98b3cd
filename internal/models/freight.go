package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FromUser is a snapshot of the poster's identity taken when the freight is
// created. It is never updated afterwards, even if the poster's profile
// changes.
type FromUser struct {
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
	Phone string `bson:"phone" json:"phone"`
}

type Freight struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Location      string             `bson:"location" json:"location"`
	Destination   string             `bson:"destination" json:"destination"`
	Details       string             `bson:"details" json:"details"`
	Distance      string             `bson:"distance" json:"distance"`
	InitialOffer  *float64           `bson:"initialoffer,omitempty" json:"initialoffer,omitempty"`
	TVA           string             `bson:"TVA" json:"TVA"`
	Regime        string             `bson:"regime" json:"regime"`
	Tonnage       float64            `bson:"tonnage" json:"tonnage"`
	PalletName    string             `bson:"palletName" json:"palletName"`
	PalletNumber  *float64           `bson:"palletNumber,omitempty" json:"palletNumber,omitempty"`
	Volume        *float64           `bson:"volume,omitempty" json:"volume,omitempty"`
	FreightLength *float64           `bson:"freightLength,omitempty" json:"freightLength,omitempty"`
	Width         *float64           `bson:"width,omitempty" json:"width,omitempty"`
	Height        *float64           `bson:"height,omitempty" json:"height,omitempty"`
	Valability    string             `bson:"valability" json:"valability"`
	TruckType     []string           `bson:"trucktype" json:"trucktype"`
	Features      []string           `bson:"features" json:"features"`
	FromUser      FromUser           `bson:"fromUser" json:"fromUser"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
