package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Stat is an append-only analytics event. There is no update or delete path.
type Stat struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	StatsType string             `bson:"statsType" json:"statsType"`
	IP        string             `bson:"ip" json:"ip"`
	WhichCTA  string             `bson:"whichCTA" json:"whichCTA"`
}
