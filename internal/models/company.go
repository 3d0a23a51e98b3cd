package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Company is the single profile a user can register. Administrator holds the
// owner's email and doubles as the upsert key: at most one document per
// administrator exists in the collection.
type Company struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	CompanyName   string             `bson:"companyName" json:"companyName"`
	CUI           string             `bson:"cui" json:"cui"`
	FromYear      int                `bson:"fromYear" json:"fromYear"`
	Address       string             `bson:"address" json:"address"`
	Activity      string             `bson:"activity" json:"activity"`
	Administrator string             `bson:"administrator" json:"administrator"`
}
