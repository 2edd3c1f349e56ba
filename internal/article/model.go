package article

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Source string

const (
	SourceSkift      Source = "Skift"
	SourcePhocusWire Source = "PhocusWire"
)

type Article struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Title        string             `bson:"title" json:"title"`
	Source       Source             `bson:"source" json:"source"`
	URL          string             `bson:"url" json:"url"`
	PublishedAt  time.Time          `bson:"publishedAt" json:"publishedAt"`
	DiscoveredAt time.Time          `bson:"discoveredAt" json:"discoveredAt"`
}

// InsertResult reports what InsertIfNew did with an article.
type InsertResult int

const (
	Inserted InsertResult = iota + 1
	AlreadyPresent
)

func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case AlreadyPresent:
		return "already present"
	default:
		return "unknown"
	}
}
