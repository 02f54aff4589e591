package hmdb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultCollection is the collection holding network edges.
const DefaultCollection = "network"

// Edge is one stored reaction edge.
type Edge struct {
	Left      string `bson:"left"`
	LeftName  string `bson:"left_name"`
	Right     string `bson:"right"`
	RightName string `bson:"right_name"`
}

// Neighbour is a metabolite adjacent to the queried one.
type Neighbour struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// finder is the subset of *mongo.Collection the store uses.
type finder interface {
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (*mongo.Cursor, error)
}

// Store queries the network collection.
type Store struct {
	coll   finder
	client *mongo.Client
}

// Connect opens a store on uri, database db and collection coll.
// An empty coll selects [DefaultCollection].
func Connect(ctx context.Context, uri, db, coll string) (*Store, error) {
	if coll == "" {
		coll = DefaultCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &Store{coll: client.Database(db).Collection(coll), client: client}, nil
}

// Neighbours returns the distinct metabolites sharing an edge with id, in
// storage order.
func (s *Store) Neighbours(ctx context.Context, id string) ([]Neighbour, error) {
	filter := bson.M{"$or": bson.A{bson.M{"left": id}, bson.M{"right": id}}}
	cur, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query network: %w", err)
	}

	var edges []Edge
	if err := cur.All(ctx, &edges); err != nil {
		return nil, fmt.Errorf("decode network: %w", err)
	}

	seen := make(map[string]bool)
	var out []Neighbour
	for _, e := range edges {
		n := Neighbour{ID: e.Right, Name: e.RightName}
		if e.Right == id {
			n = Neighbour{ID: e.Left, Name: e.LeftName}
		}
		if n.ID == "" || n.ID == id || seen[n.ID] {
			continue
		}
		seen[n.ID] = true
		out = append(out, n)
	}
	return out, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}
