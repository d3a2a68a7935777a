package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"reelbox/internal/models"
)

// playlistDocument is the persisted shape of a playlist.
type playlistDocument struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Name   string             `bson:"name"`
	Movies []string           `bson:"movies"`
}

func (d playlistDocument) toModel() *models.Playlist {
	movies := d.Movies
	if movies == nil {
		movies = []string{}
	}
	return &models.Playlist{
		ID:     d.ID.Hex(),
		Name:   d.Name,
		Movies: movies,
	}
}

// MongoRepository stores playlists in a single MongoDB collection.
type MongoRepository struct {
	collection *mongo.Collection
}

// NewMongoRepository wraps the given collection.
func NewMongoRepository(collection *mongo.Collection) *MongoRepository {
	return &MongoRepository{collection: collection}
}

// List returns every document in natural order.
func (r *MongoRepository) List(ctx context.Context) ([]*models.Playlist, error) {
	cursor, err := r.collection.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("find playlists: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []playlistDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode playlists: %w", err)
	}

	playlists := make([]*models.Playlist, 0, len(docs))
	for _, doc := range docs {
		playlists = append(playlists, doc.toModel())
	}
	return playlists, nil
}

// Get returns the playlist whose _id matches id.
func (r *MongoRepository) Get(ctx context.Context, id string) (*models.Playlist, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrPlaylistNotFound
	}

	var doc playlistDocument
	err = r.collection.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPlaylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find playlist: %w", err)
	}
	return doc.toModel(), nil
}

// Create inserts a new document and sets playlist.ID to the generated ObjectId.
func (r *MongoRepository) Create(ctx context.Context, playlist *models.Playlist) (string, error) {
	if playlist == nil {
		return "", errors.New("playlist is required")
	}

	doc := playlistDocument{
		Name:   playlist.Name,
		Movies: playlist.Movies,
	}
	if doc.Movies == nil {
		doc.Movies = []string{}
	}

	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return "", classifyWriteError("insert playlist", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert playlist: unexpected id type %T", res.InsertedID)
	}
	playlist.ID = oid.Hex()
	return playlist.ID, nil
}

// AddMovies applies $addToSet with $each on the movies array.
func (r *MongoRepository) AddMovies(ctx context.Context, id string, movies []string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	if movies == nil {
		movies = []string{}
	}

	filter := bson.D{{Key: "_id", Value: oid}}
	update := bson.D{{Key: "$addToSet", Value: bson.D{
		{Key: "movies", Value: bson.D{{Key: "$each", Value: movies}}},
	}}}

	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, classifyWriteError("update playlist", err)
	}
	return res.MatchedCount > 0, nil
}

// Delete removes the playlist whose _id matches id.
func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrPlaylistNotFound
	}

	res, err := r.collection.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return classifyWriteError("delete playlist", err)
	}
	if res.DeletedCount == 0 {
		return ErrPlaylistNotFound
	}
	return nil
}

// Ping checks the primary is reachable.
func (r *MongoRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}

// classifyWriteError maps unacknowledged or rejected writes to
// ErrWriteNotAcknowledged and leaves transport failures as they are.
func classifyWriteError(op string, err error) error {
	var writeErr mongo.WriteException
	if errors.Is(err, mongo.ErrUnacknowledgedWrite) || errors.As(err, &writeErr) {
		return fmt.Errorf("%s: %w: %v", op, ErrWriteNotAcknowledged, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
