package repository

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"reelbox/internal/models"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestMongoRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("create assigns object id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		playlist := &models.Playlist{Name: "Drama", Movies: []string{"Inception"}}
		id, err := repo.Create(context.Background(), playlist)
		if err != nil {
			mt.Fatalf("Create error: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(id); err != nil {
			mt.Fatalf("expected ObjectId hex, got %q", id)
		}
		if playlist.ID != id {
			mt.Fatalf("expected playlist id %q, got %q", id, playlist.ID)
		}
	})

	mt.Run("list decodes documents", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		first := primitive.NewObjectID()
		second := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: first}, {Key: "name", Value: "Drama"}, {Key: "movies", Value: bson.A{"Inception"}}},
			bson.D{{Key: "_id", Value: second}, {Key: "name", Value: "Comedy"}, {Key: "movies", Value: bson.A{"Airplane!", "Hot Shots!"}}},
		))

		playlists, err := repo.List(context.Background())
		if err != nil {
			mt.Fatalf("List error: %v", err)
		}
		if len(playlists) != 2 {
			mt.Fatalf("expected 2 playlists, got %d", len(playlists))
		}
		if playlists[0].ID != first.Hex() || playlists[0].Name != "Drama" {
			mt.Fatalf("unexpected first playlist: %#v", playlists[0])
		}
		if !reflect.DeepEqual(playlists[1].Movies, []string{"Airplane!", "Hot Shots!"}) {
			mt.Fatalf("unexpected movies: %#v", playlists[1].Movies)
		}
	})

	mt.Run("list empty collection", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		playlists, err := repo.List(context.Background())
		if err != nil {
			mt.Fatalf("List error: %v", err)
		}
		if playlists == nil || len(playlists) != 0 {
			mt.Fatalf("expected empty non-nil slice, got %#v", playlists)
		}
	})

	mt.Run("get found", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "name", Value: "Drama"}, {Key: "movies", Value: bson.A{"Inception"}}},
		))

		playlist, err := repo.Get(context.Background(), oid.Hex())
		if err != nil {
			mt.Fatalf("Get error: %v", err)
		}
		if playlist.ID != oid.Hex() || playlist.Name != "Drama" {
			mt.Fatalf("unexpected playlist: %#v", playlist)
		}
	})

	mt.Run("get missing document", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.Get(context.Background(), primitive.NewObjectID().Hex())
		if !errors.Is(err, ErrPlaylistNotFound) {
			mt.Fatalf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	mt.Run("get malformed id", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)

		_, err := repo.Get(context.Background(), "not-an-object-id")
		if !errors.Is(err, ErrPlaylistNotFound) {
			mt.Fatalf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	mt.Run("add movies sends addToSet each", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))
		mt.ClearEvents()

		oid := primitive.NewObjectID()
		matched, err := repo.AddMovies(context.Background(), oid.Hex(), []string{"Inception2", "Inception"})
		if err != nil {
			mt.Fatalf("AddMovies error: %v", err)
		}
		if !matched {
			mt.Fatalf("expected the playlist to match")
		}

		started := mt.GetStartedEvent()
		if started == nil || started.CommandName != "update" {
			mt.Fatalf("expected an update command, got %#v", started)
		}
		stmt := started.Command.Lookup("updates", "0").Document()

		if got := stmt.Lookup("q", "_id").ObjectID(); got != oid {
			mt.Fatalf("expected filter on _id %s, got %s", oid.Hex(), got.Hex())
		}

		update := stmt.Lookup("u").Document()
		elems, err := update.Elements()
		if err != nil {
			mt.Fatalf("read update document: %v", err)
		}
		if len(elems) != 1 || elems[0].Key() != "$addToSet" {
			mt.Fatalf("expected only $addToSet, got %s", update)
		}
		fields, err := update.Lookup("$addToSet").Document().Elements()
		if err != nil {
			mt.Fatalf("read $addToSet document: %v", err)
		}
		if len(fields) != 1 || fields[0].Key() != "movies" {
			mt.Fatalf("expected $addToSet to touch only movies, got %s", update)
		}

		var each []string
		if err := update.Lookup("$addToSet", "movies", "$each").Unmarshal(&each); err != nil {
			mt.Fatalf("decode $each: %v", err)
		}
		if !reflect.DeepEqual(each, []string{"Inception2", "Inception"}) {
			mt.Fatalf("unexpected $each values: %v", each)
		}
	})

	mt.Run("add movies without a match is acknowledged", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		matched, err := repo.AddMovies(context.Background(), primitive.NewObjectID().Hex(), []string{"X"})
		if err != nil {
			mt.Fatalf("expected success, got %v", err)
		}
		if matched {
			mt.Fatalf("expected no match")
		}
	})

	mt.Run("add movies malformed id matches nothing", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.ClearEvents()

		matched, err := repo.AddMovies(context.Background(), "not-an-object-id", []string{"X"})
		if err != nil || matched {
			mt.Fatalf("expected unmatched success, got %v, %v", matched, err)
		}
		if started := mt.GetStartedEvent(); started != nil {
			mt.Fatalf("expected no command to be sent, got %s", started.CommandName)
		}
	})

	mt.Run("unacknowledged writes", func(mt *mtest.T) {
		coll := mt.Coll.Database().Collection(mt.Coll.Name(),
			options.Collection().SetWriteConcern(writeconcern.Unacknowledged()))
		repo := NewMongoRepository(coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(), mtest.CreateSuccessResponse())

		_, err := repo.AddMovies(context.Background(), primitive.NewObjectID().Hex(), []string{"X"})
		if !errors.Is(err, ErrWriteNotAcknowledged) {
			mt.Fatalf("expected ErrWriteNotAcknowledged from AddMovies, got %v", err)
		}

		err = repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		if !errors.Is(err, ErrWriteNotAcknowledged) {
			mt.Fatalf("expected ErrWriteNotAcknowledged from Delete, got %v", err)
		}
	})

	mt.Run("add movies rejected write", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    2,
			Message: "Cannot apply $addToSet to non-array field",
		}))

		_, err := repo.AddMovies(context.Background(), primitive.NewObjectID().Hex(), []string{"X"})
		if !errors.Is(err, ErrWriteNotAcknowledged) {
			mt.Fatalf("expected ErrWriteNotAcknowledged, got %v", err)
		}
	})

	mt.Run("delete existing", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))

		if err := repo.Delete(context.Background(), primitive.NewObjectID().Hex()); err != nil {
			mt.Fatalf("Delete error: %v", err)
		}
	})

	mt.Run("delete missing", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		if !errors.Is(err, ErrPlaylistNotFound) {
			mt.Fatalf("expected ErrPlaylistNotFound, got %v", err)
		}
	})

	mt.Run("delete rejected write", func(mt *mtest.T) {
		repo := NewMongoRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    20,
			Message: "operation not allowed",
		}))

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		if !errors.Is(err, ErrWriteNotAcknowledged) {
			mt.Fatalf("expected ErrWriteNotAcknowledged, got %v", err)
		}
	})
}
