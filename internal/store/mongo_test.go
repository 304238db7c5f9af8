package store

import (
	"context"
	"testing"
	"time"

	"github.com/AlexZinkM/phantom-waitlist/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoRecords(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("insert", func(mt *mtest.T) {
		ctx := context.Background()
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		records, err := NewMongoRecords(ctx, mt.Coll)
		require.NoError(mt, err)

		mt.AddMockResponses(mtest.CreateSuccessResponse())
		rec := model.NewWhitelistRecord("Gh9ZwEmdLJ8DscKNTkTqPbNwLNNBjuSzaG9Vp2KGtKJr", "Alice_99", "Alice", time.Now())
		require.NoError(mt, records.Insert(ctx, &rec))
		assert.Equal(mt, "alice_99", rec.HandleKey)
	})

	mt.Run("duplicate handle", func(mt *mtest.T) {
		ctx := context.Background()
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		records, err := NewMongoRecords(ctx, mt.Coll)
		require.NoError(mt, err)

		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: waitlist.whitelist_users index: uniq_handle_key",
		}))
		rec := model.NewWhitelistRecord("Gh9ZwEmdLJ8DscKNTkTqPbNwLNNBjuSzaG9Vp2KGtKJr", "alice_99", "", time.Now())
		assert.ErrorIs(mt, records.Insert(ctx, &rec), ErrDuplicateHandle)
	})

	mt.Run("handle taken", func(mt *mtest.T) {
		ctx := context.Background()
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		records, err := NewMongoRecords(ctx, mt.Coll)
		require.NoError(mt, err)

		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}))
		taken, err := records.HandleTaken(ctx, "ALICE_99")
		require.NoError(mt, err)
		assert.True(mt, taken)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		taken, err = records.HandleTaken(ctx, "bob")
		require.NoError(mt, err)
		assert.False(mt, taken)
	})

	mt.Run("index creation fails", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Message: "not authorized",
			Name:    "Unauthorized",
		}))
		_, err := NewMongoRecords(context.Background(), mt.Coll)
		assert.Error(mt, err)
	})
}
