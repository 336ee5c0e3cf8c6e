package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/workforce-portal/grievance-service/internal/domain"
)

func namespace(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func storedGrievance(status string, replies ...bson.D) bson.D {
	replyArr := bson.A{}
	for _, reply := range replies {
		replyArr = append(replyArr, reply)
	}
	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: "g-1"},
		{Key: "submitter_id", Value: "w-1"},
		{Key: "title", Value: "Unsafe depot"},
		{Key: "description", Value: "Lighting is broken"},
		{Key: "department", Value: "Sanitation"},
		{Key: "department_key", Value: "sanitation"},
		{Key: "status", Value: status},
		{Key: "replies", Value: replyArr},
		{Key: "created_at", Value: created},
		{Key: "updated_at", Value: created},
	}
}

func findAndModifyResult(doc any) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc})
}

func countResult(mt *mtest.T, n int64) bson.D {
	if n == 0 {
		return mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch)
	}
	return mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

func stringValues(t *testing.T, arr bson.Raw) []string {
	t.Helper()
	values, err := arr.Values()
	require.NoError(t, err)
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.StringValue())
	}
	return out
}

func TestGrievanceRepositoryAppendReply(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	reply := domain.Reply{ID: "r-2", SenderID: "o-1", SenderRole: domain.RoleOfficial, Message: "On it"}

	mt.Run("open grievance", func(mt *mtest.T) {
		repo := NewGrievanceRepository(mt.Coll)
		mt.AddMockResponses(findAndModifyResult(storedGrievance("pending",
			bson.D{{Key: "id", Value: "r-1"}, {Key: "sender_id", Value: "w-1"}, {Key: "sender_role", Value: "worker"}, {Key: "message", Value: "first"}},
			bson.D{{Key: "id", Value: "r-2"}, {Key: "sender_id", Value: "o-1"}, {Key: "sender_role", Value: "official"}, {Key: "message", Value: "On it"}},
		)))

		g, err := repo.AppendReply(context.Background(), "g-1", reply)
		require.NoError(t, err)
		require.Len(t, g.Replies, 2)
		require.Equal(t, "r-2", g.Replies[1].ID)
		require.Equal(t, domain.RoleOfficial, g.Replies[1].SenderRole)

		cmd := mt.GetStartedEvent().Command
		require.Equal(t, "g-1", cmd.Lookup("query", "_id").StringValue())
		require.ElementsMatch(t, []string{"resolved", "rejected"}, stringValues(t, cmd.Lookup("query", "status", "$nin").Array()))
		require.Equal(t, "r-2", cmd.Lookup("update", "$push", "replies", "id").StringValue())
	})

	mt.Run("closed grievance", func(mt *mtest.T) {
		repo := NewGrievanceRepository(mt.Coll)
		mt.AddMockResponses(findAndModifyResult(nil), countResult(mt, 1))

		_, err := repo.AppendReply(context.Background(), "g-1", reply)
		require.ErrorIs(t, err, domain.ErrGrievanceClosed)
	})

	mt.Run("missing grievance", func(mt *mtest.T) {
		repo := NewGrievanceRepository(mt.Coll)
		mt.AddMockResponses(findAndModifyResult(nil), countResult(mt, 0))

		_, err := repo.AppendReply(context.Background(), "g-404", reply)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGrievanceRepositorySetStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("expected status matches", func(mt *mtest.T) {
		repo := NewGrievanceRepository(mt.Coll)
		mt.AddMockResponses(findAndModifyResult(storedGrievance("resolved")))

		g, err := repo.SetStatus(context.Background(), "g-1", domain.GrievanceStatusPending, domain.GrievanceStatusResolved)
		require.NoError(t, err)
		require.Equal(t, domain.GrievanceStatusResolved, g.Status)

		cmd := mt.GetStartedEvent().Command
		require.Equal(t, "pending", cmd.Lookup("query", "status").StringValue())
		require.Equal(t, "resolved", cmd.Lookup("update", "$set", "status").StringValue())
	})

	mt.Run("status changed underneath", func(mt *mtest.T) {
		repo := NewGrievanceRepository(mt.Coll)
		mt.AddMockResponses(findAndModifyResult(nil), countResult(mt, 1))

		_, err := repo.SetStatus(context.Background(), "g-1", domain.GrievanceStatusPending, domain.GrievanceStatusResolved)
		require.ErrorIs(t, err, ErrConflict)
	})

	mt.Run("missing grievance", func(mt *mtest.T) {
		repo := NewGrievanceRepository(mt.Coll)
		mt.AddMockResponses(findAndModifyResult(nil), countResult(mt, 0))

		_, err := repo.SetStatus(context.Background(), "g-404", domain.GrievanceStatusPending, domain.GrievanceStatusResolved)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGrievanceRepositoryListings(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("by department uses the normalized key", func(mt *mtest.T) {
		repo := NewGrievanceRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch, storedGrievance("pending")))

		items, err := repo.ListByDepartment(context.Background(), " SANITATION ")
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, "Sanitation", items[0].Department)

		cmd := mt.GetStartedEvent().Command
		require.Equal(t, "sanitation", cmd.Lookup("filter", "department_key").StringValue())
		require.Equal(t, int64(-1), cmd.Lookup("sort", "created_at").AsInt64())
	})

	mt.Run("hr class matches every hr department key", func(mt *mtest.T) {
		repo := NewGrievanceRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		items, err := repo.ListHRClass(context.Background())
		require.NoError(t, err)
		require.NotNil(t, items)
		require.Empty(t, items)

		cmd := mt.GetStartedEvent().Command
		require.ElementsMatch(t, domain.HRDepartmentKeys(), stringValues(t, cmd.Lookup("filter", "department_key", "$in").Array()))
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		repo := NewGrievanceRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, namespace(mt), mtest.FirstBatch))

		_, err := repo.GetByID(context.Background(), "g-404")
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGrievanceRepositoryCreate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id and empty thread", func(mt *mtest.T) {
		repo := NewGrievanceRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		g := &domain.Grievance{SubmitterID: "w-1", Title: "t", Description: "d", Department: "Roads", Status: domain.GrievanceStatusPending}
		require.NoError(t, repo.Create(context.Background(), g))
		require.NotEmpty(t, g.ID)
		require.NotNil(t, g.Replies)
		require.False(t, g.CreatedAt.IsZero())
		require.Equal(t, "insert", mt.GetStartedEvent().CommandName)
	})

	mt.Run("duplicate id", func(mt *mtest.T) {
		repo := NewGrievanceRepository(mt.Coll)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}))

		err := repo.Create(context.Background(), &domain.Grievance{ID: "g-1", Department: "Roads"})
		require.ErrorIs(t, err, ErrDuplicate)
	})
}
