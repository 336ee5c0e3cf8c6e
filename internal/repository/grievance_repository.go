package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/workforce-portal/grievance-service/internal/domain"
)

// GrievanceRepository is the persistence boundary for grievances. Each mutation is a
// single-document atomic update.
type GrievanceRepository interface {
	Create(ctx context.Context, grievance *domain.Grievance) error
	GetByID(ctx context.Context, id string) (*domain.Grievance, error)
	ListBySubmitter(ctx context.Context, submitterID string) ([]domain.Grievance, error)
	ListByDepartment(ctx context.Context, department string) ([]domain.Grievance, error)
	ListHRClass(ctx context.Context) ([]domain.Grievance, error)
	// AppendReply pushes reply onto an open grievance. It returns
	// domain.ErrGrievanceClosed when the grievance is terminal.
	AppendReply(ctx context.Context, id string, reply domain.Reply) (*domain.Grievance, error)
	// SetStatus moves the grievance from expected to next. It returns ErrConflict when
	// the stored status no longer equals expected.
	SetStatus(ctx context.Context, id string, expected, next domain.GrievanceStatus) (*domain.Grievance, error)
}

type grievanceDocument struct {
	ID            string          `bson:"_id"`
	SubmitterID   string          `bson:"submitter_id"`
	Title         string          `bson:"title"`
	Description   string          `bson:"description"`
	Department    string          `bson:"department"`
	DepartmentKey string          `bson:"department_key"`
	Status        string          `bson:"status"`
	Replies       []replyDocument `bson:"replies"`
	CreatedAt     time.Time       `bson:"created_at"`
	UpdatedAt     time.Time       `bson:"updated_at"`
}

type replyDocument struct {
	ID         string    `bson:"id"`
	SenderID   string    `bson:"sender_id"`
	SenderRole string    `bson:"sender_role"`
	Message    string    `bson:"message"`
	CreatedAt  time.Time `bson:"created_at"`
}

type grievanceRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewGrievanceRepository instantiates a MongoDB-backed repository.
func NewGrievanceRepository(coll *mongo.Collection) GrievanceRepository {
	return &grievanceRepository{coll: coll, now: func() time.Time { return time.Now().UTC() }}
}

// EnsureGrievanceIndexes creates the indexes used by the listing queries.
func EnsureGrievanceIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "submitter_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "department_key", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	return err
}

func (r *grievanceRepository) Create(ctx context.Context, grievance *domain.Grievance) error {
	if grievance.ID == "" {
		grievance.ID = uuid.NewString()
	}
	now := r.now()
	grievance.CreatedAt = now
	grievance.UpdatedAt = now
	if grievance.Replies == nil {
		grievance.Replies = []domain.Reply{}
	}
	_, err := r.coll.InsertOne(ctx, toGrievanceDocument(grievance))
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *grievanceRepository) GetByID(ctx context.Context, id string) (*domain.Grievance, error) {
	var doc grievanceDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *grievanceRepository) ListBySubmitter(ctx context.Context, submitterID string) ([]domain.Grievance, error) {
	return r.find(ctx, bson.M{"submitter_id": submitterID})
}

func (r *grievanceRepository) ListByDepartment(ctx context.Context, department string) ([]domain.Grievance, error) {
	return r.find(ctx, bson.M{"department_key": domain.NormalizeDepartment(department)})
}

func (r *grievanceRepository) ListHRClass(ctx context.Context) ([]domain.Grievance, error) {
	return r.find(ctx, bson.M{"department_key": bson.M{"$in": domain.HRDepartmentKeys()}})
}

func (r *grievanceRepository) AppendReply(ctx context.Context, id string, reply domain.Reply) (*domain.Grievance, error) {
	filter := bson.M{
		"_id":    id,
		"status": bson.M{"$nin": terminalStatusValues()},
	}
	update := bson.M{
		"$push": bson.M{"replies": toReplyDocument(reply)},
		"$set":  bson.M{"updated_at": r.now()},
	}
	doc, err := r.findOneAndUpdate(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.missOrElse(ctx, id, domain.ErrGrievanceClosed)
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *grievanceRepository) SetStatus(ctx context.Context, id string, expected, next domain.GrievanceStatus) (*domain.Grievance, error) {
	filter := bson.M{"_id": id, "status": string(expected)}
	update := bson.M{"$set": bson.M{"status": string(next), "updated_at": r.now()}}
	doc, err := r.findOneAndUpdate(ctx, filter, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.missOrElse(ctx, id, ErrConflict)
	}
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *grievanceRepository) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*grievanceDocument, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc grievanceDocument
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// missOrElse distinguishes a missing grievance from a guarded update that did not match.
func (r *grievanceRepository) missOrElse(ctx context.Context, id string, guardErr error) error {
	count, err := r.coll.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNotFound
	}
	return guardErr
}

func (r *grievanceRepository) find(ctx context.Context, filter bson.M) ([]domain.Grievance, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	result := []domain.Grievance{}
	for cursor.Next(ctx) {
		var doc grievanceDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		result = append(result, *doc.toDomain())
	}
	return result, cursor.Err()
}

func terminalStatusValues() []string {
	statuses := domain.TerminalStatuses()
	values := make([]string, len(statuses))
	for i, s := range statuses {
		values[i] = string(s)
	}
	return values
}

func toGrievanceDocument(g *domain.Grievance) grievanceDocument {
	replies := make([]replyDocument, 0, len(g.Replies))
	for _, reply := range g.Replies {
		replies = append(replies, toReplyDocument(reply))
	}
	return grievanceDocument{
		ID:            g.ID,
		SubmitterID:   g.SubmitterID,
		Title:         g.Title,
		Description:   g.Description,
		Department:    g.Department,
		DepartmentKey: domain.NormalizeDepartment(g.Department),
		Status:        string(g.Status),
		Replies:       replies,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

func toReplyDocument(reply domain.Reply) replyDocument {
	return replyDocument{
		ID:         reply.ID,
		SenderID:   reply.SenderID,
		SenderRole: string(reply.SenderRole),
		Message:    reply.Message,
		CreatedAt:  reply.CreatedAt,
	}
}

func (d *grievanceDocument) toDomain() *domain.Grievance {
	replies := make([]domain.Reply, 0, len(d.Replies))
	for _, reply := range d.Replies {
		replies = append(replies, domain.Reply{
			ID:         reply.ID,
			SenderID:   reply.SenderID,
			SenderRole: domain.Role(reply.SenderRole),
			Message:    reply.Message,
			CreatedAt:  reply.CreatedAt,
		})
	}
	return &domain.Grievance{
		ID:          d.ID,
		SubmitterID: d.SubmitterID,
		Title:       d.Title,
		Description: d.Description,
		Department:  d.Department,
		Status:      domain.GrievanceStatus(d.Status),
		Replies:     replies,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
