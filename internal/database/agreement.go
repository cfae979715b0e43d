package repository

import (
	"BandDesk/entity"
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique submit-token index that makes a retried
// create land on the original document instead of appending a second one.
func (m *MongoDB) EnsureIndexes(ctx context.Context) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(agreementsCollection)
	_, err = collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "submit_token", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("mongodb index error: %w", err)
	}
	return nil
}

// InsertAgreement appends a new agreement document and returns its id. The id
// and creation timestamp are assigned here, once, at the store boundary. A
// submit token the collection has already seen yields ErrDuplicate.
func (m *MongoDB) InsertAgreement(ctx context.Context, input *entity.AgreementInput) (string, error) {
	connection, err := m.connect()
	if err != nil {
		return "", err
	}
	defer m.disconnect(connection)

	id := primitive.NewObjectID().Hex()
	input.CreatedAt = time.Now().UTC()

	collection := connection.Database(m.database).Collection(agreementsCollection)

	doc := bson.D{
		{Key: "_id", Value: id},
		{Key: "student_name", Value: input.StudentName},
		{Key: "parent_name", Value: input.ParentName},
		{Key: "address", Value: input.Address},
		{Key: "phone_number", Value: input.PhoneNumber},
		{Key: "loan_date", Value: input.LoanDate},
		{Key: "accessories", Value: input.Accessories},
		{Key: "parent_signature", Value: input.ParentSignature},
		{Key: "student_signature", Value: input.StudentSignature},
		{Key: "instrument", Value: nil},
		{Key: "brand", Value: nil},
		{Key: "defects", Value: nil},
		{Key: "submitted_by", Value: input.SubmittedBy},
		{Key: "submit_token", Value: input.SubmitToken},
		{Key: "created_at", Value: input.CreatedAt},
	}

	_, err = collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicate
		}
		return "", fmt.Errorf("mongodb insert error: %w", err)
	}

	return id, nil
}

// UpdateAssignment writes the three assignment fields of one agreement,
// unconditionally. The last writer wins; a concurrent assignment that landed
// earlier is overwritten without a conflict signal.
func (m *MongoDB) UpdateAssignment(ctx context.Context, id, instrument, brand, defects string) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(agreementsCollection)

	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "instrument", Value: instrument},
		{Key: "brand", Value: brand},
		{Key: "defects", Value: defects},
	}}}

	result, err := collection.UpdateByID(ctx, id, update)
	if err != nil {
		return fmt.Errorf("mongodb update error: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// GetAgreement retrieves one agreement by id, or nil when it does not exist.
func (m *MongoDB) GetAgreement(ctx context.Context, id string) (*entity.Agreement, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	collection := connection.Database(m.database).Collection(agreementsCollection)

	var agreement entity.Agreement
	err = collection.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&agreement)
	if err != nil {
		return nil, m.findError(err)
	}

	return &agreement, nil
}

// ListAgreements retrieves the full collection sorted by creation time.
func (m *MongoDB) ListAgreements(ctx context.Context) ([]entity.Agreement, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	return m.listAgreements(ctx, connection)
}

func (m *MongoDB) listAgreements(ctx context.Context, connection *mongo.Client) ([]entity.Agreement, error) {
	collection := connection.Database(m.database).Collection(agreementsCollection)

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb find error: %w", err)
	}
	defer cursor.Close(ctx)

	var agreements []entity.Agreement
	if err = cursor.All(ctx, &agreements); err != nil {
		return nil, fmt.Errorf("mongodb decode error: %w", err)
	}

	return agreements, nil
}

// AgreementStream is a standing subscription over the agreement collection.
// Each delivery is the entire current result set, never a delta; consumers
// replace their local view wholesale. Close releases the server-side cursor
// and stops delivery immediately.
type AgreementStream struct {
	snapshots chan []entity.Agreement
	cancel    context.CancelFunc

	mu        sync.Mutex
	err       error
	closeOnce sync.Once
}

// Snapshots returns the delivery channel. It is closed when the stream ends.
func (s *AgreementStream) Snapshots() <-chan []entity.Agreement {
	return s.snapshots
}

// Err returns the error that terminated the stream, if any.
func (s *AgreementStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close cancels the subscription. Safe to call more than once.
func (s *AgreementStream) Close() {
	s.closeOnce.Do(s.cancel)
}

func (s *AgreementStream) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// deliver conflates to the latest snapshot: a stale queued set is dropped so
// a slow consumer always picks up the most recent committed state.
func (s *AgreementStream) deliver(snapshot []entity.Agreement) {
	select {
	case <-s.snapshots:
	default:
	}
	s.snapshots <- snapshot
}

// WatchAgreements opens a change stream over the agreement collection and
// returns a subscription that delivers the full current set on registration
// and again after every insert or update. The stream holds its own
// connection for its whole lifetime.
func (m *MongoDB) WatchAgreements(ctx context.Context) (*AgreementStream, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)

	collection := connection.Database(m.database).Collection(agreementsCollection)
	changes, err := collection.Watch(streamCtx, mongo.Pipeline{})
	if err != nil {
		cancel()
		m.disconnect(connection)
		return nil, fmt.Errorf("mongodb watch error: %w", err)
	}

	stream := &AgreementStream{
		snapshots: make(chan []entity.Agreement, 1),
		cancel:    cancel,
	}

	go m.pumpAgreements(streamCtx, connection, changes, stream)

	return stream, nil
}

func (m *MongoDB) pumpAgreements(ctx context.Context, connection *mongo.Client, changes *mongo.ChangeStream, stream *AgreementStream) {
	defer func() {
		_ = changes.Close(m.ctx)
		m.disconnect(connection)
		close(stream.snapshots)
	}()

	// Initial snapshot on registration.
	snapshot, err := m.listAgreements(ctx, connection)
	if err != nil {
		stream.fail(err)
		return
	}
	stream.deliver(snapshot)

	for changes.Next(ctx) {
		snapshot, err = m.listAgreements(ctx, connection)
		if err != nil {
			stream.fail(err)
			return
		}
		stream.deliver(snapshot)
	}

	if err := changes.Err(); err != nil && ctx.Err() == nil {
		stream.fail(fmt.Errorf("mongodb change stream error: %w", err))
	}
}
