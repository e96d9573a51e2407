package mongo

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/erp-platform/employee-service/internal/core/domain"
)

const collectionEmployees = "employees"

// employeeOnly leaves the embedded ledger out of employee reads.
var employeeOnly = bson.M{"work_hours": 0, "allocations": 0}

// EmployeeStore persists employees and their ledger in one collection. It
// satisfies both ports.EmployeeRepository and ports.LedgerRepository.
type EmployeeStore struct {
	col *mongo.Collection
}

func NewEmployeeStore(db *mongo.Database) *EmployeeStore {
	return &EmployeeStore{col: db.Collection(collectionEmployees)}
}

// EnsureIndexes creates the uniqueness and lookup indexes on the employees collection.
func (s *EmployeeStore) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"user_id": bson.M{"$type": "string"}}),
		},
		{
			Keys: bson.D{{Key: "social_insurance_number", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"social_insurance_number": bson.M{"$type": "string"}}),
		},
		{Keys: bson.D{{Key: "work_hours._id", Value: 1}}},
		{Keys: bson.D{{Key: "allocations.project_id", Value: 1}}},
	}

	_, err := s.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// --- Employees ---

// Create inserts a new employee document with an empty ledger.
func (s *EmployeeStore) Create(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := newEmployeeDocument(e)
	if err != nil {
		return err
	}
	if _, err := s.col.InsertOne(ctx, doc); err != nil {
		return translateWriteError(err)
	}
	return nil
}

// FindByID retrieves an employee without its ledger.
func (s *EmployeeStore) FindByID(ctx context.Context, id uuid.UUID) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc employeeDocument
	err := s.col.FindOne(ctx, bson.M{"_id": id.String()}, options.FindOne().SetProjection(employeeOnly)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.EmployeeNotFound(id)
		}
		return nil, err
	}
	return doc.toDomain()
}

// List returns every employee ordered by creation time.
func (s *EmployeeStore) List(ctx context.Context) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().
		SetProjection(employeeOnly).
		SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []employeeDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.Employee, 0, len(docs))
	for _, d := range docs {
		e, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// Update replaces the employee's own fields. The embedded ledger is untouched.
func (s *EmployeeStore) Update(ctx context.Context, e *domain.Employee) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	fields, err := toEmployeeFields(e)
	if err != nil {
		return err
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": e.ID.String()}, bson.M{"$set": fields})
	if err != nil {
		return translateWriteError(err)
	}
	if res.MatchedCount == 0 {
		return domain.EmployeeNotFound(e.ID)
	}
	return nil
}

// Delete removes the employee document, and with it every embedded record.
func (s *EmployeeStore) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id.String()})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.EmployeeNotFound(id)
	}
	return nil
}

// --- Work hours ---

// AddWorkHours appends a record to the employee's ledger.
func (s *EmployeeStore) AddWorkHours(ctx context.Context, r *domain.WorkHourRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toWorkHoursDocument(r)
	if err != nil {
		return err
	}

	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": r.EmployeeID.String()},
		bson.M{"$push": bson.M{"work_hours": doc}},
	)
	if err != nil {
		return translateWriteError(err)
	}
	if res.MatchedCount == 0 {
		return domain.EmployeeNotFound(r.EmployeeID)
	}
	return nil
}

// FindWorkHours returns a single record scoped to its owning employee.
func (s *EmployeeStore) FindWorkHours(ctx context.Context, employeeID, id uuid.UUID) (*domain.WorkHourRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": employeeID.String(), "work_hours._id": id.String()}
	projection := bson.M{"work_hours": bson.M{"$elemMatch": bson.M{"_id": id.String()}}}

	var doc struct {
		WorkHours []workHoursDocument `bson:"work_hours"`
	}
	err := s.col.FindOne(ctx, filter, options.FindOne().SetProjection(projection)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.WorkHoursNotFound(id)
		}
		return nil, err
	}
	if len(doc.WorkHours) == 0 {
		return nil, domain.WorkHoursNotFound(id)
	}

	r, err := doc.WorkHours[0].toDomain(employeeID)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// UpdateWorkHours replaces a record in place using the positional operator.
func (s *EmployeeStore) UpdateWorkHours(ctx context.Context, r *domain.WorkHourRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toWorkHoursDocument(r)
	if err != nil {
		return err
	}

	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": r.EmployeeID.String(), "work_hours._id": r.ID.String()},
		bson.M{"$set": bson.M{"work_hours.$": doc}},
	)
	if err != nil {
		return translateWriteError(err)
	}
	if res.MatchedCount == 0 {
		return domain.WorkHoursNotFound(r.ID)
	}
	return nil
}

// ListWorkHours returns the employee's records ordered by work date.
func (s *EmployeeStore) ListWorkHours(ctx context.Context, employeeID uuid.UUID) ([]domain.WorkHourRecord, error) {
	var doc struct {
		WorkHours []workHoursDocument `bson:"work_hours"`
	}
	if err := s.findLedger(ctx, employeeID, "work_hours", &doc); err != nil {
		return nil, err
	}

	out := make([]domain.WorkHourRecord, 0, len(doc.WorkHours))
	for _, d := range doc.WorkHours {
		r, err := d.toDomain(employeeID)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].WorkDate.Before(out[j].WorkDate) })
	return out, nil
}

// --- Allocations ---

// AddAllocation appends an allocation to the employee's history.
func (s *EmployeeStore) AddAllocation(ctx context.Context, a *domain.AllocationRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": a.EmployeeID.String()},
		bson.M{"$push": bson.M{"allocations": toAllocationDocument(a)}},
	)
	if err != nil {
		return translateWriteError(err)
	}
	if res.MatchedCount == 0 {
		return domain.EmployeeNotFound(a.EmployeeID)
	}
	return nil
}

// ListAllocations returns the employee's allocation history ordered by start date.
func (s *EmployeeStore) ListAllocations(ctx context.Context, employeeID uuid.UUID) ([]domain.AllocationRecord, error) {
	var doc struct {
		Allocations []allocationDocument `bson:"allocations"`
	}
	if err := s.findLedger(ctx, employeeID, "allocations", &doc); err != nil {
		return nil, err
	}

	out := make([]domain.AllocationRecord, 0, len(doc.Allocations))
	for _, d := range doc.Allocations {
		a, err := d.toDomain(employeeID)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

// Ping reports whether the database answers.
func (s *EmployeeStore) Ping(ctx context.Context) error {
	return s.col.Database().Client().Ping(ctx, nil)
}

// findLedger decodes one embedded array of the employee document into out.
func (s *EmployeeStore) findLedger(ctx context.Context, employeeID uuid.UUID, field string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.M{field: 1})
	err := s.col.FindOne(ctx, bson.M{"_id": employeeID.String()}, opts).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return domain.EmployeeNotFound(employeeID)
		}
		return fmt.Errorf("find %s: %w", field, err)
	}
	return nil
}

func translateWriteError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	return err
}
