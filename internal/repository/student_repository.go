package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"studenthub/internal/model"
)

// ListFilter narrows a student query. OwnerID is always applied; empty string
// fields mean no constraint. SortColumn must be a real students column, which
// the service layer guarantees via its whitelist.
type ListFilter struct {
	OwnerID    uint
	Search     string
	Course     string
	City       string
	SortColumn string
	Descending bool
	Offset     int
	Limit      int
}

// StudentRepository defines student persistence operations. Reads and writes
// that take an owner ID only ever touch rows whose created_by matches it.
type StudentRepository interface {
	Create(ctx context.Context, student *model.Student) error
	FindByID(ctx context.Context, id, ownerID uint) (*model.Student, error)
	FindByEmail(ctx context.Context, email string) (*model.Student, error)
	List(ctx context.Context, filter ListFilter) ([]model.Student, int64, error)
	ListAll(ctx context.Context, ownerID uint) ([]model.Student, error)
	DistinctValues(ctx context.Context, ownerID uint, column string) ([]string, error)
	Update(ctx context.Context, student *model.Student) error
	Delete(ctx context.Context, student *model.Student) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository creates a new GORM-backed student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) Create(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Create(student).Error
}

// FindByID fetches a student by ID scoped to its owner. A record owned by
// another user is indistinguishable from a missing one.
func (r *studentRepository) FindByID(ctx context.Context, id, ownerID uint) (*model.Student, error) {
	var student model.Student
	err := r.db.WithContext(ctx).
		Where("id = ? AND created_by = ?", id, ownerID).
		First(&student).Error
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// FindByEmail looks a student up across all owners; student emails are
// globally unique.
func (r *studentRepository) FindByEmail(ctx context.Context, email string) (*model.Student, error) {
	var student model.Student
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// List applies the owner predicate, optional search and filters, counts the
// matching rows, then returns one sorted page. The count runs before
// pagination so totals reflect the whole filtered set.
func (r *studentRepository) List(ctx context.Context, f ListFilter) ([]model.Student, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Student{}).Where("created_by = ?", f.OwnerID)

	if f.Search != "" {
		term := likeTerm(f.Search)
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(course) LIKE ? OR LOWER(city) LIKE ?",
			term, term, term, term,
		)
	}
	if f.Course != "" {
		q = q.Where("LOWER(course) LIKE ?", likeTerm(f.Course))
	}
	if f.City != "" {
		q = q.Where("LOWER(city) LIKE ?", likeTerm(f.City))
	}

	// Count on a detached session so the main chain stays reusable for Find.
	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var students []model.Student
	err := q.Order(clause.OrderByColumn{
		Column: clause.Column{Name: f.SortColumn},
		Desc:   f.Descending,
	}).Offset(f.Offset).Limit(f.Limit).Find(&students).Error
	if err != nil {
		return nil, 0, err
	}
	return students, total, nil
}

// ListAll returns every student owned by ownerID, newest first.
func (r *studentRepository) ListAll(ctx context.Context, ownerID uint) ([]model.Student, error) {
	var students []model.Student
	err := r.db.WithContext(ctx).
		Where("created_by = ?", ownerID).
		Order("created_at DESC").
		Find(&students).Error
	if err != nil {
		return nil, err
	}
	return students, nil
}

// DistinctValues returns the unique course or city values among the owner's
// students.
func (r *studentRepository) DistinctValues(ctx context.Context, ownerID uint, column string) ([]string, error) {
	if column != "course" && column != "city" {
		return nil, fmt.Errorf("unsupported distinct column %q", column)
	}
	var values []string
	err := r.db.WithContext(ctx).Model(&model.Student{}).
		Where("created_by = ?", ownerID).
		Distinct(column).
		Pluck(column, &values).Error
	if err != nil {
		return nil, err
	}
	return values, nil
}

func (r *studentRepository) Update(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Save(student).Error
}

func (r *studentRepository) Delete(ctx context.Context, student *model.Student) error {
	return r.db.WithContext(ctx).Delete(student).Error
}

func likeTerm(s string) string {
	return "%" + strings.ToLower(s) + "%"
}
