package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"studenthub/internal/cache"
	apperrors "studenthub/internal/errors"
	"studenthub/internal/model"
	"studenthub/internal/repository"
)

const (
	defaultPageSize  = 10
	maxPageSize      = 100
	distinctCacheTTL = 5 * time.Minute
)

// sortColumns whitelists the student fields a caller may sort by and maps
// them to column names. Anything else falls back to created_at.
var sortColumns = map[string]string{
	"name":       "name",
	"email":      "email",
	"age":        "age",
	"course":     "course",
	"city":       "city",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// ListParams are the raw list query arguments as supplied by the caller.
// Invalid values are normalized, not rejected.
type ListParams struct {
	Page      int
	PageSize  int
	Search    string
	Course    string
	City      string
	SortBy    string
	SortOrder string
}

// ListResult is one page of an owner's students plus pagination metadata.
type ListResult struct {
	Students   []model.Student `json:"students"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// CreateStudentInput carries the fields of a new student record.
type CreateStudentInput struct {
	Name   string
	Email  string
	Age    int
	Course string
	City   string
}

// UpdateStudentInput carries a partial update; nil fields are left unchanged.
type UpdateStudentInput struct {
	Name   *string
	Email  *string
	Age    *int
	Course *string
	City   *string
}

// StudentService exposes owner-scoped student operations. Every method takes
// the caller's user ID and never reads or writes another owner's records.
type StudentService interface {
	Create(ctx context.Context, ownerID uint, in CreateStudentInput) (*model.Student, error)
	Get(ctx context.Context, ownerID, id uint) (*model.Student, error)
	List(ctx context.Context, ownerID uint, p ListParams) (*ListResult, error)
	ListAll(ctx context.Context, ownerID uint) ([]model.Student, error)
	Courses(ctx context.Context, ownerID uint) ([]string, error)
	Cities(ctx context.Context, ownerID uint) ([]string, error)
	Update(ctx context.Context, ownerID, id uint, in UpdateStudentInput) (*model.Student, error)
	Delete(ctx context.Context, ownerID, id uint) (*model.Student, error)
}

type studentService struct {
	repo  repository.StudentRepository
	cache *cache.Client
}

// NewStudentService builds a StudentService with repository and cache.
func NewStudentService(repo repository.StudentRepository, cache *cache.Client) StudentService {
	return &studentService{repo: repo, cache: cache}
}

// Create inserts a new student owned by ownerID. Student emails are unique
// across all owners, so the pre-check is global.
func (s *studentService) Create(ctx context.Context, ownerID uint, in CreateStudentInput) (*model.Student, error) {
	existing, err := s.repo.FindByEmail(ctx, in.Email)
	if err == nil && existing != nil {
		return nil, apperrors.ErrStudentEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check student email: %w", err)
	}

	student := &model.Student{
		Name:      in.Name,
		Email:     in.Email,
		Age:       in.Age,
		Course:    in.Course,
		City:      in.City,
		CreatedBy: ownerID,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	s.invalidateDistinct(ctx, ownerID)
	return student, nil
}

func (s *studentService) Get(ctx context.Context, ownerID, id uint) (*model.Student, error) {
	student, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return student, nil
}

// List returns one page of the owner's students. The sort field and direction
// fall back to created_at descending when unrecognized, and total_pages never
// drops below 1 so an empty result still reports a single page.
func (s *studentService) List(ctx context.Context, ownerID uint, p ListParams) (*ListResult, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	column, descending := normalizeSort(p.SortBy, p.SortOrder)

	students, total, err := s.repo.List(ctx, repository.ListFilter{
		OwnerID:    ownerID,
		Search:     p.Search,
		Course:     p.Course,
		City:       p.City,
		SortColumn: column,
		Descending: descending,
		Offset:     (p.Page - 1) * p.PageSize,
		Limit:      p.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	if students == nil {
		students = []model.Student{}
	}

	totalPages := int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	return &ListResult{
		Students:   students,
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
	}, nil
}

func (s *studentService) ListAll(ctx context.Context, ownerID uint) ([]model.Student, error) {
	students, err := s.repo.ListAll(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list all students: %w", err)
	}
	if students == nil {
		students = []model.Student{}
	}
	return students, nil
}

// Courses returns the distinct course names among the owner's students.
func (s *studentService) Courses(ctx context.Context, ownerID uint) ([]string, error) {
	return s.distinct(ctx, ownerID, "course")
}

// Cities returns the distinct city names among the owner's students.
func (s *studentService) Cities(ctx context.Context, ownerID uint) ([]string, error) {
	return s.distinct(ctx, ownerID, "city")
}

func (s *studentService) distinct(ctx context.Context, ownerID uint, column string) ([]string, error) {
	key := s.distinctKey(ownerID, column)
	var cached []string
	if s.cache.GetJSON(ctx, key, &cached) {
		return cached, nil
	}

	values, err := s.repo.DistinctValues(ctx, ownerID, column)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", column, err)
	}
	if values == nil {
		values = []string{}
	}
	s.cache.SetJSON(ctx, key, values, distinctCacheTTL)
	return values, nil
}

// Update applies a partial update to an owned student. Only non-nil input
// fields change; an email change is re-checked for global uniqueness before
// anything is written.
func (s *studentService) Update(ctx context.Context, ownerID, id uint, in UpdateStudentInput) (*model.Student, error) {
	student, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}

	if in.Email != nil && *in.Email != student.Email {
		existing, err := s.repo.FindByEmail(ctx, *in.Email)
		if err == nil && existing != nil && existing.ID != student.ID {
			return nil, apperrors.ErrStudentEmailTaken
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("check student email: %w", err)
		}
		student.Email = *in.Email
	}
	if in.Name != nil {
		student.Name = *in.Name
	}
	if in.Age != nil {
		student.Age = *in.Age
	}
	if in.Course != nil {
		student.Course = *in.Course
	}
	if in.City != nil {
		student.City = *in.City
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, fmt.Errorf("update student: %w", err)
	}
	s.invalidateDistinct(ctx, ownerID)
	return student, nil
}

// Delete removes an owned student and returns the deleted record.
func (s *studentService) Delete(ctx context.Context, ownerID, id uint) (*model.Student, error) {
	student, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	if err := s.repo.Delete(ctx, student); err != nil {
		return nil, fmt.Errorf("delete student: %w", err)
	}
	s.invalidateDistinct(ctx, ownerID)
	return student, nil
}

func (s *studentService) distinctKey(ownerID uint, column string) string {
	return fmt.Sprintf("students:%d:distinct:%s", ownerID, column)
}

func (s *studentService) invalidateDistinct(ctx context.Context, ownerID uint) {
	_ = s.cache.Delete(ctx, s.distinctKey(ownerID, "course"))
	_ = s.cache.Delete(ctx, s.distinctKey(ownerID, "city"))
}

// normalizeSort maps the requested sort field and direction onto the
// whitelist, falling back to created_at descending.
func normalizeSort(sortBy, sortOrder string) (column string, descending bool) {
	column, ok := sortColumns[strings.ToLower(sortBy)]
	if !ok {
		column = "created_at"
	}
	switch strings.ToLower(sortOrder) {
	case "asc", "ascending":
		return column, false
	default:
		return column, true
	}
}
