package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"studenthub/internal/auth"
	"studenthub/internal/service"
)

// StudentHandler handles student record endpoints. All routes run behind the
// auth middleware, so every method starts from a resolved identity.
type StudentHandler struct {
	students service.StudentService
}

// NewStudentHandler creates a new student handler.
func NewStudentHandler(students service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// CreateStudentRequest represents a new student record.
type CreateStudentRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=100"`
	Email  string `json:"email" validate:"required,email"`
	Age    int    `json:"age" validate:"required,min=1,max=150"`
	Course string `json:"course" validate:"required,min=2,max=100"`
	City   string `json:"city" validate:"required,min=2,max=100"`
}

// UpdateStudentRequest represents a partial student update; omitted fields
// are left unchanged.
type UpdateStudentRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=2,max=100"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Age    *int    `json:"age" validate:"omitempty,min=1,max=150"`
	Course *string `json:"course" validate:"omitempty,min=2,max=100"`
	City   *string `json:"city" validate:"omitempty,min=2,max=100"`
}

// MessageResponse is a simple confirmation payload.
type MessageResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Create godoc
// @Summary Create a student record
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateStudentRequest true "Student data"
// @Success 201 {object} model.Student
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /students [post]
func (h *StudentHandler) Create(c echo.Context) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	var req CreateStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	student, err := h.students.Create(c.Request().Context(), user.ID, service.CreateStudentInput{
		Name:   req.Name,
		Email:  req.Email,
		Age:    req.Age,
		Course: req.Course,
		City:   req.City,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, student)
}

// List godoc
// @Summary List the caller's students with search, filters, sorting and pagination
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(10)
// @Param search query string false "Search in name, email, course, or city"
// @Param course query string false "Filter by course"
// @Param city query string false "Filter by city"
// @Param sort_by query string false "Sort field" default(created_at)
// @Param sort_order query string false "Sort order (asc/desc)" default(desc)
// @Success 200 {object} service.ListResult
// @Failure 401 {object} errors.ErrorResponse
// @Router /students [get]
func (h *StudentHandler) List(c echo.Context) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}

	result, err := h.students.List(c.Request().Context(), user.ID, service.ListParams{
		Page:      queryInt(c, "page", 1),
		PageSize:  queryInt(c, "page_size", 10),
		Search:    c.QueryParam("search"),
		Course:    c.QueryParam("course"),
		City:      c.QueryParam("city"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListAll godoc
// @Summary List every student of the caller without pagination
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Student
// @Failure 401 {object} errors.ErrorResponse
// @Router /students/all [get]
func (h *StudentHandler) ListAll(c echo.Context) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	students, err := h.students.ListAll(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, students)
}

// Courses godoc
// @Summary List the distinct course names among the caller's students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Failure 401 {object} errors.ErrorResponse
// @Router /students/courses [get]
func (h *StudentHandler) Courses(c echo.Context) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	courses, err := h.students.Courses(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, courses)
}

// Cities godoc
// @Summary List the distinct city names among the caller's students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string
// @Failure 401 {object} errors.ErrorResponse
// @Router /students/cities [get]
func (h *StudentHandler) Cities(c echo.Context) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	cities, err := h.students.Cities(c.Request().Context(), user.ID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, cities)
}

// Get godoc
// @Summary Get one of the caller's students by ID
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} model.Student
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c echo.Context) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	student, err := h.students.Get(c.Request().Context(), user.ID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, student)
}

// Update godoc
// @Summary Partially update one of the caller's students
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Param request body UpdateStudentRequest true "Fields to update"
// @Success 200 {object} model.Student
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /students/{id} [put]
func (h *StudentHandler) Update(c echo.Context) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req UpdateStudentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	student, err := h.students.Update(c.Request().Context(), user.ID, id, service.UpdateStudentInput{
		Name:   req.Name,
		Email:  req.Email,
		Age:    req.Age,
		Course: req.Course,
		City:   req.City,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, student)
}

// Delete godoc
// @Summary Delete one of the caller's students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} MessageResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c echo.Context) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}
	student, err := h.students.Delete(c.Request().Context(), user.ID, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, MessageResponse{
		Message: "student deleted successfully",
		Detail:  fmt.Sprintf("student %q has been removed", student.Name),
	})
}

func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

func queryInt(c echo.Context, name string, def int) int {
	if v := c.QueryParam(name); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
