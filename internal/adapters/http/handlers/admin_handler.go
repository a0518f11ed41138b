package handlers

import (
	"limpay/internal/core/services"
	"limpay/internal/pkg/pagination"
	"limpay/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles student management endpoints (admin only)
type AdminHandler struct {
	studentService *services.StudentService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(studentService *services.StudentService) *AdminHandler {
	return &AdminHandler{studentService: studentService}
}

// ListStudents handles listing students
// @Summary List students
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(50)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/students [get]
func (h *AdminHandler) ListStudents(c *fiber.Ctx) error {
	students, meta, err := h.studentService.List(c.UserContext(), pagination.FromQuery(c))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"students": students,
		"meta":     meta,
	})
}

// GetStudent handles fetching one student
// @Summary Get student
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} models.UserResponse
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/students/{id} [get]
func (h *AdminHandler) GetStudent(c *fiber.Ctx) error {
	student, err := h.studentService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "", fiber.Map{"student": student})
}

// CreateStudent handles creating a student with the default fee set
// @Summary Create student
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateStudentInput true "Student data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/students [post]
func (h *AdminHandler) CreateStudent(c *fiber.Ctx) error {
	var req services.CreateStudentInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	user, err := h.studentService.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return response.Created(c, "Student created successfully", fiber.Map{"student": user.ToResponse()})
}

// UpdateStudent handles updating a student
// @Summary Update student
// @Description Name and email are required; a blank password keeps the current one
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Param body body services.UpdateStudentInput true "Student data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/students/{id} [put]
func (h *AdminHandler) UpdateStudent(c *fiber.Ctx) error {
	var req services.UpdateStudentInput
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	if err := h.studentService.Update(c.UserContext(), c.Params("id"), &req); err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Student updated successfully", nil)
}

// DeleteStudent removes a student with their fees and transactions
// @Summary Delete student
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Student ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/students/{id} [delete]
func (h *AdminHandler) DeleteStudent(c *fiber.Ctx) error {
	if err := h.studentService.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "Student deleted successfully", nil)
}

// ListTransactions handles listing every recorded payment
// @Summary List all transactions
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(50)
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/transactions [get]
func (h *AdminHandler) ListTransactions(c *fiber.Ctx) error {
	txns, meta, err := h.studentService.ListTransactions(c.UserContext(), pagination.FromQuery(c))
	if err != nil {
		return respondError(c, err)
	}

	return response.Success(c, "", fiber.Map{
		"transactions": txns,
		"meta":         meta,
	})
}
