package handler

import (
    "context"
    "errors"
    "net/http"
    "net/mail"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/corporate-directory/internal/model"
    "github.com/iliyamo/corporate-directory/internal/repository"
)

// EmployeeHandler implements the employee CRUD endpoints. Authorization
// is handled entirely by the policy middleware; handlers assume it ran.
type EmployeeHandler struct {
    Employees *repository.EmployeeRepo
    Managers  *repository.ManagerRepo
}

func NewEmployeeHandler(e *repository.EmployeeRepo, m *repository.ManagerRepo) *EmployeeHandler {
    return &EmployeeHandler{Employees: e, Managers: m}
}

type employeeReq struct {
    FirstName string  `json:"firstName"`
    LastName  string  `json:"lastName"`
    Email     string  `json:"email"`
    Phone     string  `json:"phone"`
    Position  string  `json:"position"`
    ManagerID *uint64 `json:"managerId"`
}

type employeeResp struct {
    ID        uint64  `json:"id"`
    FirstName string  `json:"firstName"`
    LastName  string  `json:"lastName"`
    Email     string  `json:"email"`
    Phone     string  `json:"phone"`
    Position  string  `json:"position"`
    ManagerID *uint64 `json:"managerId"`
}

func toEmployeeResp(e model.Employee) employeeResp {
    return employeeResp{
        ID:        e.ID,
        FirstName: e.FirstName,
        LastName:  e.LastName,
        Email:     e.Email,
        Phone:     e.Phone,
        Position:  e.Position,
        ManagerID: e.ManagerID,
    }
}

func (r employeeReq) validate() (string, bool) {
    if strings.TrimSpace(r.FirstName) == "" {
        return "firstName is required", false
    }
    if strings.TrimSpace(r.Email) == "" {
        return "email is required", false
    }
    if _, err := mail.ParseAddress(r.Email); err != nil {
        return "invalid email address", false
    }
    return "", true
}

// resolveManager checks that a referenced manager exists; an unknown id
// is dropped rather than failing the request, matching the established
// behavior.
func (h *EmployeeHandler) resolveManager(ctx context.Context, id *uint64) *uint64 {
    if id == nil {
        return nil
    }
    if _, err := h.Managers.GetByID(ctx, *id); err != nil {
        return nil
    }
    return id
}

// Create adds an employee.
func (h *EmployeeHandler) Create(c echo.Context) error {
    var req employeeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg, ok := req.validate(); !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    e := model.Employee{
        FirstName: req.FirstName,
        LastName:  req.LastName,
        Email:     req.Email,
        Phone:     req.Phone,
        Position:  req.Position,
        ManagerID: h.resolveManager(ctx, req.ManagerID),
    }
    id, err := h.Employees.Create(ctx, e)
    if err != nil {
        return writeError(c, err)
    }
    e.ID = id
    return c.JSON(http.StatusOK, toEmployeeResp(e))
}

// GetByID returns one employee.
func (h *EmployeeHandler) GetByID(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    e, err := h.Employees.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, toEmployeeResp(e))
}

// List returns all employees.
func (h *EmployeeHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    list, err := h.Employees.List(ctx)
    if err != nil {
        return writeError(c, err)
    }
    out := make([]employeeResp, 0, len(list))
    for _, e := range list {
        out = append(out, toEmployeeResp(e))
    }
    return c.JSON(http.StatusOK, out)
}

// Update rewrites an employee.
func (h *EmployeeHandler) Update(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req employeeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if msg, ok := req.validate(); !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    e := model.Employee{
        ID:        id,
        FirstName: req.FirstName,
        LastName:  req.LastName,
        Email:     req.Email,
        Phone:     req.Phone,
        Position:  req.Position,
        ManagerID: h.resolveManager(ctx, req.ManagerID),
    }
    if err := h.Employees.Update(ctx, e); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, toEmployeeResp(e))
}

// Delete removes an employee. The policy table restricts this route to
// ADMIN.
func (h *EmployeeHandler) Delete(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Employees.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.NoContent(http.StatusNoContent) // idempotent delete
        }
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint64, error) {
    return strconv.ParseUint(c.Param("id"), 10, 64)
}
