package handler

import (
    "context"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/corporate-directory/internal/model"
    "github.com/iliyamo/corporate-directory/internal/repository"
)

// ManagerHandler implements the manager CRUD endpoints.
type ManagerHandler struct {
    Managers *repository.ManagerRepo
}

func NewManagerHandler(m *repository.ManagerRepo) *ManagerHandler {
    return &ManagerHandler{Managers: m}
}

type managerReq struct {
    Name        string `json:"name"`
    Designation string `json:"designation"`
    Experience  int    `json:"experience"`
    City        string `json:"city"`
}

type managerResp struct {
    ID          uint64 `json:"id"`
    Name        string `json:"name"`
    Designation string `json:"designation"`
    Experience  int    `json:"experience"`
    City        string `json:"city"`
}

func toManagerResp(m model.Manager) managerResp {
    return managerResp{
        ID:          m.ID,
        Name:        m.Name,
        Designation: m.Designation,
        Experience:  m.Experience,
        City:        m.City,
    }
}

// Create adds a manager.
func (h *ManagerHandler) Create(c echo.Context) error {
    var req managerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if strings.TrimSpace(req.Name) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    m := model.Manager{Name: req.Name, Designation: req.Designation, Experience: req.Experience, City: req.City}
    id, err := h.Managers.Create(ctx, m)
    if err != nil {
        return writeError(c, err)
    }
    m.ID = id
    return c.JSON(http.StatusOK, toManagerResp(m))
}

// GetByID returns one manager.
func (h *ManagerHandler) GetByID(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    m, err := h.Managers.GetByID(ctx, id)
    if err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, toManagerResp(m))
}

// List returns all managers.
func (h *ManagerHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    list, err := h.Managers.List(ctx)
    if err != nil {
        return writeError(c, err)
    }
    out := make([]managerResp, 0, len(list))
    for _, m := range list {
        out = append(out, toManagerResp(m))
    }
    return c.JSON(http.StatusOK, out)
}

// Update rewrites a manager.
func (h *ManagerHandler) Update(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req managerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if strings.TrimSpace(req.Name) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    m := model.Manager{ID: id, Name: req.Name, Designation: req.Designation, Experience: req.Experience, City: req.City}
    if err := h.Managers.Update(ctx, m); err != nil {
        return writeError(c, err)
    }
    return c.JSON(http.StatusOK, toManagerResp(m))
}

// Delete removes a manager; employees keep working with a cleared
// manager reference.
func (h *ManagerHandler) Delete(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
    defer cancel()

    if err := h.Managers.Delete(ctx, id); err != nil {
        return writeError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
