package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"tasklist/pkg/commands"
	"tasklist/pkg/deadline"
	"tasklist/pkg/store"
)

type deadlineStatus struct {
	Kind  deadline.Kind `json:"kind"`
	Label string        `json:"label"`
}

type taskEntry struct {
	Index  int             `json:"index"`
	Task   store.Task      `json:"task"`
	Status *deadlineStatus `json:"deadlineStatus,omitempty"`
}

type groupResponse struct {
	Category string      `json:"category"`
	Tasks    []taskEntry `json:"tasks"`
}

type createTaskRequest struct {
	Title       string `json:"title"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
}

type updateRequest struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type addItemRequest struct {
	Text string `json:"text"`
}

func healthz(s *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"backend": s.Backend().String(),
		})
	}
}

func listTasks(s *store.Store, now func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		by, err := store.ParseSortBy(c.QueryParam("sort"))
		if err != nil {
			return err
		}
		tasks, err := s.LoadAll()
		if err != nil {
			return err
		}

		t := now()
		groups := store.View(tasks, by)
		resp := make([]groupResponse, 0, len(groups))
		for _, g := range groups {
			out := groupResponse{Category: g.Category, Tasks: make([]taskEntry, 0, len(g.Entries))}
			for _, e := range g.Entries {
				entry := taskEntry{Index: e.Index, Task: e.Task}
				if cl := deadline.Classify(e.Task.Deadline, t); cl.Kind != deadline.None {
					entry.Status = &deadlineStatus{Kind: cl.Kind, Label: cl.Label}
				}
				out.Tasks = append(out.Tasks, entry)
			}
			resp = append(resp, out)
		}
		return c.JSON(http.StatusOK, resp)
	}
}

func createTask(s *store.Store, now func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req createTaskRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		due, err := commands.ParseDeadline(req.Deadline, now())
		if err != nil {
			return err
		}
		task, err := s.Create(req.Title, req.Category, req.Description, due)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, task)
	}
}

func updateTask(s *store.Store, now func() time.Time) echo.HandlerFunc {
	return func(c echo.Context) error {
		index, err := pathIndex(c, "index")
		if err != nil {
			return err
		}
		var req updateRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		field, err := store.ParseField(req.Field)
		if err != nil {
			return err
		}

		value := req.Value
		// deadlines arrive as user input, same as the add form
		if str, ok := value.(string); ok && field == store.FieldDeadline && str != "" {
			due, err := commands.ParseDeadline(str, now())
			if err != nil {
				return err
			}
			value = *due
		}

		if err := s.UpdateField(index, field, value); err != nil {
			return err
		}
		return respondTask(c, s, index)
	}
}

func deleteTask(s *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		index, err := pathIndex(c, "index")
		if err != nil {
			return err
		}
		if err := s.Delete(index); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func addItem(s *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		index, err := pathIndex(c, "index")
		if err != nil {
			return err
		}
		var req addItemRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		item, err := s.AddItem(index, req.Text)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, item)
	}
}

func updateItem(s *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		index, err := pathIndex(c, "index")
		if err != nil {
			return err
		}
		item, err := pathIndex(c, "item")
		if err != nil {
			return err
		}
		var req updateRequest
		if err := c.Bind(&req); err != nil {
			return err
		}
		field, err := store.ParseItemField(req.Field)
		if err != nil {
			return err
		}

		if err := s.UpdateItemField(index, item, field, req.Value); err != nil {
			return err
		}
		if field == store.ItemOrder {
			if err := s.Reorder(index); err != nil {
				return err
			}
		}
		return respondTask(c, s, index)
	}
}

func deleteItem(s *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		index, err := pathIndex(c, "index")
		if err != nil {
			return err
		}
		item, err := pathIndex(c, "item")
		if err != nil {
			return err
		}
		if err := s.DeleteItem(index, item); err != nil {
			return err
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func reorderItems(s *store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		index, err := pathIndex(c, "index")
		if err != nil {
			return err
		}
		if err := s.Reorder(index); err != nil {
			return err
		}
		return respondTask(c, s, index)
	}
}

// respondTask writes the task at index as it is stored now
func respondTask(c echo.Context, s *store.Store, index int) error {
	tasks, err := s.LoadAll()
	if err != nil {
		return err
	}
	if index < 0 || index >= len(tasks) {
		return &store.NotFoundError{What: "task", Index: index, Len: len(tasks)}
	}
	return c.JSON(http.StatusOK, tasks[index])
}

func pathIndex(c echo.Context, name string) (int, error) {
	raw := c.Param(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &store.ValidationError{Field: name, Msg: "not an integer: " + strconv.Quote(raw)}
	}
	return n, nil
}
