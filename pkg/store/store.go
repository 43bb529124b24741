package store

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"sync"
	"time"

	"tasklist/pkg/deadline"
	"tasklist/pkg/utils"
)

// Options configures a Store.
type Options struct {
	// Categories is the fixed set a task's category must come from. Empty
	// means any category is accepted.
	Categories []string
	// Now is the clock used for createdAt; defaults to time.Now.
	Now func() time.Time
}

// Store is the task collection. Every operation loads the whole document,
// mutates it in memory and writes it back while holding mu, so operations
// within one process never interleave. Nothing is cached between calls.
type Store struct {
	mu         sync.Mutex
	backend    Backend
	categories []string
	now        func() time.Time
}

// New creates a store over the given backend.
func New(backend Backend, opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		backend:    backend,
		categories: slices.Clone(opts.Categories),
		now:        now,
	}
}

// Backend returns the storage backend.
func (s *Store) Backend() Backend {
	return s.backend
}

// Categories returns the configured category set.
func (s *Store) Categories() []string {
	return slices.Clone(s.categories)
}

// LoadAll returns the persisted collection, or an empty one if nothing has
// been persisted yet.
func (s *Store) LoadAll() ([]Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Create appends a new task and returns it.
func (s *Store) Create(title, category, description string, due *time.Time) (Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, &ValidationError{Field: "title", Msg: "must not be empty"}
	}
	category = strings.TrimSpace(category)
	if err := s.checkCategory(category); err != nil {
		return Task{}, err
	}

	task := Task{
		Title:       title,
		Description: description,
		Category:    category,
		CreatedAt:   s.now(),
		Checklist:   []ChecklistItem{},
	}
	if due != nil {
		v := deadline.Format(due.Local())
		task.Deadline = &v
	}

	err := s.mutate(func(tasks []Task) ([]Task, error) {
		task.Order = intPtr(len(tasks))
		return append(tasks, task), nil
	})
	if err != nil {
		return Task{}, err
	}

	utils.Log("Created task %q in %s", task.Title, task.CategoryName())
	return task, nil
}

// UpdateField sets one field of the task at index. The value is checked
// before the collection is loaded, so a rejected value leaves storage alone.
func (s *Store) UpdateField(index int, field Field, value any) error {
	apply, err := s.fieldSetter(field, value)
	if err != nil {
		return err
	}

	err = s.mutate(func(tasks []Task) ([]Task, error) {
		if index < 0 || index >= len(tasks) {
			return nil, &NotFoundError{What: "task", Index: index, Len: len(tasks)}
		}
		apply(&tasks[index])
		return tasks, nil
	})
	if err != nil {
		return err
	}

	utils.Log("Updated task %d: %s", index, field)
	return nil
}

// Delete removes the task at index. Tasks after it shift down by one, so
// callers must discard any indices they hold.
func (s *Store) Delete(index int) error {
	err := s.mutate(func(tasks []Task) ([]Task, error) {
		if index < 0 || index >= len(tasks) {
			return nil, &NotFoundError{What: "task", Index: index, Len: len(tasks)}
		}
		return slices.Delete(tasks, index, index+1), nil
	})
	if err != nil {
		return err
	}

	utils.Log("Deleted task %d", index)
	return nil
}

// SaveAll replaces the whole collection.
func (s *Store) SaveAll(tasks []Task) error {
	for i := range tasks {
		if strings.TrimSpace(tasks[i].Title) == "" {
			return &ValidationError{Field: fmt.Sprintf("[%d].title", i), Msg: "must not be empty"}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.save(tasks); err != nil {
		return err
	}

	utils.Log("Saved %d tasks", len(tasks))
	return nil
}

// Append adds imported tasks to the end of the collection. Missing order
// values become the task's new position and a missing createdAt is set to
// now. It returns the number of tasks appended.
func (s *Store) Append(imported []Task) (int, error) {
	for i := range imported {
		if strings.TrimSpace(imported[i].Title) == "" {
			return 0, &ValidationError{Field: fmt.Sprintf("[%d].title", i), Msg: "must not be empty"}
		}
	}
	if len(imported) == 0 {
		return 0, nil
	}

	err := s.mutate(func(tasks []Task) ([]Task, error) {
		for _, t := range imported {
			if t.Order == nil {
				t.Order = intPtr(len(tasks))
			}
			if t.CreatedAt.IsZero() {
				t.CreatedAt = s.now()
			}
			if t.Checklist == nil {
				t.Checklist = []ChecklistItem{}
			}
			tasks = append(tasks, t)
		}
		return tasks, nil
	})
	if err != nil {
		return 0, err
	}

	utils.Log("Appended %d tasks", len(imported))
	return len(imported), nil
}

// mutate runs fn between a load and a save under the store lock. If fn
// returns an error nothing is written.
func (s *Store) mutate(fn func([]Task) ([]Task, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tasks, err := s.load()
	if err != nil {
		return err
	}
	tasks, err = fn(tasks)
	if err != nil {
		return err
	}
	return s.save(tasks)
}

func (s *Store) load() ([]Task, error) {
	data, err := s.backend.Read()
	if isNotExist(err) {
		return []Task{}, nil
	}
	if err != nil {
		return nil, err
	}

	tasks, err := Decode(data)
	if err != nil {
		if corrupt, ok := err.(*CorruptStoreError); ok {
			corrupt.Source = s.backend.String()
		}
		return nil, err
	}

	utils.Log("Loaded %d tasks from %s", len(tasks), s.backend)
	return tasks, nil
}

func (s *Store) save(tasks []Task) error {
	data, err := Encode(tasks)
	if err != nil {
		return err
	}
	return s.backend.Write(data)
}

func (s *Store) checkCategory(category string) error {
	if category == "" || len(s.categories) == 0 {
		return nil
	}
	if slices.Contains(s.categories, category) {
		return nil
	}
	return &ValidationError{
		Field: "category",
		Msg:   fmt.Sprintf("%q is not one of %s", category, strings.Join(s.categories, ", ")),
	}
}

// fieldSetter validates value for field and returns the update to apply.
func (s *Store) fieldSetter(field Field, value any) (func(*Task), error) {
	switch field {
	case FieldTitle:
		v, err := stringValue(string(field), value)
		if err != nil {
			return nil, err
		}
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, &ValidationError{Field: "title", Msg: "must not be empty"}
		}
		return func(t *Task) { t.Title = v }, nil

	case FieldDescription:
		v, err := stringValue(string(field), value)
		if err != nil {
			return nil, err
		}
		return func(t *Task) { t.Description = v }, nil

	case FieldCategory:
		v, err := stringValue(string(field), value)
		if err != nil {
			return nil, err
		}
		v = strings.TrimSpace(v)
		if err := s.checkCategory(v); err != nil {
			return nil, err
		}
		return func(t *Task) { t.Category = v }, nil

	case FieldCompleted:
		v, ok := value.(bool)
		if !ok {
			return nil, &ValidationError{Field: string(field), Msg: fmt.Sprintf("expected a boolean, got %T", value)}
		}
		return func(t *Task) { t.Completed = v }, nil

	case FieldDeadline:
		v, err := deadlineValue(value)
		if err != nil {
			return nil, err
		}
		return func(t *Task) { t.Deadline = v }, nil

	case FieldOrder:
		v, err := intValue(string(field), value)
		if err != nil {
			return nil, err
		}
		return func(t *Task) { t.Order = intPtr(v) }, nil
	}

	return nil, &ValidationError{Field: string(field), Msg: "unknown or immutable task field"}
}

func stringValue(field string, value any) (string, error) {
	v, ok := value.(string)
	if !ok {
		return "", &ValidationError{Field: field, Msg: fmt.Sprintf("expected a string, got %T", value)}
	}
	return v, nil
}

// intValue accepts Go ints and the whole float64 values JSON decoding yields.
func intValue(field string, value any) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int(v), nil
		}
	}
	return 0, &ValidationError{Field: field, Msg: fmt.Sprintf("expected an integer, got %v", value)}
}

func deadlineValue(value any) (*string, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		s := deadline.Format(v.Local())
		return &s, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		s := deadline.Format(v.Local())
		return &s, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		t, err := deadline.Parse(v, time.Local)
		if err != nil {
			return nil, &ValidationError{Field: "deadline", Msg: err.Error()}
		}
		s := deadline.Format(t.Local())
		return &s, nil
	}
	return nil, &ValidationError{Field: "deadline", Msg: fmt.Sprintf("unsupported value %T", value)}
}
