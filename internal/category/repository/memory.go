package repository

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/google/uuid"
)

// State is the whole Category Store.
type State struct {
	Categories []model.Category
}

// Action is one of AddCategory, RemoveCategory, UpdateCategory, ReplaceAll.
type Action interface {
	isCategoryAction()
}

type AddCategory struct{ Category model.Category }
type RemoveCategory struct{ ID string }
type UpdateCategory struct{ Category model.Category }
type ReplaceAll struct{ Categories []model.Category }

func (AddCategory) isCategoryAction()    {}
func (RemoveCategory) isCategoryAction() {}
func (UpdateCategory) isCategoryAction() {}
func (ReplaceAll) isCategoryAction()     {}

// Reduce returns the state after applying a. The input state is never
// modified; on error the returned state equals s.
func Reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case AddCategory:
		c := a.Category
		c.Name = strings.TrimSpace(c.Name)
		if c.Name == "" {
			return s, nil
		}
		return State{Categories: append(slices.Clip(s.Categories), c)}, nil

	case RemoveCategory:
		idx := indexByID(s.Categories, a.ID)
		if idx < 0 {
			return s, nil
		}
		return State{Categories: slices.Delete(slices.Clone(s.Categories), idx, idx+1)}, nil

	case UpdateCategory:
		idx := indexByID(s.Categories, a.Category.ID)
		if idx < 0 {
			return s, apperror.ErrNotFound
		}
		next := slices.Clone(s.Categories)
		next[idx] = a.Category
		return State{Categories: next}, nil

	case ReplaceAll:
		return State{Categories: slices.Clone(a.Categories)}, nil
	}
	return s, nil
}

func indexByID(cats []model.Category, id string) int {
	return slices.IndexFunc(cats, func(c model.Category) bool { return c.ID == id })
}

type MemoryRepository struct {
	mu    sync.RWMutex
	state State
	now   func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{now: time.Now}
}

func (r *MemoryRepository) dispatch(a Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, err := Reduce(r.state, a)
	if err != nil {
		return err
	}
	r.state = next
	return nil
}

func (r *MemoryRepository) Add(name string) (model.Category, bool) {
	c := model.Category{
		BaseModel: model.BaseModel{ID: uuid.New().String(), CreatedAt: r.now()},
		Name:      name,
	}
	if !r.Insert(c) {
		return model.Category{}, false
	}
	c.Name = strings.TrimSpace(name)
	return c, true
}

func (r *MemoryRepository) Insert(c model.Category) bool {
	if strings.TrimSpace(c.Name) == "" {
		return false
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = r.now()
	}
	_ = r.dispatch(AddCategory{Category: c})
	return true
}

func (r *MemoryRepository) Remove(id string) {
	_ = r.dispatch(RemoveCategory{ID: id})
}

func (r *MemoryRepository) Update(c model.Category) error {
	return r.dispatch(UpdateCategory{Category: c})
}

func (r *MemoryRepository) ReplaceAll(cats []model.Category) {
	_ = r.dispatch(ReplaceAll{Categories: cats})
}

func (r *MemoryRepository) List() []model.Category {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.state.Categories)
}

func (r *MemoryRepository) FindByID(id string) (model.Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if idx := indexByID(r.state.Categories, id); idx >= 0 {
		return r.state.Categories[idx], true
	}
	return model.Category{}, false
}

func (r *MemoryRepository) FindByName(name string) (model.Category, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.state.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return model.Category{}, false
}

func (r *MemoryRepository) NameTaken(name, exceptID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.state.Categories {
		if c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}
