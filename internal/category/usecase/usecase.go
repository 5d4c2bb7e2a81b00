package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-stock-app/internal/apperror"
	"github.com/fekuna/omnipos-stock-app/internal/category"
	"github.com/fekuna/omnipos-stock-app/internal/category/dto"
	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/internal/operation"
	"github.com/fekuna/omnipos-stock-app/pkg/logger"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo    category.Repository
	items   category.Items
	remote  category.Remote
	tracker *operation.Tracker
	logger  logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, items category.Items, remote category.Remote, tracker *operation.Tracker, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:    repo,
		items:   items,
		remote:  remote,
		tracker: tracker,
		logger:  log,
	}
}

// CreateCategory does not check for duplicate names; only renames do.
func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("name", "is required")
	}

	done, err := uc.tracker.Begin(operation.SaveCategory)
	if err != nil {
		return nil, err
	}
	defer done()

	if uc.remote == nil {
		cat, _ := uc.repo.Add(name)
		return &cat, nil
	}

	created, err := uc.remote.SaveCategory(ctx, model.Category{Name: name})
	if err != nil {
		uc.logger.Error("failed to create category", zap.String("name", name), zap.Error(err))
		return nil, err
	}
	if created.Name == "" {
		created.Name = name
	}
	uc.repo.Insert(*created)
	return created, nil
}

func (uc *categoryUseCase) RenameCategory(ctx context.Context, input *dto.RenameCategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation("name", "is required")
	}

	cat, ok := uc.repo.FindByID(input.ID)
	if !ok {
		return nil, fmt.Errorf("category %s: %w", input.ID, apperror.ErrNotFound)
	}
	if uc.repo.NameTaken(name, cat.ID) {
		return nil, fmt.Errorf("category %q: %w", name, apperror.ErrDuplicateName)
	}
	if cat.Name == name {
		return &cat, nil
	}

	done, err := uc.tracker.Begin(operation.SaveCategory)
	if err != nil {
		return nil, err
	}
	defer done()

	oldName := cat.Name
	cat.Name = name
	if uc.remote != nil {
		if _, err := uc.remote.SaveCategory(ctx, cat); err != nil {
			uc.logger.Error("failed to rename category", zap.String("category_id", cat.ID), zap.Error(err))
			return nil, err
		}
	}

	if err := uc.repo.Update(cat); err != nil {
		return nil, err
	}
	if uc.items != nil {
		uc.items.RelabelCategory(cat.ID, oldName, name)
	}
	return &cat, nil
}

// DeleteCategory removes the category only. Its items stay in the Inventory
// Store and become orphans; they are logged so the condition is visible.
func (uc *categoryUseCase) DeleteCategory(ctx context.Context, id string) error {
	cat, ok := uc.repo.FindByID(id)
	if !ok {
		return nil
	}

	done, err := uc.tracker.Begin(operation.DeleteCategory)
	if err != nil {
		return err
	}
	defer done()

	if uc.remote != nil {
		if err := uc.remote.DeleteCategory(ctx, id); err != nil {
			uc.logger.Error("failed to delete category", zap.String("category_id", id), zap.Error(err))
			return err
		}
	}
	uc.repo.Remove(id)

	if uc.items != nil {
		if orphans := uc.items.ByCategory(cat.Name); len(orphans) > 0 {
			uc.logger.Warn("category deleted with items still referencing it",
				zap.String("category_id", id),
				zap.String("category", cat.Name),
				zap.Int("orphaned_items", len(orphans)),
			)
		}
	}
	return nil
}

func (uc *categoryUseCase) ListCategories(_ context.Context) []model.Category {
	return uc.repo.List()
}
