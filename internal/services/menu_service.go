package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"restaurant_site/internal/models"
	"restaurant_site/internal/repository"
	"restaurant_site/internal/upload"
)

// MenuCache stores menu listings between requests.
type MenuCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	Invalidate(ctx context.Context) error
}

// MenuSection is one category block of the menu page.
type MenuSection struct {
	Category models.MenuCategory
	Label    string
	Items    []models.MenuItem
}

type MenuService interface {
	// ListMenu returns menu items matching filter, from the cache when possible.
	ListMenu(ctx context.Context, filter repository.MenuFilter) ([]models.MenuItem, error)
	// MenuSections groups available items by category in display order.
	MenuSections(ctx context.Context) ([]MenuSection, error)
	GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error)
	ListMenuItems(ctx context.Context, q repository.ListQuery) ([]models.MenuItem, int64, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	// DeleteMenuItem refuses with ErrMenuItemInUse while any order line
	// references the item.
	DeleteMenuItem(ctx context.Context, id uint) error
	ToggleAvailability(ctx context.Context, ids []uint) (int64, error)
	SetImage(ctx context.Context, id uint, filename string, size int64, file io.Reader) (*models.MenuItem, error)
}

type menuService struct {
	repos          *repository.Repositories
	cache          MenuCache
	media          upload.Store
	maxUploadBytes int64
	now            func() time.Time
}

func NewMenuService(repos *repository.Repositories, cache MenuCache, media upload.Store, maxUploadBytes int64) MenuService {
	return &menuService{
		repos:          repos,
		cache:          cache,
		media:          media,
		maxUploadBytes: maxUploadBytes,
		now:            time.Now,
	}
}

func (s *menuService) ListMenu(ctx context.Context, filter repository.MenuFilter) ([]models.MenuItem, error) {
	key := menuCacheKey(filter)

	var items []models.MenuItem
	hit, err := s.cache.Get(ctx, key, &items)
	if err != nil {
		log.Printf("menu cache read failed: key=%s err=%v", key, err)
	}
	if hit {
		return items, nil
	}

	items, err = s.repos.MenuItems.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu: %w", err)
	}
	if err := s.cache.Set(ctx, key, items); err != nil {
		log.Printf("menu cache write failed: key=%s err=%v", key, err)
	}
	return items, nil
}

func (s *menuService) MenuSections(ctx context.Context) ([]MenuSection, error) {
	items, err := s.ListMenu(ctx, repository.MenuFilter{AvailableOnly: true})
	if err != nil {
		return nil, err
	}

	byCategory := make(map[models.MenuCategory][]models.MenuItem)
	for _, item := range items {
		c := models.MenuCategory(item.Category)
		byCategory[c] = append(byCategory[c], item)
	}

	var sections []MenuSection
	for _, c := range models.MenuCategories {
		if len(byCategory[c]) == 0 {
			continue
		}
		sections = append(sections, MenuSection{Category: c, Label: c.Label(), Items: byCategory[c]})
	}
	return sections, nil
}

func (s *menuService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.repos.MenuItems.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "menu item")
	}
	return item, nil
}

func (s *menuService) ListMenuItems(ctx context.Context, q repository.ListQuery) ([]models.MenuItem, int64, error) {
	return s.repos.MenuItems.List(ctx, q)
}

func (s *menuService) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if item.Category == "" {
		item.Category = string(models.CategoryMain)
	}
	if err := validateMenuItem(item); err != nil {
		return err
	}
	if err := s.repos.MenuItems.Create(ctx, item); err != nil {
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *menuService) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	if err := validateMenuItem(item); err != nil {
		return err
	}
	existing, err := s.repos.MenuItems.GetByID(ctx, item.ID)
	if err != nil {
		return notFound(err, "menu item")
	}
	item.CreatedAt = existing.CreatedAt

	if err := s.repos.MenuItems.Update(ctx, item); err != nil {
		return fmt.Errorf("failed to update menu item: %w", err)
	}
	s.invalidate(ctx)
	return nil
}

func (s *menuService) DeleteMenuItem(ctx context.Context, id uint) error {
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.MenuItems.GetByID(ctx, id); err != nil {
			return notFound(err, "menu item")
		}
		refs, err := tx.OrderItems.CountByMenuItemIDs(ctx, []uint{id})
		if err != nil {
			return fmt.Errorf("failed to count order items: %w", err)
		}
		if refs > 0 {
			return ErrMenuItemInUse
		}
		return tx.MenuItems.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *menuService) ToggleAvailability(ctx context.Context, ids []uint) (int64, error) {
	n, err := s.repos.MenuItems.ToggleAvailability(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to toggle availability: %w", err)
	}
	s.invalidate(ctx)
	return n, nil
}

func (s *menuService) SetImage(ctx context.Context, id uint, filename string, size int64, file io.Reader) (*models.MenuItem, error) {
	if err := upload.Validate(filename, size, s.maxUploadBytes); err != nil {
		return nil, invalid("image", err.Error())
	}
	item, err := s.repos.MenuItems.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "menu item")
	}

	ref, err := s.media.Save(ctx, upload.MenuItemImagePath(item.Name, upload.Ext(filename), s.now()), file)
	if err != nil {
		return nil, fmt.Errorf("failed to store menu image: %w", err)
	}
	item.Image = ref
	if err := s.repos.MenuItems.Update(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *menuService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("menu cache invalidation failed: err=%v", err)
	}
}

func menuCacheKey(f repository.MenuFilter) string {
	veg := "any"
	if f.IsVegetarian != nil {
		veg = fmt.Sprintf("%t", *f.IsVegetarian)
	}
	// category is matched exactly by the query, so it is keyed verbatim
	return fmt.Sprintf("menu:list:%s:%t:%q", veg, f.AvailableOnly, f.Category)
}

func validateMenuItem(item *models.MenuItem) error {
	v := &ValidationError{}
	item.Name = strings.TrimSpace(item.Name)
	requireText(v, "name", item.Name, 100)
	if item.Price <= 0 {
		v.add("price", "Ensure this value is greater than 0.")
	}
	if !models.MenuCategory(item.Category).Valid() {
		v.add("category", fmt.Sprintf("%q is not a valid choice.", item.Category))
	}
	return v.errOrNil()
}
