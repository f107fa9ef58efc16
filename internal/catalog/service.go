package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/dukkanhq/dukkan-backend/pkg/db/models"
	pkgerrors "github.com/dukkanhq/dukkan-backend/pkg/errors"
	"github.com/dukkanhq/dukkan-backend/pkg/pagination"

	"github.com/dukkanhq/dukkan-backend/internal/products"
)

// sectionProductLimit caps how many products each home page section carries.
const sectionProductLimit = 10

type catalogRepo interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, category *models.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	FindCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context, activeOnly bool) ([]models.Category, error)

	CreateSection(ctx context.Context, section *models.Section) error
	UpdateSection(ctx context.Context, section *models.Section) error
	DeleteSection(ctx context.Context, id uuid.UUID) error
	FindSection(ctx context.Context, id uuid.UUID) (*models.Section, error)
	ListSections(ctx context.Context, activeOnly bool) ([]models.Section, error)

	CreateSlider(ctx context.Context, slider *models.Slider) error
	UpdateSlider(ctx context.Context, slider *models.Slider) error
	DeleteSlider(ctx context.Context, id uuid.UUID) error
	FindSlider(ctx context.Context, id uuid.UUID) (*models.Slider, error)
	ListSliders(ctx context.Context, activeOnly bool) ([]models.Slider, error)
}

type productLister interface {
	PublicList(ctx context.Context, in products.ListInput) (*products.Page, error)
}

// Service backs the storefront home feed and the admin merchandising CRUD.
type Service struct {
	repo     catalogRepo
	products productLister
}

func NewService(repo catalogRepo, lister productLister) (*Service, error) {
	if repo == nil {
		return nil, errors.New("catalog service requires a repository")
	}
	if lister == nil {
		return nil, errors.New("catalog service requires a product lister")
	}
	return &Service{repo: repo, products: lister}, nil
}

// HomeSection is a curated row with its products already resolved.
type HomeSection struct {
	Section  models.Section  `json:"section"`
	Products []products.View `json:"products"`
}

// HomeFeed is everything the storefront needs to render its landing page.
type HomeFeed struct {
	Sliders    []models.Slider   `json:"sliders"`
	Categories []models.Category `json:"categories"`
	Sections   []HomeSection     `json:"sections"`
}

// Home assembles the landing page: active sliders, active categories and each
// active section with up to ten of its products.
func (s *Service) Home(ctx context.Context) (*HomeFeed, error) {
	sliders, err := s.repo.ListSliders(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sliders")
	}
	categories, err := s.repo.ListCategories(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading categories")
	}
	sections, err := s.repo.ListSections(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading sections")
	}

	feed := &HomeFeed{
		Sliders:    sliders,
		Categories: categories,
		Sections:   make([]HomeSection, 0, len(sections)),
	}
	for i := range sections {
		section := sections[i]
		sectionID := section.ID
		page, err := s.products.PublicList(ctx, products.ListInput{
			SectionID:  &sectionID,
			Pagination: pagination.Params{Limit: sectionProductLimit},
		})
		if err != nil {
			return nil, err
		}
		feed.Sections = append(feed.Sections, HomeSection{Section: section, Products: page.Products})
	}
	return feed, nil
}

// PublicCategories lists active categories for the storefront nav.
func (s *Service) PublicCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}
	return rows, nil
}

// CategoryInput covers both create and update payloads for a category.
type CategoryInput struct {
	NameAr    string  `json:"name_ar" validate:"required,max=255"`
	NameEn    string  `json:"name_en" validate:"max=255"`
	Image     *string `json:"image"`
	SortOrder int     `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

func (s *Service) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	if strings.TrimSpace(in.NameAr) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "arabic name is required")
	}
	category := &models.Category{
		NameAr:    strings.TrimSpace(in.NameAr),
		NameEn:    strings.TrimSpace(in.NameEn),
		Image:     in.Image,
		SortOrder: in.SortOrder,
		IsActive:  true,
	}
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating category")
	}
	return category, nil
}

func (s *Service) UpdateCategory(ctx context.Context, id uuid.UUID, in CategoryInput) (*models.Category, error) {
	category, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	if category == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	if strings.TrimSpace(in.NameAr) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "arabic name is required")
	}
	category.NameAr = strings.TrimSpace(in.NameAr)
	category.NameEn = strings.TrimSpace(in.NameEn)
	category.Image = in.Image
	category.SortOrder = in.SortOrder
	if in.IsActive != nil {
		category.IsActive = *in.IsActive
	}
	if err := s.repo.UpdateCategory(ctx, category); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating category")
	}
	return category, nil
}

func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	category, err := s.repo.FindCategory(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading category")
	}
	if category == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting category")
	}
	return nil
}

// AdminCategories lists every category including hidden ones.
func (s *Service) AdminCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing categories")
	}
	return rows, nil
}

// SectionInput covers both create and update payloads for a section.
type SectionInput struct {
	TitleAr    string     `json:"title_ar" validate:"required,max=255"`
	TitleEn    string     `json:"title_en" validate:"max=255"`
	CategoryID *uuid.UUID `json:"category_id"`
	SortOrder  int        `json:"sort_order"`
	IsActive   *bool      `json:"is_active"`
}

func (s *Service) CreateSection(ctx context.Context, in SectionInput) (*models.Section, error) {
	if strings.TrimSpace(in.TitleAr) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "arabic title is required")
	}
	section := &models.Section{
		TitleAr:    strings.TrimSpace(in.TitleAr),
		TitleEn:    strings.TrimSpace(in.TitleEn),
		CategoryID: in.CategoryID,
		SortOrder:  in.SortOrder,
		IsActive:   true,
	}
	if in.IsActive != nil {
		section.IsActive = *in.IsActive
	}
	if err := s.repo.CreateSection(ctx, section); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating section")
	}
	return section, nil
}

func (s *Service) UpdateSection(ctx context.Context, id uuid.UUID, in SectionInput) (*models.Section, error) {
	section, err := s.repo.FindSection(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading section")
	}
	if section == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "section not found")
	}
	if strings.TrimSpace(in.TitleAr) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "arabic title is required")
	}
	section.TitleAr = strings.TrimSpace(in.TitleAr)
	section.TitleEn = strings.TrimSpace(in.TitleEn)
	section.CategoryID = in.CategoryID
	section.SortOrder = in.SortOrder
	if in.IsActive != nil {
		section.IsActive = *in.IsActive
	}
	if err := s.repo.UpdateSection(ctx, section); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating section")
	}
	return section, nil
}

func (s *Service) DeleteSection(ctx context.Context, id uuid.UUID) error {
	section, err := s.repo.FindSection(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading section")
	}
	if section == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "section not found")
	}
	if err := s.repo.DeleteSection(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting section")
	}
	return nil
}

func (s *Service) AdminSections(ctx context.Context) ([]models.Section, error) {
	rows, err := s.repo.ListSections(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing sections")
	}
	return rows, nil
}

// SliderInput covers both create and update payloads for a hero slide.
type SliderInput struct {
	Image     string  `json:"image" validate:"required"`
	Link      *string `json:"link"`
	TitleAr   *string `json:"title_ar"`
	TitleEn   *string `json:"title_en"`
	SortOrder int     `json:"sort_order"`
	IsActive  *bool   `json:"is_active"`
}

func (s *Service) CreateSlider(ctx context.Context, in SliderInput) (*models.Slider, error) {
	if strings.TrimSpace(in.Image) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slider image is required")
	}
	slider := &models.Slider{
		Image:     strings.TrimSpace(in.Image),
		Link:      in.Link,
		TitleAr:   in.TitleAr,
		TitleEn:   in.TitleEn,
		SortOrder: in.SortOrder,
		IsActive:  true,
	}
	if in.IsActive != nil {
		slider.IsActive = *in.IsActive
	}
	if err := s.repo.CreateSlider(ctx, slider); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating slider")
	}
	return slider, nil
}

func (s *Service) UpdateSlider(ctx context.Context, id uuid.UUID, in SliderInput) (*models.Slider, error) {
	slider, err := s.repo.FindSlider(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading slider")
	}
	if slider == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "slider not found")
	}
	if strings.TrimSpace(in.Image) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slider image is required")
	}
	slider.Image = strings.TrimSpace(in.Image)
	slider.Link = in.Link
	slider.TitleAr = in.TitleAr
	slider.TitleEn = in.TitleEn
	slider.SortOrder = in.SortOrder
	if in.IsActive != nil {
		slider.IsActive = *in.IsActive
	}
	if err := s.repo.UpdateSlider(ctx, slider); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating slider")
	}
	return slider, nil
}

func (s *Service) DeleteSlider(ctx context.Context, id uuid.UUID) error {
	slider, err := s.repo.FindSlider(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading slider")
	}
	if slider == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "slider not found")
	}
	if err := s.repo.DeleteSlider(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deleting slider")
	}
	return nil
}

func (s *Service) AdminSliders(ctx context.Context) ([]models.Slider, error) {
	rows, err := s.repo.ListSliders(ctx, false)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing sliders")
	}
	return rows, nil
}
