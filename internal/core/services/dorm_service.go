package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"bookit-api/internal/adapters/persistence/models"
	"bookit-api/internal/adapters/persistence/repositories"
	"bookit-api/internal/config"
	"bookit-api/internal/core/domain"
	"bookit-api/internal/pkg/pagination"
	"bookit-api/internal/pkg/validate"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxImageSize is the largest accepted image upload
const MaxImageSize = 5 << 20

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

// ValidateImage checks extension and size of an upload
func ValidateImage(f ImageFile) error {
	ext := strings.ToLower(filepath.Ext(f.Name))
	if !allowedImageExt[ext] {
		return fmt.Errorf("%w: %s is not a jpg, jpeg, png or webp image", domain.ErrValidation, f.Name)
	}
	if f.Size > MaxImageSize {
		return fmt.Errorf("%w: %s exceeds 5MB", domain.ErrValidation, f.Name)
	}
	return nil
}

// DormService manages the dorm catalog
type DormService struct {
	dormRepo    repositories.DormRepository
	bookingRepo repositories.BookingRepository
	reviewRepo  repositories.ReviewRepository
	media       MediaStore
	folder      string
}

// NewDormService creates a new dorm service
func NewDormService(
	dormRepo repositories.DormRepository,
	bookingRepo repositories.BookingRepository,
	reviewRepo repositories.ReviewRepository,
	media MediaStore,
	cfg *config.Config,
) *DormService {
	return &DormService{
		dormRepo:    dormRepo,
		bookingRepo: bookingRepo,
		reviewRepo:  reviewRepo,
		media:       media,
		folder:      cfg.Media.Folder,
	}
}

// DormInput represents create/update input
type DormInput struct {
	Name          string  `json:"name" validate:"required,max=150"`
	Description   string  `json:"description"`
	Capacity      int     `json:"capacity" validate:"required,min=1"`
	PricePerNight float64 `json:"price_per_night" validate:"min=0"`
	Available     *bool   `json:"available"`
}

// List returns a filtered page of dorms
func (s *DormService) List(ctx context.Context, filter repositories.DormFilter, page, limit int) (*pagination.Page[*models.DormResponse], error) {
	params := pagination.New(page, limit)

	dorms, total, err := s.dormRepo.List(ctx, filter, params.Offset, params.Limit)
	if err != nil {
		return nil, err
	}

	items := make([]*models.DormResponse, len(dorms))
	for i, d := range dorms {
		items[i] = d.ToResponse()
	}

	return pagination.NewPage(items, params, total), nil
}

// Get returns a dorm with its rating summary
func (s *DormService) Get(ctx context.Context, id uint) (*models.DormResponse, error) {
	dorm, err := s.getDorm(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dorm.ToResponse()
	avg, count, err := s.reviewRepo.Summary(ctx, id)
	if err != nil {
		return nil, err
	}
	resp.AverageRating = avg
	resp.ReviewCount = count
	return resp, nil
}

func (s *DormService) getDorm(ctx context.Context, id uint) (*models.Dorm, error) {
	dorm, err := s.dormRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDormNotFound
		}
		return nil, err
	}
	return dorm, nil
}

// uploadImages validates every file first, then uploads; failed uploads are skipped
func (s *DormService) uploadImages(ctx context.Context, images []ImageFile) ([]string, error) {
	for _, img := range images {
		if err := ValidateImage(img); err != nil {
			return nil, err
		}
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		name := uuid.NewString()
		url, err := s.media.Upload(ctx, s.folder, name, img.Reader)
		if err != nil {
			log.Printf("❌ Image upload failed (%s): %v", img.Name, err)
			continue
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func validateDorm(input *DormInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrValidation, err.Error())
	}
	return nil
}

// Create adds a dorm with uploaded images
func (s *DormService) Create(ctx context.Context, input *DormInput, images []ImageFile) (*models.DormResponse, error) {
	if err := validateDorm(input); err != nil {
		return nil, err
	}

	urls, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}

	available := true
	if input.Available != nil {
		available = *input.Available
	}

	dorm := &models.Dorm{
		Name:          input.Name,
		Description:   input.Description,
		Capacity:      input.Capacity,
		PricePerNight: input.PricePerNight,
		Available:     available,
		Images:        urls,
	}
	if err := s.dormRepo.Create(ctx, dorm); err != nil {
		return nil, err
	}

	log.Printf("🏠 Dorm created: %d %s (%d images)", dorm.ID, dorm.Name, len(urls))
	return dorm.ToResponse(), nil
}

// Update replaces dorm fields and appends new images
func (s *DormService) Update(ctx context.Context, id uint, input *DormInput, images []ImageFile) (*models.DormResponse, error) {
	if err := validateDorm(input); err != nil {
		return nil, err
	}

	dorm, err := s.getDorm(ctx, id)
	if err != nil {
		return nil, err
	}

	urls, err := s.uploadImages(ctx, images)
	if err != nil {
		return nil, err
	}

	dorm.Name = input.Name
	dorm.Description = input.Description
	dorm.Capacity = input.Capacity
	dorm.PricePerNight = input.PricePerNight
	if input.Available != nil {
		dorm.Available = *input.Available
	}
	dorm.Images = append(dorm.Images, urls...)

	if err := s.dormRepo.Update(ctx, dorm); err != nil {
		return nil, err
	}
	return dorm.ToResponse(), nil
}

// Delete removes a dorm that has no bookings, then its hosted images
func (s *DormService) Delete(ctx context.Context, id uint) error {
	dorm, err := s.getDorm(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.bookingRepo.CountByDorm(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrDormHasBookings
	}

	if err := s.dormRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrDormNotFound
		}
		return err
	}

	for _, url := range dorm.Images {
		if err := s.media.Delete(ctx, url); err != nil {
			log.Printf("⚠️ Failed to delete image %s: %v", url, err)
		}
	}

	log.Printf("🗑️ Dorm deleted: %d", id)
	return nil
}

// SetAvailability toggles the listing flag; bookings are not touched
func (s *DormService) SetAvailability(ctx context.Context, id uint, available bool) (*models.DormResponse, error) {
	if err := s.dormRepo.SetAvailability(ctx, id, available); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDormNotFound
		}
		return nil, err
	}

	dorm, err := s.getDorm(ctx, id)
	if err != nil {
		return nil, err
	}
	return dorm.ToResponse(), nil
}

// RemoveImage drops an image from the dorm, then deletes it from the media store
func (s *DormService) RemoveImage(ctx context.Context, id uint, url string) (*models.DormResponse, error) {
	dorm, err := s.getDorm(ctx, id)
	if err != nil {
		return nil, err
	}

	kept := make([]string, 0, len(dorm.Images))
	found := false
	for _, img := range dorm.Images {
		if img == url && !found {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return nil, domain.ErrImageNotFound
	}

	dorm.Images = kept
	if err := s.dormRepo.Update(ctx, dorm); err != nil {
		return nil, err
	}

	if err := s.media.Delete(ctx, url); err != nil {
		log.Printf("⚠️ Failed to delete image %s: %v", url, err)
	}

	return dorm.ToResponse(), nil
}
