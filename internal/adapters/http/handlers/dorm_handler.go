package handlers

import (
	"errors"
	"mime/multipart"
	"strconv"

	"bookit-api/internal/adapters/persistence/repositories"
	"bookit-api/internal/core/services"
	"bookit-api/internal/pkg/pagination"
	"bookit-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const imagesField = "images"

// DormHandler handles the dorm catalog
type DormHandler struct {
	dormService *services.DormService
}

// NewDormHandler creates a new dorm handler
func NewDormHandler(dormService *services.DormService) *DormHandler {
	return &DormHandler{dormService: dormService}
}

// DormRequest is the create/update body, sent as JSON or multipart form
type DormRequest struct {
	Name          string  `json:"name" form:"name"`
	Description   string  `json:"description" form:"description"`
	Capacity      int     `json:"capacity" form:"capacity"`
	PricePerNight float64 `json:"price_per_night" form:"price_per_night"`
	Available     *bool   `json:"available" form:"available"`
}

func (r *DormRequest) toInput() *services.DormInput {
	return &services.DormInput{
		Name:          r.Name,
		Description:   r.Description,
		Capacity:      r.Capacity,
		PricePerNight: r.PricePerNight,
		Available:     r.Available,
	}
}

// AvailabilityRequest represents the availability toggle body
type AvailabilityRequest struct {
	Available *bool `json:"available"`
}

// RemoveImageRequest represents the image removal body
type RemoveImageRequest struct {
	ImageURL string `json:"imageUrl"`
}

// openImages opens the multipart files under field. The returned closer
// must be called once the service is done reading.
func openImages(c *fiber.Ctx, field string) ([]services.ImageFile, func(), error) {
	form, err := c.MultipartForm()
	if err != nil {
		// not a multipart request
		return nil, func() {}, nil
	}

	headers := form.File[field]
	files := make([]services.ImageFile, 0, len(headers))
	opened := make([]multipart.File, 0, len(headers))
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		files = append(files, services.ImageFile{Name: fh.Filename, Size: fh.Size, Reader: f})
	}
	return files, closeAll, nil
}

func parseFilter(c *fiber.Ctx) (repositories.DormFilter, error) {
	var filter repositories.DormFilter

	if v := c.Query("minPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, errors.New("minPrice must be a number")
		}
		filter.MinPrice = &f
	}
	if v := c.Query("maxPrice"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, errors.New("maxPrice must be a number")
		}
		filter.MaxPrice = &f
	}
	if v := c.Query("capacity"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, errors.New("capacity must be an integer")
		}
		filter.Capacity = &n
	}
	if v := c.Query("available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return filter, errors.New("available must be true or false")
		}
		filter.Available = &b
	}
	return filter, nil
}

// List returns a filtered page of dorms
// @Summary List dorms
// @Tags Dorms
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Param minPrice query number false "Minimum nightly price"
// @Param maxPrice query number false "Maximum nightly price"
// @Param capacity query int false "Minimum capacity"
// @Param available query bool false "Listing flag"
// @Success 200 {object} response.Response
// @Router /api/dorms [get]
func (h *DormHandler) List(c *fiber.Ctx) error {
	filter, err := parseFilter(c)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	page, limit := pagination.Query(c)
	result, err := h.dormService.List(c.UserContext(), filter, page, limit)
	if err != nil {
		return respondError(c, err, "Failed to fetch dorms")
	}

	return response.Success(c, "", result)
}

// Get returns one dorm with its rating summary
// @Summary Get dorm
// @Tags Dorms
// @Produce json
// @Param id path int true "Dorm ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/dorms/{id} [get]
func (h *DormHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid dorm ID")
	}

	dorm, err := h.dormService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "Failed to fetch dorm")
	}

	return response.Success(c, "", dorm)
}

// Create adds a dorm
// @Summary Create dorm
// @Description Multipart form with dorm fields and up to several images under "images"
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param name formData string true "Name"
// @Param description formData string false "Description"
// @Param capacity formData int true "Capacity"
// @Param price_per_night formData number true "Nightly price"
// @Param available formData bool false "Listing flag"
// @Param images formData file false "Images"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/admin/dorms [post]
func (h *DormHandler) Create(c *fiber.Ctx) error {
	var req DormRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	images, closeImages, err := openImages(c, imagesField)
	if err != nil {
		return response.BadRequest(c, "Invalid image upload")
	}
	defer closeImages()

	dorm, err := h.dormService.Create(c.UserContext(), req.toInput(), images)
	if err != nil {
		return respondError(c, err, "Failed to create dorm")
	}

	return response.Created(c, "Dorm created successfully", dorm)
}

// Update replaces dorm fields; new images are appended
// @Summary Update dorm
// @Tags Admin
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Dorm ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/admin/dorms/{id} [put]
func (h *DormHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid dorm ID")
	}

	var req DormRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	images, closeImages, err := openImages(c, imagesField)
	if err != nil {
		return response.BadRequest(c, "Invalid image upload")
	}
	defer closeImages()

	dorm, err := h.dormService.Update(c.UserContext(), id, req.toInput(), images)
	if err != nil {
		return respondError(c, err, "Failed to update dorm")
	}

	return response.Success(c, "Dorm updated successfully", dorm)
}

// Delete removes a dorm without bookings
// @Summary Delete dorm
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Dorm ID"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/dorms/{id} [delete]
func (h *DormHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid dorm ID")
	}

	if err := h.dormService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err, "Failed to delete dorm")
	}

	return response.Success(c, "Dorm deleted successfully", nil)
}

// SetAvailability toggles the listing flag
// @Summary Set dorm availability
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Dorm ID"
// @Param body body AvailabilityRequest true "Listing flag"
// @Success 200 {object} response.Response
// @Router /api/dorms/{id}/availability [patch]
func (h *DormHandler) SetAvailability(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid dorm ID")
	}

	var req AvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Available == nil {
		return response.BadRequest(c, "available is required")
	}

	dorm, err := h.dormService.SetAvailability(c.UserContext(), id, *req.Available)
	if err != nil {
		return respondError(c, err, "Failed to update dorm")
	}

	return response.Success(c, "Dorm availability updated successfully", dorm)
}

// RemoveImage removes one image from a dorm
// @Summary Remove dorm image
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Dorm ID"
// @Param body body RemoveImageRequest true "Image URL"
// @Success 200 {object} response.Response
// @Router /api/admin/dorms/{id}/images [delete]
func (h *DormHandler) RemoveImage(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return response.BadRequest(c, "Invalid dorm ID")
	}

	var req RemoveImageRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ImageURL == "" {
		return response.BadRequest(c, "imageUrl is required")
	}

	dorm, err := h.dormService.RemoveImage(c.UserContext(), id, req.ImageURL)
	if err != nil {
		return respondError(c, err, "Failed to remove image")
	}

	return response.Success(c, "Image removed successfully", dorm)
}
