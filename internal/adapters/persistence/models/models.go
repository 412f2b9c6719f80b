package models

import (
	"time"

	"bookit-api/internal/core/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ============================================================
// Accounts
// ============================================================

// User represents users table
type User struct {
	ID        uint        `gorm:"primaryKey" json:"id"`
	Email     string      `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string      `gorm:"size:255;not null" json:"-"`
	FirstName string      `gorm:"size:100;not null" json:"first_name"`
	LastName  string      `gorm:"size:100;not null" json:"last_name"`
	Role      domain.Role `gorm:"size:20;default:'student';not null" json:"role"`
	Verified  bool        `gorm:"default:false" json:"verified"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// FullName joins first and last name
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// UserResponse DTO
type UserResponse struct {
	ID        uint        `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      domain.Role `json:"role"`
	Verified  bool        `json:"verified"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Verified:  u.Verified,
		CreatedAt: u.CreatedAt,
	}
}

// VerificationCode holds a pending signup until the emailed code is confirmed
type VerificationCode struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Code         string    `gorm:"size:6;not null" json:"-"`
	FirstName    string    `gorm:"size:100" json:"first_name"`
	LastName     string    `gorm:"size:100" json:"last_name"`
	PasswordHash string    `gorm:"size:255" json:"-"`
	CreatedAt    time.Time `gorm:"index;not null" json:"created_at"`
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}

// ResetCode holds a password reset code
type ResetCode struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Code      string    `gorm:"size:6;not null" json:"-"`
	CreatedAt time.Time `gorm:"index;not null" json:"created_at"`
}

func (ResetCode) TableName() string {
	return "reset_codes"
}

// ============================================================
// Catalog
// ============================================================

// Dorm represents dorms table
type Dorm struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	Name          string                      `gorm:"size:150;not null" json:"name"`
	Description   string                      `gorm:"type:text" json:"description"`
	Capacity      int                         `gorm:"not null" json:"capacity"`
	PricePerNight float64                     `gorm:"type:decimal(10,2);not null" json:"price_per_night"`
	Available     bool                        `gorm:"index" json:"available"`
	Images        datatypes.JSONSlice[string] `json:"images"`
	CreatedAt     time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Dorm) TableName() string {
	return "dorms"
}

// DormResponse DTO
type DormResponse struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Capacity      int       `json:"capacity"`
	PricePerNight float64   `json:"price_per_night"`
	Available     bool      `json:"available"`
	Images        []string  `json:"images"`
	AverageRating *float64  `json:"average_rating,omitempty"`
	ReviewCount   int64     `json:"review_count"`
	CreatedAt     time.Time `json:"created_at"`
}

func (d *Dorm) ToResponse() *DormResponse {
	images := []string(d.Images)
	if images == nil {
		images = []string{}
	}
	return &DormResponse{
		ID:            d.ID,
		Name:          d.Name,
		Description:   d.Description,
		Capacity:      d.Capacity,
		PricePerNight: d.PricePerNight,
		Available:     d.Available,
		Images:        images,
		CreatedAt:     d.CreatedAt,
	}
}

// ============================================================
// Bookings
// ============================================================

// Booking represents bookings table
type Booking struct {
	ID                 uint                 `gorm:"primaryKey" json:"id"`
	UserID             uint                 `gorm:"index;not null" json:"user_id"`
	DormID             uint                 `gorm:"index:idx_bookings_dorm_status;not null" json:"dorm_id"`
	StartDate          time.Time            `gorm:"type:date;not null" json:"start_date"`
	EndDate            time.Time            `gorm:"type:date;not null" json:"end_date"`
	Semester           domain.Semester      `gorm:"size:1" json:"semester"`
	AcademicYear       int                  `json:"academic_year"`
	Status             domain.BookingStatus `gorm:"size:20;not null;index:idx_bookings_dorm_status" json:"status"`
	PaymentStatus      domain.PaymentStatus `gorm:"size:20;not null;index" json:"payment_status"`
	PaymentDeadline    time.Time            `gorm:"index" json:"payment_deadline"`
	ConfirmationNumber string               `gorm:"uniqueIndex;size:8;not null" json:"confirmation_number"`
	RoomNumber         *string              `gorm:"size:20" json:"room_number"`
	CancelReason       *string              `gorm:"type:text" json:"cancel_reason,omitempty"`
	PaymentProofURL    *string              `gorm:"size:500" json:"payment_proof_url,omitempty"`
	CreatedAt          time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time            `gorm:"autoUpdateTime" json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Dorm Dorm `gorm:"foreignKey:DormID" json:"-"`
}

func (Booking) TableName() string {
	return "bookings"
}

// BookingResponse DTO
type BookingResponse struct {
	ID                 uint                 `json:"id"`
	UserID             uint                 `json:"user_id"`
	DormID             uint                 `json:"dorm_id"`
	DormName           string               `json:"dorm_name,omitempty"`
	PricePerNight      float64              `json:"price_per_night,omitempty"`
	UserName           string               `json:"user_name,omitempty"`
	UserEmail          string               `json:"user_email,omitempty"`
	StartDate          string               `json:"start_date"`
	EndDate            string               `json:"end_date"`
	Semester           domain.Semester      `json:"semester"`
	AcademicYear       int                  `json:"academic_year"`
	Status             domain.BookingStatus `json:"status"`
	PaymentStatus      domain.PaymentStatus `json:"payment_status"`
	PaymentDeadline    time.Time            `json:"payment_deadline"`
	ConfirmationNumber string               `json:"confirmation_number"`
	RoomNumber         *string              `json:"room_number"`
	CancelReason       *string              `json:"cancel_reason,omitempty"`
	PaymentProofURL    *string              `json:"payment_proof_url,omitempty"`
	TotalAmount        float64              `json:"total_amount"`
	CreatedAt          time.Time            `json:"created_at"`
}

// ToResponse renders the booking; dorm and user fields are filled when preloaded
func (b *Booking) ToResponse() *BookingResponse {
	resp := &BookingResponse{
		ID:                 b.ID,
		UserID:             b.UserID,
		DormID:             b.DormID,
		StartDate:          domain.FormatDate(b.StartDate),
		EndDate:            domain.FormatDate(b.EndDate),
		Semester:           b.Semester,
		AcademicYear:       b.AcademicYear,
		Status:             b.Status,
		PaymentStatus:      b.PaymentStatus,
		PaymentDeadline:    b.PaymentDeadline,
		ConfirmationNumber: b.ConfirmationNumber,
		RoomNumber:         b.RoomNumber,
		CancelReason:       b.CancelReason,
		PaymentProofURL:    b.PaymentProofURL,
		CreatedAt:          b.CreatedAt,
	}
	if b.Dorm.ID != 0 {
		resp.DormName = b.Dorm.Name
		resp.PricePerNight = b.Dorm.PricePerNight
		resp.TotalAmount = domain.BookingTotal(b.Dorm.PricePerNight)
	}
	if b.User.ID != 0 {
		resp.UserName = b.User.FullName()
		resp.UserEmail = b.User.Email
	}
	return resp
}

// ============================================================
// Reviews
// ============================================================

// Review represents reviews table
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DormID    uint      `gorm:"index;not null" json:"dorm_id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	Rating    int       `gorm:"not null" json:"rating"`
	Comment   string    `gorm:"type:text" json:"comment"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Dorm Dorm `gorm:"foreignKey:DormID" json:"-"`
}

func (Review) TableName() string {
	return "reviews"
}

// ReviewResponse DTO
type ReviewResponse struct {
	ID        uint      `json:"id"`
	DormID    uint      `json:"dorm_id"`
	UserID    uint      `json:"user_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Review) ToResponse() *ReviewResponse {
	return &ReviewResponse{
		ID:        r.ID,
		DormID:    r.DormID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		FirstName: r.User.FirstName,
		LastName:  r.User.LastName,
		CreatedAt: r.CreatedAt,
	}
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&VerificationCode{},
		&ResetCode{},
		&Dorm{},
		&Booking{},
		&Review{},
	)
}
