package property

import "time"

type Property struct {
	ID          int       `db:"id" json:"id"`
	OwnerID     int       `db:"owner_id" json:"owner_id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	Address     string    `db:"address" json:"address"`
	Pincode     string    `db:"pincode" json:"pincode"`
	MonthlyRent int64     `db:"monthly_rent" json:"monthly_rent"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// OwnerContact is the paid payload behind the contact-reveal action.
type OwnerContact struct {
	OwnerName    string `db:"owner_name" json:"owner_name"`
	ContactPhone string `db:"contact_phone" json:"contact_phone"`
	ContactEmail string `db:"contact_email" json:"contact_email"`
}

type PostRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Address     string `json:"address" binding:"required"`
	Pincode     string `json:"pincode"`
	MonthlyRent int64  `json:"monthly_rent" binding:"gte=0"`
}
