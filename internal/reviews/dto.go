package reviews

import (
	"time"

	"github.com/google/uuid"
)

// CreateReviewRequest is the payload for reviewing a purchased product.
type CreateReviewRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Rating    int       `json:"rating" validate:"required,gte=1,lte=5"`
	Comment   *string   `json:"comment,omitempty" validate:"omitempty,max=500"`
}

// ReviewDTO is the transport shape for a review, enriched with the
// reviewer's display name.
type ReviewDTO struct {
	ID           uuid.UUID `json:"id"`
	ProductID    uuid.UUID `json:"product_id"`
	UserID       uuid.UUID `json:"user_id"`
	ReviewerName string    `json:"reviewer_name,omitempty"`
	Rating       int       `json:"rating"`
	Comment      *string   `json:"comment,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// reviewRow joins a review with its author for listing.
type reviewRow struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	UserID    uuid.UUID
	UserName  string
	Rating    int
	Comment   *string
	CreatedAt time.Time
}

func fromRow(row reviewRow) ReviewDTO {
	return ReviewDTO{
		ID:           row.ID,
		ProductID:    row.ProductID,
		UserID:       row.UserID,
		ReviewerName: row.UserName,
		Rating:       row.Rating,
		Comment:      row.Comment,
		CreatedAt:    row.CreatedAt,
	}
}
