package form

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Form is one filled-in form document as stored in the "forms" collection.
// Only the fields analytics reads are mapped; the form body is left alone.
type Form struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	TemplateID   string             `json:"template_id" bson:"template_id"`
	WorksiteID   string             `json:"worksite_id" bson:"worksite_id"`
	WorksiteName string             `json:"worksite_name,omitempty" bson:"worksite_name,omitempty"`
	TechnicianID string             `json:"technician_id" bson:"technician_id"`
	Status       string             `json:"status" bson:"status"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	CompletedAt  *time.Time         `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
}
