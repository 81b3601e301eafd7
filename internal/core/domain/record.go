package domain

import "time"

// Stored field names shared by every record type.
const (
	FieldID        = "_id"
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
	FieldDeletedAt = "deleted_at"
	FieldDeletedBy = "deleted_by"
	FieldCreatedBy = "created_by"
	FieldUpdatedBy = "updated_by"
)

// Record is the base shape of every stored document. ID and the timestamps
// are assigned by the repository on write; callers never set them.
type Record struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// SoftDeletableRecord adds the deletion marker. A nil DeletedAt means the
// record is live. DeletedBy is only ever set together with DeletedAt.
type SoftDeletableRecord struct {
	Record    `bson:",inline"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" bson:"deleted_at,omitempty"`
	DeletedBy *string    `json:"deleted_by,omitempty" bson:"deleted_by,omitempty"`
}

// IsDeleted reports whether the record carries a deletion timestamp.
func (r SoftDeletableRecord) IsDeleted() bool {
	return r.DeletedAt != nil
}

// AuditableRecord adds actor attribution. Empty values mean unknown/system.
type AuditableRecord struct {
	SoftDeletableRecord `bson:",inline"`
	CreatedBy           string `json:"created_by,omitempty" bson:"created_by,omitempty"`
	UpdatedBy           string `json:"updated_by,omitempty" bson:"updated_by,omitempty"`
}
