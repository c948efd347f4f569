package dto

import "time"

// CreatePartRequest body para POST /api/parts.
type CreatePartRequest struct {
	SKU           string `json:"sku"`
	Name          string `json:"name"`
	PartType      string `json:"part_type"` // CONSUMABLE | BULK_MATERIAL
	UnitOfMeasure string `json:"unit_of_measure"`
}

// PartResponse representación de una parte del catálogo.
type PartResponse struct {
	ID            string    `json:"id"`
	OrgID         string    `json:"org_id"`
	SKU           string    `json:"sku"`
	Name          string    `json:"name"`
	PartType      string    `json:"part_type"`
	UnitOfMeasure string    `json:"unit_of_measure"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// PartListResponse página de partes.
type PartListResponse struct {
	Items []PartResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
