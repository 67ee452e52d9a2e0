package dto

import (
	"github.com/google/uuid"
)

// ExportResponse carries a generated export: the artifact download URL plus
// the table payload inline for immediate display
type ExportResponse struct {
	FormID      *uuid.UUID `json:"formId,omitempty"`
	BusinessID  uuid.UUID  `json:"businessId"`
	Kind        string     `json:"kind" example:"flat"`
	RowCount    int        `json:"rowCount" example:"42"`
	Headers     []string   `json:"headers"`
	Rows        [][]string `json:"rows"`
	DownloadURL string     `json:"downloadUrl,omitempty"`
}
