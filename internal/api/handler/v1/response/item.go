package response

import "github.com/yizeng/gab/gin/gorm/inventory/internal/domain"

type ItemResponse struct {
	Status string      `json:"status" example:"success"`
	Item   domain.Item `json:"item"`
}

type ItemsResponse struct {
	Status string        `json:"status" example:"success"`
	Items  []domain.Item `json:"items"`
}

type MessageResponse struct {
	Status  string `json:"status" example:"success"`
	Message string `json:"message" example:"Item 1 deleted successfully"`
}
