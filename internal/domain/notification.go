package domain

import "time"

type NotificationCategory string

const (
	NotificationCategoryOrder     NotificationCategory = "order"
	NotificationCategoryPromotion NotificationCategory = "promotion"
	NotificationCategorySystem    NotificationCategory = "system"
)

type Notification struct {
	ID        string               `json:"id"`
	Title     string               `json:"title"`
	Message   string               `json:"message"`
	Category  NotificationCategory `json:"category"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"createdAt"`
}
