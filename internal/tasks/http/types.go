package http

import "time"

type createReq struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description"`
	Status      string     `json:"status" binding:"omitempty,oneof=todo in_progress completed"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	ProjectID   int64      `json:"project_id" binding:"required"`
}

type updateReq struct {
	Title       *string    `json:"title" binding:"omitempty,max=255"`
	Description *string    `json:"description"`
	Status      *string    `json:"status" binding:"omitempty,oneof=todo in_progress completed"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=low medium high"`
	DueDate     *time.Time `json:"due_date"`
	ProjectID   *int64     `json:"project_id"`
}
