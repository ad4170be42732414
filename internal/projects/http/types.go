package http

type createReq struct {
	Name        string  `json:"name" binding:"required,max=255"`
	Description *string `json:"description"`
	Color       string  `json:"color" binding:"omitempty,len=7"`
}

type updateReq struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Color       *string `json:"color" binding:"omitempty,len=7"`
}
