package models

type CreateNoticeRequest struct {
	Title   string `json:"title" binding:"required"`
	Content string `json:"content" binding:"required"`
	Pinned  bool   `json:"pinned"`
}

type UpdateNoticeRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	Pinned  *bool   `json:"pinned"`
}

type NoticeResponse struct {
	ID         int    `json:"id"`
	AuthorID   int    `json:"author_id"`
	AuthorName string `json:"author_name"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	Pinned     bool   `json:"pinned"`
	CreatedAt  string `json:"created_at"`
}
