package api

import "time"

type CreatePostRequest struct {
	Title    string `json:"title"`
	Caption  string `json:"caption"`
	Location string `json:"location"`
}

type PostResponse struct {
	ID         int64     `json:"id"`
	Username   string    `json:"username"`
	Title      string    `json:"title"`
	Caption    string    `json:"caption"`
	Location   string    `json:"location"`
	Likes      int       `json:"likes"`
	LikedUsers []string  `json:"liked_users"`
	CreatedAt  time.Time `json:"created_at"`
}

type ImageResponse struct {
	ID     int64  `json:"id"`
	PostID int64  `json:"post_id"`
	Name   string `json:"name"`
}
