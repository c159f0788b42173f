// Package models chứa các kiểu dùng chung cho layer repository/base.
package models

// PaginateResult là kết quả phân trang trả về từ base service
type PaginateResult[T any] struct {
	Page      int64 `json:"page" bson:"page"`           // Trang hiện tại (bắt đầu từ 1)
	Limit     int64 `json:"limit" bson:"limit"`         // Số mục tối đa mỗi trang
	ItemCount int64 `json:"itemCount" bson:"itemCount"` // Số mục thực tế trong trang này
	Items     []T   `json:"items" bson:"items"`         // Danh sách mục
	Total     int64 `json:"total" bson:"total"`         // Tổng số mục khớp filter
	TotalPage int64 `json:"totalPage" bson:"totalPage"` // Tổng số trang
}
