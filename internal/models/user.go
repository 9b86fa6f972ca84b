package models

import "time"

// User 用户
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"-"` // bcrypt 哈希
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Department *string   `json:"department,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Clone 拷贝
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	if u.Department != nil {
		d := *u.Department
		out.Department = &d
	}
	return &out
}
