package models

type Role string

const (
	RoleUser     Role = "userMsg"
	RoleResponse Role = "responseMsg"
)

type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
