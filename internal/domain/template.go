package domain

import "time"

// Template is a reusable reply skeleton. IDs (T001, T002, ...) are assigned
// by the store analogously to ticket ids.
type Template struct {
	ID        string
	Category  Category
	Name      string
	Body      string
	CreatedAt time.Time
}
