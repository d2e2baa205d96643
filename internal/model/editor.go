package model

import "time"

// EditorSession tracks one caller's in-progress manual data entry. The
// spreadsheet remains the system of record; sessions only hold rows being
// prepared for paste-back.
type EditorSession struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
