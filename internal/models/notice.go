package models

import "time"

// Notice is a board entry, optionally backed by an uploaded attachment.
// The three file fields are set together by a successful upload or not at all.
type Notice struct {
	ID          string    `bson:"_id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	FileURL     string    `bson:"file_url,omitempty" json:"file_url,omitempty"`
	FileName    string    `bson:"file_name,omitempty" json:"file_name,omitempty"`
	FileType    string    `bson:"file_type,omitempty" json:"file_type,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}
