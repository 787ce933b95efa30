package models

import "time"

// EventsPageSize is the fixed page size of the news grid.
const EventsPageSize = 8

// UpcomingEventsLimit caps the "upcoming" strip on the news page.
const UpcomingEventsLimit = 3

// Event is a news or calendar item. Date is the display date shown to
// visitors; CreatedAt orders the general feed.
type Event struct {
	ID               string    `bson:"_id" json:"id"`
	Title            string    `bson:"title" json:"title"`
	Description      string    `bson:"description,omitempty" json:"description,omitempty"`
	Date             time.Time `bson:"date" json:"date"`
	MainImage        string    `bson:"main_image,omitempty" json:"main_image,omitempty"`
	AdditionalImages []string  `bson:"additional_images,omitempty" json:"additional_images,omitempty"`
	VideoLink        string    `bson:"video_link,omitempty" json:"video_link,omitempty"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}
