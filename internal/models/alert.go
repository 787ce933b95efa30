package models

import (
	"sort"
	"time"
)

// AlertPriority styles the banner and acts as the primary sort key.
type AlertPriority string

const (
	AlertPriorityHigh   AlertPriority = "high"
	AlertPriorityMedium AlertPriority = "medium"
	AlertPriorityLow    AlertPriority = "low"
)

// AlertFeedLimit caps the homepage banner feed.
const AlertFeedLimit = 5

// Alert is a short-lived announcement shown in the homepage banner.
type Alert struct {
	ID       string        `bson:"_id" json:"id"`
	Title    string        `bson:"title" json:"title"`
	Content  string        `bson:"content" json:"content"`
	Date     time.Time     `bson:"date" json:"date"`
	Priority AlertPriority `bson:"priority" json:"priority"`
}

var priorityRank = map[AlertPriority]int{
	AlertPriorityHigh:   3,
	AlertPriorityMedium: 2,
	AlertPriorityLow:    1,
}

// Rank returns the numeric ordering weight of the priority. Unknown values
// rank below low so malformed documents sink to the bottom of the feed.
func (p AlertPriority) Rank() int {
	return priorityRank[p]
}

// SortAlerts orders alerts by priority rank descending, then date descending.
// The stored priority is a plain string, so the store cannot produce this
// order itself.
func SortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Priority.Rank() != alerts[j].Priority.Rank() {
			return alerts[i].Priority.Rank() > alerts[j].Priority.Rank()
		}
		return alerts[i].Date.After(alerts[j].Date)
	})
}
