package usecase

import (
	"sort"
	"time"

	"youchat/internal/infrastructure/realtime"
	"youchat/internal/pkg/state"
)

const logWindow = 100

// Summary is the headline counters for the admin dashboard.
type Summary struct {
	Users         int `json:"users"`
	Online        int `json:"online"`
	Conversations int `json:"conversations"`
	Messages      int `json:"messages"`
	Files         int `json:"files"`
}

// DayCount is one bucket of the messages-per-day series.
type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Activity is the dashboard's recent-activity view.
type Activity struct {
	MessagesPerDay []DayCount         `json:"messagesPerDay"`
	RecentEntries  []state.AuditEntry `json:"recentEntries"`
}

type GetDashboardUseCase struct {
	Store  *state.Store
	Router *realtime.Router
}

func NewGetDashboardUseCase(store *state.Store, router *realtime.Router) *GetDashboardUseCase {
	return &GetDashboardUseCase{Store: store, Router: router}
}

func (uc *GetDashboardUseCase) Summary() Summary {
	var s Summary
	uc.Store.View(func(d *state.Document) {
		s = Summary{
			Users:         len(d.Users),
			Conversations: len(d.Conversations),
			Messages:      len(d.Messages),
			Files:         len(d.Files),
		}
	})
	s.Online = uc.Router.OnlineCount()
	return s
}

// Activity buckets messages by UTC day over the last week and tails the
// connection-related audit entries.
func (uc *GetDashboardUseCase) Activity() Activity {
	since := time.Now().UTC().AddDate(0, 0, -7)
	buckets := map[string]int{}
	var recent []state.AuditEntry
	uc.Store.View(func(d *state.Document) {
		for _, m := range d.Messages {
			if m.CreatedAt.Before(since) {
				continue
			}
			buckets[m.CreatedAt.Format("2006-01-02")]++
		}
		start := len(d.Logs) - 20
		if start < 0 {
			start = 0
		}
		for _, e := range d.Logs[start:] {
			recent = append(recent, *e)
		}
	})

	days := make([]DayCount, 0, len(buckets))
	for day, count := range buckets {
		days = append(days, DayCount{Day: day, Count: count})
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Day < days[j].Day })
	return Activity{MessagesPerDay: days, RecentEntries: recent}
}

// Logs returns up to the last 100 audit entries, newest first.
func (uc *GetDashboardUseCase) Logs() []state.AuditEntry {
	var out []state.AuditEntry
	uc.Store.View(func(d *state.Document) {
		start := len(d.Logs) - logWindow
		if start < 0 {
			start = 0
		}
		for i := len(d.Logs) - 1; i >= start; i-- {
			out = append(out, *d.Logs[i])
		}
	})
	return out
}
