package services

import (
	"law_office_app_go/models"
	"sort"
	"time"

	"gorm.io/gorm"
)

// Board item kinds
const (
	BoardItemDocuments = "documents"
	BoardItemTask      = "task"
)

// Task board priorities
const (
	PriorityOverdueDocuments = 100
	PriorityOverdueTask      = 90
	PriorityDueSoon          = 80
	PriorityHigh             = 80
	PriorityMedium           = 50
	PriorityLow              = 10

	dueSoonDays   = 3
	urgentListMax = 5
)

// BoardItem is one card on the tasks board
type BoardItem struct {
	Kind       string
	CaseID     string
	ClientName string
	Text       string
	Urgency    string
	Date       *time.Time
	Priority   int
	Overdue    bool
}

// startOfDay truncates t to midnight in its own location
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TaskPriority ranks an open task on the board
func TaskPriority(task models.CaseTask, today time.Time) (int, bool) {
	today = startOfDay(today)
	priority := 0
	overdue := false
	if task.Deadline != nil {
		if task.Deadline.Before(today) {
			priority = PriorityOverdueTask
			overdue = true
		} else if task.Deadline.Sub(today) <= dueSoonDays*24*time.Hour {
			priority = PriorityDueSoon
		}
	}
	switch task.Urgency {
	case models.UrgencyHigh:
		priority = max(priority, PriorityHigh)
	case models.UrgencyMedium:
		priority = max(priority, PriorityMedium)
	default:
		priority = max(priority, PriorityLow)
	}
	return priority, overdue
}

// BuildTaskBoard lists overdue unsigned documents and open tasks, highest priority first.
// Cases must carry their Documents and Tasks.
func BuildTaskBoard(cases []models.Case, now time.Time) []BoardItem {
	today := startOfDay(now)
	var items []BoardItem
	for _, c := range cases {
		if c.DocumentsOverdue(today) {
			items = append(items, BoardItem{
				Kind:       BoardItemDocuments,
				CaseID:     c.ID,
				ClientName: c.ClientName(),
				Urgency:    models.UrgencyHigh,
				Date:       c.DocsDeadline,
				Priority:   PriorityOverdueDocuments,
				Overdue:    true,
			})
		}
		for _, t := range c.Tasks {
			if t.Done {
				continue
			}
			p, overdue := TaskPriority(t, today)
			items = append(items, BoardItem{
				Kind:       BoardItemTask,
				CaseID:     c.ID,
				ClientName: c.ClientName(),
				Text:       t.Text,
				Urgency:    t.Urgency,
				Date:       t.Deadline,
				Priority:   p,
				Overdue:    overdue,
			})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].Priority > items[j].Priority })
	return items
}

// DashboardStats feeds the admin dashboard
type DashboardStats struct {
	Open           int
	InProcess      int
	Closed         int
	PendingTasks   int
	UrgentTasks    int
	ClientMessages int64
	UrgentList     []BoardItem
	Activity       []ActivityItem
}

// Total is the number of cases across statuses
func (s DashboardStats) Total() int {
	return s.Open + s.InProcess + s.Closed
}

// BuildDashboard counts cases by status and collects urgent work. Cases must carry their Tasks.
func BuildDashboard(cases []models.Case, conversations []CaseConversation, now time.Time) DashboardStats {
	today := startOfDay(now)
	var stats DashboardStats
	for _, c := range cases {
		switch c.Status {
		case models.CaseStatusOpen:
			stats.Open++
		case models.CaseStatusProcess:
			stats.InProcess++
		case models.CaseStatusClosed:
			stats.Closed++
		}
		for _, t := range c.Tasks {
			if t.Done {
				continue
			}
			stats.PendingTasks++
			overdue := t.Deadline != nil && t.Deadline.Before(today)
			if t.Urgency == models.UrgencyHigh {
				stats.UrgentTasks++
			}
			if t.Urgency == models.UrgencyHigh || overdue {
				stats.UrgentList = append(stats.UrgentList, BoardItem{
					Kind:       BoardItemTask,
					CaseID:     c.ID,
					ClientName: c.ClientName(),
					Text:       t.Text,
					Urgency:    t.Urgency,
					Date:       t.Deadline,
					Overdue:    overdue,
				})
			}
		}
	}

	// by deadline, undated last
	sort.SliceStable(stats.UrgentList, func(i, j int) bool {
		a, b := stats.UrgentList[i].Date, stats.UrgentList[j].Date
		if a == nil || b == nil {
			return a != nil
		}
		return a.Before(*b)
	})
	if len(stats.UrgentList) > urgentListMax {
		stats.UrgentList = stats.UrgentList[:urgentListMax]
	}

	for _, conv := range conversations {
		stats.ClientMessages += int64(conv.ClientCount)
	}
	stats.Activity = RecentActivity(conversations)
	return stats
}

// LoadDashboard gathers everything the dashboard shows for an office
func LoadDashboard(db *gorm.DB, officeID string, now time.Time) (DashboardStats, error) {
	cases, err := ListCases(db, officeID)
	if err != nil {
		return DashboardStats{}, err
	}
	conversations, err := ListConversations(db, officeID)
	if err != nil {
		return DashboardStats{}, err
	}
	return BuildDashboard(cases, conversations, now), nil
}

// FilterCases applies the cases screen search and status filter.
// status is one of all, open, process, closed, overdue.
func FilterCases(cases []models.Case, search, status string, now time.Time) []models.Case {
	today := startOfDay(now)
	search = normalizeSearch(search)
	out := make([]models.Case, 0, len(cases))
	for _, c := range cases {
		if search != "" && !matchesSearch(c, search) {
			continue
		}
		switch status {
		case "", "all":
		case "overdue":
			if !c.DocumentsOverdue(today) {
				continue
			}
		default:
			if c.Status != status {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
