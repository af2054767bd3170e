package tui

import (
	"time"

	"github.com/melcan/fastbite/internal/ai"
	"github.com/melcan/fastbite/internal/health"
	"github.com/melcan/fastbite/internal/profile"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewDiary
	viewFasting
	viewTrends
	viewProfile
)

var viewNames = []string{"Dashboard", "Diary", "Fasting", "Trends", "Profile"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

// profileSavedMsg fans the updated aggregate out to every view.
type profileSavedMsg struct {
	profile profile.Profile
}

type aiResultMsg struct {
	estimate ai.Estimate
	err      error
}

type healthDataMsg struct {
	metrics health.Metrics
}

type fastingStartedMsg struct{}
type fastingEndedMsg struct{}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

const dateLayout = "2006-01-02"

func today() string {
	return time.Now().Format(dateLayout)
}

func shiftDate(date string, days int) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return today()
	}
	return t.AddDate(0, 0, days).Format(dateLayout)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
