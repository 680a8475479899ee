package report

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/masonbuild/mason/internal/broker"
	"github.com/masonbuild/mason/internal/task"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type cycle struct {
	category task.Category
	result   *broker.Result
	duration time.Duration
}

// Summary accumulates publish cycle outcomes for end-of-run rendering.
type Summary struct {
	name   string
	cycles []cycle
}

// NewSummary creates a summary for the named pipeline.
func NewSummary(name string) *Summary {
	return &Summary{name: name}
}

// AddCycle records the outcome of one publish cycle.
func (s *Summary) AddCycle(category task.Category, result *broker.Result, duration time.Duration) {
	s.cycles = append(s.cycles, cycle{category: category, result: result, duration: duration})
}

// Failed reports whether any recorded cycle carried exceptions.
func (s *Summary) Failed() bool {
	for _, c := range s.cycles {
		if c.result.Failed() {
			return true
		}
	}
	return false
}

// Render produces the styled end-of-run report.
func (s *Summary) Render() string {
	var sections []string
	sections = append(sections, titleStyle.Render(fmt.Sprintf("mason • %s", s.name)))

	completed, failed := 0, 0
	for _, c := range s.cycles {
		sections = append(sections, sectionStyle.Render(string(c.category)))

		if c.result.Empty() {
			sections = append(sections, mutedStyle.Render(" (no units matched)"))
			continue
		}

		for _, name := range c.result.Completed {
			sections = append(sections, okStyle.Render(fmt.Sprintf(" ✓ %s", name)))
			completed++
		}
		for _, name := range c.result.FailedUnits() {
			detail := c.result.Exceptions[name]
			sections = append(sections, failStyle.Render(fmt.Sprintf(" ✗ %s: %v", name, detail)))
			failed++
		}

		if c.duration > 0 {
			sections = append(sections, mutedStyle.Render(fmt.Sprintf(" %s", c.duration.Truncate(10*time.Millisecond))))
		}
	}

	footer := fmt.Sprintf("%d completed, %d failed", completed, failed)
	if failed > 0 {
		sections = append(sections, failStyle.Render(footer))
	} else {
		sections = append(sections, okStyle.Render(footer))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
