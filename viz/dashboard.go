// ABOUTME: Pipeline statistics and terminal dashboard rendering
// ABOUTME: Aggregates deals per stage with EV ranges and probability-weighted EV
package viz

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/mandato/db"
	"github.com/harperreed/mandato/models"
	"github.com/shopspring/decimal"
)

// StaleAfter is how long an open deal can go without an update before the
// dashboard flags it.
const StaleAfter = 14 * 24 * time.Hour

type PipelineStats struct {
	// One entry per known stage in pipeline order, followed by any stages
	// outside the table that deals still carry.
	Stages []StageStats

	TotalDeals     int
	TotalCompanies int
	TotalContacts  int

	EVMin      models.Amount
	EVMax      models.Amount
	WeightedEV models.Amount

	StaleDeals []StaleDeal
}

type StageStats struct {
	Stage       string
	Probability int
	Count       int
	EVMin       models.Amount
	EVMax       models.Amount
	WeightedEV  models.Amount
}

type StaleDeal struct {
	ID        string
	Name      string
	Stage     string
	DaysSince int
}

func GeneratePipelineStats(database *sql.DB) (*PipelineStats, error) {
	return generatePipelineStats(database, time.Now())
}

func generatePipelineStats(database *sql.DB, now time.Time) (*PipelineStats, error) {
	deals, err := db.FindDeals(database, db.DealFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch deals: %w", err)
	}

	contacts, err := db.FindContacts(database, "", "", 100000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}

	companies, err := db.FindCompanies(database, "", 100000)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch companies: %w", err)
	}

	stats := &PipelineStats{
		TotalDeals:     len(deals),
		TotalCompanies: len(companies),
		TotalContacts:  len(contacts),
	}

	byStage := make(map[string]*StageStats)
	for _, stage := range models.Stages() {
		byStage[stage] = &StageStats{Stage: stage, Probability: models.ProbabilityForStage(stage)}
	}

	var extra []string
	for i := range deals {
		deal := &deals[i]

		s, ok := byStage[deal.Stage]
		if !ok {
			s = &StageStats{Stage: deal.Stage, Probability: models.ProbabilityForStage(deal.Stage)}
			byStage[deal.Stage] = s
			extra = append(extra, deal.Stage)
		}
		weighted := deal.WeightedEV()

		s.Count++
		s.EVMin = add(s.EVMin, deal.EVMin)
		s.EVMax = add(s.EVMax, deal.EVMax)
		s.WeightedEV = add(s.WeightedEV, weighted)

		stats.EVMin = add(stats.EVMin, deal.EVMin)
		stats.EVMax = add(stats.EVMax, deal.EVMax)
		stats.WeightedEV = add(stats.WeightedEV, weighted)

		if isOpen(deal.Stage) {
			if updated, err := time.Parse(time.RFC3339, deal.UpdatedAt); err == nil && now.Sub(updated) > StaleAfter {
				stats.StaleDeals = append(stats.StaleDeals, StaleDeal{
					ID:        deal.ID,
					Name:      deal.Name,
					Stage:     deal.Stage,
					DaysSince: int(now.Sub(updated).Hours() / 24),
				})
			}
		}
	}

	sort.Strings(extra)
	for _, stage := range append(models.Stages(), extra...) {
		stats.Stages = append(stats.Stages, *byStage[stage])
	}

	sort.SliceStable(stats.StaleDeals, func(i, j int) bool {
		return stats.StaleDeals[i].DaysSince > stats.StaleDeals[j].DaysSince
	})

	return stats, nil
}

// isOpen reports whether a deal in stage still needs work.
func isOpen(stage string) bool {
	return stage != models.StageMandateSigned && stage != models.StageClosedLost
}

func add(a, b models.Amount) models.Amount {
	return models.Amount{Decimal: a.Add(b.Decimal)}
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	stageStyle = lipgloss.NewStyle().
			Width(16)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))
)

func RenderDashboard(stats *PipelineStats) string {
	var out strings.Builder

	out.WriteString(titleStyle.Render("MANDATO PIPELINE"))
	out.WriteString("\n\n")

	out.WriteString(headerStyle.Render("PIPELINE"))
	out.WriteString("\n")
	renderPipeline(&out, stats.Stages)
	out.WriteString("\n")

	out.WriteString(headerStyle.Render("TOTALS"))
	out.WriteString("\n")
	out.WriteString(fmt.Sprintf("  %d deals  %d companies  %d contacts\n",
		stats.TotalDeals, stats.TotalCompanies, stats.TotalContacts))
	out.WriteString(fmt.Sprintf("  EV range %s - %s  weighted %s\n\n",
		FormatAmount(stats.EVMin), FormatAmount(stats.EVMax), FormatAmount(stats.WeightedEV)))

	if len(stats.StaleDeals) > 0 {
		out.WriteString(headerStyle.Render("NEEDS ATTENTION"))
		out.WriteString("\n")
		for _, d := range stats.StaleDeals {
			out.WriteString(warnStyle.Render(fmt.Sprintf("  ! %s (%s) - no update in %d days", d.Name, d.Stage, d.DaysSince)))
			out.WriteString("\n")
		}
	}

	return out.String()
}

func renderPipeline(out *strings.Builder, stages []StageStats) {
	maxCount := 0
	for _, s := range stages {
		if s.Count > maxCount {
			maxCount = s.Count
		}
	}
	if maxCount == 0 {
		maxCount = 1
	}

	for _, s := range stages {
		// 0-10 blocks
		barLength := (s.Count * 10) / maxCount
		bar := barStyle.Render(strings.Repeat("█", barLength)) + mutedStyle.Render(strings.Repeat("░", 10-barLength))

		out.WriteString("  ")
		out.WriteString(stageStyle.Render(s.Stage))
		out.WriteString(fmt.Sprintf("%s %3d%% %3d  %s\n", bar, s.Probability, s.Count, FormatAmount(s.WeightedEV)))
	}
}

var (
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
)

// FormatAmount abbreviates a to K or M with one decimal place.
func FormatAmount(a models.Amount) string {
	abs := a.Abs()
	switch {
	case abs.GreaterThanOrEqual(million):
		return a.Div(million).StringFixed(1) + "M"
	case abs.GreaterThanOrEqual(thousand):
		return a.Div(thousand).StringFixed(1) + "K"
	default:
		return a.StringFixed(0)
	}
}
