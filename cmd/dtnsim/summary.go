package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"dtnsim/internal/sim"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(22)
	valueStyle = lipgloss.NewStyle().Bold(true)
	nodeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("249"))
)

// renderSummary formats a finished run for the terminal: network-wide
// totals, the contact schedule shape, and one line per node.
func renderSummary(r sim.Report) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Simulation Summary"))
	b.WriteString("\n\n")

	line := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(valueStyle.Render(value))
		b.WriteString("\n")
	}

	line("Run ID", r.RunID)
	line("Simulated time", fmt.Sprintf("%.1fs", r.ExecutionTime))
	line("Nodes", fmt.Sprintf("%d", len(r.NodeStatistics)))

	if n := len(r.MetricsTimeline); n > 0 {
		final := r.MetricsTimeline[n-1]
		line("Bundles delivered", fmt.Sprintf("%d", final.TotalDelivered))
		line("Bundles transmitted", fmt.Sprintf("%d", final.TotalTransmitted))
		line("Bundles dropped", fmt.Sprintf("%d", final.TotalDropped))
		line("Delivery ratio", fmt.Sprintf("%.1f%%", final.DeliveryRatio*100))
		line("Average latency", fmt.Sprintf("%.2fs", final.AvgLatency))
		line("Avg buffer occupancy", fmt.Sprintf("%.1f bundles", final.AvgBufferOccupancy))
	}

	if len(r.ContactSchedule) > 0 {
		var total float64
		for _, c := range r.ContactSchedule {
			total += c.Duration()
		}
		line("Contact windows", fmt.Sprintf("%d (avg %.1fs)", len(r.ContactSchedule), total/float64(len(r.ContactSchedule))))
	} else {
		line("Contact windows", "0")
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("Per-Node Statistics"))
	b.WriteString("\n")
	for _, st := range r.NodeStatistics {
		b.WriteString(nodeStyle.Render(fmt.Sprintf(
			"  node %-3d delivered=%-5d received=%-5d transmitted=%-5d dropped=%-5d buffered=%d",
			st.NodeID, st.Delivered, st.Received, st.Transmitted, st.Dropped, st.BufferSize)))
		b.WriteString("\n")
	}

	return b.String()
}
