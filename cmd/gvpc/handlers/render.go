package handlers

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/gvpc/internal/addressing"
	"github.com/imamik/gvpc/internal/orchestration"
)

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorYellow = lipgloss.Color("#eab308")
	colorRed    = lipgloss.Color("#ef4444")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	greenStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	yellowStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	redStyle = lipgloss.NewStyle().
			Foreground(colorRed)
)

func writeTitle(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  " + title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")
}

func writeSection(b *strings.Builder, title string) {
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  " + title))
	b.WriteString("\n")
}

// statusMark renders a one-character status marker.
func statusMark(status string) string {
	switch status {
	case orchestration.StatusSucceeded:
		return greenStyle.Render("✓")
	case orchestration.StatusPartial:
		return yellowStyle.Render("~")
	default:
		return redStyle.Render("✗")
	}
}

// renderPlan produces the address plan as one block per region.
func renderPlan(doc *planDocument) string {
	var b strings.Builder
	writeTitle(&b, fmt.Sprintf("gvpc plan: %d regions", len(doc.Regions)))

	for _, r := range doc.Regions {
		writeSection(&b, fmt.Sprintf("%s  %s", r.Region, r.CIDR))
		if len(r.Subnets) == 0 {
			b.WriteString(dimStyle.Render("    no availability zones"))
			b.WriteString("\n")
			continue
		}
		for _, s := range r.Subnets {
			fmt.Fprintf(&b, "    %-18s %-8s %s\n", s.Zone, s.Tier, s.CIDR)
		}
	}

	writeSkipped(&b, "Skipped (address plan full)", doc.Skipped)
	return b.String()
}

// renderRegions lists the regions of a run with their blocks.
func renderRegions(plans []addressing.RegionPlan, overflow []string, discovered int) string {
	var b strings.Builder
	writeTitle(&b, fmt.Sprintf("gvpc regions: %d of %d enabled", len(plans), discovered))
	b.WriteString("\n")

	for _, p := range plans {
		fmt.Fprintf(&b, "    %-18s %s\n", p.Region, p.CIDR())
	}

	writeSkipped(&b, "Skipped (address plan full)", overflow)
	return b.String()
}

// renderRunReport produces the end-of-run summary.
func renderRunReport(r *orchestration.RunReport) string {
	var b strings.Builder
	writeTitle(&b, "gvpc run "+r.RunID)

	rc := r.RegionCounts()
	writeSection(&b, fmt.Sprintf("Regions  %d ok, %d partial, %d failed", rc.Succeeded, rc.Partial, rc.Failed))
	for _, o := range r.Regions {
		network := o.NetworkID
		if network == "" {
			network = "-"
		}
		fmt.Fprintf(&b, "    %s %-18s %-15s %-24s %2d subnets  %s\n",
			statusMark(o.Status), o.Region, o.CIDR, network, o.Subnets, seconds(o.Seconds))
		for _, e := range o.Errors {
			b.WriteString(redStyle.Render("        " + e))
			b.WriteString("\n")
		}
	}

	if len(r.Pairs) > 0 {
		pc := r.PairCounts()
		writeSection(&b, fmt.Sprintf("Peerings  %d ok, %d failed", pc.Succeeded, pc.Failed))
		for _, o := range r.Pairs {
			peering := o.PeeringID
			if peering == "" {
				peering = "-"
			}
			fmt.Fprintf(&b, "    %s %-38s %-24s %2d routes  %s\n",
				statusMark(o.Status), o.Requester+" <-> "+o.Accepter, peering, o.RoutesAdded, seconds(o.Seconds))
			if o.Error != "" {
				b.WriteString(redStyle.Render("        " + o.Error))
				b.WriteString("\n")
			}
		}
	}

	writeSkipped(&b, "Skipped (address plan full)", r.Skipped)
	writeSkipped(&b, "Not peered (partially built)", r.Unpeered)

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("  Finished in %v. Nothing is rolled back; see the log for details.",
		r.Duration().Round(time.Second))))
	b.WriteString("\n")
	return b.String()
}

func writeSkipped(b *strings.Builder, title string, regions []string) {
	if len(regions) == 0 {
		return
	}
	writeSection(b, title)
	b.WriteString(yellowStyle.Render("    " + strings.Join(regions, ", ")))
	b.WriteString("\n")
}

func seconds(s float64) string {
	return (time.Duration(s * float64(time.Second))).Round(time.Second).String()
}
