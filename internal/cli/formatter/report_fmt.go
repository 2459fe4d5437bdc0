package formatter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ptarrant/phaseline/internal/service"
)

// demandBarWidth is the width of the per-bucket demand bar.
const demandBarWidth = 24

// FormatDemand renders a demand report: one section per role, one line
// per bucket, each bar scaled against the report's peak daily demand.
func FormatDemand(report *service.DemandReport) string {
	var b strings.Builder

	b.WriteString(Header(fmt.Sprintf("Demand %s .. %s (%s)",
		report.Start.Format("2006-01-02"), report.End.Format("2006-01-02"), report.Granularity)))
	b.WriteString("\n")

	peak := 0.0
	for _, series := range report.Series {
		for _, bv := range series {
			if bv.Value > peak {
				peak = bv.Value
			}
		}
	}
	if peak == 0 {
		b.WriteString(Dim("No staffing demand in range."))
		return b.String()
	}

	roles := make([]string, 0, len(report.Series))
	for role := range report.Series {
		roles = append(roles, role)
	}
	sort.Strings(roles)

	labelWidth := 0
	for _, bucket := range report.Buckets {
		if len(bucket.Label) > labelWidth {
			labelWidth = len(bucket.Label)
		}
	}

	for _, role := range roles {
		b.WriteString("\n" + RoleBadge(role) + "\n")
		for _, bv := range report.Series[role] {
			bar := RenderProgress(bv.Value/peak, demandBarWidth)
			b.WriteString(fmt.Sprintf("  %-*s %s %s/day\n",
				labelWidth, bv.Bucket.Label, bar, FormatHours(bv.Value)))
		}
	}

	return b.String()
}
