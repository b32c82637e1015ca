package mcp

import (
	"fmt"
	"strings"

	"github.com/pario-ai/oars/pkg/models"
	"github.com/pario-ai/oars/pkg/quota"
)

// formatQuota formats a quota snapshot as text.
func formatQuota(st quota.Status) string {
	pct := float64(0)
	if st.Ceiling > 0 {
		pct = float64(st.Used) / float64(st.Ceiling) * 100
	}
	return fmt.Sprintf("Request Quota\n"+
		"  Ceiling:   %d\n"+
		"  Used:      %d (%.1f%%)\n"+
		"  Remaining: %d\n"+
		"  Window:    %s\n",
		st.Ceiling, st.Used, pct, st.Remaining, st.Window)
}

// formatSummary formats fetch summaries as a text table.
func formatSummary(rows []models.FetchSummary) string {
	if len(rows) == 0 {
		return "No fetches recorded."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-14s %-16s %8s %12s %12s\n",
		"Kind", "Outcome", "Fetches", "Bytes", "Avg ms")
	b.WriteString(strings.Repeat("-", 66) + "\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-14s %-16s %8d %12d %12.1f\n",
			r.Kind, r.Outcome, r.Count, r.TotalBytes, r.AvgLatencyMs)
	}
	return b.String()
}

// formatRecent formats fetch records as a text table.
func formatRecent(records []models.FetchRecord) string {
	if len(records) == 0 {
		return "No fetches recorded."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-20s %-14s %-40s %-16s %6s %8s\n",
		"Time", "Kind", "ID", "Outcome", "Status", "ms")
	b.WriteString(strings.Repeat("-", 109) + "\n")
	for _, r := range records {
		id := r.ResourceID
		if len(id) > 40 {
			id = id[:18] + "..." + id[len(id)-19:]
		}
		fmt.Fprintf(&b, "%-20s %-14s %-40s %-16s %6d %8d\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Kind, id, r.Outcome, r.StatusCode, r.LatencyMs)
	}
	return b.String()
}

// formatCacheStats formats cache stats as text.
func formatCacheStats(stats models.CacheStats) string {
	total := stats.Hits + stats.Misses
	hitRate := float64(0)
	if total > 0 {
		hitRate = float64(stats.Hits) / float64(total) * 100
	}
	return fmt.Sprintf("Cache Statistics\n"+
		"  Entries:  %d (%d expired)\n"+
		"  Size:     %d bytes\n"+
		"  Hits:     %d\n"+
		"  Misses:   %d\n"+
		"  Hit Rate: %.1f%%\n",
		stats.Entries, stats.Expired, stats.Bytes, stats.Hits, stats.Misses, hitRate)
}
