package commands

import (
	"fmt"
	"strings"

	"github.com/alan/review-triage/internal/reply"
)

// FormatReplySummary renders the human-readable accounting of a dispatch run.
// Every failed identity is listed with its reason so the failed subset can be
// fixed up and retried.
func FormatReplySummary(result reply.Result) string {
	var msg strings.Builder

	total := len(result.Succeeded) + len(result.Failed)
	msg.WriteString(fmt.Sprintf("📬 Posted %d of %d replies\n", len(result.Succeeded), total))

	for _, outcome := range result.Succeeded {
		if outcome.DryRun {
			msg.WriteString(fmt.Sprintf("  ✅ [dry-run] %s\n", outcome.Description))
		} else if outcome.ConfirmationURL != "" {
			msg.WriteString(fmt.Sprintf("  ✅ %s → %s\n", outcome.Description, outcome.ConfirmationURL))
		} else {
			msg.WriteString(fmt.Sprintf("  ✅ %s\n", outcome.Description))
		}
	}

	if len(result.Failed) > 0 {
		msg.WriteString(fmt.Sprintf("⚠️  %d reply(ies) failed:\n", len(result.Failed)))
		for _, outcome := range result.Failed {
			msg.WriteString(fmt.Sprintf("  ❌ %s: %s\n", outcome.Request.ID, outcome.Error))
		}
	}

	return msg.String()
}

// FormatFetchSummary renders the verification counts after an aggregation run
func FormatFetchSummary(totalReviews, totalAll, orphans int) string {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("📋 Collected %d feedback item(s) across %d review(s)\n", totalAll, totalReviews))
	if orphans > 0 {
		msg.WriteString(fmt.Sprintf("⚠️  %d comment(s) reference reviews that were not fetched\n", orphans))
	}
	return msg.String()
}
