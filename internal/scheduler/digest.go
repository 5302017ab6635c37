package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/herdadvisor/internal/domain/models"
)

// FormatDigest renders selling recommendations as a WhatsApp text message.
func FormatDigest(recs []models.SellingRecommendation, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*Selling digest* %s\n", now.Format("02 Jan 2006"))

	if len(recs) == 0 {
		b.WriteString("No healthy animals to review this week.\n")
		return b.String()
	}

	var totalProfit float64
	for i, rec := range recs {
		p := rec.Profitability
		totalProfit += p.EstimatedProfit
		fmt.Fprintf(&b, "\n%d. %s (priority %d/5)\n", i+1, rec.Livestock.DisplayName(), rec.Priority)
		fmt.Fprintf(&b, "   Value %.2f | Invested %.2f | Profit %.2f (%.1f%%)\n",
			p.MarketValue, p.TotalInvestment, p.EstimatedProfit, p.ProfitMarginPct)
		fmt.Fprintf(&b, "   %s\n", rec.OptimalSaleTime)
	}

	fmt.Fprintf(&b, "\nAnimals reviewed: %d\nEstimated total profit: %.2f\n", len(recs), totalProfit)
	return b.String()
}
