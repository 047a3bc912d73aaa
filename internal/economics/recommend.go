package economics

// Recommendation grades an investment.
type Recommendation struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

const (
	Strong         = "strong"
	Moderate       = "moderate"
	Marginal       = "marginal"
	NotRecommended = "not-recommended"
)

// Recommend grades a well: strong when NPV exceeds half the drilling cost,
// moderate when NPV is positive with ROI above 15%, marginal for any other
// positive NPV.
func Recommend(npv, drillingCost, roi float64) Recommendation {
	switch {
	case npv > drillingCost*0.5:
		return Recommendation{
			Type:    Strong,
			Title:   "Strong Investment Opportunity",
			Message: "NPV exceeds 50% of initial cost. Highly recommended.",
		}
	case npv > 0 && roi > 15:
		return Recommendation{
			Type:    Moderate,
			Title:   "Moderate Investment Opportunity",
			Message: "Positive returns expected. Consider risk factors and alternatives.",
		}
	case npv > 0:
		return Recommendation{
			Type:    Marginal,
			Title:   "Marginal Investment",
			Message: "Minimal positive returns. High sensitivity to oil price changes.",
		}
	default:
		return Recommendation{
			Type:    NotRecommended,
			Title:   "Not Recommended",
			Message: "Negative returns at current oil prices. Wait for better market conditions.",
		}
	}
}
