package analysis

// AnalystInfo is the static display metadata for one analyst.
type AnalystInfo struct {
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// catalog holds the fixed analyst metadata served by the API.
var catalog = map[Analyst]AnalystInfo{
	AnalystMarket: {
		Name:        "Market Analyst",
		Icon:        "📈",
		Description: "Analyzes price action and technical indicators",
	},
	AnalystSocial: {
		Name:        "Social Media Analyst",
		Icon:        "📱",
		Description: "Analyzes social media sentiment and public opinion",
	},
	AnalystNews: {
		Name:        "News Analyst",
		Icon:        "📰",
		Description: "Analyzes relevant news and industry developments",
	},
	AnalystFundamentals: {
		Name:        "Fundamentals Analyst",
		Icon:        "📊",
		Description: "Analyzes company financials and fundamentals",
	},
}

// Catalog returns a copy of the analyst metadata keyed by identifier.
func Catalog() map[Analyst]AnalystInfo {
	out := make(map[Analyst]AnalystInfo, len(catalog))
	for k, v := range catalog {
		out[k] = v
	}
	return out
}
