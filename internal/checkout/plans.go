package checkout

// Plan is one subscription tier from the pricing page.
type Plan struct {
	ID     string
	Name   string
	Price  float64
	Period string
}

// DefaultPlanID is used when the requested plan id is unknown.
const DefaultPlanID = "professional"

var plans = map[string]Plan{
	"starter":      {ID: "starter", Name: "Starter", Price: 99, Period: "month"},
	"professional": {ID: "professional", Name: "Professional", Price: 299, Period: "month"},
	"enterprise":   {ID: "enterprise", Name: "Enterprise", Price: 999, Period: "month"},
}

// PlanByID resolves a plan id, falling back to the professional tier for
// anything unknown, the same way the pricing page does.
func PlanByID(id string) Plan {
	if p, ok := plans[id]; ok {
		return p
	}
	return plans[DefaultPlanID]
}

// Plans lists the tiers in ascending price order.
func Plans() []Plan {
	return []Plan{plans["starter"], plans["professional"], plans["enterprise"]}
}
