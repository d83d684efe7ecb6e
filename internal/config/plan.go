package config

import "fmt"

// WindowHours is the length of the rolling rate-limit window the plan
// ceilings are defined against.
const WindowHours = 5

// Plan identifies a Claude subscription tier.
type Plan string

// Known plans, in cycle order.
const (
	PlanPro   Plan = "pro"
	PlanMax5  Plan = "max5"
	PlanMax20 Plan = "max20"
)

// Plans lists every valid plan in cycle order.
var Plans = []Plan{PlanPro, PlanMax5, PlanMax20}

// planLimits maps each plan to its approximate output-token ceiling per
// rolling window.
var planLimits = map[Plan]int64{
	PlanPro:   44_000,
	PlanMax5:  88_000,
	PlanMax20: 220_000,
}

// planNames maps each plan to its display name.
var planNames = map[Plan]string{
	PlanPro:   "Pro",
	PlanMax5:  "Max 5x",
	PlanMax20: "Max 20x",
}

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	_, ok := planLimits[p]
	return ok
}

// Limit returns the plan's output-token ceiling per rolling window.
// Unknown plans get the Pro ceiling.
func (p Plan) Limit() int64 {
	if l, ok := planLimits[p]; ok {
		return l
	}
	return planLimits[PlanPro]
}

// Name returns the plan's display name.
func (p Plan) Name() string {
	if n, ok := planNames[p]; ok {
		return n
	}
	return string(p)
}

// Next returns the plan after p in cycle order.
func (p Plan) Next() Plan {
	for i, known := range Plans {
		if known == p {
			return Plans[(i+1)%len(Plans)]
		}
	}
	return Plans[0]
}

// ParsePlan validates a plan string from user input or config.
func ParsePlan(s string) (Plan, error) {
	p := Plan(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown plan %q (valid: %v)", s, Plans)
	}
	return p, nil
}
