package reconcile

import (
	"sort"

	"greenspring/core/gpio"
)

// ActionType represents the type of a planned state document mutation.
type ActionType string

const (
	// ActionPurgeState removes a state entry that has no runtime effect.
	ActionPurgeState ActionType = "purge_state"
)

// Action represents a planned mutation of the state document.
type Action struct {
	Type   ActionType `json:"type"`
	Number int        `json:"number"`
	Reason string     `json:"reason"`
}

// AuditResult describes one pin number seen in either document. Direction is empty for
// numbers that only appear in the state document.
type AuditResult struct {
	Number       int            `json:"number"`
	Label        string         `json:"label,omitempty"`
	Direction    gpio.Direction `json:"direction,omitempty"`
	Configured   bool           `json:"configured"`
	StatePresent bool           `json:"state_present"`
	Value        int            `json:"value"`
	Issues       []string       `json:"issues"`
}

// PlanSummary provides aggregate counts for an audit.
type PlanSummary struct {
	TotalPins    int `json:"total_pins"`
	Outputs      int `json:"outputs"`
	Inputs       int `json:"inputs"`
	Duplicates   int `json:"duplicates"`
	MissingState int `json:"missing_state"`
	InertState   int `json:"inert_state"`
	PurgeActions int `json:"purge_actions"`
}

// Plan contains the audit results and the planned actions.
type Plan struct {
	Results []AuditResult `json:"results"`
	Actions []Action      `json:"actions"`
	Summary PlanSummary   `json:"summary"`
}

// PlanOptions controls which actions are planned and whether they run.
type PlanOptions struct {
	// DoPurge plans the removal of inert state entries.
	DoPurge bool
	// DryRun prevents ApplyPlan from mutating anything.
	DryRun bool
	// Confirmed indicates the user approved destructive actions.
	Confirmed bool
}

// Audit compares the topology with the state document. Inert entries (state for an
// unknown or input pin) are retained by the engine; the plan can purge them.
func Audit(cfg PinConfig, state PinState, opts PlanOptions) *Plan {
	seen := make(map[int]int, len(cfg.Pins))
	for _, p := range cfg.Pins {
		seen[p.Number]++
	}

	results := make(map[int]*AuditResult)
	var summary PlanSummary

	for _, p := range cfg.Effective() {
		r := &AuditResult{
			Number:     p.Number,
			Label:      p.Label,
			Direction:  p.Direction,
			Configured: true,
			Issues:     []string{},
		}
		if seen[p.Number] > 1 {
			r.Issues = append(r.Issues, "declared more than once, last declaration wins")
			summary.Duplicates++
		}
		v, ok := state[p.Number]
		r.StatePresent = ok
		r.Value = v

		if p.Direction == gpio.Out {
			summary.Outputs++
			if !ok {
				r.Issues = append(r.Issues, "no stored value, defaults to 0")
				summary.MissingState++
			}
		} else {
			summary.Inputs++
		}
		results[p.Number] = r
	}

	var actions []Action
	for _, n := range state.Numbers() {
		r, configured := results[n]
		reason := ""
		switch {
		case !configured:
			r = &AuditResult{Number: n, StatePresent: true, Value: state[n], Issues: []string{}}
			results[n] = r
			reason = "state entry for an unconfigured pin"
		case r.Direction == gpio.In:
			reason = "state entry for an input pin"
		default:
			continue
		}
		r.Issues = append(r.Issues, reason)
		summary.InertState++
		if opts.DoPurge {
			actions = append(actions, Action{Type: ActionPurgeState, Number: n, Reason: reason})
		}
	}

	plan := &Plan{
		Results: make([]AuditResult, 0, len(results)),
		Actions: actions,
	}
	for _, r := range results {
		plan.Results = append(plan.Results, *r)
	}
	sort.Slice(plan.Results, func(i, j int) bool {
		return plan.Results[i].Number < plan.Results[j].Number
	})

	summary.TotalPins = len(plan.Results)
	summary.PurgeActions = len(actions)
	plan.Summary = summary
	return plan
}

// ApplyPlan returns a copy of state with the planned actions applied and the number of
// actions executed. Nothing runs unless opts.Confirmed is set and opts.DryRun is not.
func ApplyPlan(state PinState, plan *Plan, opts PlanOptions) (PinState, int) {
	out := state.Clone()
	if !opts.Confirmed || opts.DryRun {
		return out, 0
	}
	executed := 0
	for _, a := range plan.Actions {
		if a.Type != ActionPurgeState {
			continue
		}
		if _, ok := out[a.Number]; ok {
			delete(out, a.Number)
			executed++
		}
	}
	return out, executed
}
