package workflow

import (
	"printdesk/internal/constants"
)

// ActiveSteps filters the fixed step catalog by a job-type workflow config.
// Catalog order is preserved; keys missing from the config are inactive.
func ActiveSteps(config map[string]bool) []constants.StepDefinition {
	var steps []constants.StepDefinition
	for _, def := range constants.WorkflowStepCatalog {
		if config[def.Key] {
			steps = append(steps, def)
		}
	}
	return steps
}

// FirstStep returns the key of the first active step, or "" when the config
// activates nothing.
func FirstStep(config map[string]bool) string {
	steps := ActiveSteps(config)
	if len(steps) == 0 {
		return ""
	}
	return steps[0].Key
}

// NextStep returns the active step immediately after current, or "" when
// current is the last active step or not active at all.
func NextStep(config map[string]bool, current string) string {
	steps := ActiveSteps(config)
	for i, def := range steps {
		if def.Key == current {
			if i+1 >= len(steps) {
				return ""
			}
			return steps[i+1].Key
		}
	}
	return ""
}

// PreviousStep is symmetric to NextStep: "" when current is first or unknown.
func PreviousStep(config map[string]bool, current string) string {
	steps := ActiveSteps(config)
	for i, def := range steps {
		if def.Key == current {
			if i == 0 {
				return ""
			}
			return steps[i-1].Key
		}
	}
	return ""
}

// IsLastStep reports whether step is the final active step for the config.
// Completion is only reachable from here.
func IsLastStep(config map[string]bool, step string) bool {
	steps := ActiveSteps(config)
	if len(steps) == 0 {
		return false
	}
	return steps[len(steps)-1].Key == step
}

// IsActiveStep reports whether step belongs to the config's active subsequence.
func IsActiveStep(config map[string]bool, step string) bool {
	for _, def := range ActiveSteps(config) {
		if def.Key == step {
			return true
		}
	}
	return false
}
