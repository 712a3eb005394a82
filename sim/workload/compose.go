package workload

import "fmt"

// ComposeSpecs merges multiple Specs into a single spec.
// Flow lists are concatenated in argument order; the result is validated so
// that a flow ID defined in two inputs is reported instead of silently shadowed.
func ComposeSpecs(specs []*Spec) (*Spec, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one spec file required")
	}
	merged := &Spec{}
	for _, s := range specs {
		merged.Flows = append(merged.Flows, s.Flows...)
	}
	if err := merged.Validate(); err != nil {
		return nil, fmt.Errorf("composed spec: %w", err)
	}
	return merged, nil
}
