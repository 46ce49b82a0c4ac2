package constants

// Workflow step keys, in production order. The catalog is fixed: job types
// pick a subset, they never reorder or extend it.
const (
	StepPrinting           = "printing"
	StepLaminationHeatpress = "lamination_heatpress"
	StepCutting            = "cutting"
	StepSewing             = "sewing"
	StepDTFPress           = "dtf_press"
	StepEmbroidery         = "embroidery"
	StepKnitting           = "knitting"
	StepLaserCutting       = "laser_cutting"
)

type StepDefinition struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

var WorkflowStepCatalog = []StepDefinition{
	{Key: StepPrinting, Label: "Printing"},
	{Key: StepLaminationHeatpress, Label: "Lamination / Heatpress"},
	{Key: StepCutting, Label: "Cutting"},
	{Key: StepSewing, Label: "Sewing"},
	{Key: StepDTFPress, Label: "DTF Press"},
	{Key: StepEmbroidery, Label: "Embroidery"},
	{Key: StepKnitting, Label: "Knitting"},
	{Key: StepLaserCutting, Label: "Laser Cutting"},
}

// Ticket statuses.
const (
	StatusReadyToPrint = "ready_to_print"
	StatusInProduction = "in_production"
	StatusCompleted    = "completed"
)

// User roles. Admins and production heads bypass per-step assignment checks.
const (
	RoleAdmin    = "admin"
	RoleHead     = "head"
	RoleOperator = "operator"
)

func IsKnownStep(key string) bool {
	for _, def := range WorkflowStepCatalog {
		if def.Key == key {
			return true
		}
	}
	return false
}
