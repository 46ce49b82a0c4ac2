package storage

// JobType carries the per-job-type workflow configuration: which catalog
// steps are active for tickets of this type. Keys absent from the map count
// as inactive.
type JobType struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	WorkflowConfig map[string]bool `json:"workflow_config"`
}

type UpdateJobTypeConfig struct {
	WorkflowConfig map[string]bool `json:"workflow_config"`
}
