package storage

type User struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Role          string   `json:"role"`
	AssignedSteps []string `json:"assigned_steps"`
}

type SaveUser struct {
	Name          string   `json:"name"`
	Role          string   `json:"role"`
	AssignedSteps []string `json:"assigned_steps"`
}

type AssignUsers struct {
	UserIDs      []int64 `json:"user_ids"`
	WorkflowStep *string `json:"workflow_step,omitempty"`
}
