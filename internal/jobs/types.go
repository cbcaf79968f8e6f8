package jobs

const (
	TaskComparisonRun     = "comparison:run"
	TaskCleanupExecutions = "maintenance:cleanup_executions"
)

type ComparisonRunPayload struct {
	ComparisonID string   `json:"comparison_id"`
	Models       []string `json:"models"`
	TestCaseFile string   `json:"test_case_file,omitempty"`
}

type CleanupExecutionsPayload struct {
	RetentionDays int `json:"retention_days"`
}
