package module

import "mbot/internal/services/pipeline/domain"

// Ports defines the pipeline module ports exposed to the supervisor
type Ports struct {
	Runner domain.RunnerPort
}
