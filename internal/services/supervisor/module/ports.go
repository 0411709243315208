package module

import "mbot/internal/services/supervisor/domain"

// Ports defines the supervisor module ports
type Ports struct {
	Supervisor domain.SupervisorPort
}
