package module

import "scheduling/internal/services/api/availability/domain"

// Ports is what the availability module offers other modules and binaries
type Ports struct {
	Slots  domain.ServicePort
	Guard  domain.SlotGuard
	Demand domain.Worker
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
