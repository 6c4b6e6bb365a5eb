package ports

import "time"

// PlanningMetrics puerto de métricas del motor de planeación.
type PlanningMetrics interface {
	WorkOrderConfirmed(elapsed time.Duration)
	ConfirmationConflict()
	ShortageResolved(productID string, added int)
	ItemPicked()
	IncomingTransition(status string)
}

// NopMetrics implementación vacía (tests, o cuando no se exponen métricas).
type NopMetrics struct{}

func (NopMetrics) WorkOrderConfirmed(time.Duration) {}
func (NopMetrics) ConfirmationConflict()            {}
func (NopMetrics) ShortageResolved(string, int)     {}
func (NopMetrics) ItemPicked()                      {}
func (NopMetrics) IncomingTransition(string)        {}
