// Package system has the kitchen API readiness report.
package system

// Status reports readiness of each backend the kitchen depends on.
type Status struct {
	ConnectionReady bool `json:"connectionReady"`
	KitchenAPIReady bool `json:"kitchenApiReady"`
	PrefectReady    bool `json:"prefectReady"`
	WorkPoolReady   bool `json:"workPoolReady"`
	WorkersReady    bool `json:"workersReady"`
	MaxUserFlows    int  `json:"maxUserFlows"`
}

// Ready is true only when every backend component is ready.
func (s Status) Ready() bool {
	return s.ConnectionReady &&
		s.KitchenAPIReady &&
		s.PrefectReady &&
		s.WorkPoolReady &&
		s.WorkersReady
}
