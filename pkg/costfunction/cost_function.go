package costfunction

// CostFunction turns the nominal travel time of a road and the queue waiting at its end into
// the live travel time.
type CostFunction interface {
	GetWeight(baseWeight float64, queueLength int) float64
	GetDelay(queueLength int) float64
}
