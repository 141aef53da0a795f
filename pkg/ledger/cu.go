package ledger

import "errors"

var ErrComputeExceeded = errors.New("Compute exceeded")

// DefaultComputeBudget is the per-instruction compute allowance.
const DefaultComputeBudget = 200_000

type ComputeMeter struct {
	remaining       uint64
	startingBalance uint64
	exceeded        bool
}

func NewComputeMeter(budget uint64) ComputeMeter {
	return ComputeMeter{remaining: budget, startingBalance: budget}
}

func (cm *ComputeMeter) Consume(cost uint64) error {
	if cm.remaining < cost {
		cm.remaining = 0
		cm.exceeded = true
		return ErrComputeExceeded
	}
	cm.remaining -= cost
	return nil
}

func (cm *ComputeMeter) Used() uint64 {
	return cm.startingBalance - cm.remaining
}

func (cm *ComputeMeter) Remaining() uint64 {
	return cm.remaining
}

func (cm *ComputeMeter) Exceeded() bool {
	return cm.exceeded
}
