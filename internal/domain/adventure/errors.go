package adventure

import "errors"

var ErrInvalidTransition = errors.New("invalid adventure transition")

type TransitionReason string

const (
	ReasonAlreadyRunning     TransitionReason = "already_running"
	ReasonRewardPending      TransitionReason = "reward_pending"
	ReasonInsufficientEnergy TransitionReason = "insufficient_energy"
	ReasonNoReward           TransitionReason = "no_reward"
)

type TransitionError struct {
	Op     string
	Reason TransitionReason
}

func (e *TransitionError) Error() string {
	return ErrInvalidTransition.Error() + ": " + e.Op + ": " + string(e.Reason)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

func transitionErr(op string, reason TransitionReason) error {
	return &TransitionError{Op: op, Reason: reason}
}
