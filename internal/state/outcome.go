package state

import (
	"fmt"
	"k8s.io/klog/v2"
)

// Outcome of a run: it is InProgress until the ants win or lose.
type Outcome uint8

const (
	InProgress Outcome = iota
	AntsWin
	AntsLose
)

var outcomeNames = [...]string{"InProgress", "AntsWin", "AntsLose"}

// String returns the name of the outcome.
func (o Outcome) String() string {
	return outcomeNames[o]
}

// LossReason tells why the ants lost.
type LossReason uint8

const (
	NoLoss LossReason = iota

	// BeeReachedBase is set when a bee enters the ant home base.
	BeeReachedBase

	// QueenDied is set when a Queen ant runs out of health.
	QueenDied
)

var lossReasonNames = [...]string{"", "a bee reached the home base", "the queen perished"}

// String returns a human-readable reason.
func (r LossReason) String() string {
	return lossReasonNames[r]
}

// EventKind enumerates the notifications sent to a Listener.
type EventKind uint8

const (
	// EventBossArrived is sent when a Boss bee is released from the hive.
	EventBossArrived EventKind = iota

	// EventNotEnoughFood is sent when a deploy is rejected for lack of food.
	EventNotEnoughFood

	// EventInsectDied is sent when an insect runs out of health.
	EventInsectDied

	// EventAntsWin and EventAntsLose are sent once, when the run ends.
	EventAntsWin
	EventAntsLose
)

// Event is a notification for the presentation layer. The core does not depend on
// what a Listener does with it.
type Event struct {
	Kind    EventKind
	Insect  InsectID
	Message string
}

// Listener receives events from the GameState. It is called synchronously, and it must
// not mutate the GameState.
type Listener interface {
	OnEvent(g *GameState, event Event)
}

// ListenerFunc adapts a function to a Listener.
type ListenerFunc func(g *GameState, event Event)

// OnEvent implements Listener.
func (fn ListenerFunc) OnEvent(g *GameState, event Event) { fn(g, event) }

// noListener discards events.
type noListener struct{}

func (noListener) OnEvent(*GameState, Event) {}

func (g *GameState) notify(kind EventKind, id InsectID, format string, args ...any) {
	g.listener.OnEvent(g, Event{Kind: kind, Insect: id, Message: fmt.Sprintf(format, args...)})
}

// lose ends the run with the ants losing. Only the first terminal outcome counts.
func (g *GameState) lose(reason LossReason) {
	if g.outcome != InProgress {
		return
	}
	g.outcome = AntsLose
	g.lossReason = reason
	klog.V(1).Infof("Turn %d: ants lose, %s", g.time, reason)
}

// win ends the run with the ants winning.
func (g *GameState) win() {
	if g.outcome != InProgress {
		return
	}
	g.outcome = AntsWin
	klog.V(1).Infof("Turn %d: ants win", g.time)
}

// Outcome of the run so far.
func (g *GameState) Outcome() Outcome { return g.outcome }

// LossReason returns why the ants lost, or NoLoss.
func (g *GameState) LossReason() LossReason { return g.lossReason }

// IsFinished returns whether the run reached a terminal outcome.
func (g *GameState) IsFinished() bool { return g.outcome != InProgress }

// FinishReason returns a human-readable description of how the run ended.
func (g *GameState) FinishReason() string {
	switch g.outcome {
	case AntsWin:
		return "all bees are vanquished, the ants win"
	case AntsLose:
		return fmt.Sprintf("%s, the ants lose", g.lossReason)
	}
	return "run not finished yet"
}
