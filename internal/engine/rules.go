package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jonesrussell/sentiment-watchdog/internal/domain"
)

// RuleState is the evaluation state of a single alert rule.
type RuleState string

const (
	// StateIdle means the rule is disabled and skipped during evaluation.
	StateIdle RuleState = "idle"
	// StateArmed means the rule is eligible to fire.
	StateArmed RuleState = "armed"
	// StateCooling suppresses repeat firings until the trailing count drops
	// back to the threshold or below (hysteresis).
	StateCooling RuleState = "cooling_down"
)

// RuleEngine evaluates alert rules against the message history on each
// ingest. Rules are an unordered collection: several rules may target the
// same emotion with different thresholds or windows, each evaluated
// independently.
//
// RuleEngine is not safe for concurrent use; the owning Engine serializes
// access.
type RuleEngine struct {
	rules  []*domain.AlertRule
	states map[string]RuleState
}

// NewRuleEngine creates an empty rule engine.
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{states: make(map[string]RuleState)}
}

// Upsert adds or redefines a rule. A redefined rule is re-evaluated against
// its new parameters on the next ingest; no retroactive alerts are emitted
// for past windows. Disabling forces Idle; enabling (or re-enabling) resets
// to Armed with no replay of missed windows.
func (e *RuleEngine) Upsert(rule *domain.AlertRule) {
	for i, existing := range e.rules {
		if existing.ID == rule.ID {
			e.rules[i] = rule
			e.states[rule.ID] = initialState(rule)
			return
		}
	}
	e.rules = append(e.rules, rule)
	e.states[rule.ID] = initialState(rule)
}

// Delete removes a rule and its runtime state.
func (e *RuleEngine) Delete(ruleID string) bool {
	for i, rule := range e.rules {
		if rule.ID == ruleID {
			e.rules = append(e.rules[:i], e.rules[i+1:]...)
			delete(e.states, ruleID)
			return true
		}
	}
	return false
}

// Rules returns the current rule collection.
func (e *RuleEngine) Rules() []*domain.AlertRule {
	return e.rules
}

// State returns the runtime state of the given rule.
func (e *RuleEngine) State(ruleID string) RuleState {
	state, ok := e.states[ruleID]
	if !ok {
		return StateIdle
	}
	return state
}

// Evaluate runs every rule against the trailing window ending at now and
// returns the alerts fired by this ingest event. The window is continuously
// sliding, re-evaluated at every event, not a fixed bucket. The firing
// condition is strictly count > threshold.
func (e *RuleEngine) Evaluate(now time.Time, history []domain.Message) []domain.Alert {
	var fired []domain.Alert

	for _, rule := range e.rules {
		state := e.states[rule.ID]
		if state == StateIdle {
			continue
		}

		count := countInWindow(history, rule.Emotion, now.Add(-rule.Window()), now)

		switch state {
		case StateArmed:
			if count > rule.Threshold {
				fired = append(fired, newAlert(rule, count, now))
				e.states[rule.ID] = StateCooling
			}
		case StateCooling:
			if count <= rule.Threshold {
				e.states[rule.ID] = StateArmed
			}
		}
	}

	return fired
}

// countInWindow counts messages tagged with emotion whose timestamp falls
// in [from, to]. History is ordered by timestamp, so the scan walks
// backwards and stops at the first message older than the window.
func countInWindow(history []domain.Message, emotion domain.Emotion, from, to time.Time) int {
	count := 0
	for i := len(history) - 1; i >= 0; i-- {
		msg := &history[i]
		if msg.Timestamp.Before(from) {
			break
		}
		if msg.Timestamp.After(to) {
			continue
		}
		if msg.HasEmotion(emotion) {
			count++
		}
	}
	return count
}

func newAlert(rule *domain.AlertRule, count int, now time.Time) domain.Alert {
	return domain.Alert{
		ID:           uuid.NewString(),
		RuleID:       rule.ID,
		Emotion:      rule.Emotion,
		MessageCount: count,
		TimeWindow:   rule.TimeWindow,
		Summary:      fmt.Sprintf("%d %s messages in %d minutes", count, rule.Emotion, rule.TimeWindow),
		TriggeredAt:  now,
		Delivery:     domain.DeliveryPending,
	}
}

func initialState(rule *domain.AlertRule) RuleState {
	if rule.Enabled {
		return StateArmed
	}
	return StateIdle
}
