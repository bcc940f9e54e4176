package statemachine

import (
	"fmt"
	"strings"

	"restaurant_site/internal/models"
)

const (
	ActorStaff    = "staff"
	ActorCustomer = "customer"
)

// Transition is a permitted status change and who may perform it.
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor string             `json:"actor"`
}

var validTransitions = []Transition{
	{From: models.OrderPending, To: models.OrderConfirmed, Actor: ActorStaff},
	{From: models.OrderConfirmed, To: models.OrderPreparing, Actor: ActorStaff},
	{From: models.OrderPreparing, To: models.OrderReady, Actor: ActorStaff},
	{From: models.OrderReady, To: models.OrderCompleted, Actor: ActorStaff},

	// cancellation is allowed at any point before completion
	{From: models.OrderPending, To: models.OrderCancelled, Actor: ActorStaff},
	{From: models.OrderConfirmed, To: models.OrderCancelled, Actor: ActorStaff},
	{From: models.OrderPreparing, To: models.OrderCancelled, Actor: ActorStaff},
	{From: models.OrderReady, To: models.OrderCancelled, Actor: ActorStaff},

	// customers may withdraw an order until the kitchen starts on it
	{From: models.OrderPending, To: models.OrderCancelled, Actor: ActorCustomer},
	{From: models.OrderConfirmed, To: models.OrderCancelled, Actor: ActorCustomer},
}

type transitionKey struct {
	from  models.OrderStatus
	to    models.OrderStatus
	actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool, len(validTransitions))
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// InvalidTransitionError is returned when a status change is not permitted.
type InvalidTransitionError struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s is not allowed for %s (valid from %s: %s)",
		e.From, e.To, e.Actor, e.From, describeValidFrom(e.From))
}

// ValidTransitionsFrom returns the distinct next states reachable from status.
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks whether actor may move an order from one state to another.
func CanTransition(from, to models.OrderStatus, actor string) error {
	if transitionMap[transitionKey{from, to, actor}] {
		return nil
	}
	return &InvalidTransitionError{From: from, To: to, Actor: actor}
}

// IsTerminal reports whether no further transitions exist.
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// Known reports whether status is one of the order statuses.
func Known(status models.OrderStatus) bool {
	switch status {
	case models.OrderPending, models.OrderConfirmed, models.OrderPreparing,
		models.OrderReady, models.OrderCompleted, models.OrderCancelled:
		return true
	}
	return false
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// AllTransitions returns the full table, for documentation endpoints.
func AllTransitions() []Transition {
	return validTransitions
}
