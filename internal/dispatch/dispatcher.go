package dispatch

import (
	"context"

	"go.uber.org/zap"
)

type Operation string

const (
	OpInsert Operation = "insert"
	OpUpdate Operation = "update"
	OpDelete Operation = "delete"
)

type EntityKind string

const (
	KindJob         EntityKind = "job"
	KindCompany     EntityKind = "company"
	KindLocation    EntityKind = "location"
	KindTag         EntityKind = "tag"
	KindReviewToken EntityKind = "review_token"
)

// Change describes one entity touched by a committed store transaction.
type Change struct {
	Kind   EntityKind
	Op     Operation
	Entity any
}

// Action is a named side effect run for a change. The name exists purely for
// log lines.
type Action struct {
	Name string
	Run  func(ctx context.Context, entity any) error
}

// Dispatcher fans committed store changes out to their side effects: index
// synchronization, notifications, cache invalidation. The action table is
// typed and fixed at construction, keyed on (entity kind, operation), and
// actions for one entity run in table order. Failures are logged and never
// propagate: by the time the dispatcher runs, the transaction is durable and
// side effects are best-effort derived state.
type Dispatcher struct {
	table  map[EntityKind]map[Operation][]Action
	logger *zap.SugaredLogger
}

func New(logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		table:  map[EntityKind]map[Operation][]Action{},
		logger: logger,
	}
}

// On appends actions for the (kind, op) pair.
func (d *Dispatcher) On(kind EntityKind, op Operation, actions ...Action) {
	ops, ok := d.table[kind]
	if !ok {
		ops = map[Operation][]Action{}
		d.table[kind] = ops
	}
	ops[op] = append(ops[op], actions...)
}

// Committed runs the action table over the changes of one committed
// transaction. Ordering between different entities is unspecified.
func (d *Dispatcher) Committed(ctx context.Context, changes ...Change) {
	for _, change := range changes {
		actions := d.table[change.Kind][change.Op]
		if len(actions) == 0 {
			d.logger.Debugw("no actions for change", "kind", change.Kind, "op", change.Op)
			continue
		}
		for _, action := range actions {
			if err := action.Run(ctx, change.Entity); err != nil {
				d.logger.Errorw("dispatch action failed",
					"action", action.Name, "kind", change.Kind, "op", change.Op, "error", err)
			}
		}
	}
}
