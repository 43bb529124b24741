package ui

import (
	"tasklist/pkg/store"
)

// orderUpdate is an order value to write to the task or item at Index
type orderUpdate struct {
	Index int
	Order int
}

// moveWithinCategory returns the order updates that move the task at index
// one place up (delta -1) or down (delta +1) among the tasks of its
// category in manual order. It returns nil when the task is already at the
// edge.
func moveWithinCategory(tasks []store.Task, index, delta int) []orderUpdate {
	if index < 0 || index >= len(tasks) {
		return nil
	}
	category := tasks[index].CategoryName()

	for _, group := range store.View(tasks, store.SortByOrder) {
		if group.Category != category {
			continue
		}
		for pos, e := range group.Entries {
			if e.Index != index {
				continue
			}
			other := pos + delta
			if other < 0 || other >= len(group.Entries) {
				return nil
			}
			neighbor := group.Entries[other]
			return swapOrders(
				index, effectiveOrder(tasks[index].Order, index),
				neighbor.Index, effectiveOrder(neighbor.Task.Order, neighbor.Index),
				delta,
			)
		}
	}
	return nil
}

// moveItem returns the order updates that move checklist item index one
// place up or down. The checklist is expected in its stored, reordered
// sequence.
func moveItem(items []store.ChecklistItem, index, delta int) []orderUpdate {
	other := index + delta
	if index < 0 || index >= len(items) || other < 0 || other >= len(items) {
		return nil
	}
	return swapOrders(
		index, effectiveOrder(items[index].Order, index),
		other, effectiveOrder(items[other].Order, other),
		delta,
	)
}

// swapOrders exchanges two order values. Equal values would not move
// anything, so the moving entry is pushed past its neighbor instead.
func swapOrders(a, orderA, b, orderB, delta int) []orderUpdate {
	if orderA == orderB {
		return []orderUpdate{{Index: a, Order: orderB + delta}}
	}
	return []orderUpdate{
		{Index: a, Order: orderB},
		{Index: b, Order: orderA},
	}
}

func effectiveOrder(order *int, position int) int {
	if order == nil {
		return position
	}
	return *order
}
