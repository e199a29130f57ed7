// Package cartservice implements the shared-cart service inside the
// shopping context.
//
// The module owns the cart aggregation engine (line items, quantities,
// votes, reactions, totals and ranking), the snapshot load/apply/persist
// orchestration around it, and outbox event production for cart activity.
// The engine itself is a pure value library in domain/cart; persistence,
// caching and transport live behind ports and adapters.
package cartservice
