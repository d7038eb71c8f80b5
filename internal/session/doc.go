// Package session implements the classification session: a single pending
// image slot, at most one in-flight request and the outcome of the last
// settled request.
//
// The lifecycle is an explicit state machine:
//
//	Idle      --Begin(valid)-->    Submitting
//	Idle      --Begin(invalid)-->  Idle            (notice only)
//	Submitting --Settle(ok)-->     Settled
//	Submitting --Settle(err)-->    SettledWithError
//	Settled / SettledWithError --Begin--> Submitting
//
// Begin and Settle are split so an event loop can run the network call in
// between without blocking; Submit chains the three steps for synchronous
// callers.
package session
