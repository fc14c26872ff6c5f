// Package clock binds periodic interrupt sources to the roles of a multiplexed display.
//
// A display needs two independent periodic triggers: one that refreshes the
// lit digit (Refresh) and one that advances whatever is being shown
// (Transition for scrolling text, Counting for a counter). Each trigger is one
// of a fixed set of Sources, named after the timers of the reference board:
//
//	SysTick  WKT  MRT0  MRT1  CTIMER0
//
// A Source is backed by a Timer. On a microcontroller a Timer wraps a hardware
// peripheral; on a host the Ticker implementation runs a time.Ticker in a
// goroutine. The clocktest subpackage provides a Timer fired by hand.
//
// # Critical sections
//
// The Scheduler owns a single mask. Every handler it arms runs with the mask
// held, and configuration code wraps its writes in Critical, so a handler
// never observes a half-updated configuration:
//
//	s := clock.NewScheduler(clock.HostTimers(), nil)
//	err := s.Rebind(func() {
//		// reset state read by the handlers
//	}, clock.Binding{
//		Role:    clock.Refresh,
//		Source:  clock.MRT1,
//		Rate:    500 * physic.Hertz,
//		Handler: refresh,
//	}, clock.Binding{
//		Role:    clock.Transition,
//		Source:  clock.WKT,
//		Rate:    2 * physic.Hertz,
//		Handler: scroll,
//	})
//
// Rebind rejects a set where the Refresh source is shared with another role
// and leaves the previous bindings armed.
package clock
