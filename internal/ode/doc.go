// Package ode provides the primitives for integrating ordinary differential
// equations dx/dt = f(x, t).
//
//   - [State]: vector representing system state
//   - [System]: right-hand side, written into a caller-owned buffer
//   - [Stepper]: numerical integrator interface
//   - [AdaptiveStepper]: stepper with error-controlled step size
//
// # Example
//
//	model := htm.NewModel(htm.NewMusikhin(base))
//	stepper := integrators.NewRK45()
//	s := sim.New(model, stepper)
//	result, _ := s.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Steppers keep scratch buffers and are NOT safe for concurrent use. A
// System must not mutate itself in Derive; models that carry per-instance
// state are cloned for each concurrent run.
package ode
