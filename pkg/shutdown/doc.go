/*
Package shutdown funnels every way the server can end into a single teardown.

Operator interrupts, terminate signals, recovered panics, unobserved background
errors, closure of the input stream and explicit requests all call
Coordinator.Trigger. The first trigger moves the coordinator from Armed to
ShuttingDown and runs teardown: every tracked session is quit, the driver
process group is terminated, registered hooks run, and the exit function is
called with status 0. Later triggers are ignored.
*/
package shutdown
