// Command fitplan-shell serves the FitPlan core to the UI shell over
// HTTP on a loopback address.
//
// The shell pushes navigation events and session updates, reads the
// tab bar and last route, and requests plans. The route tracker stays
// subscribed for the whole life of the process.
package main
