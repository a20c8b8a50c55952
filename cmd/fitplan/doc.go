// Command fitplan is the command-line front end of the FitPlan core.
//
// It reads and writes the device-local session record, replays navigation
// events into the last-route marker and asks the completion service for
// workout plans. See "fitplan help" for the command list.
package main
