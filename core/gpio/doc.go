// Package gpio is the pin driver layer of GreenSpring.
//
// A Driver is one opened GPIO line with a fixed Direction. Factories open drivers for a
// backend chosen once at startup from configuration:
//
//   - Simulator keeps levels in memory. Writes synchronously invoke the line's own
//     listeners, and Inject drives simulated inputs.
//   - Periph drives real lines through periph.io. Inputs are watched for both edges with
//     WaitForEdge, or sampled every PollMillis when the line cannot report edges.
//
// Driver failures are never fatal to the caller: the reconciliation engine logs them and
// moves on.
package gpio
