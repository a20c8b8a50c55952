// Package config defines the FitPlan configuration shared by the fitplan
// CLI and the fitplan-shell bridge.
//
// Values are loaded by confloader on top of Default(), checked by Verify
// and masked by Sanitize before being printed or logged.
package config
