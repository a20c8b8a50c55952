// Package buildinfo exposes version information of the FitPlan binaries.
//
// Release builds inject values with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/fitplan-go/internal/infra/buildinfo.Version=v0.3.0 \
//	  -X github.com/yndnr/fitplan-go/internal/infra/buildinfo.Commit=$(git rev-parse --short HEAD)"
//
// Unset values fall back to the module build info embedded by the Go toolchain.
package buildinfo
