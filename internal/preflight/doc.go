// Package preflight provides readiness checks for filesystem paths and
// reference data that Capstan depends on.
//
// These checks run in two contexts:
//   - The workflow manager calls RunAll before processing each queue item.
//     If any check fails, processing halts instead of failing items one by one.
//   - The CLI "capstan status" command uses individual check functions
//     (CheckDirectoryAccess, CheckSpeakerMap) to display pipeline health.
//
// Each check is gated by its config setting -- unconfigured inputs are skipped.
package preflight
