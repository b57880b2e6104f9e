// Package optimistic provides instant visual feedback for user actions,
// applied before the host's network roundtrip completes and safely reverted
// when it fails.
//
// Elements opt in declaratively through a data-optimistic attribute holding
// a JSON configuration. The host request-dispatch layer reports lifecycle
// events through a Router, which drives the engine's three entry points:
//
//	request-started                                  -> Begin
//	response-error / swap-error / timeout / send-error -> Fail
//	swap-completed                                   -> Complete (cleanup)
//
// # Cycle
//
// Begin snapshots the target (markup, class string, attributes, dataset and
// any configured extra properties), allocates a fresh concurrency token, and
// applies the configured content. Fail shows the configured error content
// and, when a revert delay is configured, schedules a revert bound to the
// current token. Revert restores the snapshot; Cleanup clears the visual
// state without touching content.
//
// # Staleness
//
// Tokens increase monotonically per target. A scheduled revert or a late
// failure event carries the token of the cycle that created it; when a new
// cycle has bumped the token in the meantime the stale callback becomes a
// no-op. Nothing ever cancels a timer, stale writers simply lose.
//
// # Failure policy
//
// Nothing in this package returns an error to event routing and nothing
// panics on bad configuration. Missing configs, unresolvable targets, and
// stale tokens degrade to silent no-ops, because races between user
// interaction and in-flight requests are routine, not defects. Unresolved
// template placeholders stay literal in the output.
//
// # Example attribute
//
//	<button data-optimistic='{
//	    "values": {"textContent": "Saving..."},
//	    "errorMessage": "Save failed: ${statusText}",
//	    "delay": 2000
//	}'>Save</button>
package optimistic
