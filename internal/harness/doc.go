// Package harness runs shape inference scenarios described in YAML.
//
// # Scenario Format
//
//	name: nested_duplicates
//	description: "Repeated objects collapse to references"
//	format: json            # json (default) or yaml
//	strict: false
//	max_depth: 0            # 0 = default limit
//	input: |
//	  {"a": {"x": 1}, "b": {"x": 2}}
//	expect:
//	  shapes: 3
//	  refs: [2]
//	  result: '{"a":{"x":"Number"},"b":"2"}'
//	assertions:
//	  - type: entry
//	    id: 2
//	    shape: '{"x":"Number"}'
//	  - type: round_trip
//	  - type: cue_accepts
//	    data: '{"a": {"x": 5}, "b": {"x": 6}}'
//
// A scenario whose inference is expected to fail sets expect.error to the
// error code instead, e.g. DEPTH_EXCEEDED.
//
// # Assertion Types
//
//   - entry: catalog entry id renders as shape
//   - round_trip: expanding the document reproduces the uncollapsed rendering
//   - cue_accepts: the generated CUE root definition accepts data (default: the input)
//   - cue_rejects: the generated CUE root definition rejects data
//
// # Determinism
//
// Every scenario runs with a fresh interner, a fixed run id and an
// in-memory archive, so results and golden files are stable across runs.
package harness
