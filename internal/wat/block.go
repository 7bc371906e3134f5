package wat

import "github.com/tetratelabs/wazero-wat/internal/wasm"

// resolveBlockLabel implements the begin/end label pairing invariant for
// block/loop/if (C6, §4.3, §8 invariant #5):
//
//   - an empty end label always matches (it "inherits" the begin label);
//   - a non-empty end label must string-equal a non-empty begin label;
//   - a non-empty end label with no begin label at all is its own error,
//     distinct from a mismatch (§9 bullet 3).
//
// It reports exactly one diagnostic per mismatch (§8 boundary behaviors).
func resolveBlockLabel(errs *errorTally, beginLabel, endLabel string, endLoc wasm.Location) {
	if endLabel == "" {
		return
	}
	if beginLabel == "" {
		errs.reportf(endLoc, "block", "unexpected label: $%s", endLabel)
		return
	}
	if beginLabel != endLabel {
		errs.reportf(endLoc, "block", "mismatching label: $%s != $%s", endLabel, beginLabel)
	}
}
