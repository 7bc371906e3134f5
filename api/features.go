package api

// CoreFeatures is a bitset of feature gates recognized by the parser (§5).
// Unlike the WebAssembly Core specification's "proposals", these are only
// the gates this text-format front-end must recognize to parse the
// corresponding surface syntax; they say nothing about validation or
// execution.
//
// Note: a bitset cannot use zero as a flag, so the first flag is 1<<0.
type CoreFeatures uint64

const (
	// CoreFeatureMultiValue allows a Function Signature's results to hold
	// more than one Value Type (§3 "Function Signature").
	CoreFeatureMultiValue CoreFeatures = 1 << iota
	// CoreFeatureExceptionHandling names the try/catch/catch_all/throw/
	// rethrow instruction gate (§5). The parser does not consult it: those
	// forms are reported as unknown instructions whether or not it is set.
	CoreFeatureExceptionHandling
	// CoreFeatureMultiMemory names the multi-memory gate (§5). The parser
	// does not consult it: a module may declare any number of memories
	// whether or not it is set, and memory instructions take no memory index.
	CoreFeatureMultiMemory
	// CoreFeatureCustomPageSizes names the custom-page-sizes gate (§5). The
	// parser does not consult it: memory limits are always in PageSize units.
	CoreFeatureCustomPageSizes
)

// IsEnabled returns true if the feature is enabled.
func (f CoreFeatures) IsEnabled(feature CoreFeatures) bool {
	return f&feature != 0
}

// SetEnabled returns a CoreFeatures with the given feature enabled or disabled.
func (f CoreFeatures) SetEnabled(feature CoreFeatures, val bool) CoreFeatures {
	if val {
		return f | feature
	}
	return f &^ feature
}

// String renders the enabled features, comma-separated, in declaration order.
func (f CoreFeatures) String() string {
	var ret string
	for i := CoreFeatures(1); i != 0; i <<= 1 {
		if !f.IsEnabled(i) {
			continue
		}
		if ret != "" {
			ret += ","
		}
		ret += i.name()
	}
	return ret
}

func (f CoreFeatures) name() string {
	switch f {
	case CoreFeatureMultiValue:
		return "multi-value"
	case CoreFeatureExceptionHandling:
		return "exception-handling"
	case CoreFeatureMultiMemory:
		return "multi-memory"
	case CoreFeatureCustomPageSizes:
		return "custom-page-sizes"
	}
	return ""
}
