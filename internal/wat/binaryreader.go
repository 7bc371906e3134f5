package wat

import "github.com/tetratelabs/wazero-wat/internal/wasm"

// OffsetUnknown signals "no specific byte position" in a BinaryReader
// error callback, when the external decoder can't pin one down (§6).
const OffsetUnknown int64 = -1

// BinaryReaderOptions configures the one behavior the core forwards
// across the BinaryReader boundary (§6).
type BinaryReaderOptions struct {
	// ReadDebugNames asks the binary decoder to also populate a custom
	// name section, if present.
	ReadDebugNames bool
}

// BinaryReader is the external collaborator this core hands a
// "(module binary ...)" command's decoded byte string to (§1 Non-goals,
// §4.7, §6, C12). This core never implements binary decoding itself -
// doing so would duplicate the Binary Reader's entire responsibility.
type BinaryReader interface {
	Read(data []byte, opts BinaryReaderOptions, onError func(offset int64, message string)) (*wasm.Module, error)
}

// dispatchRawModule implements the Raw-Module Dispatcher (C12): a text
// "module" command's RawModule already carries its Module; a binary one
// is handed to reader, and on success its bytes are replaced by the
// decoded Module (§4.7).
func dispatchRawModule(raw *wasm.RawModule, reader BinaryReader, opts BinaryReaderOptions, errs *errorTally) {
	if raw.Kind == wasm.RawModuleText {
		return
	}
	mod, err := reader.Read(raw.Bytes, opts, func(offset int64, message string) {
		if offset == OffsetUnknown {
			errs.reportf(raw.Location, "binary module", "%s", message)
			return
		}
		errs.reportf(raw.Location, "binary module", "offset %d: %s", offset, message)
	})
	if err != nil {
		errs.reportf(raw.Location, "binary module", "%v", err)
		return
	}
	raw.Module = mod
	raw.Bytes = nil
}

// DispatchBinaryModules walks every command in a parsed Script, dispatching
// each "(module binary ...)" RawModule (every CommandModule, plus any
// assert_{malformed,invalid,unlinkable,uninstantiable}/assert_trap whose
// subject is a module) through reader (§4.7, C12). Text modules are
// untouched. Called by the public wat.Parse wrapper once a BinaryReader is
// configured; this package never calls it on itself.
func DispatchBinaryModules(s *wasm.Script, reader BinaryReader, opts BinaryReaderOptions, p *Parser) {
	for _, cmd := range s.Commands {
		if cmd.Module != nil {
			dispatchRawModule(cmd.Module, reader, opts, p.errs)
		}
	}
}
