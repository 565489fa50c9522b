// Package lua runs sandboxed Lua edit scripts.
//
// It wraps gopher-lua with a restricted standard library, a print
// function that writes to a configurable io.Writer, and two execution
// limits:
//   - a wall-clock timeout, enforced through the LState context
//   - an instruction budget, charged by host modules for each call
//
// # State
//
//	state, err := lua.NewState(
//	    lua.WithExecutionTimeout(2 * time.Second),
//	    lua.WithOutput(os.Stdout),
//	)
//	if err != nil {
//	    return err
//	}
//	defer state.Close()
//
//	if err := state.DoString(ctx, `print(1 + 1)`); err != nil {
//	    return err
//	}
//
// # Sandbox
//
// The io, os and debug libraries are never opened. dofile, loadfile,
// load and loadstring are removed. require only resolves the built-in
// string, table and math libraries and modules preloaded by the host
// with PreloadModule.
//
// A State is not safe for concurrent use from Lua; the Go-side mutex only
// serializes entry points.
package lua
