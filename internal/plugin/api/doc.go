// Package api provides the Lua modules exposed to edit scripts.
//
// BufferModule binds a single gap buffer to the global table gb (also
// available through require("gb")). All offsets are byte offsets and all
// positions clamp the way the underlying buffer does:
//
//	gb.set_point(0)
//	gb.insert("header\n")
//	gb.seek_by(-1)
//	gb.delete_backward(7)
//	while true do
//	    local chunk = gb.read(64)
//	    if not chunk then break end
//	    print(chunk)
//	end
//
// Functions:
//   - insert(s), delete_forward(n), delete_backward(n), grow_gap(n)
//   - set_point(n), seek_by(n), point(), len(), gap_size()
//   - text(), read(n), dump()
//   - next_grapheme(), prev_grapheme(), grapheme_count()
//
// Allocation failures and exhausted instruction budgets raise Lua errors.
package api
