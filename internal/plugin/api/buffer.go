package api

import (
	"errors"
	"io"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/gapbuf/internal/engine/gapbuffer"
	"github.com/dshills/gapbuf/internal/engine/grapheme"
)

// ModuleName is the global and require name of the buffer module.
const ModuleName = "gb"

// Budget is charged one instruction per buffer call.
// *lua.Sandbox implements it.
type Budget interface {
	IncrementInstructions(n int64) bool
}

// BufferModule implements the gb API module.
type BufferModule struct {
	gb     *gapbuffer.GapBuffer
	budget Budget
}

// NewBufferModule creates a buffer module over gb. budget may be nil.
func NewBufferModule(gb *gapbuffer.GapBuffer, budget Budget) *BufferModule {
	return &BufferModule{gb: gb, budget: budget}
}

// Name returns the module name.
func (m *BufferModule) Name() string {
	return ModuleName
}

// Register sets the gb global and preloads the gb module.
func (m *BufferModule) Register(L *lua.LState) error {
	if m.gb == nil {
		return errors.New("buffer module: no buffer")
	}

	mod := m.table(L)
	L.SetGlobal(ModuleName, mod)
	L.PreloadModule(ModuleName, func(L *lua.LState) int {
		L.Push(mod)
		return 1
	})
	return nil
}

func (m *BufferModule) table(L *lua.LState) *lua.LTable {
	funcs := map[string]lua.LGFunction{
		"insert":          m.insert,
		"delete_forward":  m.deleteForward,
		"delete_backward": m.deleteBackward,
		"grow_gap":        m.growGap,
		"set_point":       m.setPoint,
		"seek_by":         m.seekBy,
		"point":           m.point,
		"len":             m.bufLen,
		"gap_size":        m.gapSize,
		"text":            m.text,
		"read":            m.read,
		"dump":            m.dump,
		"next_grapheme":   m.nextGrapheme,
		"prev_grapheme":   m.prevGrapheme,
		"grapheme_count":  m.graphemeCount,
	}

	mod := L.NewTable()
	for name, fn := range funcs {
		L.SetField(mod, name, L.NewFunction(m.charged(fn)))
	}
	return mod
}

// charged wraps fn so every call spends one instruction from the budget.
func (m *BufferModule) charged(fn lua.LGFunction) lua.LGFunction {
	return func(L *lua.LState) int {
		if m.budget != nil && m.budget.IncrementInstructions(1) {
			L.RaiseError("instruction limit exceeded")
			return 0
		}
		return fn(L)
	}
}

// insert(s)
// Inserts s at the point; the point ends after s.
func (m *BufferModule) insert(L *lua.LState) int {
	s := L.CheckString(1)

	if err := m.gb.InsertString(s); err != nil {
		L.RaiseError("insert: %v", err)
	}
	return 0
}

// delete_forward(n) -> removed
func (m *BufferModule) deleteForward(L *lua.LState) int {
	n := L.CheckInt(1)
	L.Push(lua.LNumber(m.gb.DeleteForward(n)))
	return 1
}

// delete_backward(n) -> removed
func (m *BufferModule) deleteBackward(L *lua.LState) int {
	n := L.CheckInt(1)
	L.Push(lua.LNumber(m.gb.DeleteBackward(n)))
	return 1
}

// grow_gap(n)
// Enlarges the gap by exactly n bytes.
func (m *BufferModule) growGap(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 0 {
		L.ArgError(1, "amount must be non-negative")
		return 0
	}

	if err := m.gb.GrowGap(n); err != nil {
		L.RaiseError("grow_gap: %v", err)
	}
	return 0
}

// set_point(n) -> point
func (m *BufferModule) setPoint(L *lua.LState) int {
	m.gb.SetPoint(L.CheckInt(1))
	L.Push(lua.LNumber(m.gb.Point()))
	return 1
}

// seek_by(n) -> point
func (m *BufferModule) seekBy(L *lua.LState) int {
	s := m.gb.Seeker()
	s.SeekBy(L.CheckInt(1))
	L.Push(lua.LNumber(s.Pos()))
	return 1
}

// point() -> number
func (m *BufferModule) point(L *lua.LState) int {
	L.Push(lua.LNumber(m.gb.Point()))
	return 1
}

// len() -> number
func (m *BufferModule) bufLen(L *lua.LState) int {
	L.Push(lua.LNumber(m.gb.Len()))
	return 1
}

// gap_size() -> number
func (m *BufferModule) gapSize(L *lua.LState) int {
	L.Push(lua.LNumber(m.gb.GapSize()))
	return 1
}

// text() -> string
// Returns the logical content without moving the point.
func (m *BufferModule) text(L *lua.LState) int {
	L.Push(lua.LString(m.gb.String()))
	return 1
}

// read(n) -> string or nil
// Reads up to n bytes from the point, advancing it. Returns nil at the end.
func (m *BufferModule) read(L *lua.LState) int {
	n := L.CheckInt(1)
	if n <= 0 {
		L.ArgError(1, "count must be positive")
		return 0
	}

	p := make([]byte, min(n, m.gb.Len()-m.gb.Point()))
	k, _ := io.ReadFull(m.gb.Reader(), p)
	if k == 0 {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LString(p[:k]))
	return 1
}

// dump() -> string
func (m *BufferModule) dump(L *lua.LState) int {
	L.Push(lua.LString(m.gb.Dump()))
	return 1
}

// next_grapheme() -> bytes moved
func (m *BufferModule) nextGrapheme(L *lua.LState) int {
	L.Push(lua.LNumber(grapheme.Next(m.gb)))
	return 1
}

// prev_grapheme() -> bytes moved
func (m *BufferModule) prevGrapheme(L *lua.LState) int {
	L.Push(lua.LNumber(grapheme.Prev(m.gb)))
	return 1
}

// grapheme_count() -> number
func (m *BufferModule) graphemeCount(L *lua.LState) int {
	L.Push(lua.LNumber(grapheme.Count(m.gb)))
	return 1
}
