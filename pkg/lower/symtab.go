package lower

// scratchAddr0 and scratchAddr1 are the two reserved user-memory addresses
// the expression optimizer's spill path and the equality synthesizer both
// hardcode. They are never handed out by SymbolTable.Define, matching the
// original compiler's inherited limitation: an expression that nests a
// comparison inside a spilled general-case arithmetic operation (or vice
// versa) can clobber these shared scratch cells. This is not fixed here;
// it is carried forward deliberately (see DESIGN.md).
const (
	scratchAddr0 = 0
	scratchAddr1 = 1
	firstUserAddr = 2
)

// SymbolTable maps variable names to user-memory addresses, mirroring
// original_source/lark_parser.py's SymbolTable class (which likewise
// reserves addresses 0 and 1 and starts allocation at 2).
type SymbolTable struct {
	addrs map[string]int
	next  int
}

// NewSymbolTable returns an empty table with allocation starting at the
// first address past the reserved scratch cells.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{addrs: map[string]int{}, next: firstUserAddr}
}

// Has reports whether name already has an assigned address.
func (t *SymbolTable) Has(name string) bool {
	_, ok := t.addrs[name]
	return ok
}

// Lookup returns name's address and whether it is defined.
func (t *SymbolTable) Lookup(name string) (int, bool) {
	addr, ok := t.addrs[name]
	return addr, ok
}

// Define assigns name the next free address, reusing the existing address
// if name is already defined (redeclaration is not an error; see
// DESIGN.md's shadowing decision).
func (t *SymbolTable) Define(name string) int {
	if addr, ok := t.addrs[name]; ok {
		return addr
	}
	addr := t.next
	t.addrs[name] = addr
	t.next++
	return addr
}

// Size returns the number of user-memory cells needed: the highest
// assigned address plus one, or firstUserAddr if nothing beyond the
// reserved scratch cells was ever allocated.
func (t *SymbolTable) Size() int {
	if t.next < firstUserAddr {
		return firstUserAddr
	}
	return t.next
}

// FreshName returns the lowest-numbered "prefixN" not already assigned an
// address, mirroring the original if-statement's has_symbol-probing loop
// for allocating a go_else guard variable.
func (t *SymbolTable) FreshName(prefix string) string {
	for i := 0; ; i++ {
		name := prefix + itoa(i)
		if !t.Has(name) {
			return name
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
