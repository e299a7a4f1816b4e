package extract

// scanContext tracks the enclosing scope while a single file is scanned.
//
// It is a file-scoped value created fresh per ExtractFile call and discarded
// at file end, so concurrent or repeated scans never share state. The depth
// field is a running count of block-open minus block-close delimiters for the
// whole file: a counter, not a parser. It cannot tell a class-body brace
// from a brace inside a string or comment, so class scope may be exited early
// or late on irregular input. That is accepted behavior; no validation is
// attempted and no error is ever raised for unbalanced nesting.
type scanContext struct {
	class    string // enclosing class, qualified where the language has namespaces
	function string // enclosing top-level function
	method   string // enclosing method, qualified as Class::name
	inClass  bool
	depth    int
}

// enterClass records a class declaration and marks the tracker inside a
// class body.
func (c *scanContext) enterClass(name string) {
	c.class = name
	c.inClass = true
}

// declareFunction records a top-level function as the current callable.
// It stays current until the next declaration; function end is not tracked.
func (c *scanContext) declareFunction(name string) {
	c.function = name
}

// declareMethod records a method (already Class::name qualified) as the
// current callable.
func (c *scanContext) declareMethod(qualified string) {
	c.method = qualified
}

// caller resolves who is doing the calling, by fixed priority: enclosing
// method, else enclosing function, else enclosing class. Empty means the
// call site is unattributable (top-level statement) and no edge is emitted.
func (c *scanContext) caller() string {
	switch {
	case c.method != "":
		return c.method
	case c.function != "":
		return c.function
	default:
		return c.class
	}
}

// trackBraces applies a block-delimiter delta. When the tracker is inside a
// class and the running depth returns to zero, the class body has closed:
// enclosing class and method are cleared. Reports whether that happened.
func (c *scanContext) trackBraces(opens, closes int) bool {
	c.depth += opens - closes
	if c.inClass && c.depth <= 0 {
		c.inClass = false
		c.class = ""
		c.method = ""
		return true
	}
	return false
}
