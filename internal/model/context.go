package model

// ScreenContext is one perceive cycle's snapshot of the screen. Element
// numbers are assigned fresh on every cycle and are only meaningful against
// this snapshot; a later perceive supersedes it rather than updating it.
type ScreenContext struct {
	Elements      map[int]Element // numbered interactive elements
	Screenshot    []byte          // optional PNG payload
	AppName       string
	WindowTitle   string
	FocusedNumber int // 0 = no focused element in the mapping
}

// Element returns the element with the given number, if present in this snapshot.
func (c *ScreenContext) Element(number int) (Element, bool) {
	el, ok := c.Elements[number]
	return el, ok
}
