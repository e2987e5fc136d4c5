package explore

// MouseEvents turns one frame's worth of polled left-button state into
// events. A press and a release can both land in the same frame; they are
// reported in the order that makes sense for the current drag, so a quick
// click is not left half finished. Move is only reported when the cursor
// changed position and no button edge carried the new position already.
func MouseEvents(pressed, released, dragging bool, x, y, lastX, lastY int) []Event {
	var evs []Event
	press := Event{Kind: Press, X: x, Y: y}
	release := Event{Kind: Release, X: x, Y: y}
	switch {
	case pressed && released && dragging:
		evs = append(evs, release, press)
	case pressed && released:
		evs = append(evs, press, release)
	case pressed:
		evs = append(evs, press)
	case released:
		evs = append(evs, release)
	case x != lastX || y != lastY:
		evs = append(evs, Event{Kind: Move, X: x, Y: y})
	}
	return evs
}
