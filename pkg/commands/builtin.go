package commands

// Builtin returns every session-scoped command, grouped by concern.
func Builtin() []Descriptor {
	var all []Descriptor
	for _, group := range [][]Descriptor{
		navigationCommands(),
		elementCommands(),
		actionCommands(),
		windowCommands(),
		waitCommands(),
		scriptCommands(),
		sessionCommands(),
	} {
		for _, d := range group {
			d.NeedsSession = true
			all = append(all, d)
		}
	}
	return all
}
