package viewer

// arrange groups controls into rows. With an ordering, each row becomes a
// horizontal group of the named widgets; declared widgets omitted from the
// ordering are appended one per row, preserving declaration order. Without
// an ordering, every widget gets its own row. A row referencing an unknown
// name is a ConfigurationError.
//
// hidden names are legal layout references that render nothing (the
// user-set selector when the slot is pinned by configuration).
func arrange(ordering [][]string, declared []string, controls map[string]Control, hidden map[string]bool) ([][]Control, error) {
	rows := make([][]Control, 0, len(declared))
	placed := make(map[string]bool, len(declared))

	for _, row := range ordering {
		group := make([]Control, 0, len(row))
		for _, name := range row {
			ctl, ok := controls[name]
			if !ok {
				if hidden[name] {
					placed[name] = true
					continue
				}
				return nil, configErrf("layout references unknown widget %q", name)
			}
			group = append(group, ctl)
			placed[name] = true
		}
		if len(group) > 0 {
			rows = append(rows, group)
		}
	}

	for _, name := range declared {
		if placed[name] {
			continue
		}
		if ctl, ok := controls[name]; ok {
			rows = append(rows, []Control{ctl})
		}
	}

	return rows, nil
}
