package router

// ResolveRedirectChains rewrites every redirect whose target is itself a
// redirect in the table so that it points at the end of the chain.
//
// A chain that revisits a path fails with ErrRedirectCycle naming the path
// where the cycle closes. Targets outside the table end a chain.
func ResolveRedirectChains(table Table) (Table, error) {
	redirects := make(map[string]string)
	for _, e := range table.Entries {
		if e.Source == SourceRedirect {
			redirects[e.Path] = e.Endpoint.Target()
		}
	}

	out := Table{Entries: make([]Entry, len(table.Entries))}
	copy(out.Entries, table.Entries)

	for i, e := range out.Entries {
		if e.Source != SourceRedirect {
			continue
		}

		visited := map[string]bool{e.Path: true}
		target := e.Endpoint.Target()

		for {
			next, ok := redirects[target]
			if !ok {
				break
			}
			if visited[target] {
				return Table{}, newError(ErrRedirectCycle, target, e.Site)
			}
			visited[target] = true
			target = next
		}

		if target != e.Endpoint.Target() {
			out.Entries[i].Endpoint = Redirect(target)
		}
	}

	return out, nil
}
