package viewmodel

import "github.com/samber/lo"

// DefaultExcludedServers are servers the dashboard hides unless configured otherwise.
var DefaultExcludedServers = []string{"cz1", "de3", "int3", "int4", "int5", "int6", "pl2", "pl3", "pl4"}

func FilterServers(servers []ServerInfo, exclude []string, activeOnly bool) []ServerInfo {
	return lo.Filter(servers, func(server ServerInfo, _ int) bool {
		if lo.Contains(exclude, server.Code) {
			return false
		}
		return server.Active || !activeOnly
	})
}

// FindLayout looks a layout up by its number.
func FindLayout(layouts []LayoutInfo, number int) (LayoutInfo, bool) {
	return lo.Find(layouts, func(layout LayoutInfo) bool {
		return layout.Number == number
	})
}
