package domain

// Tab is one screen of the bottom tab bar exposed to the app shell.
type Tab struct {
	Name  string `json:"name" yaml:"name"`
	Icon  string `json:"icon" yaml:"icon"`
	Title string `json:"title" yaml:"title"`
}

// Route names of the tab screens.
const (
	RouteHome    = "home"
	RoutePlan    = "planScreen"
	RouteCharts  = "chartScreen"
	RouteProfile = "profileScreen"
)

// DefaultTabs returns the tab bar configuration in display order.
func DefaultTabs() []Tab {
	return []Tab{
		{Name: RouteHome, Icon: "home", Title: "Home"},
		{Name: RoutePlan, Icon: "barbell", Title: "Plan"},
		{Name: RouteCharts, Icon: "stats-chart", Title: "Charts"},
		{Name: RouteProfile, Icon: "person", Title: "Profile"},
	}
}

// FindTab returns the tab with the given route name.
func FindTab(tabs []Tab, name string) (Tab, bool) {
	for _, t := range tabs {
		if t.Name == name {
			return t, true
		}
	}
	return Tab{}, false
}
