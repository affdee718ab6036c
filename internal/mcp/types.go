package mcp

// LaunchToolInput is the input for the launch_tool tool.
type LaunchToolInput struct {
	Tool     string `json:"tool" jsonschema:"required,The tool name from quadtile's tools config"`
	Quadrant string `json:"quadrant,omitempty" jsonschema:"Target quadrant: tl, tr, bl, br or full. Omit to use the tool's configured quadrant or the rotating schedule."`
}

// LaunchToolOutput is the output for the launch_tool tool.
type LaunchToolOutput struct {
	PID int `json:"pid"`
}

// PlaceWindowInput is the input for the place_window tool.
type PlaceWindowInput struct {
	Quadrant string `json:"quadrant" jsonschema:"required,Target quadrant: tl, tr, bl, br or full"`
}

// PlaceWindowOutput is the output for the place_window tool.
type PlaceWindowOutput struct {
	Moved bool `json:"moved"`
}

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	DaemonRunning     bool     `json:"daemon_running"`
	UptimeSeconds     int64    `json:"uptime_seconds"`
	LastWindowID      uint32   `json:"last_window_id,omitempty"`
	LastWindowPID     int      `json:"last_window_pid,omitempty"`
	MonitoredChildren int      `json:"monitored_children"`
	Tools             []string `json:"tools"`
}
