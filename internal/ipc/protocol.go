package ipc

import (
	"encoding/json"
	"fmt"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload    CommandType = "RELOAD"
	CommandGetStatus CommandType = "GET_STATUS"
	CommandLaunch    CommandType = "LAUNCH"
	CommandPlaceLast CommandType = "PLACE_LAST"
)

// Request represents an IPC request from client to server
type Request struct {
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	DaemonRunning     bool     `json:"daemon_running"`
	UptimeSeconds     int64    `json:"uptime_seconds"`
	LastWindowID      uint32   `json:"last_window_id,omitempty"`
	LastWindowPID     int      `json:"last_window_pid,omitempty"`
	MonitoredChildren int      `json:"monitored_children"`
	Tools             []string `json:"tools"`
}

// LaunchPayload represents the payload for the LAUNCH command
type LaunchPayload struct {
	Tool     string `json:"tool"`
	Quadrant string `json:"quadrant,omitempty"`
}

// LaunchData represents the data returned by LAUNCH
type LaunchData struct {
	PID int `json:"pid"`
}

// PlaceLastPayload represents the payload for the PLACE_LAST command
type PlaceLastPayload struct {
	Quadrant string `json:"quadrant"`
}

// PlaceLastData represents the data returned by PLACE_LAST
type PlaceLastData struct {
	Moved bool `json:"moved"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data interface{}) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: "OK",
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: "ERROR",
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}
