package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/quadtile/internal/runtimepath"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}

	return &resp, nil
}

// Reload sends a RELOAD command to the daemon
func (c *Client) Reload() error {
	req := &Request{
		Command: CommandReload,
	}

	_, err := c.sendRequest(req)
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	req := &Request{
		Command: CommandGetStatus,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return nil, err
	}

	var status StatusData
	if err := json.Unmarshal(resp.Data, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status data: %w", err)
	}

	return &status, nil
}

// Launch asks the daemon to start a configured tool. quadrant may be empty
// to use the tool's configured quadrant or the rotation.
func (c *Client) Launch(tool, quadrant string) (int, error) {
	payload, err := json.Marshal(LaunchPayload{
		Tool:     tool,
		Quadrant: quadrant,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to marshal launch payload: %w", err)
	}

	req := &Request{
		Command: CommandLaunch,
		Payload: payload,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return 0, err
	}

	var data LaunchData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return 0, fmt.Errorf("failed to parse launch data: %w", err)
	}
	return data.PID, nil
}

// PlaceLast re-places the most recently placed window into a quadrant.
func (c *Client) PlaceLast(quadrant string) (bool, error) {
	payload, err := json.Marshal(PlaceLastPayload{Quadrant: quadrant})
	if err != nil {
		return false, fmt.Errorf("failed to marshal place-last payload: %w", err)
	}

	req := &Request{
		Command: CommandPlaceLast,
		Payload: payload,
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return false, err
	}

	var data PlaceLastData
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		return false, fmt.Errorf("failed to parse place-last data: %w", err)
	}
	return data.Moved, nil
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
