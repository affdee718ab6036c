//go:build linux

package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ProcessImageBase resolves the lowercase basename of the executable
// backing pid. The /proc/<pid>/exe link is unreadable for processes owned
// by another user (the elevation boundary); /proc/<pid>/comm still works
// there and is used as a fallback.
func (b *LinuxBackend) ProcessImageBase(pid int) string {
	if pid <= 0 {
		return ""
	}
	if target, err := os.Readlink(fmt.Sprintf("/proc/%d/exe", pid)); err == nil {
		// A deleted binary leaves a " (deleted)" suffix on the link target.
		target = strings.TrimSuffix(target, " (deleted)")
		return strings.ToLower(filepath.Base(target))
	}
	if comm, err := os.ReadFile(fmt.Sprintf("/proc/%d/comm", pid)); err == nil {
		return strings.ToLower(strings.TrimSpace(string(comm)))
	}
	return ""
}

// ProcessSessionID maps pid to its session ID via /proc/<pid>/stat
// (field 6). Returns -1 when the process is gone or the file is malformed.
func (b *LinuxBackend) ProcessSessionID(pid int) int {
	if pid <= 0 {
		return -1
	}
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return -1
	}
	// The comm field is wrapped in parentheses and may itself contain
	// spaces or parentheses; everything after the last ')' is fixed-order.
	s := string(data)
	idx := strings.LastIndexByte(s, ')')
	if idx < 0 || idx+2 >= len(s) {
		return -1
	}
	fields := strings.Fields(s[idx+2:])
	// After comm: state ppid pgrp session ...
	if len(fields) < 4 {
		return -1
	}
	session, err := strconv.Atoi(fields[3])
	if err != nil {
		return -1
	}
	return session
}
