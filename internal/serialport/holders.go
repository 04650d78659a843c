package serialport

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/shirou/gopsutil/v3/process"
)

// Holder is a process that has a device file open.
type Holder struct {
	PID  int32
	Name string
}

func (h Holder) String() string {
	if h.Name == "" {
		return fmt.Sprintf("pid %d", h.PID)
	}
	return fmt.Sprintf("%s[%d]", h.Name, h.PID)
}

// Holders lists the processes that currently have device open. Processes
// whose open files cannot be inspected (usually other users') are skipped.
func Holders(ctx context.Context, device string) ([]Holder, error) {
	target := resolve(device)

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	var holders []Holder
	for _, p := range procs {
		if ctx.Err() != nil {
			return holders, ctx.Err()
		}
		files, err := p.OpenFilesWithContext(ctx)
		if err != nil {
			continue
		}
		for _, f := range files {
			if resolve(f.Path) != target {
				continue
			}
			name, _ := p.NameWithContext(ctx)
			holders = append(holders, Holder{PID: p.Pid, Name: name})
			break
		}
	}
	return holders, nil
}

// resolve follows symlinks such as /dev/serial/by-id/* to the device node.
func resolve(path string) string {
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return filepath.Clean(path)
}
