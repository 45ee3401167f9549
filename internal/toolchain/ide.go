package toolchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/process"
)

// Visual Studio and its Express edition.
var ideProcessNames = []string{"devenv.exe", "wdexpress.exe"}

// VisualStudioHasProject reports whether a running Visual Studio instance was
// started on a project or solution whose path mentions projectName.
func VisualStudioHasProject(ctx context.Context, projectName string) (bool, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return false, fmt.Errorf("listing processes: %w", err)
	}
	for _, p := range procs {
		name, err := p.NameWithContext(ctx)
		if err != nil || !isIDEProcess(name) {
			continue
		}
		cmdline, err := p.CmdlineWithContext(ctx)
		if err != nil {
			continue
		}
		if cmdlineMentions(cmdline, projectName) {
			return true, nil
		}
	}
	return false, nil
}

func isIDEProcess(name string) bool {
	name = strings.ToLower(name)
	for _, n := range ideProcessNames {
		if name == n {
			return true
		}
	}
	return false
}

func cmdlineMentions(cmdline, projectName string) bool {
	if projectName == "" {
		return false
	}
	return strings.Contains(strings.ToLower(cmdline), strings.ToLower(projectName))
}
