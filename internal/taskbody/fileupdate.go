package taskbody

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"fleetcron.dev/fleetcron/internal/model"
)

// FileUpdate downloads Spec.Source over HTTP and writes the response body to
// Spec.Destination, overwriting. Destination may begin with "~" for
// home-directory expansion.
type FileUpdate struct {
	Spec model.FileSpec
}

func (f *FileUpdate) Run(ctx context.Context) (model.TaskResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Spec.Source, nil)
	if err != nil {
		return model.TaskResult{}, model.WrapNetError(err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return model.TaskResult{}, model.WrapNetError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return model.TaskResult{}, model.WrapNetError(
			&httpStatusError{status: resp.StatusCode, url: f.Spec.Source})
	}

	dest := expandTilde(f.Spec.Destination)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return model.TaskResult{}, model.WrapIoError(err)
	}

	out, err := os.Create(dest)
	if err != nil {
		return model.TaskResult{}, model.WrapIoError(err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return model.TaskResult{}, model.WrapIoError(err)
	}

	return statusOK(), nil
}

func expandTilde(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

type httpStatusError struct {
	status int
	url    string
}

func (e *httpStatusError) Error() string {
	return "http status " + http.StatusText(e.status) + " fetching " + e.url
}
