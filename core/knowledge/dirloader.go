package knowledge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
)

// DirLoader resolves roles from JSON files laid out as <dir>/<role>.json.
type DirLoader struct {
	dir string
}

func NewDirLoader(dir string) *DirLoader {
	return &DirLoader{dir: dir}
}

// Load returns the context for role, or nil when the role has no usable
// entry. A missing file, a malformed file, and a file without scripted
// questions are all treated as "role not found" rather than a failure.
func (l *DirLoader) Load(ctx context.Context, role string) (*RoleContext, error) {
	ctx, span := tracer.Start(ctx, "load role context")
	defer span.End()
	span.SetAttributes(attribute.String("role", role))

	if role == "" {
		return nil, nil
	}

	path := filepath.Join(l.dir, role+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.WarnContext(ctx, "role file not found", "role", role, "path", path)
			return nil, nil
		}
		return nil, err
	}

	var roleContext RoleContext
	if err := json.Unmarshal(data, &roleContext); err != nil {
		logger.WarnContext(ctx, "failed to parse role file", "role", role, "path", path, "error", err)
		return nil, nil
	}

	if roleContext.Role == "" || len(roleContext.BaseQuestions) == 0 || len(roleContext.Competencies) == 0 {
		logger.WarnContext(ctx, "role file missing required fields", "role", role, "path", path)
		return nil, nil
	}

	return &roleContext, nil
}
