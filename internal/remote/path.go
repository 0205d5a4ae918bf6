package remote

import "strings"

// FullPath composes the remote project path: home joined with project,
// unless project is already absolute. Pure and deterministic; every stage
// that needs the path (readiness check, clone target, launch target) must
// go through this one composition.
func FullPath(home, project string) string {
	if home == "" || strings.HasPrefix(project, "/") {
		return project
	}
	return strings.TrimRight(home, "/") + "/" + project
}
