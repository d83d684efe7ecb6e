package source

import (
	"os"
	"path/filepath"

	"github.com/theirongolddev/tokentrack/internal/model"
)

// ScanProjects walks the Claude projects directory and returns one Project
// per subdirectory that holds at least one JSONL transcript. Each project's
// path is resolved from the cwd declared in its first transcript, falling
// back to the directory name. A missing root yields an empty result.
func ScanProjects(claudeDir string) []Project {
	projectsDir := filepath.Join(claudeDir, "projects")

	entries, err := os.ReadDir(projectsDir)
	if err != nil {
		return nil
	}

	var projects []Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		files, err := filepath.Glob(filepath.Join(projectsDir, entry.Name(), "*.jsonl"))
		if err != nil || len(files) == 0 {
			continue
		}

		path := ResolveProjectPath(files[0])
		if path == "" {
			path = entry.Name()
		}
		projects = append(projects, Project{Path: path, Files: files})
	}
	return projects
}

// ScanAllTurns extracts every turn across every tracked project.
func ScanAllTurns(claudeDir string) []model.Turn {
	var turns []model.Turn
	for _, p := range ScanProjects(claudeDir) {
		for _, f := range p.Files {
			turns = append(turns, ExtractTurns(f, p.Path)...)
		}
	}
	return turns
}

// ScanSessionTurns extracts turns from a single transcript, resolving its
// project path from the file itself. The directory-name fallback mirrors
// ScanProjects so hook-triggered and full scans agree on project identity.
func ScanSessionTurns(path string) []model.Turn {
	projectPath := ResolveProjectPath(path)
	if projectPath == "" {
		projectPath = filepath.Base(filepath.Dir(path))
	}
	return ExtractTurns(path, projectPath)
}
