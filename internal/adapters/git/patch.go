package git

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
)

const devNull = "/dev/null"

// parsePatch turns a git patch into file changes.
func parsePatch(patch []byte) ([]ports.FileChange, error) {
	if len(bytes.TrimSpace(patch)) == 0 {
		return nil, nil
	}

	fileDiffs, err := diff.NewMultiFileDiffReader(bytes.NewReader(patch)).ReadAllFiles()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrDiffFailed.Error())
	}

	changes := make([]ports.FileChange, 0, len(fileDiffs))
	for _, fd := range fileDiffs {
		change := ports.FileChange{
			OldPath: diffName(fd.OrigName, "a/"),
			Path:    diffName(fd.NewName, "b/"),
		}
		// Extended headers are authoritative for renames without content changes.
		for _, h := range fd.Extended {
			switch {
			case strings.HasPrefix(h, "rename from "):
				change.OldPath = unquote(strings.TrimPrefix(h, "rename from "))
			case strings.HasPrefix(h, "rename to "):
				change.Path = unquote(strings.TrimPrefix(h, "rename to "))
			case strings.HasPrefix(h, "deleted file mode "):
				change.Path = ""
			case strings.HasPrefix(h, "new file mode "):
				change.OldPath = ""
			}
		}
		if change.Path == "" && change.OldPath == "" {
			continue
		}
		changes = append(changes, change)
	}
	return changes, nil
}

// parseNameStatus parses `git diff --name-status -z` output.
func parseNameStatus(out []byte) []ports.FileChange {
	fields := splitNUL(out)
	var changes []ports.FileChange
	for i := 0; i < len(fields); i++ {
		status := fields[i]
		if status == "" || i+1 >= len(fields) {
			continue
		}
		switch status[0] {
		case 'R', 'C':
			if i+2 >= len(fields) {
				return changes
			}
			change := ports.FileChange{OldPath: fields[i+1], Path: fields[i+2]}
			if status[0] == 'C' {
				change.OldPath = ""
			}
			changes = append(changes, change)
			i += 2
		case 'D':
			changes = append(changes, ports.FileChange{OldPath: fields[i+1]})
			i++
		case 'A':
			changes = append(changes, ports.FileChange{Path: fields[i+1]})
			i++
		default:
			changes = append(changes, ports.FileChange{OldPath: fields[i+1], Path: fields[i+1]})
			i++
		}
	}
	return changes
}

func diffName(name, prefix string) string {
	name = unquote(name)
	if name == devNull || name == "" {
		return ""
	}
	// Timestamps are tab separated in plain unified diffs.
	if i := strings.IndexByte(name, '\t'); i >= 0 {
		name = name[:i]
	}
	return strings.TrimPrefix(name, prefix)
}

func unquote(s string) string {
	if strings.HasPrefix(s, `"`) {
		if u, err := strconv.Unquote(s); err == nil {
			return u
		}
	}
	return s
}
