// Package changes resolves the set of files changed since a base ref.
package changes

import (
	"context"
	"errors"
	"fmt"

	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/zerr"
)

// Detector computes change sets from version control.
type Detector struct {
	vcs    ports.VersionControl
	logger ports.Logger
}

// NewDetector creates a new Detector.
func NewDetector(vcs ports.VersionControl, logger ports.Logger) *Detector {
	return &Detector{vcs: vcs, logger: logger}
}

// Detect returns the files changed between baseRef and HEAD. When includeWorkingTree is
// set, staged, unstaged and untracked files are unioned in.
//
// An unresolvable ref or a missing repository fails with domain.ErrConfiguration.
// Zero changes is not an error.
func (d *Detector) Detect(ctx context.Context, baseRef string, includeWorkingTree bool) (domain.ChangeSet, error) {
	ok, err := d.vcs.IsRepository(ctx)
	if err != nil {
		return domain.ChangeSet{}, errors.Join(domain.ErrConfiguration, err)
	}
	if !ok {
		return domain.ChangeSet{}, errors.Join(domain.ErrConfiguration, domain.ErrNotARepository)
	}

	base, err := d.vcs.ResolveRef(ctx, baseRef)
	if err != nil {
		return domain.ChangeSet{}, errors.Join(
			domain.ErrConfiguration,
			zerr.With(zerr.Wrap(err, domain.ErrRefNotFound.Error()), "ref", baseRef),
		)
	}

	var changed, deleted []string

	committed, err := d.vcs.Diff(ctx, base, "HEAD")
	if err != nil {
		return domain.ChangeSet{}, err
	}
	changed, deleted = collect(committed, changed, deleted)

	dirty := false
	if includeWorkingTree {
		if dirty, err = d.vcs.IsWorkingTreeDirty(ctx); err != nil {
			return domain.ChangeSet{}, err
		}
	}

	if dirty {
		wt, err := d.vcs.WorkingTreeDiff(ctx)
		if err != nil {
			return domain.ChangeSet{}, err
		}
		changed, deleted = collect(wt, changed, deleted)

		untracked, err := d.vcs.UntrackedFiles(ctx)
		if err != nil {
			return domain.ChangeSet{}, err
		}
		changed = append(changed, untracked...)
	}

	cs := domain.NewChangeSet(baseRef, includeWorkingTree, changed, deleted)
	d.logger.Debug(fmt.Sprintf("detected %d changed files against %s", cs.Len(), baseRef))
	return cs, nil
}

// collect splits file changes into changed and deleted paths. The old side of a rename
// counts as deleted so entries that depended on it can be invalidated.
func collect(changes []ports.FileChange, changed, deleted []string) ([]string, []string) {
	for _, c := range changes {
		if c.Path != "" {
			changed = append(changed, c.Path)
		}
		if c.OldPath != "" && c.OldPath != c.Path {
			deleted = append(deleted, c.OldPath)
		}
	}
	return changed, deleted
}
