package changes_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/retest/internal/core/domain"
	"go.trai.ch/retest/internal/core/ports"
	"go.trai.ch/retest/internal/core/ports/mocks"
	"go.trai.ch/retest/internal/engine/changes"
	"go.uber.org/mock/gomock"
)

func newDetector(t *testing.T) (*changes.Detector, *mocks.MockVersionControl) {
	t.Helper()
	ctrl := gomock.NewController(t)
	vcs := mocks.NewMockVersionControl(ctrl)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Debug(gomock.Any()).AnyTimes()
	return changes.NewDetector(vcs, log), vcs
}

func TestDetector_Detect_CommittedOnly(t *testing.T) {
	d, vcs := newDetector(t)
	ctx := context.Background()

	vcs.EXPECT().IsRepository(ctx).Return(true, nil)
	vcs.EXPECT().ResolveRef(ctx, "main").Return("abc123", nil)
	vcs.EXPECT().Diff(ctx, "abc123", "HEAD").Return([]ports.FileChange{
		{OldPath: "src/a.ts", Path: "src/a.ts"},
		{Path: "src/new.ts"},
		{OldPath: "src/gone.ts"},
		{OldPath: "src/old-name.ts", Path: "src/new-name.ts"},
	}, nil)

	cs, err := d.Detect(ctx, "main", false)
	require.NoError(t, err)

	assert.Equal(t, "main", cs.BaseRef)
	assert.False(t, cs.IncludesWorkingTree)
	assert.Equal(t, []string{
		"src/a.ts",
		"src/gone.ts",
		"src/new-name.ts",
		"src/new.ts",
		"src/old-name.ts",
	}, cs.ChangedFiles())
	assert.Equal(t, []string{"src/gone.ts", "src/old-name.ts"}, cs.DeletedFiles())
}

func TestDetector_Detect_WithWorkingTree(t *testing.T) {
	d, vcs := newDetector(t)
	ctx := context.Background()

	vcs.EXPECT().IsRepository(ctx).Return(true, nil)
	vcs.EXPECT().ResolveRef(ctx, "HEAD").Return("abc123", nil)
	vcs.EXPECT().Diff(ctx, "abc123", "HEAD").Return(nil, nil)
	vcs.EXPECT().IsWorkingTreeDirty(ctx).Return(true, nil)
	vcs.EXPECT().WorkingTreeDiff(ctx).Return([]ports.FileChange{
		{OldPath: "src/a.ts", Path: "src/a.ts"},
	}, nil)
	vcs.EXPECT().UntrackedFiles(ctx).Return([]string{"src/b.test.ts", "src/a.ts"}, nil)

	cs, err := d.Detect(ctx, "HEAD", true)
	require.NoError(t, err)

	assert.True(t, cs.IncludesWorkingTree)
	assert.Equal(t, []string{"src/a.ts", "src/b.test.ts"}, cs.ChangedFiles())
	assert.Empty(t, cs.DeletedFiles())
}

func TestDetector_Detect_NoChanges(t *testing.T) {
	d, vcs := newDetector(t)
	ctx := context.Background()

	vcs.EXPECT().IsRepository(ctx).Return(true, nil)
	vcs.EXPECT().ResolveRef(ctx, "HEAD").Return("abc123", nil)
	vcs.EXPECT().Diff(ctx, "abc123", "HEAD").Return(nil, nil)
	vcs.EXPECT().IsWorkingTreeDirty(ctx).Return(false, nil)
	vcs.EXPECT().WorkingTreeDiff(gomock.Any()).Times(0)
	vcs.EXPECT().UntrackedFiles(gomock.Any()).Times(0)

	cs, err := d.Detect(ctx, "HEAD", true)
	require.NoError(t, err)
	assert.True(t, cs.IsEmpty())
}

func TestDetector_Detect_SkipsWorkingTreeWhenDisabled(t *testing.T) {
	d, vcs := newDetector(t)
	ctx := context.Background()

	vcs.EXPECT().IsRepository(ctx).Return(true, nil)
	vcs.EXPECT().ResolveRef(ctx, "HEAD").Return("abc123", nil)
	vcs.EXPECT().Diff(ctx, "abc123", "HEAD").Return(nil, nil)
	vcs.EXPECT().IsWorkingTreeDirty(gomock.Any()).Times(0)
	vcs.EXPECT().WorkingTreeDiff(gomock.Any()).Times(0)
	vcs.EXPECT().UntrackedFiles(gomock.Any()).Times(0)

	cs, err := d.Detect(ctx, "HEAD", false)
	require.NoError(t, err)
	assert.True(t, cs.IsEmpty())
}

func TestDetector_Detect_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("not a repository", func(t *testing.T) {
		d, vcs := newDetector(t)
		vcs.EXPECT().IsRepository(ctx).Return(false, nil)

		_, err := d.Detect(ctx, "HEAD", true)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.ErrorIs(t, err, domain.ErrNotARepository)
	})

	t.Run("git unavailable", func(t *testing.T) {
		d, vcs := newDetector(t)
		vcs.EXPECT().IsRepository(ctx).Return(false, domain.ErrGitUnavailable)

		_, err := d.Detect(ctx, "HEAD", true)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.ErrorIs(t, err, domain.ErrGitUnavailable)
	})

	t.Run("unresolvable ref", func(t *testing.T) {
		d, vcs := newDetector(t)
		vcs.EXPECT().IsRepository(ctx).Return(true, nil)
		vcs.EXPECT().ResolveRef(ctx, "nope").Return("", errors.New("unknown revision"))

		_, err := d.Detect(ctx, "nope", true)
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrConfiguration)
		assert.Contains(t, err.Error(), domain.ErrRefNotFound.Error())
	})

	t.Run("diff failure", func(t *testing.T) {
		d, vcs := newDetector(t)
		vcs.EXPECT().IsRepository(ctx).Return(true, nil)
		vcs.EXPECT().ResolveRef(ctx, "HEAD").Return("abc123", nil)
		vcs.EXPECT().Diff(ctx, "abc123", "HEAD").Return(nil, domain.ErrDiffFailed)

		_, err := d.Detect(ctx, "HEAD", true)
		require.ErrorIs(t, err, domain.ErrDiffFailed)
	})

	t.Run("status failure", func(t *testing.T) {
		d, vcs := newDetector(t)
		vcs.EXPECT().IsRepository(ctx).Return(true, nil)
		vcs.EXPECT().ResolveRef(ctx, "HEAD").Return("abc123", nil)
		vcs.EXPECT().Diff(ctx, "abc123", "HEAD").Return(nil, nil)
		vcs.EXPECT().IsWorkingTreeDirty(ctx).Return(false, domain.ErrDiffFailed)

		_, err := d.Detect(ctx, "HEAD", true)
		require.ErrorIs(t, err, domain.ErrDiffFailed)
	})
}
