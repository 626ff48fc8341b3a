package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/retest/internal/core/ports"
)

const samplePatch = `diff --git a/src/a.ts b/src/a.ts
index 3b18e51..a042389 100644
--- a/src/a.ts
+++ b/src/a.ts
@@ -1 +1 @@
-export const a = 1;
+export const a = 2;
diff --git a/src/new.ts b/src/new.ts
new file mode 100644
index 0000000..e69de29
--- /dev/null
+++ b/src/new.ts
@@ -0,0 +1 @@
+export const n = 1;
diff --git a/src/gone.ts b/src/gone.ts
deleted file mode 100644
index e69de29..0000000
--- a/src/gone.ts
+++ /dev/null
@@ -1 +0,0 @@
-export const g = 1;
diff --git a/src/old.ts b/src/moved.ts
similarity index 100%
rename from src/old.ts
rename to src/moved.ts
`

func TestParsePatch(t *testing.T) {
	changes, err := parsePatch([]byte(samplePatch))
	require.NoError(t, err)

	assert.Equal(t, []ports.FileChange{
		{OldPath: "src/a.ts", Path: "src/a.ts"},
		{Path: "src/new.ts"},
		{OldPath: "src/gone.ts"},
		{OldPath: "src/old.ts", Path: "src/moved.ts"},
	}, changes)
}

func TestParsePatch_Empty(t *testing.T) {
	changes, err := parsePatch([]byte("\n"))
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestParseNameStatus(t *testing.T) {
	out := []byte("M\x00src/a.ts\x00A\x00src/new.ts\x00D\x00src/gone.ts\x00R097\x00src/old.ts\x00src/moved.ts\x00C100\x00src/x.ts\x00src/copy.ts\x00")

	assert.Equal(t, []ports.FileChange{
		{OldPath: "src/a.ts", Path: "src/a.ts"},
		{Path: "src/new.ts"},
		{OldPath: "src/gone.ts"},
		{OldPath: "src/old.ts", Path: "src/moved.ts"},
		{Path: "src/copy.ts"},
	}, parseNameStatus(out))
}

func TestDiffName(t *testing.T) {
	assert.Empty(t, diffName("/dev/null", "a/"))
	assert.Equal(t, "src/a b.ts", diffName(`"b/src/a b.ts"`, "b/"))
	assert.Equal(t, "src/a.ts", diffName("a/src/a.ts\t2009-10-11 15:12:20", "a/"))
}
