package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/pdf-archiver/internal/config"
	"github.com/pkordes/pdf-archiver/internal/domain"
	"github.com/pkordes/pdf-archiver/testutil"
)

// run executes the CLI with args and returns what it wrote to stdout.
// Configuration comes only from args; the environment is cleared.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, k := range []string{
		config.KeyArchiveRoot, config.KeyTagDB, config.KeyLogLevel,
		config.KeyConfigFile, config.KeyArchiveJobs,
	} {
		t.Setenv(k, "")
	}

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

// --- parse ---

func TestParse_PrintsOneJSONObjectPerFile(t *testing.T) {
	out, err := run(t, "parse", "2024-03-01--Electric-Bill__utilities_home.pdf", "scan.pdf")
	require.NoError(t, err)

	dec := json.NewDecoder(bytes.NewBufferString(out))

	var first parsedOutput
	require.NoError(t, dec.Decode(&first))
	assert.Equal(t, "2024-03-01", first.Date)
	assert.True(t, first.DateFromName)
	assert.Equal(t, "electric-bill", first.Description)
	assert.Equal(t, []string{"utilities", "home"}, first.Tags)

	var second parsedOutput
	require.NoError(t, dec.Decode(&second))
	assert.False(t, second.DateFromName)
	assert.Equal(t, "scan", second.Description)
	assert.Equal(t, []string{}, second.Tags)
}

func TestParse_RequiresArgument(t *testing.T) {
	_, err := run(t, "parse")
	assert.Error(t, err)
}

// --- plan ---

func TestPlan_PrintsDestination(t *testing.T) {
	root := t.TempDir()

	out, err := run(t, "plan", "--archive-root", root, "2024-03-01--bill__utilities.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "2024", "2024-03-01--bill__utilities.pdf")+"\n", out)
}

func TestPlan_FlagsOverrideParsedFields(t *testing.T) {
	root := t.TempDir()

	out, err := run(t, "plan", "--archive-root", root,
		"--description", "Water Bill", "--tag", "Home", "--tag", "utilities", "--date", "2023-12-31",
		"2024-03-01--bill__misc.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "2023", "2023-12-31--water-bill__home_utilities.pdf")+"\n", out)
}

func TestPlan_MissingTags(t *testing.T) {
	_, err := run(t, "plan", "--archive-root", t.TempDir(), "2024-03-01--bill.pdf")
	assert.ErrorIs(t, err, domain.ErrMissingTags)
}

func TestPlan_NoArchiveRoot(t *testing.T) {
	_, err := run(t, "plan", "2024-03-01--bill__utilities.pdf")
	assert.ErrorIs(t, err, domain.ErrNoArchiveRoot)
}

func TestPlan_InvalidDate(t *testing.T) {
	_, err := run(t, "plan", "--archive-root", t.TempDir(), "--date", "03/01/2024", "bill__x.pdf")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

// --- archive ---

func TestArchive_MovesFilesAndCountsTags(t *testing.T) {
	root, inbox := t.TempDir(), t.TempDir()
	src := testutil.WritePDF(t, inbox, "2024-03-01--bill__utilities.pdf")
	testutil.WritePDF(t, inbox, "2024-04-01--bill__utilities_home.pdf")

	out, err := run(t, "archive", "--archive-root", root, inbox)
	require.NoError(t, err)

	dest := filepath.Join(root, "2024", "2024-03-01--bill__utilities.pdf")
	assert.Contains(t, out, src+" -> "+dest)
	assert.FileExists(t, dest)
	assert.FileExists(t, filepath.Join(root, "2024", "2024-04-01--bill__home_utilities.pdf"))
	assert.NoFileExists(t, src)

	out, err = run(t, "tags", "--archive-root", root)
	require.NoError(t, err)
	assert.Equal(t, "home\t1\nutilities\t2\n", out)
}

func TestArchive_DryRunTouchesNothing(t *testing.T) {
	root, inbox := t.TempDir(), t.TempDir()
	src := testutil.WritePDF(t, inbox, "2024-03-01--bill__utilities.pdf")

	out, err := run(t, "archive", "--archive-root", root, "--dry-run", src)
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(root, "2024", "2024-03-01--bill__utilities.pdf"))
	assert.FileExists(t, src)
	assert.NoDirExists(t, filepath.Join(root, "2024"))
	assert.NoFileExists(t, filepath.Join(root, ".archiver.db"))
}

func TestArchive_FailureKeepsSourceAndArchivesTheRest(t *testing.T) {
	root, inbox := t.TempDir(), t.TempDir()
	good := testutil.WritePDF(t, inbox, "2024-03-01--bill__utilities.pdf")
	bad := testutil.WritePDF(t, inbox, "untagged.pdf")

	out, err := run(t, "archive", "--archive-root", root, good, bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 documents failed")
	assert.Contains(t, out, "failed "+bad)
	assert.FileExists(t, bad)
	assert.NoFileExists(t, good)
}

func TestArchive_ExistingDestinationNotOverwritten(t *testing.T) {
	root, inbox := t.TempDir(), t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "2024"), 0o755))
	existing := testutil.WritePDF(t, filepath.Join(root, "2024"), "2024-03-01--bill__utilities.pdf")
	src := testutil.WritePDF(t, inbox, "2024-03-01--bill__utilities.pdf")

	_, err := run(t, "archive", "--archive-root", root, src)
	require.Error(t, err)
	assert.FileExists(t, src)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7\n", string(data))
}

func TestArchive_RejectsNonPDF(t *testing.T) {
	inbox := t.TempDir()
	path := filepath.Join(inbox, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := run(t, "archive", "--archive-root", t.TempDir(), path)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestArchive_NoArchiveRoot(t *testing.T) {
	src := testutil.WritePDF(t, t.TempDir(), "2024-03-01--bill__utilities.pdf")

	_, err := run(t, "archive", src)
	assert.ErrorIs(t, err, domain.ErrNoArchiveRoot)
	assert.FileExists(t, src)
}

// --- tags ---

func TestTags_PrefixFilter(t *testing.T) {
	root, inbox := t.TempDir(), t.TempDir()
	testutil.WritePDF(t, inbox, "2024-03-01--bill__utilities_home.pdf")
	_, err := run(t, "archive", "--archive-root", root, inbox)
	require.NoError(t, err)

	out, err := run(t, "tags", "--archive-root", root, "Ut")
	require.NoError(t, err)
	assert.Equal(t, "utilities\t1\n", out)
}

func TestTags_ExportThenImport(t *testing.T) {
	root, inbox := t.TempDir(), t.TempDir()
	testutil.WritePDF(t, inbox, "2024-03-01--bill__utilities_home.pdf")
	_, err := run(t, "archive", "--archive-root", root, inbox)
	require.NoError(t, err)

	file := filepath.Join(t.TempDir(), "tags.yaml")
	_, err = run(t, "tags", "export", "--archive-root", root, file)
	require.NoError(t, err)

	db := filepath.Join(t.TempDir(), "other.db")
	out, err := run(t, "tags", "import", "--db", db, file)
	require.NoError(t, err)
	assert.Equal(t, "imported 2 of 2 tags\n", out)

	out, err = run(t, "tags", "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "home\t1\nutilities\t1\n", out)

	out, err = run(t, "tags", "import", "--db", db, file)
	require.NoError(t, err)
	assert.Equal(t, "imported 0 of 2 tags\n", out)
}

func TestTags_ExportToStdout(t *testing.T) {
	root, inbox := t.TempDir(), t.TempDir()
	testutil.WritePDF(t, inbox, "2024-03-01--bill__utilities.pdf")
	_, err := run(t, "archive", "--archive-root", root, inbox)
	require.NoError(t, err)

	out, err := run(t, "tags", "export", "--archive-root", root)
	require.NoError(t, err)
	assert.Contains(t, out, "name: utilities")
	assert.Contains(t, out, "count: 1")
}

func TestTags_ReindexRebuildsFromArchive(t *testing.T) {
	root, inbox := t.TempDir(), t.TempDir()
	testutil.WritePDF(t, inbox, "2024-03-01--bill__utilities.pdf")
	testutil.WritePDF(t, inbox, "2024-04-01--rent__home.pdf")
	_, err := run(t, "archive", "--archive-root", root, inbox)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(root, "2024", "2024-04-01--rent__home.pdf")))

	out, err := run(t, "tags", "reindex", "--archive-root", root)
	require.NoError(t, err)
	assert.Equal(t, "utilities\t1\n", out)
}

func TestTags_NoDatabase(t *testing.T) {
	_, err := run(t, "tags")
	assert.ErrorContains(t, err, "no tag database")
}
