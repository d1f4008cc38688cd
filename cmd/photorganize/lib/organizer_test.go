package photorganize

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/photorganize/pkg"
	"github.com/user/photorganize/pkg/phototest"
)

// --- Test Helper Functions ---

func testConfig(t *testing.T, root string) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Root = root
	cfg.Interactive = false
	cfg, err := cfg.Validate(afero.NewOsFs())
	require.NoError(t, err)
	return cfg
}

func writeExifPhoto(t *testing.T, dir, name string, taken time.Time, seed byte) string {
	t.Helper()
	data, err := phototest.ExifJPEG(phototest.ExifTime(taken), seed)
	require.NoError(t, err)
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0644))
	return p
}

func writePlainPhoto(t *testing.T, dir, name string, modTime time.Time, seed byte) string {
	t.Helper()
	data, err := phototest.PlainJPEG(seed)
	require.NoError(t, err)
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0644))
	require.NoError(t, os.Chtimes(p, modTime, modTime))
	return p
}

func copyPhoto(t *testing.T, src, dst string) {
	t.Helper()
	data, err := os.ReadFile(src)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(dst, data, 0644))
}

// snapshot maps every file under root (relative path) to its content digest.
func snapshot(t *testing.T, root string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		sum := sha256.Sum256(data)
		out[rel] = hex.EncodeToString(sum[:])
		return nil
	})
	require.NoError(t, err)
	return out
}

func runOrganizer(t *testing.T, cfg Config, opts ...Option) pkg.Summary {
	t.Helper()
	org, err := NewOrganizer(afero.NewOsFs(), cfg, opts...)
	require.NoError(t, err)
	summary, err := org.Run(context.Background())
	require.NoError(t, err)
	return summary
}

// cameraNames are the camera file names of the end-to-end fixture. The name
// encodes the capture time, which is also written into EXIF.
func cameraNames() []string {
	var names []string
	for d := 16; d <= 28; d++ {
		names = append(names, fmt.Sprintf("P_202202%02d_235612.jpg", d))
	}
	for d := 1; d <= 7; d++ {
		names = append(names, fmt.Sprintf("P_202203%02d_101500.jpg", d))
	}
	names = append(names,
		"P_20220401_090000.jpg", "P_20220401_120000.jpg",
		"P_20220402_090000.jpg", "P_20220402_120000.jpg",
		"P_20220403_090000.jpg", "P_20220404_090000.jpg",
		"P_20220405_090000.jpg", "P_20220406_090000.jpg",
		"P_20220407_090000.jpg", "P_20220408_120000.jpg",
		"P_20220408_185336.jpg",
	)
	return names
}

func takenFromCameraName(t *testing.T, name string) time.Time {
	t.Helper()
	ts, err := time.Parse("P_20060102_150405.jpg", name)
	require.NoError(t, err)
	return ts
}

// --- Tests ---

func TestOrganizeEndToEnd(t *testing.T) {
	root := t.TempDir()
	names := cameraNames()
	require.Len(t, names, 31)
	require.Equal(t, "P_20220216_235612.jpg", names[0])
	require.Equal(t, "P_20220408_185336.jpg", names[30])

	for i, name := range names {
		writeExifPhoto(t, root, name, takenFromCameraName(t, name), byte(i*7))
	}

	summary := runOrganizer(t, testConfig(t, root))
	assert.Equal(t, 31, summary.Scanned)
	assert.Equal(t, 31, summary.Organized)
	assert.Equal(t, 0, summary.Duplicates)
	assert.Equal(t, 0, summary.Skipped)

	perMonth := map[string]int{}
	for rel := range snapshot(t, root) {
		dir, file := filepath.Split(rel)
		dir = filepath.Clean(dir)
		require.True(t, pkg.IsMonthDirName(dir), "file left outside a month folder: %s", rel)
		assert.True(t, strings.HasSuffix(file, " 001.jpg"), file)
		perMonth[dir]++
	}
	assert.Equal(t, map[string]int{"2022-02": 13, "2022-03": 7, "2022-04": 11}, perMonth)

	assert.FileExists(t, filepath.Join(root, "2022-02", "2022-02-16 23:56:12 001.jpg"))
	assert.FileExists(t, filepath.Join(root, "2022-04", "2022-04-08 18:53:36 001.jpg"))
	for _, m := range summary.Moves {
		assert.Equal(t, pkg.SourceExif, m.Source)
	}
}

func TestOrganizeIsIdempotent(t *testing.T) {
	root := t.TempDir()
	for i, name := range cameraNames()[:5] {
		writeExifPhoto(t, root, name, takenFromCameraName(t, name), byte(i))
	}
	writePlainPhoto(t, root, "nodate.jpg", time.Date(2021, 3, 3, 3, 3, 3, 0, time.Local), 99)

	cfg := testConfig(t, root)
	first := runOrganizer(t, cfg)
	assert.Equal(t, 6, first.Organized)
	after := snapshot(t, root)

	second := runOrganizer(t, cfg)
	assert.Equal(t, 0, second.Scanned)
	assert.Equal(t, 0, second.Organized)
	assert.Equal(t, 0, second.Duplicates)
	assert.Equal(t, 6, second.Existing)
	assert.Equal(t, after, snapshot(t, root), "second run changes nothing")
}

func TestDuplicatesLeftInPlace(t *testing.T) {
	root := t.TempDir()
	taken := time.Date(2022, 2, 16, 23, 56, 12, 0, time.UTC)
	a := writeExifPhoto(t, root, "a.jpg", taken, 1)
	b := filepath.Join(root, "b.jpg")
	copyPhoto(t, a, b)

	summary := runOrganizer(t, testConfig(t, root))
	assert.Equal(t, 1, summary.Organized)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 0, summary.Deleted)

	canonical := filepath.Join(root, "2022-02", "2022-02-16 23:56:12 001.jpg")
	assert.FileExists(t, canonical)
	assert.NoFileExists(t, a)
	assert.FileExists(t, b, "duplicate stays where it was, under its own name")

	require.Len(t, summary.DuplicateEntries, 1)
	assert.Equal(t, canonical, summary.DuplicateEntries[0].KeptFile)
	assert.Equal(t, b, summary.DuplicateEntries[0].DiscardedFile)

	// Re-running reports the same duplicate against the organized copy.
	again := runOrganizer(t, testConfig(t, root))
	assert.Equal(t, 1, again.Duplicates)
	assert.Equal(t, 0, again.Organized)
	assert.FileExists(t, b)
}

func TestDuplicatesDeleted(t *testing.T) {
	root := t.TempDir()
	taken := time.Date(2022, 3, 1, 10, 0, 0, 0, time.UTC)
	a := writeExifPhoto(t, root, "a.jpg", taken, 1)
	b := filepath.Join(root, "b.jpg")
	copyPhoto(t, a, b)

	cfg := testConfig(t, root)
	cfg.DuplicatePolicy = DeleteDuplicates
	summary := runOrganizer(t, cfg)

	assert.Equal(t, 1, summary.Organized)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 1, summary.Deleted)
	assert.NoFileExists(t, b)
	assert.FileExists(t, filepath.Join(root, "2022-03", "2022-03-01 10:00:00 001.jpg"))
	assert.Len(t, snapshot(t, root), 1)
}

func TestDuplicatesAsk(t *testing.T) {
	root := t.TempDir()
	taken := time.Date(2022, 3, 1, 10, 0, 0, 0, time.UTC)
	a := writeExifPhoto(t, root, "a.jpg", taken, 1)
	b := filepath.Join(root, "b.jpg")
	c := filepath.Join(root, "c.jpg")
	copyPhoto(t, a, b)
	copyPhoto(t, a, c)

	canonical := filepath.Join(root, "2022-03", "2022-03-01 10:00:00 001.jpg")
	var asked []string
	decide := DuplicateDeciderFunc(func(path, kept string) (bool, error) {
		asked = append(asked, filepath.Base(path))
		assert.Equal(t, canonical, kept)
		return path == b, nil
	})

	cfg := testConfig(t, root)
	cfg.Interactive = true
	cfg.DuplicatePolicy = AskPerDuplicate
	summary := runOrganizer(t, cfg, WithDuplicateDecider(decide))

	assert.Equal(t, []string{"b.jpg", "c.jpg"}, asked)
	assert.Equal(t, 1, summary.Organized)
	assert.Equal(t, 2, summary.Duplicates)
	assert.Equal(t, 1, summary.Deleted)
	assert.NoFileExists(t, b)
	assert.FileExists(t, c)
	assert.FileExists(t, canonical)
}

func TestDuplicatesAskNonInteractiveLeavesInPlace(t *testing.T) {
	root := t.TempDir()
	a := writeExifPhoto(t, root, "a.jpg", time.Date(2022, 3, 1, 10, 0, 0, 0, time.UTC), 1)
	b := filepath.Join(root, "b.jpg")
	copyPhoto(t, a, b)

	decide := DuplicateDeciderFunc(func(string, string) (bool, error) {
		t.Fatal("must not ask without a terminal")
		return true, nil
	})

	cfg := testConfig(t, root)
	cfg.DuplicatePolicy = AskPerDuplicate
	summary := runOrganizer(t, cfg, WithDuplicateDecider(decide))

	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 0, summary.Deleted)
	assert.FileExists(t, b)
}

func TestDuplicatesAskThroughConsole(t *testing.T) {
	root := t.TempDir()
	a := writeExifPhoto(t, root, "a.jpg", time.Date(2022, 3, 1, 10, 0, 0, 0, time.UTC), 1)
	b := filepath.Join(root, "b.jpg")
	copyPhoto(t, a, b)

	cfg := DefaultConfig()
	cfg.Root = root
	cfg.DuplicatePolicy = AskPerDuplicate

	var stdout, stderr bytes.Buffer
	summary, err := runOnFs(context.Background(), afero.NewOsFs(), cfg, strings.NewReader("d\n"), &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Deleted)
	assert.NoFileExists(t, b)
	assert.Contains(t, stdout.String(), "Has been found to be a duplicate of another:")
	assert.Contains(t, stdout.String(), "Size           : ")
}

func TestDuplicateOfPreviouslyOrganizedPhoto(t *testing.T) {
	root := t.TempDir()
	taken := time.Date(2022, 2, 16, 23, 56, 12, 0, time.UTC)
	writeExifPhoto(t, root, "a.jpg", taken, 1)
	runOrganizer(t, testConfig(t, root))

	organized := filepath.Join(root, "2022-02", "2022-02-16 23:56:12 001.jpg")
	dropped := filepath.Join(root, "IMG_copy.jpg")
	copyPhoto(t, organized, dropped)

	summary := runOrganizer(t, testConfig(t, root))
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 0, summary.Organized)
	require.Len(t, summary.DuplicateEntries, 1)
	assert.Equal(t, organized, summary.DuplicateEntries[0].KeptFile)
	assert.FileExists(t, dropped)
	assert.NoFileExists(t, filepath.Join(root, "2022-02", "2022-02-16 23:56:12 002.jpg"))
}

func TestBurstGetsSequenceNumbers(t *testing.T) {
	root := t.TempDir()
	taken := time.Date(2022, 4, 8, 18, 53, 36, 0, time.UTC)
	for i, name := range []string{"burst_1.jpg", "burst_2.jpg", "burst_10.jpg"} {
		writeExifPhoto(t, root, name, taken, byte(10+i))
	}

	summary := runOrganizer(t, testConfig(t, root))
	assert.Equal(t, 3, summary.Organized)

	dir := filepath.Join(root, "2022-04")
	require.Len(t, summary.Moves, 3)
	assert.Equal(t, filepath.Join(dir, "2022-04-08 18:53:36 001.jpg"), summary.Moves[0].To)
	assert.Equal(t, filepath.Join(dir, "2022-04-08 18:53:36 002.jpg"), summary.Moves[1].To)
	assert.Equal(t, filepath.Join(dir, "2022-04-08 18:53:36 003.jpg"), summary.Moves[2].To)
	assert.Equal(t, filepath.Join(root, "burst_10.jpg"), summary.Moves[2].From, "natural name order")
}

func TestSequenceContinuesAfterExistingNames(t *testing.T) {
	root := t.TempDir()
	taken := time.Date(2022, 2, 16, 23, 56, 12, 0, time.UTC)
	writeExifPhoto(t, root, "first.jpg", taken, 1)
	runOrganizer(t, testConfig(t, root))

	writeExifPhoto(t, root, "second.jpg", taken, 2)
	summary := runOrganizer(t, testConfig(t, root))

	require.Len(t, summary.Moves, 1)
	assert.Equal(t, filepath.Join(root, "2022-02", "2022-02-16 23:56:12 002.jpg"), summary.Moves[0].To)
	assert.FileExists(t, filepath.Join(root, "2022-02", "2022-02-16 23:56:12 001.jpg"))
}

func TestModTimeFallbackWhenNonInteractive(t *testing.T) {
	root := t.TempDir()
	modTime := time.Date(2021, 11, 5, 14, 30, 0, 0, time.Local)
	writePlainPhoto(t, root, "scan.jpg", modTime, 5)

	called := false
	confirm := ConfirmationFunc(func(string, pkg.ResolvedTime) (time.Time, error) {
		called = true
		return time.Time{}, nil
	})
	summary := runOrganizer(t, testConfig(t, root), WithConfirmation(confirm))

	assert.False(t, called, "never prompts in non-interactive mode")
	require.Len(t, summary.Moves, 1)
	assert.Equal(t, pkg.SourceModTime, summary.Moves[0].Source)
	assert.FileExists(t, filepath.Join(root, "2021-11", "2021-11-05 14:30:00 001.jpg"))
}

func TestInteractiveOverride(t *testing.T) {
	root := t.TempDir()
	writePlainPhoto(t, root, "scan.jpg", time.Date(2021, 11, 5, 14, 30, 0, 0, time.Local), 5)
	writeExifPhoto(t, root, "exif.jpg", time.Date(2022, 1, 1, 12, 0, 0, 0, time.UTC), 6)

	var asked []string
	override := time.Date(1998, 8, 20, 16, 0, 0, 0, time.Local)
	confirm := ConfirmationFunc(func(path string, fb pkg.ResolvedTime) (time.Time, error) {
		asked = append(asked, filepath.Base(path))
		assert.Equal(t, pkg.SourceModTime, fb.Source)
		return override, nil
	})

	cfg := testConfig(t, root)
	cfg.Interactive = true
	summary := runOrganizer(t, cfg, WithConfirmation(confirm))

	assert.Equal(t, []string{"scan.jpg"}, asked, "only uncertain files are confirmed")
	assert.Equal(t, 2, summary.Organized)
	assert.FileExists(t, filepath.Join(root, "1998-08", "1998-08-20 16:00:00 001.jpg"))
	assert.FileExists(t, filepath.Join(root, "2022-01", "2022-01-01 12:00:00 001.jpg"))

	sources := map[pkg.DateSource]bool{}
	for _, m := range summary.Moves {
		sources[m.Source] = true
	}
	assert.True(t, sources[pkg.SourceOperator])
}

func TestInteractiveKeepUsesFallbackSource(t *testing.T) {
	root := t.TempDir()
	writePlainPhoto(t, root, "scan.jpg", time.Date(2021, 11, 5, 14, 30, 0, 0, time.Local), 5)

	cfg := testConfig(t, root)
	cfg.Interactive = true
	summary := runOrganizer(t, cfg, WithConfirmation(NewConsolePrompter(strings.NewReader("k\n"), &bytes.Buffer{}, nil)))

	require.Len(t, summary.Moves, 1)
	assert.Equal(t, pkg.SourceModTime, summary.Moves[0].Source)
	assert.FileExists(t, filepath.Join(root, "2021-11", "2021-11-05 14:30:00 001.jpg"))
}

func TestCanonicalNameOutsideMonthFolder(t *testing.T) {
	root := t.TempDir()
	writePlainPhoto(t, root, "2019-05-06 07:08:09 004.jpg", time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), 3)

	summary := runOrganizer(t, testConfig(t, root))
	require.Len(t, summary.Moves, 1)
	assert.Equal(t, pkg.SourceFilename, summary.Moves[0].Source)
	assert.FileExists(t, filepath.Join(root, "2019-05", "2019-05-06 07:08:09 001.jpg"))
}

func TestPartialFailureContinues(t *testing.T) {
	root := t.TempDir()
	taken := time.Date(2022, 3, 3, 3, 3, 3, 0, time.UTC)
	a := writeExifPhoto(t, root, "a.jpg", taken, 1)
	writeExifPhoto(t, root, "b.jpg", taken, 2)

	failing := phototest.NewFailingFs(afero.NewOsFs())
	failing.OpenErrors[a] = os.ErrPermission

	org, err := NewOrganizer(failing, testConfig(t, root))
	require.NoError(t, err)
	summary, err := org.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 1, summary.Organized)
	assert.FileExists(t, a, "unreadable file stays in place")
	require.Len(t, summary.SkippedEntries, 1)
	assert.Equal(t, a, summary.SkippedEntries[0].Path)
	assert.FileExists(t, filepath.Join(root, "2022-03", "2022-03-03 03:03:03 001.jpg"))
}

func TestFailedMoveDoesNotPoisonIndex(t *testing.T) {
	root := t.TempDir()
	taken := time.Date(2022, 3, 3, 3, 3, 3, 0, time.UTC)
	a := writeExifPhoto(t, root, "a.jpg", taken, 1)
	b := filepath.Join(root, "b.jpg")
	copyPhoto(t, a, b)

	failing := phototest.NewFailingFs(afero.NewOsFs())
	failing.RenameErrors[a] = os.ErrPermission

	org, err := NewOrganizer(failing, testConfig(t, root))
	require.NoError(t, err)
	summary, err := org.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Duplicates, "b is not a duplicate of a file that never got placed")
	assert.Equal(t, 1, summary.Organized)
	assert.FileExists(t, a)
	assert.NoFileExists(t, b)
	assert.FileExists(t, filepath.Join(root, "2022-03", "2022-03-03 03:03:03 001.jpg"))
}

func TestDuplicateDeleteFailureLeavesFile(t *testing.T) {
	root := t.TempDir()
	taken := time.Date(2022, 3, 3, 3, 3, 3, 0, time.UTC)
	writeExifPhoto(t, root, "a.jpg", taken, 1)
	runOrganizer(t, testConfig(t, root))

	organized := filepath.Join(root, "2022-03", "2022-03-03 03:03:03 001.jpg")
	dropped := filepath.Join(root, "again.jpg")
	copyPhoto(t, organized, dropped)

	failing := phototest.NewFailingFs(afero.NewOsFs())
	failing.RemoveErrors[dropped] = os.ErrPermission

	cfg := testConfig(t, root)
	cfg.DuplicatePolicy = DeleteDuplicates
	org, err := NewOrganizer(failing, cfg)
	require.NoError(t, err)
	summary, err := org.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 0, summary.Deleted)
	assert.FileExists(t, dropped)
	assert.FileExists(t, organized)
}

func TestDryRunChangesNothing(t *testing.T) {
	root := t.TempDir()
	taken := time.Date(2022, 4, 8, 18, 53, 36, 0, time.UTC)
	a := writeExifPhoto(t, root, "a.jpg", taken, 1)
	writeExifPhoto(t, root, "b.jpg", taken, 2)
	copyPhoto(t, a, filepath.Join(root, "c.jpg"))
	before := snapshot(t, root)

	cfg := testConfig(t, root)
	cfg.DryRun = true
	cfg.DuplicatePolicy = DeleteDuplicates
	summary := runOrganizer(t, cfg)

	assert.True(t, summary.DryRun)
	assert.Equal(t, 2, summary.Organized)
	assert.Equal(t, 1, summary.Duplicates)
	assert.Equal(t, 0, summary.Deleted)
	require.Len(t, summary.Moves, 2)
	assert.NotEqual(t, summary.Moves[0].To, summary.Moves[1].To, "planned names are collision-free")
	assert.Equal(t, before, snapshot(t, root))
	assert.NoDirExists(t, filepath.Join(root, "2022-04"))
}

func TestExtensionFilter(t *testing.T) {
	root := t.TempDir()
	taken := time.Date(2022, 2, 2, 2, 2, 2, 0, time.UTC)
	writeExifPhoto(t, root, "a.jpg", taken, 1)
	png := writeExifPhoto(t, root, "b.png", taken, 2)
	txt := filepath.Join(root, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0644))

	cfg := testConfig(t, root)
	cfg.Extensions = []string{".jpg"}
	summary := runOrganizer(t, cfg)

	assert.Equal(t, 1, summary.Scanned)
	assert.FileExists(t, png)
	assert.FileExists(t, txt)
}

func TestCancelledRunStops(t *testing.T) {
	root := t.TempDir()
	a := writeExifPhoto(t, root, "a.jpg", time.Date(2022, 2, 2, 2, 2, 2, 0, time.UTC), 1)

	org, err := NewOrganizer(afero.NewOsFs(), testConfig(t, root))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := org.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, summary.Organized)
	assert.FileExists(t, a)
}

type recordingObserver struct {
	total    int
	done     map[string]Outcome
	finished bool
}

func (r *recordingObserver) OnStart(total int) { r.total = total; r.done = map[string]Outcome{} }
func (r *recordingObserver) OnFileDone(path string, o Outcome) {
	r.done[filepath.Base(path)] = o
}
func (r *recordingObserver) OnFinish(pkg.Summary) { r.finished = true }

func TestObserverReceivesOutcomes(t *testing.T) {
	root := t.TempDir()
	a := writeExifPhoto(t, root, "a.jpg", time.Date(2022, 2, 2, 2, 2, 2, 0, time.UTC), 1)
	copyPhoto(t, a, filepath.Join(root, "b.jpg"))

	obs := &recordingObserver{}
	runOrganizer(t, testConfig(t, root), WithObserver(obs))

	assert.Equal(t, 2, obs.total)
	assert.Equal(t, map[string]Outcome{"a.jpg": OutcomeOrganized, "b.jpg": OutcomeDuplicate}, obs.done)
	assert.True(t, obs.finished)
}

func TestRunOnFsOutput(t *testing.T) {
	root := t.TempDir()
	writeExifPhoto(t, root, "a.jpg", time.Date(2022, 2, 2, 2, 2, 2, 0, time.UTC), 1)
	report := filepath.Join(t.TempDir(), "report.txt")

	cfg := DefaultConfig()
	cfg.Root = root
	cfg.Interactive = false
	cfg.ReportPath = report

	var stdout, stderr bytes.Buffer
	summary, err := runOnFs(context.Background(), afero.NewOsFs(), cfg, strings.NewReader(""), &stdout, &stderr)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Organized)
	assert.Contains(t, stdout.String(), "Photo Organizer Initializing...")
	assert.Contains(t, stdout.String(), summary.Line())
	assert.FileExists(t, report)

	cfg.Root = filepath.Join(root, "missing")
	_, err = runOnFs(context.Background(), afero.NewOsFs(), cfg, strings.NewReader(""), &stdout, &stderr)
	require.Error(t, err)
	assert.True(t, pkg.IsInvocationError(err))
}
