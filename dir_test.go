package fat16

import (
	"errors"
	"testing"
)

// TestDirEnumerationOrdersFilesBeforeDirs is scenario S4 of spec.md §8 and
// invariant/law 6: every non-deleted, non-volume-label entry appears
// exactly once, files in phase one and directories in phase two.
func TestDirEnumerationOrdersFilesBeforeDirs(t *testing.T) {
	img := newTestImage(defaultTestImageConfig())
	img.setFATEntry(2, clusterEOCMin)
	img.writeClusterData(2, []byte("hi"))
	img.setDirEntry(0, mustSFN("HELLO.TXT"), 0, 2, 2)
	img.setDirEntry(1, mustSFN("README"), 0, 0, 5)
	// A deleted entry and a volume-label entry must never surface.
	deletedSFN := mustSFN("GONE.TXT")
	deletedSFN[0] = nameDeletedMarker
	img.setDirEntry(2, deletedSFN, 0, 0, 123)
	img.setDirEntry(3, mustSFN("VOLUME"), attrVolumeID, 0, 0)
	img.setDirEntry(4, mustSFN("DOCS"), attrDirectory, 0, 0)

	v, _ := mountTestImage(t, img)
	defer v.Close()

	d, err := v.OpenDir(`\`)
	if err != nil {
		t.Fatalf("OpenDir: %v", err)
	}
	defer d.Close()

	var names []string
	for {
		e, err := d.Next()
		if errors.Is(err, ErrEndOfStream) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		names = append(names, e.Name)
	}

	if len(names) != 3 {
		t.Fatalf("got %d entries %v, want 3", len(names), names)
	}
	if names[2] != "DOCS" {
		t.Fatalf("last entry = %q, want DOCS (directories must follow files)", names[2])
	}
	seen := map[string]bool{}
	for _, n := range names {
		if seen[n] {
			t.Fatalf("entry %q enumerated more than once", n)
		}
		seen[n] = true
	}
	if !seen["HELLO.TXT"] || !seen["README"] {
		t.Fatalf("missing expected file entries in %v", names)
	}
}

// TestOpenDirRejectsNonRootPaths checks the NotFound/NotDirectory split of
// spec.md §4.4's OpenDir contract.
func TestOpenDirRejectsNonRootPaths(t *testing.T) {
	img := newTestImage(defaultTestImageConfig())
	v, _ := mountTestImage(t, img)
	defer v.Close()

	if _, err := v.OpenDir(`\SUBDIR`); !errors.Is(err, ErrNotFound) {
		t.Fatalf("OpenDir(\\SUBDIR) = %v, want ErrNotFound", err)
	}
	if _, err := v.OpenDir("relative"); !errors.Is(err, ErrNotDirectory) {
		t.Fatalf("OpenDir(relative) = %v, want ErrNotDirectory", err)
	}
}
