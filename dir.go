package fat16

import "log/slog"

// dirPhase is the Dir enumeration state, per spec.md §4.6: files are
// listed before directories, with no rewind.
type dirPhase uint8

const (
	phaseFiles dirPhase = iota
	phaseDirs
	phaseDone
)

// Dir is an open root-directory handle, per spec.md §4.2 Data Model. Only
// the root directory ("\") is navigable; this package does not support
// subdirectory traversal.
type Dir struct {
	v      *Volume
	offset uint16
	phase  dirPhase
}

// OpenDir opens path for enumeration. Only "\" (the root) is accepted: any
// other path starting with "\" is ErrNotFound, anything else ErrNotDirectory,
// per spec.md §4.4.
func (v *Volume) OpenDir(path string) (*Dir, error) {
	if !v.mounted {
		return nil, ErrInvalidFormat
	}
	if path != `\` {
		if len(path) > 0 && path[0] == '\\' {
			v.log.Debug("fat16: opendir: not found", slog.String("path", path))
			return nil, ErrNotFound
		}
		return nil, ErrNotDirectory
	}
	return &Dir{v: v, offset: 0, phase: phaseFiles}, nil
}

// Next scans forward for the next non-deleted, non-volume-label entry,
// skipping free slots, files while in the directory phase (and vice
// versa), per spec.md §4.4. It returns ErrEndOfStream once both phases
// have been exhausted.
func (d *Dir) Next() (DirEntry, error) {
	for d.phase != phaseDone {
		if d.offset == d.v.maxRootEntries {
			d.offset = 0
			if d.phase == phaseFiles {
				d.phase = phaseDirs
			} else {
				d.phase = phaseDone
			}
			continue
		}
		e := d.entryAt(d.offset)
		d.offset++
		if e.isDeleted() || e.isVolumeLabel() {
			continue
		}
		// e.isFree() (first byte 0x00) is the last-entry sentinel: it does
		// not terminate the scan, only this entry is skipped.
		if e.isFree() {
			continue
		}
		isDir := e.fileSize() == 0 // heuristic per spec.md §4.4, Open Question #1.
		if d.phase == phaseFiles && isDir {
			continue
		}
		if d.phase == phaseDirs && !isDir {
			continue
		}
		entry := newDirEntry(e)
		d.v.log.Debug("fat16: dir entry", slog.Any("entry", entry))
		return entry, nil
	}
	return DirEntry{}, ErrEndOfStream
}

// Close releases the Dir handle. The root directory buffer itself is owned
// by the Volume and is not freed here.
func (d *Dir) Close() error {
	d.v = nil
	return nil
}

func (d *Dir) entryAt(i uint16) dirEntry {
	off := int(i) * sfnEntrySize
	return dirEntry{data: d.v.root[off : off+sfnEntrySize]}
}
