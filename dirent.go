package fat16

import (
	"encoding/binary"
	"log/slog"

	"github.com/dustin/go-humanize"
)

// Directory entry (SFN) byte layout, per spec.md §6. Named the way
// soypat-fat/tables.go names its dir* offsets.
const (
	dirNameOff      = 0
	dirAttrOff      = 11
	dirFstClusLOOff = 26
	dirFileSizeOff  = 28
	sfnEntrySize    = 32
	sfnNameLen      = 11
	sfnBaseLen      = 8
	sfnExtLen       = 3
)

// Attribute bits, per spec.md §4.4.3.
const (
	attrReadOnly  = 1 << 0
	attrHidden    = 1 << 1
	attrSystem    = 1 << 2
	attrVolumeID  = 1 << 3
	attrDirectory = 1 << 4
	attrArchive   = 1 << 5
)

const (
	nameFreeMarker    = 0x00
	nameDeletedMarker = 0xE5
)

// dirEntry is a read-only view over one 32-byte SFN directory entry.
type dirEntry struct {
	data []byte // exactly sfnEntrySize bytes, a window into Volume.root.
}

func (e dirEntry) firstNameByte() byte { return e.data[dirNameOff] }

func (e dirEntry) attr() byte { return e.data[dirAttrOff] }

func (e dirEntry) isFree() bool    { return e.firstNameByte() == nameFreeMarker }
func (e dirEntry) isDeleted() bool { return e.firstNameByte() == nameDeletedMarker }
func (e dirEntry) isVolumeLabel() bool {
	return e.attr()&attrVolumeID != 0
}
func (e dirEntry) isDirectory() bool { return e.attr()&attrDirectory != 0 }

func (e dirEntry) rawName() [sfnNameLen]byte {
	var n [sfnNameLen]byte
	copy(n[:], e.data[dirNameOff:dirNameOff+sfnNameLen])
	return n
}

func (e dirEntry) firstCluster() uint16 {
	return binary.LittleEndian.Uint16(e.data[dirFstClusLOOff:])
}

func (e dirEntry) fileSize() uint32 {
	return binary.LittleEndian.Uint32(e.data[dirFileSizeOff:])
}

// DirEntry is the value returned by Dir.Next: a printable, self-contained
// view of one root-directory entry. It owns no reference back into the
// Volume.
type DirEntry struct {
	Name      string
	Size      int64
	ReadOnly  bool
	Hidden    bool
	System    bool
	Directory bool
	Archive   bool
}

// LogValue implements slog.LogValuer, per SPEC_FULL.md §4.12, rendering
// Size in human-readable form rather than a raw byte count.
func (e DirEntry) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("name", e.Name),
		slog.String("size", humanize.Bytes(uint64(e.Size))),
		slog.Bool("directory", e.Directory),
	)
}

func newDirEntry(e dirEntry) DirEntry {
	a := e.attr()
	return DirEntry{
		Name:      sfnToPrintable(e.rawName(), e.isDirectory()),
		Size:      int64(e.fileSize()),
		ReadOnly:  a&attrReadOnly != 0,
		Hidden:    a&attrHidden != 0,
		System:    a&attrSystem != 0,
		Directory: a&attrDirectory != 0,
		Archive:   a&attrArchive != 0,
	}
}

// sfnToPrintable renders an 11-byte SFN into printable 8.3 form, per
// spec.md §4.4.1.
func sfnToPrintable(raw [sfnNameLen]byte, isDir bool) string {
	if isDir {
		return cutAtSpace(raw[:sfnNameLen])
	}
	if raw[sfnBaseLen] == ' ' {
		return cutAtSpace(raw[:sfnBaseLen])
	}
	base := cutAtSpace(raw[:sfnBaseLen])
	if !containsSpace(raw[:sfnBaseLen]) {
		ext := cutAtSpace(raw[sfnBaseLen : sfnBaseLen+sfnExtLen])
		return base + "." + ext
	}
	ext := cutAtSpace(raw[sfnBaseLen : sfnBaseLen+sfnExtLen])
	return base + "." + ext
}

func cutAtSpace(b []byte) string {
	for i, c := range b {
		if c == ' ' {
			return string(b[:i])
		}
	}
	return string(b)
}

func containsSpace(b []byte) bool {
	for _, c := range b {
		if c == ' ' {
			return true
		}
	}
	return false
}

// printableToSFN converts a user-supplied filename into its 11-byte,
// space-padded SFN form, per spec.md §4.4.2.
func printableToSFN(name string) (out [sfnNameLen]byte, err error) {
	if name == "" {
		return out, ErrBadArg
	}
	for i := range out {
		out[i] = ' '
	}
	dot := -1
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			dot = i
			break
		}
	}
	// No case folding: callers are expected to pass already-uppercase 8.3
	// names, matching the literal-ASCII-uppercase comparison spec.md calls
	// for (no case-insensitive matching is performed).
	if dot < 0 {
		n := len(name)
		if n > sfnBaseLen {
			n = sfnBaseLen
		}
		copy(out[:n], name[:n])
		return out, nil
	}
	base := name[:dot]
	ext := name[dot+1:]
	nb := len(base)
	if nb > sfnBaseLen {
		nb = sfnBaseLen
	}
	copy(out[:nb], base[:nb])
	ne := len(ext)
	if ne > sfnExtLen {
		ne = sfnExtLen
	}
	copy(out[sfnBaseLen:sfnBaseLen+ne], ext[:ne])
	return out, nil
}
