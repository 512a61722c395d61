package fat16

import (
	"io"
	"log/slog"
)

// File is an open handle on a root-directory file, per spec.md §4.5/§3
// Data Model. The cluster chain is immutable once built; only the cursor
// (offset) and scratch buffer are mutated by reads and seeks, which avoids
// the source bug spec.md §9 calls out where the chain's own size field got
// clobbered by the read path.
type File struct {
	v       *Volume
	name    [sfnNameLen]byte
	size    int64
	chain   []uint32 // empty for a zero-length file.
	offset  int64
	scratch []byte // one cluster_size-byte buffer.
}

// OpenFile resolves name (an 8.3 filename, with or without a dot) against
// the root directory and opens it for reading, per spec.md §4.5.
func (v *Volume) OpenFile(name string) (*File, error) {
	if !v.mounted {
		return nil, ErrInvalidFormat
	}
	sfn, err := printableToSFN(name)
	if err != nil {
		return nil, err
	}
	var found dirEntry
	ok := false
	for i := uint16(0); i < v.maxRootEntries; i++ {
		off := int(i) * sfnEntrySize
		e := dirEntry{data: v.root[off : off+sfnEntrySize]}
		if e.isFree() || e.isDeleted() || e.isVolumeLabel() {
			continue
		}
		if e.rawName() == sfn {
			found = e
			ok = true
			break
		}
	}
	if !ok {
		v.log.Debug("fat16: open: not found", slog.String("name", name))
		return nil, ErrNotFound
	}
	if found.isDirectory() {
		return nil, ErrIsDirectory
	}
	chain, err := buildChain(v.fat, found.firstCluster())
	if err != nil {
		return nil, err
	}
	f := &File{
		v:       v,
		name:    sfn,
		size:    int64(found.fileSize()),
		chain:   chain,
		scratch: make([]byte, v.clusterSize),
	}
	v.log.Debug("fat16: open", slog.String("name", name), slog.Int64("size", f.size))
	return f, nil
}

// Size returns the file's size in bytes, fixed at open time.
func (f *File) Size() int64 { return f.size }

// Read implements io.Reader, reading up to len(buf) bytes at the file's
// current offset, per spec.md §4.5. It returns io.EOF (with n==0) once the
// offset reaches the file size, matching the teacher's own Read wrapper
// over its byte-oriented read primitive.
func (f *File) Read(buf []byte) (int, error) {
	n, err := f.readBytes(buf)
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// ReadElements mirrors spec.md §4.5's file_read(dst, elem_size, elem_count)
// contract directly: it reads up to len(dst) bytes (len(dst) must be a
// multiple of elemSize, otherwise ErrBadArg is returned) and returns
// the number of *complete* elements read. A partial trailing element's
// bytes are consumed from the file but not counted.
func (f *File) ReadElements(dst []byte, elemSize int) (elemCount int, err error) {
	if elemSize <= 0 || len(dst)%elemSize != 0 {
		return 0, ErrBadArg
	}
	n, err := f.readBytes(dst)
	if err != nil {
		return 0, err
	}
	return n / elemSize, nil
}

// readBytes is the pull-based read engine of spec.md §4.5: it maps the
// current logical offset to (cluster, in-cluster offset), reads whole
// clusters through the scratch buffer, and copies out the requested range.
func (f *File) readBytes(dst []byte) (int, error) {
	if f.offset == f.size {
		return 0, nil
	}
	remain := f.size - f.offset
	want := int64(len(dst))
	if want > remain {
		want = remain
	}
	clusterSize := int64(f.v.clusterSize)
	var read int64
	for read < want {
		clusterIdx := int(f.offset / clusterSize)
		if clusterIdx >= len(f.chain) {
			// Chain shorter than file_size implies a torn/inconsistent
			// FAT; surface it rather than returning garbage.
			return int(read), ErrInvalidFormat
		}
		sector := f.v.clusterToSector(f.chain[clusterIdx])
		if err := f.v.bd.ReadSectors(f.scratch, sector, uint32(f.v.sectorsPerClus)); err != nil {
			return int(read), ErrOutOfRange
		}
		intra := f.offset % clusterSize
		n := clusterSize - intra
		if rem := want - read; n > rem {
			n = rem
		}
		copy(dst[read:read+n], f.scratch[intra:intra+n])
		read += n
		f.offset += n
	}
	return int(read), nil
}

// whence values for Seek, matching io.Seeker/stdlib os.File conventions.
const (
	SeekStart   = io.SeekStart
	SeekCurrent = io.SeekCurrent
	SeekEnd     = io.SeekEnd
)

// Seek repositions the file's read cursor, per spec.md §4.5. Unlike
// io.Seeker, out-of-range offsets are rejected with ErrInvalid rather than
// silently clamped or accepted — spec.md requires offset to always stay in
// [0, file_size].
func (f *File) Seek(offset int64, whence int) (int64, error) {
	var next int64
	switch whence {
	case SeekStart:
		next = offset
	case SeekCurrent:
		next = f.offset + offset
	case SeekEnd:
		next = f.size + offset
	default:
		return f.offset, ErrInvalid
	}
	if next < 0 || next > f.size {
		return f.offset, ErrInvalid
	}
	f.offset = next
	return f.offset, nil
}

// Close releases the file's chain and scratch buffer.
func (f *File) Close() error {
	f.v = nil
	f.chain = nil
	f.scratch = nil
	return nil
}
