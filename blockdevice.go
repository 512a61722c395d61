package fat16

import (
	"io"
	"math"
	"os"

	"github.com/xaionaro-go/bytesextra"
)

// SectorSize is the fixed sector size assumed throughout this package. The
// block device abstraction is unaware of FAT geometry; it only ever deals
// in whole SectorSize-byte blocks.
const SectorSize = 512

// maxSectorCount mirrors the invariant that sector_count <= 65535: FAT16
// volume geometry packs sector counts into 16-bit BPB fields.
const maxSectorCount = math.MaxUint16

// BlockDevice is the external collaborator this package mounts a volume on
// top of: a flat sequence of fixed-size sectors. Implementations are not
// expected to understand FAT geometry at all.
type BlockDevice interface {
	// SectorCount reports the total number of SectorSize-byte sectors
	// available on the device.
	SectorCount() uint32

	// ReadSectors reads sectors*SectorSize bytes starting at sector
	// firstSector into dst, which must be at least that long.
	ReadSectors(dst []byte, firstSector, sectors uint32) error

	// Close releases any resources held by the device.
	Close() error
}

// FileBlockDevice is a BlockDevice backed by a regular host file (an
// "image file"), opened read-only.
type FileBlockDevice struct {
	f       *os.File
	sectors uint32
}

// OpenFileBlockDevice opens path read-only and computes its sector count
// from the file size. It fails with ErrInvalid if the size is not a
// multiple of SectorSize, and ErrOutOfRange if the file holds more than
// 65535 sectors.
func OpenFileBlockDevice(path string) (*FileBlockDevice, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := info.Size()
	if size%SectorSize != 0 {
		f.Close()
		return nil, ErrInvalid
	}
	sectors := size / SectorSize
	if sectors > maxSectorCount {
		f.Close()
		return nil, ErrOutOfRange
	}
	return &FileBlockDevice{f: f, sectors: uint32(sectors)}, nil
}

// SectorCount implements BlockDevice.
func (d *FileBlockDevice) SectorCount() uint32 { return d.sectors }

// ReadSectors implements BlockDevice.
func (d *FileBlockDevice) ReadSectors(dst []byte, firstSector, sectors uint32) error {
	if err := checkSectorRange(d.sectors, firstSector, sectors, len(dst)); err != nil {
		return err
	}
	off := int64(firstSector) * SectorSize
	n := int(sectors) * SectorSize
	if _, err := d.f.ReadAt(dst[:n], off); err != nil && err != io.EOF {
		return ErrOutOfRange
	}
	return nil
}

// Close implements BlockDevice.
func (d *FileBlockDevice) Close() error {
	return d.f.Close()
}

// MemoryBlockDevice is a BlockDevice backed by an in-memory image, useful
// for tests and for callers who already hold the full image in RAM. The
// image is wrapped in an io.ReadWriteSeeker via bytesextra so the read path
// shares its addressing logic with FileBlockDevice instead of slicing the
// backing array directly.
type MemoryBlockDevice struct {
	rws     io.ReadWriteSeeker
	sectors uint32
}

// NewMemoryBlockDevice wraps image (whose length must be a positive
// multiple of SectorSize, capped at 65535 sectors) as a BlockDevice.
func NewMemoryBlockDevice(image []byte) (*MemoryBlockDevice, error) {
	if len(image) == 0 || len(image)%SectorSize != 0 {
		return nil, ErrInvalid
	}
	sectors := len(image) / SectorSize
	if sectors > maxSectorCount {
		return nil, ErrOutOfRange
	}
	return &MemoryBlockDevice{
		rws:     bytesextra.NewReadWriteSeeker(image),
		sectors: uint32(sectors),
	}, nil
}

// SectorCount implements BlockDevice.
func (d *MemoryBlockDevice) SectorCount() uint32 { return d.sectors }

// ReadSectors implements BlockDevice.
func (d *MemoryBlockDevice) ReadSectors(dst []byte, firstSector, sectors uint32) error {
	if err := checkSectorRange(d.sectors, firstSector, sectors, len(dst)); err != nil {
		return err
	}
	off := int64(firstSector) * SectorSize
	n := int(sectors) * SectorSize
	if _, err := d.rws.Seek(off, io.SeekStart); err != nil {
		return ErrOutOfRange
	}
	if _, err := io.ReadFull(d.rws, dst[:n]); err != nil {
		return ErrOutOfRange
	}
	return nil
}

// Close implements BlockDevice. A memory device owns no external resource.
func (d *MemoryBlockDevice) Close() error { return nil }

func checkSectorRange(total, firstSector, sectors uint32, dstLen int) error {
	if sectors == 0 {
		return ErrBadArg
	}
	if dstLen < int(sectors)*SectorSize {
		return ErrBadArg
	}
	if uint64(firstSector)+uint64(sectors) > uint64(total) {
		return ErrOutOfRange
	}
	return nil
}
