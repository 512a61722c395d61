package fat16

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
)

// MountOptions configures Volume.Mount. The zero value mounts at
// partition-start sector 0 (an unpartitioned image) and logs through
// slog.Default().
type MountOptions struct {
	// PartitionStart is the first sector of the FAT16 volume within the
	// block device, per spec.md §4.2's "partition-start sector is
	// caller-provided" contract. Typically 0.
	PartitionStart uint32
	// Logger receives Debug/Warn traces of mount, file open, and directory
	// open/enumeration; reads and seeks are not traced. A nil Logger falls
	// back to slog.Default().
	Logger *slog.Logger
}

// DefaultMountOptions returns the MountOptions for an unpartitioned image
// mounted at sector 0.
func DefaultMountOptions() MountOptions {
	return MountOptions{}
}

// Volume is a mounted FAT16 filesystem: parsed boot sector, both File
// Allocation Tables (cross-validated against each other), the root
// directory, and the geometry derived from them. It borrows the
// BlockDevice it was mounted on — the caller must keep that device alive
// and must not share it with a concurrent writer for the Volume's
// lifetime, per spec.md §5.
type Volume struct {
	bd  BlockDevice
	log *slog.Logger

	partitionStart uint32
	bytesPerSector uint16
	sectorsPerClus uint8
	clusterSize    uint32
	maxRootEntries uint16
	dataStartSect  uint32

	fat  []byte // FAT1, the table used for all lookups.
	root []byte // MaxRootEntries * 32 bytes.

	mounted bool
}

// Mount parses the boot sector at opts.PartitionStart, loads and
// cross-validates both FATs, and loads the root directory, per spec.md
// §4.2. Any failure releases every partially allocated resource before
// returning (spec.md §4.7) — Mount never leaves v in a half-mounted state.
func (v *Volume) Mount(bd BlockDevice, opts MountOptions) error {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Debug("fat16: mount", slog.Uint64("partitionStart", uint64(opts.PartitionStart)))

	var bs bootSector
	if err := bd.ReadSectors(bs.data[:], opts.PartitionStart, 1); err != nil {
		log.Warn("fat16: mount: boot sector read failed", slog.Any("err", err))
		return ErrOutOfRange
	}

	if merr := bs.validateGeometry(); merr.ErrorOrNil() != nil {
		log.Warn("fat16: mount: invalid boot sector", slog.Any("err", merr))
		return &MountError{Kind: ErrInvalidFormat, Detail: merr.ErrorOrNil()}
	}

	bps := bs.bytesPerSector()
	spc := bs.sectorsPerCluster()
	reserved := uint32(bs.reservedSectors())
	nFATs := uint32(bs.numFATs())
	fatSizeSectors := uint32(bs.fatSizeSectors())
	maxRoot := bs.maxRootEntries()

	fatBytes := fatSizeSectors * uint32(bps)
	fat1, err := readSectors(bd, opts.PartitionStart+reserved, fatSizeSectors, fatBytes)
	if err != nil {
		log.Warn("fat16: mount: FAT1 read failed", slog.Any("err", err))
		return ErrOutOfRange
	}
	fat2, err := readSectors(bd, opts.PartitionStart+reserved+fatSizeSectors, fatSizeSectors, fatBytes)
	if err != nil {
		log.Warn("fat16: mount: FAT2 read failed", slog.Any("err", err))
		return ErrOutOfRange
	}
	if nFATs >= 2 && !bytesEqual(fat1, fat2) {
		log.Warn("fat16: mount: FAT1/FAT2 mismatch",
			slog.String("fat1Size", humanize.Bytes(uint64(len(fat1)))))
		return &MountError{
			Kind:   ErrInvalidFormat,
			Detail: errors.New("FAT1 and FAT2 are not byte-identical"),
		}
	}

	rootSectorsStart := opts.PartitionStart + reserved + nFATs*fatSizeSectors
	rootBytes := uint32(maxRoot) * sfnEntrySize
	root, err := readSectors(bd, rootSectorsStart, rootBytes/uint32(bps), rootBytes)
	if err != nil {
		log.Warn("fat16: mount: root directory read failed", slog.Any("err", err))
		return ErrOutOfRange
	}

	v.bd = bd
	v.log = log
	v.partitionStart = opts.PartitionStart
	v.bytesPerSector = bps
	v.sectorsPerClus = spc
	v.clusterSize = uint32(bps) * uint32(spc)
	v.maxRootEntries = maxRoot
	v.dataStartSect = rootSectorsStart + rootBytes/uint32(bps)
	v.fat = fat1
	v.root = root
	v.mounted = true

	log.Debug("fat16: mounted",
		slog.String("clusterSize", humanize.Bytes(uint64(v.clusterSize))),
		slog.Uint64("dataStartSector", uint64(v.dataStartSect)),
		slog.Int("rootEntries", int(v.maxRootEntries)))
	return nil
}

// String renders the volume's derived geometry for diagnostics, per
// SPEC_FULL.md §4.12. An unmounted Volume reports itself as such rather
// than printing zeroed geometry.
func (v *Volume) String() string {
	if !v.mounted {
		return "fat16 volume: unmounted"
	}
	return fmt.Sprintf("fat16 volume: cluster size %s, data start sector %d, root entries %d",
		humanize.Bytes(uint64(v.clusterSize)), v.dataStartSect, v.maxRootEntries)
}

// Close releases the FAT and root-directory buffers. It does not close the
// underlying BlockDevice.
func (v *Volume) Close() error {
	if !v.mounted {
		return ErrInvalidFormat
	}
	v.fat = nil
	v.root = nil
	v.mounted = false
	return nil
}

// clusterToSector resolves cluster (>=2) to its first absolute sector in
// the data region, per spec.md §4.5.
func (v *Volume) clusterToSector(cluster uint32) uint32 {
	return v.dataStartSect + (cluster-clusterMinData)*uint32(v.sectorsPerClus)
}

func readSectors(bd BlockDevice, first, count, byteLen uint32) ([]byte, error) {
	buf := make([]byte, byteLen)
	if count == 0 {
		return buf, nil
	}
	if err := bd.ReadSectors(buf, first, count); err != nil {
		return nil, err
	}
	return buf, nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
