package fat16

import (
	"github.com/fatreader/fat16/internal/mbr"
)

// FindFAT16Partition reads sector 0 of bd (the MBR) and returns the first
// FAT16 partition's starting sector, per SPEC_FULL.md §4.11. It is sugar
// around MountOptions.PartitionStart for callers opening a whole-disk image
// rather than a bare, unpartitioned volume; it does not mount anything.
func FindFAT16Partition(bd BlockDevice) (startSector uint32, ok bool, err error) {
	sector0 := make([]byte, SectorSize)
	if err := bd.ReadSectors(sector0, 0, 1); err != nil {
		return 0, false, err
	}
	start, found := mbr.FindFAT16Partition(sector0)
	return start, found, nil
}

// OpenFirstFAT16Partition locates the first FAT16 partition on bd via
// FindFAT16Partition and mounts it with opts.Logger (opts.PartitionStart is
// ignored and overwritten). It returns ErrNotFound if bd carries no MBR
// partition table entry of FAT16 type.
func OpenFirstFAT16Partition(bd BlockDevice, opts MountOptions) (*Volume, error) {
	start, ok, err := FindFAT16Partition(bd)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	opts.PartitionStart = start
	v := &Volume{}
	if err := v.Mount(bd, opts); err != nil {
		return nil, err
	}
	return v, nil
}
