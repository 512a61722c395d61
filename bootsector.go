package fat16

import (
	"encoding/binary"
	"errors"

	"github.com/hashicorp/go-multierror"
)

// Boot-sector field byte offsets, per spec.md §6. Named the way
// soypat-fat/tables.go names its BPB offsets (bpb*/bs* prefixes).
const (
	bsJmpBoot       = 0
	bsOEMName       = 3
	bpbBytsPerSec   = 11
	bpbSecPerClus   = 13
	bpbRsvdSecCnt   = 14
	bpbNumFATs      = 16
	bpbRootEntCnt   = 17
	bpbTotSec16     = 19
	bpbMedia        = 21
	bpbFATSz16      = 22
	bootSectorSig   = 510
	bootSectorMagic = 0xAA55
)

// bootSector is a read-only view over the 512-byte FAT16 boot sector.
type bootSector struct {
	data [SectorSize]byte
}

func (bs *bootSector) bytesPerSector() uint16 {
	return binary.LittleEndian.Uint16(bs.data[bpbBytsPerSec:])
}

func (bs *bootSector) sectorsPerCluster() uint8 {
	return bs.data[bpbSecPerClus]
}

func (bs *bootSector) reservedSectors() uint16 {
	return binary.LittleEndian.Uint16(bs.data[bpbRsvdSecCnt:])
}

func (bs *bootSector) numFATs() uint8 {
	return bs.data[bpbNumFATs]
}

func (bs *bootSector) maxRootEntries() uint16 {
	return binary.LittleEndian.Uint16(bs.data[bpbRootEntCnt:])
}

func (bs *bootSector) fatSizeSectors() uint16 {
	return binary.LittleEndian.Uint16(bs.data[bpbFATSz16:])
}

func (bs *bootSector) signature() uint16 {
	return binary.LittleEndian.Uint16(bs.data[bootSectorSig:])
}

// validateGeometry checks every invariant spec.md §3/§4.2 place on the
// boot-sector-derived geometry, independent of any FAT/root-dir content.
// Every failing check is collected rather than short-circuiting on the
// first one, so a caller inspecting the returned *multierror.Error sees
// the full set of things wrong with a malformed image, per SPEC_FULL.md
// §4.9. A nil return means every check passed.
func (bs *bootSector) validateGeometry() *multierror.Error {
	var merr *multierror.Error
	if bs.signature() != bootSectorMagic {
		merr = multierror.Append(merr, errors.New("boot sector signature is not 0xAA55"))
	}
	bps := bs.bytesPerSector()
	switch bps {
	case 512, 1024, 2048, 4096:
	default:
		merr = multierror.Append(merr, errors.New("bytes-per-sector is not one of {512,1024,2048,4096}"))
	}
	spc := bs.sectorsPerCluster()
	if spc == 0 || spc&(spc-1) != 0 {
		merr = multierror.Append(merr, errors.New("sectors-per-cluster is not a power of two"))
	} else if uint32(bps)*uint32(spc) > 32*1024 {
		merr = multierror.Append(merr, errors.New("cluster size exceeds 32 KiB"))
	}
	if bs.fatSizeSectors() == 0 {
		merr = multierror.Append(merr, errors.New("FAT size is zero (not a FAT16 BPB)"))
	}
	if bps != 0 {
		rootBytes := uint32(bs.maxRootEntries()) * sfnEntrySize
		if rootBytes%uint32(bps) != 0 {
			merr = multierror.Append(merr, errors.New("root directory size is not a multiple of bytes-per-sector"))
		}
	}
	return merr
}
