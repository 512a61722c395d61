package fat16

import "encoding/binary"

// testImageConfig describes the handful of BPB fields the test image
// builder below needs to vary across scenarios (S1-S6 in spec.md §8).
type testImageConfig struct {
	sectorsPerCluster uint8
	totalSectors      uint16
	maxRootEntries    uint16
	fatSizeSectors    uint16
}

func defaultTestImageConfig() testImageConfig {
	return testImageConfig{
		sectorsPerCluster: 1,
		totalSectors:      2880, // 1.44MB floppy-class image, per spec.md §8 S1-S6.
		maxRootEntries:    224,
		fatSizeSectors:    9,
	}
}

// testImage builds a synthetic FAT16 volume image byte-by-byte: boot
// sector, two identical FATs, a root directory, and a data region. It
// mirrors soypat-fat's own DefaultFATByteBlocks test fixture in spirit —
// an in-memory image a test can mount directly — but builds the bytes by
// hand instead of formatting through the library under test.
type testImage struct {
	cfg     testImageConfig
	data    []byte
	fat1Off uint32
	fat2Off uint32
	rootOff uint32
	dataOff uint32
}

func newTestImage(cfg testImageConfig) *testImage {
	const bps = 512
	const reserved = 1
	const numFATs = 2

	fatBytes := uint32(cfg.fatSizeSectors) * bps
	rootBytes := uint32(cfg.maxRootEntries) * sfnEntrySize
	total := uint32(cfg.totalSectors) * bps

	img := &testImage{cfg: cfg, data: make([]byte, total)}

	binary.LittleEndian.PutUint16(img.data[bpbBytsPerSec:], bps)
	img.data[bpbSecPerClus] = cfg.sectorsPerCluster
	binary.LittleEndian.PutUint16(img.data[bpbRsvdSecCnt:], reserved)
	img.data[bpbNumFATs] = numFATs
	binary.LittleEndian.PutUint16(img.data[bpbRootEntCnt:], cfg.maxRootEntries)
	binary.LittleEndian.PutUint16(img.data[bpbTotSec16:], cfg.totalSectors)
	img.data[bpbMedia] = 0xF8
	binary.LittleEndian.PutUint16(img.data[bpbFATSz16:], cfg.fatSizeSectors)
	binary.LittleEndian.PutUint16(img.data[bootSectorSig:], bootSectorMagic)

	img.fat1Off = reserved * bps
	img.fat2Off = img.fat1Off + fatBytes
	img.rootOff = img.fat2Off + fatBytes
	img.dataOff = img.rootOff + rootBytes
	return img
}

// setFATEntry writes val at cluster index cluster in both FAT1 and FAT2,
// keeping them identical unless corruptFAT2 is subsequently called.
func (img *testImage) setFATEntry(cluster uint16, val uint16) {
	off := uint32(cluster) * 2
	binary.LittleEndian.PutUint16(img.data[img.fat1Off+off:], val)
	binary.LittleEndian.PutUint16(img.data[img.fat2Off+off:], val)
}

// corruptFAT2 flips every bit of the byte at byteOffset within FAT2 only,
// producing a FAT1/FAT2 mismatch for S6-style tests.
func (img *testImage) corruptFAT2(byteOffset uint32) {
	img.data[img.fat2Off+byteOffset] ^= 0xFF
}

func (img *testImage) setDirEntry(index int, sfn [sfnNameLen]byte, attr byte, firstCluster uint16, size uint32) {
	off := img.rootOff + uint32(index)*sfnEntrySize
	e := img.data[off : off+sfnEntrySize]
	copy(e[dirNameOff:], sfn[:])
	e[dirAttrOff] = attr
	binary.LittleEndian.PutUint16(e[dirFstClusLOOff:], firstCluster)
	binary.LittleEndian.PutUint32(e[dirFileSizeOff:], size)
}

// writeClusterData copies data (at most one cluster's worth) into the
// data region at the given cluster number (>= 2).
func (img *testImage) writeClusterData(cluster uint16, data []byte) {
	clusterSize := uint32(img.cfg.sectorsPerCluster) * 512
	sector := img.dataOff/512 + (uint32(cluster)-clusterMinData)*uint32(img.cfg.sectorsPerCluster)
	off := sector * 512
	copy(img.data[off:off+clusterSize], data)
}

func (img *testImage) blockDevice() (*MemoryBlockDevice, error) {
	return NewMemoryBlockDevice(img.data)
}

func mustSFN(name string) [sfnNameLen]byte {
	sfn, err := printableToSFN(name)
	if err != nil {
		panic(err)
	}
	return sfn
}
