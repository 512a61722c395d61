package mbr

// Additional FAT16 partition type bytes seen in the wild beside the primary
// PartitionTypeFAT16 (0x04): 0x06 (FAT16B, partitions >32MiB) and 0x0E
// (FAT16 LBA-addressed). All three describe the same on-disk FAT16 layout;
// only the partition-table byte differs.
const (
	PartitionTypeFAT16B   PartitionType = 0x06
	PartitionTypeFAT16LBA PartitionType = 0x0E
)

// FindFAT16Partition scans the four primary partition table entries of the
// MBR at sector0 (the first 512 bytes of a partitioned block device) for the
// first one whose type byte is 0x04, 0x06, or 0x0E, returning its starting
// LBA. ok is false if sector0 isn't a valid MBR (bad boot signature) or no
// entry matches.
//
// This is convenience sugar: callers who already know their volume's start
// sector (an unpartitioned floppy image, or one located out of band) have no
// need for it, since every fat16 API takes PartitionStart directly.
func FindFAT16Partition(sector0 []byte) (startSector uint32, ok bool) {
	bs, err := ToBootSector(sector0)
	if err != nil {
		return 0, false
	}
	if bs.BootSignature() != BootSignature {
		return 0, false
	}
	for i := 0; i < 4; i++ {
		pte := bs.PartitionTable(i)
		switch pte.PartitionType() {
		case PartitionTypeFAT16, PartitionTypeFAT16B, PartitionTypeFAT16LBA:
			return pte.StartLBA(), true
		}
	}
	return 0, false
}
