package mbr

import (
	"encoding/binary"
	"testing"
)

func buildTestMBR(partitionIdx int, partType PartitionType, startLBA uint32) []byte {
	data := make([]byte, 512)
	binary.LittleEndian.PutUint16(data[bootSignatureOff:], BootSignature)
	off := pteOffset + partitionIdx*pteLen
	data[off+4] = byte(partType)
	binary.LittleEndian.PutUint32(data[off+8:], startLBA)
	return data
}

func TestFindFAT16PartitionFindsEntry(t *testing.T) {
	data := buildTestMBR(1, PartitionTypeFAT16B, 2048)
	start, ok := FindFAT16Partition(data)
	if !ok {
		t.Fatal("FindFAT16Partition: not found, want found")
	}
	if start != 2048 {
		t.Fatalf("start = %d, want 2048", start)
	}
}

func TestFindFAT16PartitionNoMatch(t *testing.T) {
	data := buildTestMBR(0, PartitionTypeLinux, 2048)
	if _, ok := FindFAT16Partition(data); ok {
		t.Fatal("FindFAT16Partition: found a Linux partition, want not found")
	}
}

func TestFindFAT16PartitionBadSignature(t *testing.T) {
	data := make([]byte, 512)
	if _, ok := FindFAT16Partition(data); ok {
		t.Fatal("FindFAT16Partition: found on zeroed (signature-less) MBR")
	}
}

func TestFindFAT16PartitionTooShort(t *testing.T) {
	if _, ok := FindFAT16Partition(make([]byte, 10)); ok {
		t.Fatal("FindFAT16Partition: found on too-short input")
	}
}
