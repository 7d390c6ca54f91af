package wire

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalHeaderEncode(t *testing.T) {
	t.Parallel()

	h := LocalHeader{
		Method:  8,
		ModTime: 0x6E11,
		ModDate: 0x4CCC,
		Name:    []byte("hello.txt"),
	}
	buf := h.Encode()

	require.Len(t, buf, LocalHeaderLen+9+4)
	assert.Equal(t, LocalHeaderSignature, binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, uint16(45), binary.LittleEndian.Uint16(buf[4:6]), "version needed")
	assert.Equal(t, uint16(0x0808), binary.LittleEndian.Uint16(buf[6:8]), "flags")
	assert.Equal(t, uint16(8), binary.LittleEndian.Uint16(buf[8:10]), "method")
	assert.Equal(t, uint16(0x6E11), binary.LittleEndian.Uint16(buf[10:12]))
	assert.Equal(t, uint16(0x4CCC), binary.LittleEndian.Uint16(buf[12:14]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[14:18]), "crc deferred")
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[18:22]), "compressed deferred")
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[22:26]), "uncompressed deferred")
	assert.Equal(t, uint16(9), binary.LittleEndian.Uint16(buf[26:28]), "name length")
	assert.Equal(t, uint16(4), binary.LittleEndian.Uint16(buf[28:30]), "extra length")
	assert.Equal(t, "hello.txt", string(buf[30:39]))
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, buf[39:43], "zip64 placeholder")
}

func TestEncodeDataDescriptor(t *testing.T) {
	t.Parallel()

	buf := EncodeDataDescriptor(0x54E1C24B, 8, 6)

	require.Len(t, buf, DataDescriptorLen)
	assert.Equal(t, DataDescriptorSignature, binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, uint32(0x54E1C24B), binary.LittleEndian.Uint32(buf[4:8]))
	assert.Equal(t, uint64(8), binary.LittleEndian.Uint64(buf[8:16]))
	assert.Equal(t, uint64(6), binary.LittleEndian.Uint64(buf[16:24]))
}

func TestCentralHeaderEncodeSmall(t *testing.T) {
	t.Parallel()

	h := CentralHeader{
		Method:       0,
		ModTime:      0x6E11,
		ModDate:      0x4CCC,
		CRC32:        0xDEADBEEF,
		Compressed:   12,
		Uncompressed: 12,
		Offset:       100,
		Name:         []byte("a.txt"),
		Comment:      []byte("note"),
	}
	buf := h.Encode()

	require.Len(t, buf, CentralHeaderLen+5+4, "no zip64 extra when sizes fit")
	assert.Equal(t, CentralHeaderSignature, binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, uint16(45), binary.LittleEndian.Uint16(buf[4:6]), "version made by")
	assert.Equal(t, uint16(45), binary.LittleEndian.Uint16(buf[6:8]), "version needed")
	assert.Equal(t, uint16(0x0808), binary.LittleEndian.Uint16(buf[8:10]))
	assert.Equal(t, uint32(0xDEADBEEF), binary.LittleEndian.Uint32(buf[16:20]))
	assert.Equal(t, uint32(12), binary.LittleEndian.Uint32(buf[20:24]))
	assert.Equal(t, uint32(12), binary.LittleEndian.Uint32(buf[24:28]))
	assert.Equal(t, uint16(5), binary.LittleEndian.Uint16(buf[28:30]), "name length")
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(buf[30:32]), "extra length")
	assert.Equal(t, uint16(4), binary.LittleEndian.Uint16(buf[32:34]), "comment length")
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(buf[34:36]), "disk start")
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(buf[36:38]), "internal attrs")
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[38:42]), "external attrs")
	assert.Equal(t, uint32(100), binary.LittleEndian.Uint32(buf[42:46]), "offset")
	assert.Equal(t, "a.txt", string(buf[46:51]))
	assert.Equal(t, "note", string(buf[51:55]))
}

func TestCentralHeaderEncodeZip64(t *testing.T) {
	t.Parallel()

	const big = uint64(4_299_161_600)
	h := CentralHeader{
		Method:       0,
		Compressed:   big,
		Uncompressed: big,
		Offset:       7,
		Name:         []byte("big.bin"),
	}
	buf := h.Encode()

	// extra: 4-byte header + two 8-byte values (uncompressed, compressed)
	require.Len(t, buf, CentralHeaderLen+7+4+16)
	assert.Equal(t, uint32(math.MaxUint32), binary.LittleEndian.Uint32(buf[20:24]), "compressed clamped")
	assert.Equal(t, uint32(math.MaxUint32), binary.LittleEndian.Uint32(buf[24:28]), "uncompressed clamped")
	assert.Equal(t, uint32(7), binary.LittleEndian.Uint32(buf[42:46]), "offset kept")
	assert.Equal(t, uint16(20), binary.LittleEndian.Uint16(buf[30:32]), "extra length")

	extra := buf[46+7:]
	assert.Equal(t, uint16(0x0001), binary.LittleEndian.Uint16(extra[0:2]), "zip64 tag")
	assert.Equal(t, uint16(16), binary.LittleEndian.Uint16(extra[2:4]), "body length")
	assert.Equal(t, big, binary.LittleEndian.Uint64(extra[4:12]), "uncompressed first")
	assert.Equal(t, big, binary.LittleEndian.Uint64(extra[12:20]), "compressed second")
}

func TestCentralHeaderEncodeZip64OffsetOnly(t *testing.T) {
	t.Parallel()

	h := CentralHeader{
		Compressed:   10,
		Uncompressed: 10,
		Offset:       uint64(math.MaxUint32) + 1,
		Name:         []byte("x"),
	}
	buf := h.Encode()

	require.Len(t, buf, CentralHeaderLen+1+4+8)
	assert.Equal(t, uint32(math.MaxUint32), binary.LittleEndian.Uint32(buf[42:46]), "offset clamped")

	extra := buf[46+1:]
	assert.Equal(t, uint16(8), binary.LittleEndian.Uint16(extra[2:4]))
	assert.Equal(t, uint64(math.MaxUint32)+1, binary.LittleEndian.Uint64(extra[4:12]))
}

func TestEncodeZip64EndOfDir(t *testing.T) {
	t.Parallel()

	buf := EncodeZip64EndOfDir(3, 150, 1000)

	require.Len(t, buf, Zip64EndOfDirLen)
	assert.Equal(t, Zip64EndOfDirSignature, binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, uint64(44), binary.LittleEndian.Uint64(buf[4:12]), "record size minus 12")
	assert.Equal(t, uint16(45), binary.LittleEndian.Uint16(buf[12:14]))
	assert.Equal(t, uint16(45), binary.LittleEndian.Uint16(buf[14:16]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[16:20]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[20:24]))
	assert.Equal(t, uint64(3), binary.LittleEndian.Uint64(buf[24:32]))
	assert.Equal(t, uint64(3), binary.LittleEndian.Uint64(buf[32:40]))
	assert.Equal(t, uint64(150), binary.LittleEndian.Uint64(buf[40:48]))
	assert.Equal(t, uint64(1000), binary.LittleEndian.Uint64(buf[48:56]))
}

func TestEncodeZip64Locator(t *testing.T) {
	t.Parallel()

	buf := EncodeZip64Locator(12345)

	require.Len(t, buf, Zip64LocatorLen)
	assert.Equal(t, Zip64LocatorSignature, binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, uint32(0), binary.LittleEndian.Uint32(buf[4:8]))
	assert.Equal(t, uint64(12345), binary.LittleEndian.Uint64(buf[8:16]))
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(buf[16:20]))
}

func TestEncodeEndOfDir(t *testing.T) {
	t.Parallel()

	comment := []byte("test archive comment")
	buf := EncodeEndOfDir(2, 92, 512, comment)

	require.Len(t, buf, EndOfDirLen+len(comment))
	assert.Equal(t, EndOfDirSignature, binary.LittleEndian.Uint32(buf[0:4]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(buf[8:10]))
	assert.Equal(t, uint16(2), binary.LittleEndian.Uint16(buf[10:12]))
	assert.Equal(t, uint32(92), binary.LittleEndian.Uint32(buf[12:16]))
	assert.Equal(t, uint32(512), binary.LittleEndian.Uint32(buf[16:20]))
	assert.Equal(t, uint16(len(comment)), binary.LittleEndian.Uint16(buf[20:22]))
	assert.Equal(t, comment, buf[22:])
}

func TestEncodeEndOfDirClamps(t *testing.T) {
	t.Parallel()

	buf := EncodeEndOfDir(1<<20, uint64(math.MaxUint32)+9, uint64(math.MaxUint32)+9, nil)

	assert.Equal(t, uint16(math.MaxUint16), binary.LittleEndian.Uint16(buf[8:10]))
	assert.Equal(t, uint16(math.MaxUint16), binary.LittleEndian.Uint16(buf[10:12]))
	assert.Equal(t, uint32(math.MaxUint32), binary.LittleEndian.Uint32(buf[12:16]))
	assert.Equal(t, uint32(math.MaxUint32), binary.LittleEndian.Uint32(buf[16:20]))
}
