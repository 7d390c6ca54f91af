// Package wire encodes the PKZIP records emitted by the archive
// writer. All integers are little-endian; layouts follow the PKWARE
// APPNOTE with the Zip64 extensions.
package wire

import (
	"encoding/binary"
	"math"
)

// Record signatures. Signature values begin with the two byte marker
// 0x4b50, the characters "PK".
const (
	LocalHeaderSignature    uint32 = 0x04034b50
	DataDescriptorSignature uint32 = 0x08074b50
	CentralHeaderSignature  uint32 = 0x02014b50
	Zip64EndOfDirSignature  uint32 = 0x06064b50
	Zip64LocatorSignature   uint32 = 0x07064b50
	EndOfDirSignature       uint32 = 0x06054b50
)

// Fixed record lengths, excluding variable-length name/extra/comment.
const (
	LocalHeaderLen    = 30
	DataDescriptorLen = 24 // Zip64 form: sig + crc + two 8-byte sizes
	CentralHeaderLen  = 46
	Zip64EndOfDirLen  = 56
	Zip64LocatorLen   = 20
	EndOfDirLen       = 22
)

// zipVersion45 is the version needed to read and write Zip64 archives.
const zipVersion45 = 45

// flagDescriptorUTF8 sets bit 3 (CRC and sizes follow the payload in a
// data descriptor) and bit 11 (the name is UTF-8 encoded).
const flagDescriptorUTF8 uint16 = 0x0808

// zip64ExtraID tags the Zip64 extended-information extra field.
const zip64ExtraID uint16 = 0x0001

// localZip64Placeholder is the empty Zip64 extra carried by every local
// header: tag 0x0001 with a zero-length body. Present on all entries
// for format regularity even when sizes fit in 32 bits.
var localZip64Placeholder = []byte{0x01, 0x00, 0x00, 0x00}

// LocalHeader describes the fields of a member's local file header
// whose values are known before the payload is written.
type LocalHeader struct {
	Method  uint16
	ModTime uint16
	ModDate uint16
	Name    []byte
}

// Encode returns the encoded local header. CRC and sizes are zero; the
// data descriptor carries the real values.
func (h LocalHeader) Encode() []byte {
	buf := make([]byte, LocalHeaderLen+len(h.Name)+len(localZip64Placeholder))

	binary.LittleEndian.PutUint32(buf[0:4], LocalHeaderSignature)
	binary.LittleEndian.PutUint16(buf[4:6], zipVersion45)
	binary.LittleEndian.PutUint16(buf[6:8], flagDescriptorUTF8)
	binary.LittleEndian.PutUint16(buf[8:10], h.Method)
	binary.LittleEndian.PutUint16(buf[10:12], h.ModTime)
	binary.LittleEndian.PutUint16(buf[12:14], h.ModDate)
	binary.LittleEndian.PutUint16(buf[26:28], uint16(len(h.Name)))
	binary.LittleEndian.PutUint16(buf[28:30], uint16(len(localZip64Placeholder)))

	n := copy(buf[LocalHeaderLen:], h.Name)
	copy(buf[LocalHeaderLen+n:], localZip64Placeholder)

	return buf
}

// EncodeDataDescriptor returns the Zip64-form data descriptor for a
// finished member.
func EncodeDataDescriptor(crc uint32, compressed, uncompressed uint64) []byte {
	buf := make([]byte, DataDescriptorLen)

	binary.LittleEndian.PutUint32(buf[0:4], DataDescriptorSignature)
	binary.LittleEndian.PutUint32(buf[4:8], crc)
	binary.LittleEndian.PutUint64(buf[8:16], compressed)
	binary.LittleEndian.PutUint64(buf[16:24], uncompressed)

	return buf
}

// CentralHeader describes a member's central directory record.
type CentralHeader struct {
	Method       uint16
	ModTime      uint16
	ModDate      uint16
	CRC32        uint32
	Compressed   uint64
	Uncompressed uint64
	Offset       uint64
	Name         []byte
	Comment      []byte
}

// Encode returns the encoded central directory record. Each 64-bit
// quantity that overflows its 32-bit slot is clamped to 0xFFFFFFFF in
// the fixed header and appended to a Zip64 extra field in the order
// uncompressed size, compressed size, offset. The extra is omitted
// entirely when every value fits.
func (h CentralHeader) Encode() []byte {
	extra := h.zip64Extra()
	buf := make([]byte, CentralHeaderLen+len(h.Name)+len(extra)+len(h.Comment))

	binary.LittleEndian.PutUint32(buf[0:4], CentralHeaderSignature)
	binary.LittleEndian.PutUint16(buf[4:6], zipVersion45)
	binary.LittleEndian.PutUint16(buf[6:8], zipVersion45)
	binary.LittleEndian.PutUint16(buf[8:10], flagDescriptorUTF8)
	binary.LittleEndian.PutUint16(buf[10:12], h.Method)
	binary.LittleEndian.PutUint16(buf[12:14], h.ModTime)
	binary.LittleEndian.PutUint16(buf[14:16], h.ModDate)
	binary.LittleEndian.PutUint32(buf[16:20], h.CRC32)
	binary.LittleEndian.PutUint32(buf[20:24], clamp32(h.Compressed))
	binary.LittleEndian.PutUint32(buf[24:28], clamp32(h.Uncompressed))
	binary.LittleEndian.PutUint16(buf[28:30], uint16(len(h.Name)))
	binary.LittleEndian.PutUint16(buf[30:32], uint16(len(extra)))
	binary.LittleEndian.PutUint16(buf[32:34], uint16(len(h.Comment)))
	// disk number start, internal and external attributes stay zero
	binary.LittleEndian.PutUint32(buf[42:46], clamp32(h.Offset))

	off := CentralHeaderLen
	off += copy(buf[off:], h.Name)
	off += copy(buf[off:], extra)
	copy(buf[off:], h.Comment)

	return buf
}

// zip64Extra returns the Zip64 extended-information extra for h, or nil
// when all three quantities fit in 32 bits.
func (h CentralHeader) zip64Extra() []byte {
	var body []byte
	for _, v := range []uint64{h.Uncompressed, h.Compressed, h.Offset} {
		if v > math.MaxUint32 {
			body = binary.LittleEndian.AppendUint64(body, v)
		}
	}
	if body == nil {
		return nil
	}

	extra := make([]byte, 4, 4+len(body))
	binary.LittleEndian.PutUint16(extra[0:2], zip64ExtraID)
	binary.LittleEndian.PutUint16(extra[2:4], uint16(len(body)))
	return append(extra, body...)
}

// EncodeZip64EndOfDir returns the Zip64 end-of-central-directory record.
func EncodeZip64EndOfDir(entries, dirSize, dirOffset uint64) []byte {
	buf := make([]byte, Zip64EndOfDirLen)

	binary.LittleEndian.PutUint32(buf[0:4], Zip64EndOfDirSignature)
	binary.LittleEndian.PutUint64(buf[4:12], Zip64EndOfDirLen-12)
	binary.LittleEndian.PutUint16(buf[12:14], zipVersion45)
	binary.LittleEndian.PutUint16(buf[14:16], zipVersion45)
	// this disk and central directory start disk stay zero
	binary.LittleEndian.PutUint64(buf[24:32], entries)
	binary.LittleEndian.PutUint64(buf[32:40], entries)
	binary.LittleEndian.PutUint64(buf[40:48], dirSize)
	binary.LittleEndian.PutUint64(buf[48:56], dirOffset)

	return buf
}

// EncodeZip64Locator returns the Zip64 end-of-central-directory locator
// pointing at the record emitted at endOfDirOffset.
func EncodeZip64Locator(endOfDirOffset uint64) []byte {
	buf := make([]byte, Zip64LocatorLen)

	binary.LittleEndian.PutUint32(buf[0:4], Zip64LocatorSignature)
	// disk of the Zip64 end-of-directory record stays zero
	binary.LittleEndian.PutUint64(buf[8:16], endOfDirOffset)
	binary.LittleEndian.PutUint32(buf[16:20], 1)

	return buf
}

// EncodeEndOfDir returns the classic end-of-central-directory record.
// Counts and positions that overflow their 16- or 32-bit slots are
// clamped; readers fall back to the Zip64 record for the real values.
func EncodeEndOfDir(entries, dirSize, dirOffset uint64, comment []byte) []byte {
	buf := make([]byte, EndOfDirLen+len(comment))

	binary.LittleEndian.PutUint32(buf[0:4], EndOfDirSignature)
	// this disk and central directory disk stay zero
	binary.LittleEndian.PutUint16(buf[8:10], clamp16(entries))
	binary.LittleEndian.PutUint16(buf[10:12], clamp16(entries))
	binary.LittleEndian.PutUint32(buf[12:16], clamp32(dirSize))
	binary.LittleEndian.PutUint32(buf[16:20], clamp32(dirOffset))
	binary.LittleEndian.PutUint16(buf[20:22], uint16(len(comment)))

	copy(buf[EndOfDirLen:], comment)

	return buf
}

func clamp32(v uint64) uint32 {
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}

func clamp16(v uint64) uint16 {
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}
