package memory

import (
	"fmt"

	"github.com/kestrel-oss/pocketgb/gb/gberr"
)

// Header offsets, spec §6.
const (
	entryPointAddr = 0x0100
	logoAddr       = 0x0104
	logoLength     = 48
	titleAddr      = 0x0134
	titleLength    = 11
	cgbFlagAddr    = 0x0143
	cartTypeAddr   = 0x0147
	romSizeAddr    = 0x0148
	ramSizeAddr    = 0x0149
	headerChkAddr  = 0x014D
)

// nintendoLogo is the 48-byte bitmap every valid cartridge header embeds
// at 0x0104-0x0133; the boot sequence refuses to start without an exact
// match on real hardware.
var nintendoLogo = [logoLength]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B, 0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E, 0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC, 0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

// MBCType identifies which memory bank controller a cartridge header asks
// for. Only None/MBC1/MBC3 are supported, matching spec §4.2's scope.
type MBCType uint8

const (
	MBCNone MBCType = iota
	MBC1Type
	MBC3Type
)

// Cartridge holds the immutable ROM image and the decoded header fields
// used to select and construct an MBC.
type Cartridge struct {
	ROM []byte

	Title    string
	CGBFlag  byte
	MBCType  MBCType
	HasRAM   bool
	HasRTC   bool
	RAMBanks int
}

// NewEmptyCartridge returns a cartridge with no ROM loaded, useful for an
// MMU constructed before a ROM is available.
func NewEmptyCartridge() *Cartridge {
	return &Cartridge{ROM: make([]byte, 0x8000), MBCType: MBCNone}
}

// LoadCartridge parses and validates a ROM image per spec §6: the Nintendo
// logo bitmap must match exactly, the header checksum must validate, the
// cartridge type byte must be one this core supports, and the declared ROM
// size must agree with the actual image length.
func LoadCartridge(data []byte) (*Cartridge, error) {
	if len(data) < 0x150 {
		return nil, fmt.Errorf("gb: ROM too short to contain a header: %w", gberr.ErrROMLengthMismatch)
	}

	for i := 0; i < logoLength; i++ {
		if data[logoAddr+i] != nintendoLogo[i] {
			return nil, gberr.ErrLogoMismatch
		}
	}

	if err := validateHeaderChecksum(data); err != nil {
		return nil, err
	}

	mbcType, hasRAM, hasRTC, err := decodeCartridgeType(data[cartTypeAddr])
	if err != nil {
		return nil, err
	}

	romSize, err := decodeROMSize(data[romSizeAddr])
	if err != nil {
		return nil, err
	}
	if romSize != len(data) {
		return nil, fmt.Errorf("header declares %d bytes, image is %d: %w", romSize, len(data), gberr.ErrROMLengthMismatch)
	}

	ramBanks, err := decodeRAMBanks(data[ramSizeAddr])
	if err != nil {
		return nil, err
	}

	title := decodeTitle(data)

	cart := &Cartridge{
		ROM:      data,
		Title:    title,
		CGBFlag:  data[cgbFlagAddr],
		MBCType:  mbcType,
		HasRAM:   hasRAM,
		HasRTC:   hasRTC,
		RAMBanks: ramBanks,
	}
	return cart, nil
}

// validateHeaderChecksum implements spec §6's formula exactly:
// checksum == sum(-bytes[0x134..0x14D] - 1) mod 256.
func validateHeaderChecksum(data []byte) error {
	var sum uint8
	for i := titleAddr; i < headerChkAddr; i++ {
		sum = sum - data[i] - 1
	}
	if sum != data[headerChkAddr] {
		return fmt.Errorf("computed 0x%02X, header has 0x%02X: %w", sum, data[headerChkAddr], gberr.ErrChecksumMismatch)
	}
	return nil
}

func decodeTitle(data []byte) string {
	end := titleAddr
	for ; end < titleAddr+titleLength; end++ {
		if data[end] == 0 {
			break
		}
	}
	return string(data[titleAddr:end])
}

// decodeCartridgeType maps the 0x0147 byte to a supported MBC type, per
// spec §6: 0x00 -> none, 0x01-0x03 -> MBC1, 0x0F-0x13 -> MBC3.
func decodeCartridgeType(b byte) (MBCType, bool, bool, error) {
	switch b {
	case 0x00:
		return MBCNone, false, false, nil
	case 0x01:
		return MBC1Type, false, false, nil
	case 0x02:
		return MBC1Type, true, false, nil
	case 0x03:
		return MBC1Type, true, false, nil // battery-backed, same RAM behavior
	case 0x0F:
		return MBC3Type, false, true, nil
	case 0x10:
		return MBC3Type, true, true, nil
	case 0x11:
		return MBC3Type, false, false, nil
	case 0x12:
		return MBC3Type, true, false, nil
	case 0x13:
		return MBC3Type, true, false, nil
	default:
		return 0, false, false, fmt.Errorf("type byte 0x%02X: %w", b, gberr.ErrUnknownCartridgeType)
	}
}

// decodeROMSize maps the 0x0148 byte to the expected ROM length in bytes:
// 32 KiB << value, for values 0x00..0x08 (spec §6).
func decodeROMSize(b byte) (int, error) {
	if b > 0x08 {
		return 0, fmt.Errorf("size byte 0x%02X: %w", b, gberr.ErrUnsupportedROMSize)
	}
	return 32 * 1024 << b, nil
}

// decodeRAMBanks maps the 0x0149 byte to a number of 8 KiB external RAM
// banks, per spec §6: 0/1/2 -> 8 KiB (1 bank), 3 -> 32 KiB (4 banks),
// 4 -> 128 KiB (16 banks), 5 -> 64 KiB (8 banks).
func decodeRAMBanks(b byte) (int, error) {
	switch b {
	case 0x00, 0x01, 0x02:
		return 1, nil
	case 0x03:
		return 4, nil
	case 0x04:
		return 16, nil
	case 0x05:
		return 8, nil
	default:
		return 0, fmt.Errorf("ram size byte 0x%02X: %w", b, gberr.ErrUnsupportedRAMSize)
	}
}
