package chip8

import "fmt"

// Op is a raw 16-bit CHIP-8 instruction word.
type Op uint16

// Family returns the high nibble, which selects the opcode family.
func (o Op) Family() byte { return byte(o >> 12) }

// X returns the first register index.
func (o Op) X() byte { return byte(o>>8) & 0xf }

// Y returns the second register index.
func (o Op) Y() byte { return byte(o>>4) & 0xf }

// N returns the low nibble.
func (o Op) N() byte { return byte(o) & 0xf }

// KK returns the 8-bit immediate.
func (o Op) KK() byte { return byte(o) }

// Addr returns the 12-bit address field.
func (o Op) Addr() uint16 { return uint16(o) & 0xfff }

// Inst identifies a decoded operation.
type Inst byte

const (
	Unknown Inst = iota
	CLS          // 00E0
	RET          // 00EE
	JP           // 1nnn
	CALL         // 2nnn
	SEI          // 3xkk
	SNEI         // 4xkk
	SE           // 5xy0
	LDI          // 6xkk
	ADDI         // 7xkk
	LD           // 8xy0
	OR           // 8xy1
	AND          // 8xy2
	XOR          // 8xy3
	ADD          // 8xy4
	SUB          // 8xy5
	SHR          // 8xy6
	SUBN         // 8xy7
	SHL          // 8xyE
	SNE          // 9xy0
	LDA          // Annn
	JPV          // Bnnn
	RND          // Cxkk
	DRW          // Dxyn
	SKP          // Ex9E
	SKNP         // ExA1
	LDDT         // Fx07
	LDK          // Fx0A
	SETDT        // Fx15
	SETST        // Fx18
	ADDA         // Fx1E
	LDF          // Fx29
	BCD          // Fx33
	STR          // Fx55
	LDR          // Fx65
)

// Decode reports which operation o encodes. Words that match no
// operation, including the 0nnn machine-code call, decode as Unknown.
func (o Op) Decode() Inst {
	switch o.Family() {
	case 0x0:
		switch o {
		case 0x00e0:
			return CLS
		case 0x00ee:
			return RET
		}
	case 0x1:
		return JP
	case 0x2:
		return CALL
	case 0x3:
		return SEI
	case 0x4:
		return SNEI
	case 0x5:
		if o.N() == 0 {
			return SE
		}
	case 0x6:
		return LDI
	case 0x7:
		return ADDI
	case 0x8:
		switch o.N() {
		case 0x0:
			return LD
		case 0x1:
			return OR
		case 0x2:
			return AND
		case 0x3:
			return XOR
		case 0x4:
			return ADD
		case 0x5:
			return SUB
		case 0x6:
			return SHR
		case 0x7:
			return SUBN
		case 0xe:
			return SHL
		}
	case 0x9:
		if o.N() == 0 {
			return SNE
		}
	case 0xa:
		return LDA
	case 0xb:
		return JPV
	case 0xc:
		return RND
	case 0xd:
		return DRW
	case 0xe:
		switch o.KK() {
		case 0x9e:
			return SKP
		case 0xa1:
			return SKNP
		}
	case 0xf:
		switch o.KK() {
		case 0x07:
			return LDDT
		case 0x0a:
			return LDK
		case 0x15:
			return SETDT
		case 0x18:
			return SETST
		case 0x1e:
			return ADDA
		case 0x29:
			return LDF
		case 0x33:
			return BCD
		case 0x55:
			return STR
		case 0x65:
			return LDR
		}
	}
	return Unknown
}

// String returns the assembler form of o, for example "LD V3, $2A".
func (o Op) String() string {
	x, y := o.X(), o.Y()
	switch i := o.Decode(); i {
	case CLS, RET:
		return i.String()
	case JP, CALL:
		return fmt.Sprintf("%s $%03X", i, o.Addr())
	case SEI, SNEI, LDI, ADDI, RND:
		return fmt.Sprintf("%s V%X, $%02X", i, x, o.KK())
	case SE, SNE, LD, OR, AND, XOR, ADD, SUB, SUBN:
		return fmt.Sprintf("%s V%X, V%X", i, x, y)
	case SHR, SHL, SKP, SKNP:
		return fmt.Sprintf("%s V%X", i, x)
	case LDA:
		return fmt.Sprintf("LD I, $%03X", o.Addr())
	case JPV:
		return fmt.Sprintf("JP V0, $%03X", o.Addr())
	case DRW:
		return fmt.Sprintf("DRW V%X, V%X, $%X", x, y, o.N())
	case LDDT:
		return fmt.Sprintf("LD V%X, DT", x)
	case LDK:
		return fmt.Sprintf("LD V%X, K", x)
	case SETDT:
		return fmt.Sprintf("LD DT, V%X", x)
	case SETST:
		return fmt.Sprintf("LD ST, V%X", x)
	case ADDA:
		return fmt.Sprintf("ADD I, V%X", x)
	case LDF:
		return fmt.Sprintf("LD F, V%X", x)
	case BCD:
		return fmt.Sprintf("LD B, V%X", x)
	case STR:
		return fmt.Sprintf("LD [I], V%X", x)
	case LDR:
		return fmt.Sprintf("LD V%X, [I]", x)
	default:
		return fmt.Sprintf("DW $%04X", uint16(o))
	}
}

func (i Inst) String() string {
	if int(i) < len(instNames) {
		return instNames[i]
	}
	return fmt.Sprintf("Inst(%d)", byte(i))
}

var instNames = [...]string{
	Unknown: "???",
	CLS:     "CLS",
	RET:     "RET",
	JP:      "JP",
	CALL:    "CALL",
	SEI:     "SE",
	SNEI:    "SNE",
	SE:      "SE",
	LDI:     "LD",
	ADDI:    "ADD",
	LD:      "LD",
	OR:      "OR",
	AND:     "AND",
	XOR:     "XOR",
	ADD:     "ADD",
	SUB:     "SUB",
	SHR:     "SHR",
	SUBN:    "SUBN",
	SHL:     "SHL",
	SNE:     "SNE",
	LDA:     "LD",
	JPV:     "JP",
	RND:     "RND",
	DRW:     "DRW",
	SKP:     "SKP",
	SKNP:    "SKNP",
	LDDT:    "LD",
	LDK:     "LD",
	SETDT:   "LD",
	SETST:   "LD",
	ADDA:    "ADD",
	LDF:     "LD",
	BCD:     "LD",
	STR:     "LD",
	LDR:     "LD",
}
