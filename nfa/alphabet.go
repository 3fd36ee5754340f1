package nfa

// ByteClasses maps each byte value to its equivalence class.
//
// Two bytes share a class when no range on any NFA edge separates them, so
// every automaton built from the NFA treats them identically. Transition rows
// are then indexed by class instead of by byte.
//
// Example for the rules [a-z]+ and [0-9]+:
//   - Class 0: 0x00-0x2f
//   - Class 1: '0'-'9'
//   - Class 2: 0x3a-0x60
//   - Class 3: 'a'-'z'
//   - Class 4: 0x7b-0xff
//
// Classes are numbered in increasing byte order, so the class of 0xff is
// always the highest.
type ByteClasses struct {
	classes [256]byte
}

// NewByteClasses creates a new ByteClasses where all bytes are in class 0.
func NewByteClasses() ByteClasses {
	return ByteClasses{}
}

// SingletonByteClasses creates ByteClasses where each byte is its own class.
func SingletonByteClasses() ByteClasses {
	var bc ByteClasses
	for i := 0; i < 256; i++ {
		bc.classes[i] = byte(i)
	}
	return bc
}

// Get returns the equivalence class for the given byte.
func (bc *ByteClasses) Get(b byte) byte {
	return bc.classes[b]
}

// AlphabetLen returns the total number of equivalence classes.
func (bc *ByteClasses) AlphabetLen() int {
	return int(bc.classes[255]) + 1
}

// IsSingleton returns true if each byte is its own equivalence class.
func (bc *ByteClasses) IsSingleton() bool {
	return bc.AlphabetLen() == 256
}

// IsEmpty returns true if all bytes are in the same equivalence class.
func (bc *ByteClasses) IsEmpty() bool {
	return bc.AlphabetLen() == 1
}

// Table returns a copy of the byte to class mapping.
func (bc *ByteClasses) Table() [256]byte {
	return bc.classes
}

// Representatives returns one byte per class, in class order.
// Any representative can stand in for every byte of its class.
func (bc *ByteClasses) Representatives() []byte {
	reps := make([]byte, 0, bc.AlphabetLen())
	for b := 0; b < 256; b++ {
		if b == 0 || bc.classes[b] != bc.classes[b-1] {
			reps = append(reps, byte(b))
		}
	}
	return reps
}

// Elements returns all bytes that belong to the given equivalence class.
func (bc *ByteClasses) Elements(class byte) []byte {
	var elems []byte
	for b := 0; b < 256; b++ {
		if bc.classes[b] == class {
			elems = append(elems, byte(b))
		}
	}
	return elems
}

// ByteClassSet tracks byte boundaries during NFA construction.
//
// For each range [lo, hi] on an edge, lo-1 and hi are marked as boundaries.
// Walking the bytes in order and bumping the class after each boundary
// yields the coarsest partition that respects every range.
type ByteClassSet struct {
	// bits is a 256-bit bitset where bit i is set if byte i is a class boundary
	bits [4]uint64
}

// NewByteClassSet creates an empty ByteClassSet with no boundaries.
func NewByteClassSet() *ByteClassSet {
	return &ByteClassSet{}
}

// SetRange marks a byte range [start, end] as having distinct transitions.
func (bcs *ByteClassSet) SetRange(start, end byte) {
	if start > 0 {
		bcs.setBit(start - 1)
	}
	bcs.setBit(end)
}

// SetByte marks a single byte as having a distinct transition.
func (bcs *ByteClassSet) SetByte(b byte) {
	bcs.SetRange(b, b)
}

func (bcs *ByteClassSet) setBit(b byte) {
	bcs.bits[b/64] |= 1 << (b % 64)
}

func (bcs *ByteClassSet) getBit(b byte) bool {
	return bcs.bits[b/64]&(1<<(b%64)) != 0
}

// ByteClasses converts the boundary set into a ByteClasses lookup table.
func (bcs *ByteClassSet) ByteClasses() ByteClasses {
	var bc ByteClasses
	class := byte(0)

	for b := 0; b < 256; b++ {
		bc.classes[b] = class
		// The boundary at 0xff never opens a new class.
		if b < 255 && bcs.getBit(byte(b)) {
			class++
		}
	}

	return bc
}

// Merge combines another ByteClassSet into this one.
func (bcs *ByteClassSet) Merge(other *ByteClassSet) {
	for i := range bcs.bits {
		bcs.bits[i] |= other.bits[i]
	}
}
