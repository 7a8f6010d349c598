// Package budget tracks bytes emitted by one generation run against a target ceiling.
//
// A Budget answers the three questions every generator loop asks: may another unit be
// produced, how much has been produced so far, and where a byte-exact dialect should cut
// its finished buffer. A Budget belongs to exactly one run and is never shared.
package budget

// DefaultUnitCap bounds the number of units a single run may record.
const DefaultUnitCap = 1 << 22

// Budget is the byte-size ceiling governing when a generation loop stops.
type Budget struct {
	target  uint64
	emitted uint64

	firstUnit uint64
	largest   uint64

	units   int
	unitCap int
}

// New creates a Budget for target bytes. A non-positive unitCap selects DefaultUnitCap.
func New(target uint64, unitCap int) *Budget {
	if unitCap <= 0 {
		unitCap = DefaultUnitCap
	}
	return &Budget{target: target, unitCap: unitCap}
}

// Target returns the byte ceiling.
func (b *Budget) Target() uint64 { return b.target }

// Emitted returns the bytes recorded so far.
func (b *Budget) Emitted() uint64 { return b.emitted }

// FirstUnit returns the size of the first recorded unit.
func (b *Budget) FirstUnit() uint64 { return b.firstUnit }

// Units returns the number of units recorded so far.
func (b *Budget) Units() int { return b.units }

// Tolerance returns the largest single unit recorded, which is the most a
// non-truncating dialect may overshoot the target by.
func (b *Budget) Tolerance() uint64 { return b.largest }

// Remaining returns the bytes left before the target is reached.
func (b *Budget) Remaining() uint64 {
	if b.emitted >= b.target {
		return 0
	}
	return b.target - b.emitted
}

// ShouldContinue reports whether another unit may be produced.
func (b *Budget) ShouldContinue() bool {
	return b.emitted < b.target && b.units < b.unitCap
}

// Record adds a unit of n bytes and returns the new total.
func (b *Budget) Record(n uint64) uint64 {
	if b.units == 0 {
		b.firstUnit = n
	}
	if n > b.largest {
		b.largest = n
	}
	b.units++
	b.emitted += n
	return b.emitted
}

// Admit records a unit of n bytes if it may be appended. The first unit is always
// admitted so output is never empty; later units are admitted while the budget still
// has room, so the last admitted unit may cross the target.
func (b *Budget) Admit(n uint64) bool {
	if b.units > 0 && !b.ShouldContinue() {
		return false
	}
	b.Record(n)
	return true
}

// Truncate clips content to the target. Any wrapper before the first unit is part of
// content and is cut like the units. The cut never goes below the first recorded unit,
// so a budget smaller than one unit still yields that many bytes.
func (b *Budget) Truncate(content []byte) []byte {
	limit := max(b.target, b.firstUnit)
	if uint64(len(content)) <= limit {
		return content
	}
	return content[:limit]
}
