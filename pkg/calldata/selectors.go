// Package calldata builds the bit-exact calldata the two sandwich helper
// contracts expect: the search-path "lil router" and the production
// sandwich contract. Both contracts are externally compiled artifacts;
// these builders only need to match their opaque calldata layouts exactly
// — fixed-width fields packed behind a raw selector rather than a full
// Solidity-style ABI, matching how a hand-optimized Huff contract is
// typically called.
package calldata

// Selectors are 4-byte opaque tags, fixed by the compiled contracts they
// target. They are not derived from a Solidity signature because both
// contracts are hand-optimized (one a minimal router, one written in Huff)
// and do not necessarily expose a canonical human-readable signature.
var (
	selectorSwapV2 = [4]byte{0x11, 0x11, 0x11, 0x01}
	selectorSwapV3 = [4]byte{0x11, 0x11, 0x11, 0x02}

	selectorV2Frontrun = [4]byte{0x22, 0x22, 0x22, 0x01}
	selectorV2Backrun  = [4]byte{0x22, 0x22, 0x22, 0x02}
	selectorV3Frontrun = [4]byte{0x22, 0x22, 0x22, 0x03}
	selectorV3Backrun  = [4]byte{0x22, 0x22, 0x22, 0x04}
)
