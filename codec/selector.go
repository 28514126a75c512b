package codec

import "math"

// costInfinite marks an option that can not win the selection.
const costInfinite = math.MaxUint64

// assessSplitting returns the payload length in bits of the best sample
// splitting option for blk and stores its k in *k.
//
// The search starts at the k chosen for the previous block and walks upward
// while the length shrinks. If the first upward step does not help it probes
// downward from the start instead. Each direction stops early once the
// fundamental sequence part shows that a further step can not pay off.
func assessSplitting(blk []uint32, ref int, k *int, kmax int) uint64 {
	thisBS := uint64(len(blk) - ref)
	start := *k
	kcur := start
	kmin := start
	noTurn := kcur == 0
	up := true
	lenMin := uint64(costInfinite)

	for {
		var fsLen uint64
		for _, v := range blk[ref:] {
			fsLen += uint64(v >> uint(kcur))
		}
		length := fsLen + thisBS*uint64(kcur+1)

		if length < lenMin {
			if lenMin != costInfinite {
				noTurn = true
			}
			lenMin = length
			kmin = kcur

			if up {
				if fsLen < thisBS || kcur >= kmax {
					if noTurn {
						break
					}
					kcur = start - 1
					up = false
					noTurn = true
				} else {
					kcur++
				}
			} else {
				if fsLen >= thisBS || kcur == 0 {
					break
				}
				kcur--
			}
		} else {
			if noTurn {
				break
			}
			kcur = start - 1
			up = false
			noTurn = true
		}
	}
	*k = kmin

	return lenMin
}

// assessSecondExtension returns the length in bits of the second extension
// option for blk, including the extra identifier bit. Evaluation stops once
// the running length reaches bound, and returns costInfinite if a pair sum
// alone exceeds it.
func assessSecondExtension(blk []uint32, bound uint64) uint64 {
	length := uint64(1)
	for i := 0; i < len(blk); i += 2 {
		if length >= bound {
			break
		}
		d := uint64(blk[i]) + uint64(blk[i+1])
		if d > bound {
			return costInfinite
		}
		length += d*(d+1)/2 + uint64(blk[i+1])
	}

	return length
}
