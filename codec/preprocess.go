package codec

// Unit-delay prediction and prediction error mapping.
//
// Each sample after the reference is predicted by its predecessor. The
// signed prediction error is folded into a non-negative value no larger than
// the sample range, so small errors of either sign get small codes.

// signExtend interprets the low bits of v below and including signBit as a
// two's complement number.
func signExtend(v, signBit uint32) int64 {
	return int64(int32((v ^ signBit) - signBit))
}

// preprocessUnsigned maps data in place. data[0] is the reference sample and
// is replaced by 0.
func preprocessUnsigned(data []uint32, xmax uint32) {
	prev := data[0]
	for i := 1; i < len(data); i++ {
		x := data[i]
		theta := min(prev, xmax-prev)
		if x >= prev {
			delta := x - prev
			if delta <= theta {
				data[i] = 2 * delta
			} else {
				data[i] = theta + delta
			}
		} else {
			delta := prev - x
			if delta <= theta {
				data[i] = 2*delta - 1
			} else {
				data[i] = theta + delta
			}
		}
		prev = x
	}
	data[0] = 0
}

// preprocessSigned maps data holding bps-bit two's complement samples.
func preprocessSigned(data []uint32, signBit uint32) {
	xmin := -int64(signBit)
	xmax := int64(signBit) - 1

	prev := signExtend(data[0], signBit)
	for i := 1; i < len(data); i++ {
		x := signExtend(data[i], signBit)
		theta := min(prev-xmin, xmax-prev)
		delta := x - prev

		var d int64
		switch {
		case delta >= 0 && delta <= theta:
			d = 2 * delta
		case delta < 0 && -delta <= theta:
			d = -2*delta - 1
		case delta >= 0:
			d = theta + delta
		default:
			d = theta - delta
		}
		data[i] = uint32(d)
		prev = x
	}
	data[0] = 0
}

// postprocessUnsigned reconstructs the sample following x from its mapped
// prediction error d.
func postprocessUnsigned(x, d, xmax uint32) uint32 {
	theta := min(x, xmax-x)
	if d <= 2*theta {
		if d&1 != 0 {
			return x - (d+1)/2
		}

		return x + d/2
	}
	if theta == x {
		return d
	}

	return x - (d - theta)
}

// postprocessSigned is postprocessUnsigned for two's complement samples.
func postprocessSigned(x int64, d uint32, signBit uint32) int64 {
	xmin := -int64(signBit)
	xmax := int64(signBit) - 1
	dd := int64(d)

	theta := min(x-xmin, xmax-x)
	if dd <= 2*theta {
		if dd&1 != 0 {
			return x - (dd+1)/2
		}

		return x + dd/2
	}
	if theta == x-xmin {
		return x + dd - theta
	}

	return x - (dd - theta)
}
