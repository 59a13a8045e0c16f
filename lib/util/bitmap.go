package util

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const (
	// BitmapWords is the number of 64 bit words in a Bitmap
	BitmapWords = 16
	// BitmapLen is the number of CPUs a Bitmap can address, same as
	// CPU_SETSIZE of glibc
	BitmapLen = BitmapWords * 64
)

// ErrInvalidAffinity is matched by every affinity parse failure
var ErrInvalidAffinity = errors.New("invalid affinity specification")

// list segments which are not a cpu index or span are skipped
var errNotIndex = errors.New("not a cpu index")

// InvalidSpecificationError reports an affinity string that is neither a
// hex mask nor a CPU list
type InvalidSpecificationError struct {
	Spec   string
	Reason string
}

func (e *InvalidSpecificationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("affinity %s is not parseable", e.Spec)
	}
	return fmt.Sprintf("affinity %s is not parseable: %s", e.Spec, e.Reason)
}

// Is lets errors.Is match ErrInvalidAffinity
func (e *InvalidSpecificationError) Is(target error) bool {
	return target == ErrInvalidAffinity
}

// Bitmap is a fixed size CPU mask, bit n stands for logical CPU n
type Bitmap struct {
	Bits [BitmapWords]uint64
}

// NewBitmap creates a bit map with the given cpus set
func NewBitmap(cpus ...int) (*Bitmap, error) {
	b := new(Bitmap)
	for _, c := range cpus {
		if err := b.Set(c); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Set marks cpu in the bit map
func (b *Bitmap) Set(cpu int) error {
	if cpu < 0 || cpu >= BitmapLen {
		return fmt.Errorf("cpu %d is out of range 0-%d", cpu, BitmapLen-1)
	}
	b.Bits[cpu/64] |= 1 << uint(cpu%64)
	return nil
}

// Clear unmarks cpu, out of range values are ignored
func (b *Bitmap) Clear(cpu int) {
	if cpu < 0 || cpu >= BitmapLen {
		return
	}
	b.Bits[cpu/64] &^= 1 << uint(cpu%64)
}

// IsSet tells whether cpu is marked
func (b *Bitmap) IsSet(cpu int) bool {
	if cpu < 0 || cpu >= BitmapLen {
		return false
	}
	return b.Bits[cpu/64]&(1<<uint(cpu%64)) != 0
}

// Zero clears all bits
func (b *Bitmap) Zero() {
	b.Bits = [BitmapWords]uint64{}
}

// IsEmpty returns empty bit map or not
func (b *Bitmap) IsEmpty() bool {
	for _, v := range b.Bits {
		if v != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of set bits
func (b *Bitmap) Count() int {
	n := 0
	for _, v := range b.Bits {
		n += bits.OnesCount64(v)
	}
	return n
}

// Maximum returns the highest position of the bit map, that is the index of
// the highest set bit plus one. Zero for an empty map.
func (b *Bitmap) Maximum() int {
	for i := BitmapWords - 1; i >= 0; i-- {
		if b.Bits[i] != 0 {
			return i*64 + bits.Len64(b.Bits[i])
		}
	}
	return 0
}

// Equal compares two bit maps
func (b *Bitmap) Equal(m *Bitmap) bool {
	if b == nil || m == nil {
		return b == m
	}
	return b.Bits == m.Bits
}

// ToString returns the hex form with a 0x prefix and no zero padding,
// e.g. 0x5 for cpus 0 and 2, 0x0 for an empty map
func (b *Bitmap) ToString() string {
	top := -1
	for i := BitmapWords - 1; i >= 0; i-- {
		if b.Bits[i] != 0 {
			top = i
			break
		}
	}
	if top < 0 {
		return "0x0"
	}
	var sb strings.Builder
	sb.WriteString("0x")
	sb.WriteString(strconv.FormatUint(b.Bits[top], 16))
	for i := top - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%016x", b.Bits[i])
	}
	return sb.String()
}

// String implements fmt.Stringer with the hex form
func (b *Bitmap) String() string {
	return b.ToString()
}

// ToHumanString returns human string of the bitmap, e.g. 1-2,10-11
func (b *Bitmap) ToHumanString() string {
	hs := []string{}
	for cpu := 0; cpu < BitmapLen; cpu++ {
		if !b.IsSet(cpu) {
			continue
		}
		end := cpu
		for end+1 < BitmapLen && b.IsSet(end+1) {
			end++
		}
		if end == cpu {
			hs = append(hs, strconv.Itoa(cpu))
		} else {
			hs = append(hs, strconv.Itoa(cpu)+"-"+strconv.Itoa(end))
		}
		cpu = end
	}
	return strings.Join(hs, ",")
}

// ParseBitmap decodes an affinity specification. "0x" prefixed strings are
// read as a hex mask, anything else as a list of cpu indices separated by
// ',' or '.', where each entry is a single cpu or an inclusive "low-high"
// span. Empty list entries are skipped.
func ParseBitmap(spec string) (*Bitmap, error) {
	s := strings.TrimSpace(spec)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return parseHex(spec, s[2:])
	}
	return parseList(spec, s)
}

func parseHex(spec, digits string) (*Bitmap, error) {
	if digits == "" {
		return nil, &InvalidSpecificationError{spec, "no hex digits"}
	}
	b := new(Bitmap)
	// walk from the least significant end, 16 digits per word
	for i, end := 0, len(digits); end > 0; i, end = i+1, end-16 {
		start := end - 16
		if start < 0 {
			start = 0
		}
		v, err := strconv.ParseUint(digits[start:end], 16, 64)
		if err != nil {
			return nil, &InvalidSpecificationError{spec, "bad hex digits"}
		}
		if i >= BitmapWords {
			if v != 0 {
				return nil, &InvalidSpecificationError{spec,
					fmt.Sprintf("mask exceeds %d cpus", BitmapLen)}
			}
			continue
		}
		b.Bits[i] = v
	}
	return b, nil
}

func parseList(spec, s string) (*Bitmap, error) {
	b := new(Bitmap)
	tokens := 0
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '.'
	})
	for _, f := range fields {
		low, high, err := parseSpan(f)
		if errors.Cause(err) == errNotIndex {
			continue
		}
		if err != nil {
			return nil, &InvalidSpecificationError{spec, err.Error()}
		}
		for cpu := low; cpu <= high; cpu++ {
			if err := b.Set(cpu); err != nil {
				return nil, &InvalidSpecificationError{spec, err.Error()}
			}
		}
		tokens++
	}
	if tokens == 0 {
		return nil, &InvalidSpecificationError{spec, "no cpu given"}
	}
	return b, nil
}

// "5" or "2-6"
func parseSpan(span string) (int, int, error) {
	scopes := strings.SplitN(span, "-", 2)
	low, err := parseIndex(scopes[0])
	if err != nil {
		return 0, 0, err
	}
	if len(scopes) == 1 {
		return low, low, nil
	}
	high, err := parseIndex(scopes[1])
	if err != nil {
		return 0, 0, err
	}
	if high < low {
		return 0, 0, fmt.Errorf("span %s is reversed", span)
	}
	return low, high, nil
}

func parseIndex(s string) (int, error) {
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, errors.Wrapf(errNotIndex, "%q", s)
	}
	i, err := strconv.Atoi(s)
	if err != nil || i >= BitmapLen {
		return 0, fmt.Errorf("cpu %s is out of range 0-%d", s, BitmapLen-1)
	}
	return i, nil
}
