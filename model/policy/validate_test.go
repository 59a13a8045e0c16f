package policy

import (
	"math"
	"testing"

	. "github.com/prashantv/gostub"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/sys/unix"

	"github.com/intel/schedtool/lib/proc"
)

func stubRanges(ranges map[int][2]int) *Stubs {
	stubs := Stub(&proc.GetPriorityMin, func(policy int) (int, error) {
		r, ok := ranges[policy]
		if !ok {
			return 0, unix.EINVAL
		}
		return r[0], nil
	})
	stubs.Stub(&proc.GetPriorityMax, func(policy int) (int, error) {
		r, ok := ranges[policy]
		if !ok {
			return 0, unix.EINVAL
		}
		return r[1], nil
	})
	return stubs
}

func TestValidatePriority(t *testing.T) {
	Convey("Test validate static priority", t, func() {
		stubs := stubRanges(map[int][2]int{0: {0, 0}, 1: {1, 99}, 2: {1, 99}, 3: {0, 0}})
		defer stubs.Reset()

		Convey("Time sharing classes need priority 0", func() {
			for _, c := range []Class{Normal, Batch} {
				So(ValidatePriority(c, 0), ShouldBeNil)
				err := ValidatePriority(c, 5)
				So(err, ShouldHaveSameTypeAs, &StaticPriorityMustBeZeroError{})
				So(err.(*StaticPriorityMustBeZeroError).Class, ShouldEqual, c)
				So(err.Error(), ShouldContainSubstring, c.Name())
			}
		})

		Convey("Priorities beyond a C int are rejected for every class", func() {
			prio := math.MaxInt32 + 2
			for _, c := range []Class{IdlePrio, Class(7), FIFO} {
				err := ValidatePriority(c, prio)
				So(err, ShouldHaveSameTypeAs, &PriorityOutOfRangeError{})
				So(err.(*PriorityOutOfRangeError).Max, ShouldEqual, math.MaxInt32)
			}
			So(ValidatePriority(IdlePrio, 0), ShouldBeNil)
		})

		Convey("Real time classes accept the bounds", func() {
			for _, c := range []Class{FIFO, RR} {
				So(ValidatePriority(c, 1), ShouldBeNil)
				So(ValidatePriority(c, 50), ShouldBeNil)
				So(ValidatePriority(c, 99), ShouldBeNil)
			}
		})

		Convey("Real time classes reject values outside the range", func() {
			for _, prio := range []int{-1, 100} {
				err := ValidatePriority(RR, prio)
				So(err, ShouldHaveSameTypeAs, &PriorityOutOfRangeError{})
				e := err.(*PriorityOutOfRangeError)
				So(e.Requested, ShouldEqual, prio)
				So(e.Min, ShouldEqual, 1)
				So(e.Max, ShouldEqual, 99)
				So(e.Class, ShouldEqual, RR)
			}
		})

		Convey("Priority 0 on a real time class is a missing priority", func() {
			err := ValidatePriority(RR, 0)
			So(err, ShouldHaveSameTypeAs, &MissingStaticPriorityError{})
			So(err.(*MissingStaticPriorityError).Max, ShouldEqual, 99)
		})

		Convey("ISO is checked when the kernel implements it", func() {
			err := ValidatePriority(ISO, 0)
			So(err, ShouldHaveSameTypeAs, &RangeQueryError{})
			So(err.(*RangeQueryError).Unwrap(), ShouldEqual, unix.EINVAL)

			stubs.Stub(&proc.GetPriorityMin, func(int) (int, error) { return 0, nil })
			stubs.Stub(&proc.GetPriorityMax, func(int) (int, error) { return 0, nil })
			So(ValidatePriority(ISO, 0), ShouldBeNil)
			So(ValidatePriority(ISO, 3), ShouldHaveSameTypeAs, &PriorityOutOfRangeError{})
		})

		Convey("Idle and raw classes are left to the kernel", func() {
			So(ValidatePriority(IdlePrio, 7), ShouldBeNil)
			So(ValidatePriority(Class(42), -3), ShouldBeNil)
		})
	})
}

func TestValidateNice(t *testing.T) {
	Convey("Test validate niceness", t, func() {
		for _, n := range []int{-20, 0, 10, 20} {
			So(ValidateNice(n), ShouldBeNil)
		}
		for _, n := range []int{-21, 21, 100} {
			err := ValidateNice(n)
			So(err, ShouldHaveSameTypeAs, &NicenessOutOfRangeError{})
			So(err.(*NicenessOutOfRangeError).Nice, ShouldEqual, n)
		}
	})
}

func TestProbe(t *testing.T) {
	Convey("Test probe priority ranges", t, func() {
		stubs := stubRanges(map[int][2]int{0: {0, 0}, 1: {1, 99}, 2: {1, 99}, 3: {0, 0}, 5: {0, 0}})
		defer stubs.Reset()

		ranges := Probe()
		So(len(ranges), ShouldEqual, 6)
		So(ranges[1].Supported, ShouldBeTrue)
		So(ranges[1].String(), ShouldEqual, "F: SCHED_FIFO    : prio_min 1, prio_max 99")
		So(ranges[4].Supported, ShouldBeFalse)
		So(ranges[4].String(), ShouldEqual, "I: SCHED_ISO     : policy not implemented")
	})
}
