package process

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/prashantv/gostub"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/sys/unix"

	apperror "github.com/intel/schedtool/api/error"
	"github.com/intel/schedtool/lib/proc"
	"github.com/intel/schedtool/lib/util"
	"github.com/intel/schedtool/model/policy"
)

func TestSetPolicy(t *testing.T) {
	Convey("Test set scheduling policy", t, func() {
		var gotPid, gotPolicy, gotPrio int
		stubs := Stub(&proc.SetScheduler, func(pid, p, prio int) error {
			gotPid, gotPolicy, gotPrio = pid, p, prio
			return nil
		})
		defer stubs.Reset()

		So(SetPolicy(1234, policy.FIFO, 50), ShouldBeNil)
		So(gotPid, ShouldEqual, 1234)
		So(gotPolicy, ShouldEqual, 1)
		So(gotPrio, ShouldEqual, 50)

		Convey("A failure names the pid and the class", func() {
			stubs.StubFunc(&proc.SetScheduler, unix.EPERM)
			err := SetPolicy(1234, policy.RR, 10)
			So(err, ShouldHaveSameTypeAs, &TargetError{})
			So(err.Error(), ShouldEqual, "could not set PID 1234 to R: SCHED_RR")
			So(errors.Cause(err), ShouldEqual, unix.EPERM)
			So(apperror.Describe(err), ShouldEqual, unix.EPERM.Error())
		})

		Convey("A failure on a raw class shows the number", func() {
			stubs.StubFunc(&proc.SetScheduler, unix.EINVAL)
			err := SetPolicy(7, policy.Class(9), 0)
			So(err.Error(), ShouldEqual, "could not set PID 7 to raw policy #9")
			So(err.(*TargetError).Op, ShouldEqual, OpPolicy)
		})
	})
}

func TestSetNice(t *testing.T) {
	Convey("Test set niceness", t, func() {
		stubs := StubFunc(&proc.SetNice, nil)
		defer stubs.Reset()
		So(SetNice(10, -5), ShouldBeNil)

		stubs.StubFunc(&proc.SetNice, unix.EACCES)
		err := SetNice(10, -5)
		So(err.Error(), ShouldEqual, "could not set PID 10 to nice -5")
		So(errors.Cause(err), ShouldEqual, unix.EACCES)
	})
}

func TestSetAffinity(t *testing.T) {
	Convey("Test set affinity", t, func() {
		var got *util.Bitmap
		stubs := Stub(&proc.SetCPUAffinity, func(pid int, b *util.Bitmap) error {
			got = b
			return nil
		})
		defer stubs.Reset()

		mask, _ := util.ParseBitmap("0,2")
		So(SetAffinity(3, mask), ShouldBeNil)
		So(got.Equal(mask), ShouldBeTrue)

		stubs.StubFunc(&proc.SetCPUAffinity, unix.EINVAL)
		err := SetAffinity(3, mask)
		So(err.Error(), ShouldEqual, "could not set PID 3 to affinity 0x5")
		So(apperror.Describe(err), ShouldEqual, "value out of range / policy not implemented")
	})
}
