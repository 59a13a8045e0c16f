package main

import (
	"strconv"

	"github.com/spf13/pflag"

	"github.com/intel/schedtool/model/engine"
	"github.com/intel/schedtool/model/policy"
)

// classFlag is one of the policy selectors -N -F -R ... all writing to the
// same options, so the last selector on the command line wins
type classFlag struct {
	class policy.Class
	o     *options
}

func (f *classFlag) String() string { return "false" }

func (f *classFlag) Type() string { return "bool" }

func (f *classFlag) Set(s string) error {
	on, err := strconv.ParseBool(s)
	if err != nil || !on {
		return err
	}
	f.o.class = f.class
	f.o.mode |= engine.ModeSetPolicy
	return nil
}

// rawClassFlag is -M, taking a policy number or name
type rawClassFlag struct {
	o *options
}

func (f *rawClassFlag) String() string {
	if f.o.mode.Has(engine.ModeSetPolicy) {
		return strconv.Itoa(int(f.o.class))
	}
	return ""
}

func (f *rawClassFlag) Type() string { return "policy" }

func (f *rawClassFlag) Set(s string) error {
	c, err := policy.ParseClass(s)
	if err != nil {
		return err
	}
	f.o.class = c
	f.o.mode |= engine.ModeSetPolicy
	return nil
}

func addClassFlags(fs *pflag.FlagSet, o *options) {
	selectors := []struct {
		name, short string
		class       policy.Class
		usage       string
	}{
		{"normal", "N", policy.Normal, "for SCHED_NORMAL"},
		{"fifo", "F", policy.FIFO, "for SCHED_FIFO, needs -p, usually only as root"},
		{"rr", "R", policy.RR, "for SCHED_RR, needs -p, usually only as root"},
		{"batch", "B", policy.Batch, "for SCHED_BATCH"},
		{"iso", "I", policy.ISO, "for SCHED_ISO"},
		{"idleprio", "D", policy.IdlePrio, "for SCHED_IDLEPRIO"},
	}
	for _, s := range selectors {
		f := fs.VarPF(&classFlag{class: s.class, o: o}, s.name, s.short, s.usage)
		f.NoOptDefVal = "true"
	}
	fs.VarP(&rawClassFlag{o: o}, "policy", "M", "manual mode; raw number or name for POLICY")
}
