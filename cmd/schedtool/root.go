package main

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	apperror "github.com/intel/schedtool/api/error"
	"github.com/intel/schedtool/lib/cpu"
	"github.com/intel/schedtool/lib/util"
	"github.com/intel/schedtool/model/engine"
	"github.com/intel/schedtool/model/policy"
	"github.com/intel/schedtool/model/process"
	"github.com/intel/schedtool/util/conf"
	applog "github.com/intel/schedtool/util/log"
	logconf "github.com/intel/schedtool/util/log/config"
	"github.com/intel/schedtool/version"
)

const longUsage = `get/set scheduling policies, niceness and CPU-affinity

  schedtool PIDS                    - query PIDS
  schedtool [OPTIONS] PIDS          - set PIDS
  schedtool [OPTIONS] -e COMMAND    - exec COMMAND

The affinity is a hex mask like 0x5 or a CPU list like 0,2 or 0-3.8.
All output, even errors, goes to stdout. The exit status is the number of
processes which could not be changed.`

const maxStatus = 255

type options struct {
	mode     engine.Mode
	class    policy.Class
	priority int
	nice     int
	affinity string
	exec     bool
	verbose  bool
	probe    bool
	version  bool
	matches  []string
	output   string
	confDir  string
	logLevel string
}

// Execute runs the command line args writing everything to out and
// returns the exit status
func Execute(args []string, out io.Writer) int {
	status := 0
	cmd := newRootCommand(out, &status)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		applog.NewDiagnostics(out).Error(err.Error())
		cmd.Usage()
		return apperror.ExitUsage
	}
	return status
}

func newRootCommand(out io.Writer, status *int) *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:           "schedtool [OPTIONS] [PIDS | -e COMMAND [ARGS]]",
		Short:         "get/set scheduling policies",
		Long:          longUsage,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().NFlag() == 0 && len(args) == 0 {
				return cmd.Help()
			}
			*status = run(cmd, o, args, out)
			return nil
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(out)

	fs := cmd.Flags()
	// options end at the first pid or command, like getopt with "+"
	fs.SetInterspersed(false)
	addClassFlags(fs, o)
	fs.IntVarP(&o.priority, "priority", "p", 0, "STATIC_PRIORITY, usually 1-99; only for FIFO, RR or ISO; higher numbers means higher priority")
	fs.IntVarP(&o.nice, "nice", "n", 0, "set niceness to NICE_LEVEL")
	fs.StringVarP(&o.affinity, "affinity", "a", "", "set CPU-affinity to bitmask or list")
	fs.BoolVarP(&o.exec, "exec", "e", false, "start COMMAND [ARGS] with the specified parameters")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "be verbose, print each process after setting it")
	fs.BoolVarP(&o.probe, "probe", "r", false, "display the static priority range of every policy")
	fs.StringArrayVar(&o.matches, "match", nil, "also apply to processes whose command line matches GLOB")
	fs.StringVarP(&o.output, "output", "o", "", "report format: text, json or yaml")
	fs.StringVar(&o.confDir, "conf-dir", "", "directory of the config file")
	fs.StringVar(&o.logLevel, "log-level", "", "log level of internal logging")
	fs.BoolVar(&o.version, "version", false, "print version and exit")
	return cmd
}

func run(cmd *cobra.Command, o *options, args []string, out io.Writer) int {
	diag := applog.NewDiagnostics(out)

	v := viper.New()
	v.BindPFlag("log-level", cmd.Flags().Lookup("log-level"))
	v.BindPFlag("output.format", cmd.Flags().Lookup("output"))
	if err := conf.Init(v, o.confDir); err != nil {
		diag.Errorf("Init config failed: %v", err)
		return apperror.ExitUsage
	}
	if err := applog.Init(logconf.NewConfig(v)); err != nil {
		diag.Errorf("Init log failed: %v", err)
		return apperror.ExitUsage
	}

	if o.version {
		fmt.Fprintln(out, version.String())
		return 0
	}
	if o.probe {
		probe(out)
		return 0
	}

	r, err := buildRequest(cmd, o, args)
	if err != nil {
		diag.Error(err.Error())
		return apperror.ExitUsage
	}
	renderer, err := process.NewRenderer(v.GetString("output.format"))
	if err != nil {
		diag.Error(err.Error())
		return apperror.ExitUsage
	}

	s, err := engine.New(out, renderer).Run(r)
	if err != nil {
		if ae, ok := err.(*apperror.AppError); ok {
			return ae.Code
		}
		return apperror.ExitUsage
	}
	logrus.Debugf("%d targets, %d failed, %d skipped", len(s.Results), s.Failed, s.Skipped)
	// the status is truncated to 8 bits by the kernel
	if s.Failed > maxStatus {
		return maxStatus
	}
	return s.Failed
}

func buildRequest(cmd *cobra.Command, o *options, args []string) (*engine.Request, error) {
	r := &engine.Request{
		Mode:     o.mode,
		Class:    o.class,
		Priority: o.priority,
		Nice:     o.nice,
		Args:     args,
		Matches:  o.matches,
	}
	fs := cmd.Flags()
	if fs.Changed("nice") {
		r.Mode |= engine.ModeNice
	}
	if fs.Changed("affinity") {
		mask, err := util.ParseBitmap(o.affinity)
		if err != nil {
			return nil, err
		}
		r.Affinity = mask
		r.Mode |= engine.ModeAffinity
	}
	if o.exec {
		r.Mode |= engine.ModeExec
	}
	if o.verbose {
		r.Mode |= engine.ModePrint
	}
	return r, nil
}

func probe(out io.Writer) {
	for _, r := range policy.Probe() {
		fmt.Fprintln(out, r.String())
	}
	if n, err := cpu.HostCPUNum(); err == nil {
		fmt.Fprintf(out, "CPUs: %d\n", n)
	}
}
