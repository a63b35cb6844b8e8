package runner

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	log "github.com/sirupsen/logrus"

	"github.com/8cylinder/toolbox/pkg/errors"
	"github.com/8cylinder/toolbox/pkg/transfer"
)

// CommandField is the log field that holds a command line. The CLI's log
// formatter renders entries carrying it as commands rather than messages.
const CommandField = "cmd"

// Mocked out for unit testing.
var runCommand = func(cmd *exec.Cmd) error {
	return cmd.Run()
}

// Runner hands transfer plans to the operating system.
type Runner struct {
	// Real runs the command. Otherwise the command line is only printed.
	Real bool

	// Echo logs the command line before running it.
	Echo bool

	Stdout io.Writer
	Stderr io.Writer
}

// New returns a runner that writes to the process's stdout and stderr.
func New(real, echo bool) Runner {
	return Runner{
		Real:   real,
		Echo:   echo,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes `plan`, or prints it if the runner isn't real.
func (r Runner) Run(ctx context.Context, plan transfer.Plan) error {
	commandLine := plan.String()
	if !r.Real {
		_, err := fmt.Fprintln(r.Stdout, commandLine)
		return err
	}

	if r.Echo {
		log.WithField(CommandField, commandLine).Info("Running command")
	}

	cmd := exec.CommandContext(ctx, plan.Binary, plan.Argv()...)
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := runCommand(cmd); err != nil {
		return errors.WithContext(err, fmt.Sprintf("run %s", plan.Binary))
	}
	return nil
}
