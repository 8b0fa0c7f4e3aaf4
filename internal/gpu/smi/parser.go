package smi

import (
	"context"
	"regexp"
	"strings"

	"github.com/kombatant/nvidia-oc/internal/errors"
	"github.com/kombatant/nvidia-oc/internal/exec"
)

// Lister lists the GPUs visible to nvidia-smi.
type Lister interface {
	// List runs nvidia-smi -L and returns the parsed devices.
	List(ctx context.Context) ([]GPU, error)
}

// ParserImpl is the production Lister. It runs nvidia-smi through an
// exec.Executor so tests can substitute canned output.
type ParserImpl struct {
	executor exec.Executor
}

// NewParser creates a new nvidia-smi parser with the given executor.
func NewParser(executor exec.Executor) *ParserImpl {
	return &ParserImpl{executor: executor}
}

const (
	nvidiaSMICommand = "nvidia-smi"
	listArg          = "-L"
)

// Error messages from nvidia-smi.
const (
	errMsgDriverNotLoaded = "NVIDIA-SMI has failed"
	errMsgNotFound        = "command not found"
	errMsgNoDevice        = "No devices were found"
)

// Matches: "GPU 0: NVIDIA GeForce RTX 4090 (UUID: GPU-1234...)"
var uuidRegex = regexp.MustCompile(`\(UUID:\s*([^)]+)\)`)

// List implements Lister.
func (p *ParserImpl) List(ctx context.Context) ([]GPU, error) {
	result := p.executor.Execute(ctx, nvidiaSMICommand, listArg)
	if err := p.checkExecutionError(result); err != nil {
		return nil, err
	}
	return ParseList(result.StdoutString()), nil
}

// ParseList parses nvidia-smi -L output. Lines that do not start with
// "GPU <id>:" are skipped, which drops MIG sub-device lines.
func ParseList(output string) []GPU {
	var gpus []GPU
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		rest, ok := strings.CutPrefix(line, "GPU ")
		if !ok {
			continue
		}
		id, namePart, ok := strings.Cut(rest, ":")
		if !ok {
			continue
		}
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}

		gpu := GPU{ID: id}
		name, _, _ := strings.Cut(namePart, "(")
		gpu.Name = strings.TrimSpace(name)
		if m := uuidRegex.FindStringSubmatch(namePart); len(m) == 2 {
			gpu.UUID = strings.TrimSpace(m[1])
		}
		gpus = append(gpus, gpu)
	}
	return gpus
}

// checkExecutionError checks the result for common nvidia-smi errors.
func (p *ParserImpl) checkExecutionError(result *exec.Result) error {
	if result.Error != nil {
		if strings.Contains(strings.ToLower(result.CombinedString()), errMsgNotFound) {
			return errors.New(errors.NotFound, "nvidia-smi not found: NVIDIA drivers may not be installed")
		}
		return errors.Wrap(errors.Execution, "failed to execute nvidia-smi", result.Error)
	}

	if result.ExitCode != 0 {
		combined := result.CombinedString()

		if strings.Contains(combined, errMsgDriverNotLoaded) {
			return errors.New(errors.NVML, "NVIDIA driver is not loaded: nvidia-smi cannot communicate with the driver")
		}
		if strings.Contains(combined, errMsgNoDevice) {
			return errors.New(errors.NotFound, "no NVIDIA devices found")
		}

		return errors.Newf(errors.Execution, "nvidia-smi exited with code %d: %s",
			result.ExitCode, strings.TrimSpace(combined))
	}

	return nil
}

var _ Lister = (*ParserImpl)(nil)
