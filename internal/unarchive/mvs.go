package unarchive

import (
	"fmt"
	"strings"

	"github.com/graceinfra/zoscore/internal/context"
	"github.com/graceinfra/zoscore/internal/runner"
	"github.com/graceinfra/zoscore/internal/zoau"
)

// prepareDest clears an existing destination data set when force is set.
func prepareDest(ctx *context.ExecutionContext, dest string, force bool) error {
	exists, err := ctx.ZOAU.Exists(ctx.Ctx, dest)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	if !force {
		return fmt.Errorf("%s already exists, set force to replace it", dest)
	}
	return ctx.ZOAU.Delete(ctx.Ctx, dest)
}

type terseHandler struct{}

func newTerseHandler() *terseHandler { return &terseHandler{} }

func (h *terseHandler) Format() string { return "terse" }

func (h *terseHandler) List(_ *context.ExecutionContext, src string) ([]string, error) {
	return nil, fmt.Errorf("listing the contents of terse archive %s is not supported", src)
}

func (h *terseHandler) Extract(ctx *context.ExecutionContext, req Request) ([]string, error) {
	if err := prepareDest(ctx, req.Dest, req.Force); err != nil {
		return nil, err
	}
	if err := ctx.ZOAU.Allocate(ctx.Ctx, req.Dest, zoau.AllocOptions{Type: "seq", RecordFormat: "FB", RecordLength: 1024}); err != nil {
		return nil, err
	}

	args := []string{
		"--pgm=AMATERSE",
		"--args=UNPACK",
		"--sysut1=" + req.Src,
		"--sysut2=" + req.Dest,
		"--sysprint=*",
	}
	res, err := ctx.ZOAU.MVSCmd(ctx.Ctx, true, args...)
	if err != nil {
		return nil, err
	}
	if err := runner.Check(res, ctx.ZOAU.ProgramTool(true), args...); err != nil {
		return nil, fmt.Errorf("failed to unpack %s into %s: %w", req.Src, req.Dest, err)
	}
	return []string{req.Dest}, nil
}

type xmitHandler struct{}

func newXmitHandler() *xmitHandler { return &xmitHandler{} }

func (h *xmitHandler) Format() string { return "xmit" }

func (h *xmitHandler) List(_ *context.ExecutionContext, src string) ([]string, error) {
	return nil, fmt.Errorf("listing the contents of xmit archive %s is not supported", src)
}

// Extract runs TSO RECEIVE. RECEIVE prompts for the restore options, which
// are answered on stdin with the destination.
func (h *xmitHandler) Extract(ctx *context.ExecutionContext, req Request) ([]string, error) {
	if err := prepareDest(ctx, req.Dest, req.Force); err != nil {
		return nil, err
	}

	cmd := fmt.Sprintf("RECEIVE INDSNAME('%s')", req.Src)
	if req.LogDataSet != "" {
		cmd += fmt.Sprintf(" LOGDATASET('%s')", req.LogDataSet)
	}
	answer := fmt.Sprintf("DA('%s')\n", req.Dest)

	if _, err := ctx.ZOAU.TSO(ctx.Ctx, cmd, strings.NewReader(answer)); err != nil {
		return nil, fmt.Errorf("failed to receive %s into %s: %w", req.Src, req.Dest, err)
	}
	return []string{req.Dest}, nil
}
