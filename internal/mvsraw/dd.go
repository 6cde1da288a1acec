package mvsraw

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/graceinfra/zoscore/internal/context"
	"github.com/graceinfra/zoscore/internal/paths"
	"github.com/graceinfra/zoscore/internal/zoau"
	"github.com/graceinfra/zoscore/types"
)

// contentSource is a DD whose content is returned after the program ran.
type contentSource struct {
	ddName  string
	name    string
	dataSet bool
	opts    types.ReturnContent
}

// ddBuilder turns DD statements into mvscmd arguments. Temporary files and
// data sets it creates are released by cleanup. A dryRun builder produces the
// same arguments without allocating data sets or writing files.
type ddBuilder struct {
	ctx    *context.ExecutionContext
	tmpHLQ string
	dryRun bool

	sources  []contentSource
	tmpFiles []string
	tmpDSNs  []string
	seq      int
}

func (b *ddBuilder) args(dds []types.DDStatement) ([]string, error) {
	var out []string
	for _, dd := range dds {
		name, spec, err := b.statement(dd)
		if err != nil {
			return nil, err
		}
		out = append(out, fmt.Sprintf("--%s=%s", strings.ToLower(name), spec))
	}
	return out, nil
}

// statement returns the dd name and the mvscmd spec of one DD.
func (b *ddBuilder) statement(dd types.DDStatement) (string, string, error) {
	switch {
	case dd.DataSet != nil:
		spec, err := b.dataSet(dd.DataSet)
		return dd.DataSet.DDName, spec, err
	case dd.Unix != nil:
		b.track(dd.Unix.DDName, dd.Unix.Path, false, dd.Unix.ReturnContent)
		return dd.Unix.DDName, dd.Unix.Path, nil
	case dd.Input != nil:
		spec, err := b.input(dd.Input)
		return dd.Input.DDName, spec, err
	case dd.Output != nil:
		spec, err := b.output(dd.Output)
		return dd.Output.DDName, spec, err
	case dd.Dummy != nil:
		return dd.Dummy.DDName, "dummy", nil
	case dd.Concat != nil:
		var specs []string
		for _, child := range dd.Concat.DDs {
			_, spec, err := b.statement(child)
			if err != nil {
				return "", "", err
			}
			specs = append(specs, spec)
		}
		return dd.Concat.DDName, strings.Join(specs, ":"), nil
	}
	return "", "", fmt.Errorf("empty DD statement")
}

// dataSet allocates new data sets and maps the disposition onto the mvscmd
// suffix: exclusive for new and old, append for mod, shared otherwise.
func (b *ddBuilder) dataSet(dd *types.DDDataSet) (string, error) {
	name := strings.ToUpper(dd.DataSetName)
	disp := strings.ToLower(dd.Disposition)
	if disp == "" {
		disp = "shr"
	}

	if disp == "new" {
		if name == "" {
			b.seq++
			tmp, err := paths.TempDataSetName(b.tmpHLQ, fmt.Sprintf("%s/%s/%d", b.ctx.InvocationId, dd.DDName, b.seq))
			if err != nil {
				return "", err
			}
			name = tmp
			if !b.dryRun {
				b.tmpDSNs = append(b.tmpDSNs, name)
			}
		}
		if !b.dryRun {
			if err := b.allocate(name, dd); err != nil {
				return "", err
			}
		}
	}

	b.track(dd.DDName, name, true, dd.ReturnContent)

	switch disp {
	case "new", "old":
		return name + ",excl", nil
	case "mod":
		return name + ",mod", nil
	default:
		return name, nil
	}
}

func (b *ddBuilder) allocate(name string, dd *types.DDDataSet) error {
	z := b.ctx.ZOAU
	exists, err := z.Exists(b.ctx.Ctx, name)
	if err != nil {
		return err
	}
	if exists {
		switch {
		case dd.Reuse:
			return nil
		case dd.Replace:
			if err := z.Delete(b.ctx.Ctx, name); err != nil {
				return err
			}
		default:
			return fmt.Errorf("data set %s already exists; set replace or reuse", name)
		}
	}

	dsType := dd.Type
	if dsType == "" {
		dsType = "seq"
	}
	return z.Allocate(b.ctx.Ctx, name, zoau.AllocOptions{
		Type:         dsType,
		RecordFormat: dd.RecordFormat,
		RecordLength: dd.RecordLength,
	})
}

func (b *ddBuilder) input(dd *types.DDInput) (string, error) {
	if b.dryRun {
		return plannedTempFile("input", dd.DDName), nil
	}
	f, err := os.CreateTemp("", "zoscore-input-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file for %s: %w", dd.DDName, err)
	}
	b.tmpFiles = append(b.tmpFiles, f.Name())

	content := strings.Join(dd.Content, "\n") + "\n"
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write input for %s: %w", dd.DDName, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	b.track(dd.DDName, f.Name(), false, dd.ReturnContent)
	return f.Name(), nil
}

func (b *ddBuilder) output(dd *types.DDOutput) (string, error) {
	if b.dryRun {
		return plannedTempFile("output", dd.DDName), nil
	}
	f, err := os.CreateTemp("", "zoscore-output-*.txt")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary file for %s: %w", dd.DDName, err)
	}
	f.Close()
	b.tmpFiles = append(b.tmpFiles, f.Name())

	rc := dd.ReturnContent
	if rc == nil {
		rc = &types.ReturnContent{Type: "text"}
	}
	b.track(dd.DDName, f.Name(), false, rc)
	return f.Name(), nil
}

// plannedTempFile names the temporary file a real run would create.
func plannedTempFile(kind, ddName string) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("zoscore-%s-%s.txt", kind, strings.ToLower(ddName)))
}

func (b *ddBuilder) track(ddName, name string, dataSet bool, rc *types.ReturnContent) {
	if rc == nil || rc.Type == "" {
		return
	}
	b.sources = append(b.sources, contentSource{ddName: ddName, name: name, dataSet: dataSet, opts: *rc})
}

func (b *ddBuilder) cleanup() {
	for _, f := range b.tmpFiles {
		os.Remove(f)
	}
	for _, d := range b.tmpDSNs {
		_ = b.ctx.ZOAU.Delete(b.ctx.Ctx, d)
	}
}
