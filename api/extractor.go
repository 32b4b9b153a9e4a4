package api

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/frvega/conversor-go/tool"
	"github.com/frvega/conversor-go/types"
)

// CommandExtractor runs the configured converter command once per file: PDF
// on stdin, xlsx on stdout, diagnostics on stderr. The file name rides along
// as the first argument so bank-specific routing in the converter still works.
type CommandExtractor struct {
	Command string
}

var _ types.Extractor = (*CommandExtractor)(nil)

func (e *CommandExtractor) Extract(ctx context.Context, name string, pdf []byte) ([]byte, error) {
	if e.Command == "" {
		return nil, fmt.Errorf("no extractor command configured")
	}

	cmd := exec.CommandContext(ctx, e.Command, name)
	cmd.Stdin = bytes.NewReader(pdf)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("extractor failed for %s: %v: %s", name, err, detail)
		}
		return nil, fmt.Errorf("extractor failed for %s: %v", name, err)
	}
	if stderr.Len() > 0 {
		tool.DefaultLogger.Debugf("Extractor stderr for %s: %s", name, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("extractor produced no output for %s", name)
	}
	return stdout.Bytes(), nil
}
